package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/snapvalue/backend/internal/domain"
)

// Appraiser turns an uploaded photo into priced inventory items
type Appraiser interface {
	AppraiseImage(ctx context.Context, imageData []byte) ([]domain.DetectedItem, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	appraiser Appraiser
	logger    zerolog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(appraiser Appraiser, logger zerolog.Logger) *Handler {
	return &Handler{
		appraiser: appraiser,
		logger:    logger.With().Str("component", "http").Logger(),
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "snapvalue-backend",
		"version": "1.0.0",
	})
}

// DetectObjects accepts a multipart image upload and returns the detected
// items with estimated values as a JSON array.
func (h *Handler) DetectObjects(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "No file provided"})
		return
	}

	if fileHeader.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "No file selected"})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "File must be an image"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Could not read uploaded file"})
		return
	}
	defer file.Close()

	imageData, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Could not read uploaded file"})
		return
	}
	if len(imageData) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "File must be an image"})
		return
	}

	items, err := h.appraiser.AppraiseImage(c.Request.Context(), imageData)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidImage) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "File must be an image"})
			return
		}
		h.logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("appraisal failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"detail": fmt.Sprintf("Error processing image: %v", err),
		})
		return
	}

	// An image with no recognizable objects is a valid, empty inventory
	c.JSON(http.StatusOK, items)
}
