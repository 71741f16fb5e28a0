// Package detector implements the Detector capability against a YOLO
// inference sidecar: images go out as multipart uploads, boxes come back as
// JSON. The model itself lives in the sidecar; this client only shuttles
// bytes and filters low-confidence boxes.
package detector

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/snapvalue/backend/internal/domain"
)

const defaultTimeout = 30 * time.Second

// Options configures the detector client.
type Options struct {
	// BaseURL of the inference sidecar, e.g. "http://yolo:8001".
	BaseURL string
	// Timeout bounds one inference round trip.
	Timeout time.Duration
	// MinConfidence drops boxes the model is unsure about.
	MinConfidence float64
}

// Client talks to the inference sidecar.
type Client struct {
	httpClient    *resty.Client
	minConfidence float64
	logger        zerolog.Logger
}

// NewClient creates a detector client for the sidecar at opts.BaseURL.
func NewClient(opts Options, logger zerolog.Logger) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		httpClient: resty.New().
			SetBaseURL(opts.BaseURL).
			SetTimeout(timeout),
		minConfidence: opts.MinConfidence,
		logger:        logger.With().Str("component", "detector").Logger(),
	}
}

// wireDetection is the sidecar's box format. Coordinates arrive as floats
// straight from the model output and are truncated to pixels here.
type wireDetection struct {
	X1         float64 `json:"x1"`
	Y1         float64 `json:"y1"`
	X2         float64 `json:"x2"`
	Y2         float64 `json:"y2"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

type detectResponse struct {
	Detections []wireDetection `json:"detections"`
}

// Detect implements domain.Detector.
func (c *Client) Detect(ctx context.Context, image []byte) ([]domain.Detection, error) {
	var result detectResponse

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetFileReader("file", "image.jpg", bytes.NewReader(image)).
		SetResult(&result).
		Post("/detect")
	if err != nil {
		return nil, fmt.Errorf("detector request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("detector returned status %d", resp.StatusCode())
	}

	detections := make([]domain.Detection, 0, len(result.Detections))
	for _, d := range result.Detections {
		if d.Confidence < c.minConfidence {
			continue
		}
		detections = append(detections, domain.Detection{
			Box: domain.PixelBox{
				X1: int(d.X1),
				Y1: int(d.Y1),
				X2: int(d.X2),
				Y2: int(d.Y2),
			},
			Label:      d.Label,
			Confidence: d.Confidence,
		})
	}

	c.logger.Debug().
		Int("raw", len(result.Detections)).
		Int("kept", len(detections)).
		Msg("detection complete")
	return detections, nil
}

// Health checks that the sidecar is reachable and ready.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.httpClient.R().SetContext(ctx).Get("/health")
	if err != nil {
		return fmt.Errorf("detector health check: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("detector unhealthy: status %d", resp.StatusCode())
	}
	return nil
}
