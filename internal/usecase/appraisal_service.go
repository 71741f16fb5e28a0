package usecase

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"strings"

	// Register decoders for the upload formats the frontend produces.
	_ "image/gif"
	_ "image/png"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/snapvalue/backend/internal/domain"
	"golang.org/x/sync/errgroup"
)

const cropJPEGQuality = 95

// AppraisalServiceConfig holds configuration for the appraisal service
type AppraisalServiceConfig struct {
	// MaxConcurrentObjects bounds how many detected objects are described
	// and priced in parallel within one request.
	MaxConcurrentObjects int
}

// AppraisalService turns one uploaded photo into a priced inventory: detect
// regions, describe each crop, price each description. Per-object pipelines
// are independent and run concurrently; inside each object the pricing
// fallback ladder stays sequential.
type AppraisalService struct {
	detector      domain.Detector
	describer     domain.Describer
	pricing       *PricingService
	maxConcurrent int
	logger        zerolog.Logger
}

// NewAppraisalService creates an appraisal service with its capabilities.
func NewAppraisalService(
	detector domain.Detector,
	describer domain.Describer,
	pricing *PricingService,
	config AppraisalServiceConfig,
	logger zerolog.Logger,
) *AppraisalService {
	maxConcurrent := config.MaxConcurrentObjects
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}

	return &AppraisalService{
		detector:      detector,
		describer:     describer,
		pricing:       pricing,
		maxConcurrent: maxConcurrent,
		logger:        logger.With().Str("component", "appraisal").Logger(),
	}
}

// AppraiseImage processes one uploaded image end to end and returns one
// DetectedItem per detected region, in detection order. Describer failures
// degrade to the detector label; only an undecodable image or a detector
// failure aborts the request.
func (s *AppraisalService) AppraiseImage(ctx context.Context, imageData []byte) ([]domain.DetectedItem, error) {
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidImage, err)
	}
	bounds := img.Bounds()
	imgWidth := bounds.Dx()
	imgHeight := bounds.Dy()

	detections, err := s.detector.Detect(ctx, imageData)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDetectorFailure, err)
	}

	requestID := uuid.NewString()
	s.logger.Info().
		Str("request_id", requestID).
		Int("detections", len(detections)).
		Msg("image detection complete")

	items := make([]domain.DetectedItem, len(detections))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)
	for idx, det := range detections {
		g.Go(func() error {
			items[idx] = s.appraiseRegion(gctx, img, requestID, idx, det)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	normalizeBoxes(items, detections, imgWidth, imgHeight)
	return items, nil
}

// appraiseRegion runs the describe-then-price pipeline for one detection.
// Nothing in here fails the request: a bad crop or describer error falls
// back to the detector's class label, and pricing exhaustion is a normal
// terminal result.
func (s *AppraisalService) appraiseRegion(
	ctx context.Context,
	img image.Image,
	requestID string,
	index int,
	det domain.Detection,
) domain.DetectedItem {
	desc := domain.ObjectDescription{Name: det.Label}

	crop, err := cropRegion(img, det.Box)
	if err != nil {
		s.logger.Warn().Err(err).Str("label", det.Label).Msg("crop failed, using detector label")
	} else {
		described, err := s.describer.Describe(ctx, crop)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Str("label", det.Label).Msg("describe failed, using detector label")
		case described.Name == "":
			s.logger.Warn().Str("label", det.Label).Msg("describer returned no name, using detector label")
		default:
			desc = described
		}
	}

	result := s.pricing.PriceObject(ctx, desc)

	return domain.DetectedItem{
		ID:             domain.RegionID(requestID, index),
		Label:          desc.Name,
		EstimatedValue: result.Price,
		ValueSource:    string(result.Source),
		SourceURL:      result.Link,
		MatchQuality:   result.Quality,
		Notes:          result.Notes,
		Details: domain.ItemDetails{
			Color:      desc.Color,
			Material:   desc.Material,
			Dimensions: dimensionsLabel(desc),
		},
	}
}

// normalizeBoxes fills in the [0,1] bounding boxes once, after the parallel
// phase, keeping the per-region goroutines free of shared geometry math.
func normalizeBoxes(items []domain.DetectedItem, detections []domain.Detection, imgWidth, imgHeight int) {
	for i, det := range detections {
		items[i].BoundingBox = det.Box.Normalize(imgWidth, imgHeight)
	}
}

// cropRegion extracts the detection box from the decoded image and
// re-encodes it as JPEG for the vision model. The box is clamped to the
// image bounds first; a box fully outside the image is an error.
func cropRegion(img image.Image, box domain.PixelBox) ([]byte, error) {
	bounds := img.Bounds()
	rect := image.Rect(
		bounds.Min.X+box.X1,
		bounds.Min.Y+box.Y1,
		bounds.Min.X+box.X2,
		bounds.Min.Y+box.Y2,
	).Intersect(bounds)
	if rect.Empty() {
		return nil, domain.ErrEmptyCrop
	}

	var cropped image.Image
	if sub, ok := img.(interface {
		SubImage(r image.Rectangle) image.Image
	}); ok {
		cropped = sub.SubImage(rect)
	} else {
		dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			for x := rect.Min.X; x < rect.Max.X; x++ {
				dst.Set(x-rect.Min.X, y-rect.Min.Y, img.At(x, y))
			}
		}
		cropped = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, cropped, &jpeg.Options{Quality: cropJPEGQuality}); err != nil {
		return nil, fmt.Errorf("encode crop: %w", err)
	}
	return buf.Bytes(), nil
}

// dimensionsLabel renders the present dimensions for the response details,
// e.g. `20.0" H x 10.0" W x 10.0" D`.
func dimensionsLabel(desc domain.ObjectDescription) string {
	type axis struct {
		value float64
		label string
	}
	axes := []axis{
		{desc.Height, "H"},
		{desc.Width, "W"},
		{desc.Depth, "D"},
	}

	var parts []string
	for _, a := range axes {
		if a.value <= 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf(`%s" %s`, formatInches(a.value), a.label))
	}
	return strings.Join(parts, " x ")
}
