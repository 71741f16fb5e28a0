package domain

import "fmt"

// PixelBox is an axis-aligned bounding box in pixel coordinates.
type PixelBox struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Detection is one object found by the detector: a box, the detector's class
// label and its confidence in [0,1].
type Detection struct {
	Box        PixelBox `json:"box"`
	Label      string   `json:"label"`
	Confidence float64  `json:"confidence"`
}

// BoundingBox is a box normalized to [0,1] x [0,1] image coordinates,
// the shape consumed by the frontend annotation overlay.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Normalize converts a pixel box to [0,1] coordinates given the image size.
func (b PixelBox) Normalize(imageWidth, imageHeight int) BoundingBox {
	if imageWidth <= 0 || imageHeight <= 0 {
		return BoundingBox{}
	}
	w := float64(imageWidth)
	h := float64(imageHeight)
	return BoundingBox{
		X:      float64(b.X1) / w,
		Y:      float64(b.Y1) / h,
		Width:  float64(b.X2-b.X1) / w,
		Height: float64(b.Y2-b.Y1) / h,
	}
}

// ItemDetails carries the extra descriptive attributes surfaced to the
// frontend alongside the priced item.
type ItemDetails struct {
	Color      string `json:"color,omitempty"`
	Material   string `json:"material,omitempty"`
	Dimensions string `json:"dimensions,omitempty"`
}

// DetectedItem is the per-region response element: a stable id, the label,
// a normalized bounding box and the pricing outcome flattened in.
type DetectedItem struct {
	ID              string       `json:"id"`
	Label           string       `json:"label"`
	BoundingBox     BoundingBox  `json:"boundingBox"`
	EstimatedValue  *float64     `json:"estimatedValue"`
	ValueSource     string       `json:"valueSource,omitempty"`
	SourceURL       string       `json:"sourceUrl,omitempty"`
	MatchQuality    MatchQuality `json:"matchQuality"`
	Notes           string       `json:"notes,omitempty"`
	IsPriceModified bool         `json:"isPriceModified"`
	Details         ItemDetails  `json:"details"`
}

// RegionID builds the stable per-region identifier from the request id and
// the detection index.
func RegionID(requestID string, index int) string {
	return fmt.Sprintf("%s_%d", requestID, index)
}
