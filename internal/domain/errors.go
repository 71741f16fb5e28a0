package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrInvalidImage is returned when the uploaded payload is not a decodable image
	ErrInvalidImage = errors.New("file is not a valid image")

	// ErrDetectorFailure is returned when the object detection service fails
	ErrDetectorFailure = errors.New("object detection failed")

	// ErrDescriberFailure is returned when the vision description model fails
	ErrDescriberFailure = errors.New("image description failed")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrEmptyCrop is returned when a detection box has no area inside the image
	ErrEmptyCrop = errors.New("detection box has no area inside the image")
)
