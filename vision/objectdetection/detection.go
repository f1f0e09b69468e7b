// Package objectdetection holds the detections produced by an object detection
// model and the functions that build, filter and load them.
package objectdetection

import (
	"context"
	"fmt"
	"image"

	"github.com/pkg/errors"
)

// Detection returns a bounding box around the object, a confidence score of the
// detection and a label for the object class.
type Detection interface {
	BoundingBox() *image.Rectangle
	Score() float64
	Label() string
}

// Detector returns the detections found in an image. Detectors usually wrap
// an external model, so they take a context and may fail.
type Detector func(context.Context, image.Image) ([]Detection, error)

// Preprocessor modifies an image before it is handed to a Detector.
type Preprocessor func(image.Image) image.Image

// NewDetection creates a simple 2D detection.
func NewDetection(boundingBox image.Rectangle, score float64, label string) Detection {
	return &detection2D{boundingBox, score, label}
}

// detection2D is a bounding box around a detected object with its score and class label.
type detection2D struct {
	boundingBox image.Rectangle
	score       float64
	label       string
}

// BoundingBox returns a bounding box around the detected object.
func (d *detection2D) BoundingBox() *image.Rectangle {
	return &d.boundingBox
}

// Score returns a confidence score of the detection between 0.0 and 1.0.
func (d *detection2D) Score() float64 {
	return d.score
}

// Label returns the class label of the object in the bounding box.
func (d *detection2D) Label() string {
	return d.label
}

// String turns the detection into a string.
func (d *detection2D) String() string {
	return fmt.Sprintf("Label: %s, Score: %.2f, Box: %v", d.label, d.score, d.boundingBox)
}

// Build zips up a preprocessor-detector-postprocessor pipeline into a single Detector.
// Only the detector is required.
func Build(prep Preprocessor, det Detector, post Postprocessor) (Detector, error) {
	if det == nil {
		return nil, errors.New("object detection pipeline must have a Detector")
	}
	if prep == nil {
		prep = func(img image.Image) image.Image { return img }
	}
	if post == nil {
		post = func(inp []Detection) []Detection { return inp }
	}
	return func(ctx context.Context, img image.Image) ([]Detection, error) {
		dets, err := det(ctx, prep(img))
		if err != nil {
			return nil, err
		}
		return post(dets), nil
	}, nil
}

// NewStaticDetector returns a Detector that ignores the image and always
// returns dets, the way a file of precomputed model output is replayed.
func NewStaticDetector(dets []Detection) Detector {
	return func(ctx context.Context, _ image.Image) ([]Detection, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out := make([]Detection, len(dets))
		copy(out, dets)
		return out, nil
	}
}
