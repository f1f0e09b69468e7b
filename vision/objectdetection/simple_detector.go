package objectdetection

import (
	"context"
	"image"

	"go.viam.com/colortrack/rimage"
)

// SimpleDetectorLabel is the class label given to every simple detection.
const SimpleDetectorLabel = "dark_object"

// simpleDetector finds the connected components with luminance below a certain
// threshold. threshold is between 0.0 and 256.0, with 256.0 being white, and 0.0 being black.
type simpleDetector struct {
	threshold float64
}

// NewSimpleDetector creates a detector useful for local testing without a model.
// Looks for dark objects in the image and returns a bounding box around each connected component.
func NewSimpleDetector(threshold float64) Detector {
	sd := simpleDetector{threshold}
	return sd.Inference
}

// Inference takes in an image frame and returns the detection bounding boxes found in the image.
func (sd *simpleDetector) Inference(ctx context.Context, img image.Image) ([]Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rimg := rimage.ConvertImage(img)
	mask := rimage.NewMask(rimg.Width(), rimg.Height())
	if mask == nil {
		return []Detection{}, nil
	}
	for y := 0; y < rimg.Height(); y++ {
		for x := 0; x < rimg.Width(); x++ {
			if rimage.Luminance(rimg.GetXY(x, y)) < sd.threshold {
				mask.Set(y, x, 1)
			}
		}
	}
	_, comps := rimage.ConnectedComponents(mask)
	detections := make([]Detection, 0, len(comps))
	for _, c := range comps {
		detections = append(detections, NewDetection(c.Bounds, 1.0, SimpleDetectorLabel))
	}
	return detections, nil
}
