package objectdetection

import (
	"encoding/json"
	"image"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// detectionJSON is one detection as written by an external model runner. The box
// is either "box": [x1, y1, x2, y2] or the x/y/width/height form.
type detectionJSON struct {
	Label      string    `json:"label"`
	Class      string    `json:"class"`
	Confidence float64   `json:"confidence"`
	Box        []float64 `json:"box"`
	X          float64   `json:"x"`
	Y          float64   `json:"y"`
	Width      float64   `json:"width"`
	Height     float64   `json:"height"`
}

func (dj detectionJSON) toDetection(i int) (Detection, error) {
	label := dj.Label
	if label == "" {
		label = dj.Class
	}
	var box image.Rectangle
	switch {
	case len(dj.Box) == 4:
		box.Min = roundPoint(dj.Box[0], dj.Box[1])
		box.Max = roundPoint(dj.Box[2], dj.Box[3])
	case len(dj.Box) != 0:
		return nil, errors.Errorf("detection %d: box must have 4 values, got %d", i, len(dj.Box))
	default:
		box.Min = roundPoint(dj.X, dj.Y)
		box.Max = roundPoint(dj.X+dj.Width, dj.Y+dj.Height)
	}
	return NewDetection(box, dj.Confidence, label), nil
}

func roundPoint(x, y float64) image.Point {
	return image.Point{int(math.Round(x)), int(math.Round(y))}
}

// ReadDetections parses a JSON array of detections. Box corners are rounded to
// the nearest pixel; degenerate boxes are left for consumers to reject.
func ReadDetections(r io.Reader) ([]Detection, error) {
	var raw []detectionJSON
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "cannot decode detections")
	}
	dets := make([]Detection, 0, len(raw))
	for i, dj := range raw {
		d, err := dj.toDetection(i)
		if err != nil {
			return nil, err
		}
		dets = append(dets, d)
	}
	return dets, nil
}

// ReadDetectionsFromFile reads a JSON detections file.
func ReadDetectionsFromFile(fn string) (dets []Detection, err error) {
	//nolint:gosec
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()
	return ReadDetections(f)
}
