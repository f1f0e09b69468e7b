package objectdetection

import (
	"strings"

	"github.com/samber/lo"
)

// Postprocessor defines a function that filters/modifies on an incoming array of Detections.
type Postprocessor func([]Detection) []Detection

// NewAreaFilter returns a function that filters out detections below a certain area.
func NewAreaFilter(area int) Postprocessor {
	return func(in []Detection) []Detection {
		return lo.Filter(in, func(d Detection, _ int) bool {
			return d.BoundingBox().Dx()*d.BoundingBox().Dy() >= area
		})
	}
}

// NewScoreFilter returns a function that filters out detections below a certain confidence.
func NewScoreFilter(conf float64) Postprocessor {
	return func(in []Detection) []Detection {
		return lo.Filter(in, func(d Detection, _ int) bool {
			return d.Score() >= conf
		})
	}
}

// NewLabelFilter returns a function that filters out detections without one of the chosen labels.
// Does not filter when input is empty.
func NewLabelFilter(labels []string) Postprocessor {
	wanted := lo.SliceToMap(labels, func(l string) (string, struct{}) {
		return strings.ToLower(l), struct{}{}
	})
	return func(in []Detection) []Detection {
		if len(wanted) < 1 {
			return in
		}
		return lo.Filter(in, func(d Detection, _ int) bool {
			_, ok := wanted[strings.ToLower(d.Label())]
			return ok
		})
	}
}

// NewLabelConfidenceFilter returns a function that keeps a detection only when its label
// is in the map and its score reaches that label's confidence.
// Does not filter when input is empty.
func NewLabelConfidenceFilter(labels map[string]float64) Postprocessor {
	// ensure all the label names are lower case
	theLabels := lo.MapKeys(labels, func(_ float64, name string) string {
		return strings.ToLower(name)
	})
	return func(in []Detection) []Detection {
		if len(theLabels) < 1 {
			return in
		}
		return lo.Filter(in, func(d Detection, _ int) bool {
			conf, ok := theLabels[strings.ToLower(d.Label())]
			return ok && d.Score() >= conf
		})
	}
}

// Chain applies the postprocessors in order; nil entries are skipped.
func Chain(posts ...Postprocessor) Postprocessor {
	return func(in []Detection) []Detection {
		for _, p := range posts {
			if p != nil {
				in = p(in)
			}
		}
		return in
	}
}
