package position

import (
	"github.com/samber/lo"

	"go.viam.com/colortrack/logging"
	"go.viam.com/colortrack/vision/objectdetection"
	"go.viam.com/colortrack/vision/segmentation"
)

// Extractor normalizes detections and color regions into Records. Output keeps
// the input order; items with a missing or degenerate box are dropped and logged.
type Extractor struct {
	logger logging.Logger
}

// NewExtractor returns an Extractor logging to logger.
func NewExtractor(logger logging.Logger) *Extractor {
	if logger == nil {
		logger = logging.NewBlankLogger("")
	}
	return &Extractor{logger: logger}
}

// FromDetections returns one Record per well formed detection.
func (e *Extractor) FromDetections(dets []objectdetection.Detection) []Record {
	return lo.FilterMap(dets, func(d objectdetection.Detection, i int) (Record, bool) {
		if d == nil || d.BoundingBox() == nil {
			e.logger.Debugw("dropping detection without a box", "index", i)
			return Record{}, false
		}
		r, ok := newRecord(*d.BoundingBox(), SourceDetection)
		if !ok {
			e.logger.Debugw("dropping detection with degenerate box", "index", i, "label", d.Label(), "box", *d.BoundingBox())
			return Record{}, false
		}
		r.Label = d.Label()
		r.Confidence = d.Score()
		return r, true
	})
}

// FromRegions returns one Record per well formed region.
func (e *Extractor) FromRegions(regions []segmentation.Region) []Record {
	return lo.FilterMap(regions, func(reg segmentation.Region, i int) (Record, bool) {
		r, ok := newRecord(reg.BoundingBox, SourceColor)
		if !ok {
			e.logger.Debugw("dropping region with degenerate box", "index", i, "color", reg.Color, "box", reg.BoundingBox)
			return Record{}, false
		}
		r.Color = reg.Color
		return r, true
	})
}
