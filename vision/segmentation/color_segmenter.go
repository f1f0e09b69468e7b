package segmentation

import (
	"image"

	"gonum.org/v1/gonum/mat"

	"go.viam.com/colortrack/logging"
	"go.viam.com/colortrack/rimage"
)

// ColorSegmenter finds the regions of a frame that match a target color.
// SetColor must not be called while a frame is being segmented.
type ColorSegmenter struct {
	logger logging.Logger
	params Params
}

// NewColorSegmenter validates cfg and returns a segmenter. A nil config uses all defaults.
func NewColorSegmenter(cfg *ColorSegmenterConfig, logger logging.Logger) (*ColorSegmenter, error) {
	params, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewBlankLogger("")
	}
	logger.Debugw("color segmenter ready",
		"color", params.Color, "ranges", params.Ranges, "min_area", params.MinArea, "kernel_size", params.KernelSize)
	return &ColorSegmenter{logger: logger, params: *params}, nil
}

// Color returns the current target color.
func (cs *ColorSegmenter) Color() ColorName {
	return cs.params.Color
}

// Params returns a copy of the resolved settings.
func (cs *ColorSegmenter) Params() Params {
	p := cs.params
	p.Ranges = append(ColorRanges{}, cs.params.Ranges...)
	return p
}

// SetColor switches the target to a known color, replacing any custom ranges.
func (cs *ColorSegmenter) SetColor(name string) error {
	c, err := ParseColorName(name)
	if err != nil {
		return err
	}
	ranges, err := RangesForColor(c)
	if err != nil {
		return err
	}
	cs.params.Color, cs.params.Ranges, cs.params.Custom = c, ranges, false
	cs.logger.Infof("target color set to %s", c)
	return nil
}

// ThresholdMask marks every pixel whose HSV value falls in the target ranges,
// without any cleanup. Each range is thresholded on its own and the results
// are combined. It returns nil for an empty frame.
func (cs *ColorSegmenter) ThresholdMask(img image.Image) *mat.Dense {
	rimg := rimage.ConvertImage(img)
	width, height := rimg.Width(), rimg.Height()
	mask := rimage.NewMask(width, height)
	if mask == nil {
		return nil
	}
	hsv := make([]rimage.HSV8, 0, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			hsv = append(hsv, rimg.GetXY(x, y).HSV8())
		}
	}
	for _, r := range cs.params.Ranges {
		mask = rimage.MaskOr(mask, rangeMask(hsv, width, height, r))
	}
	return mask
}

// rangeMask marks the pixels of a row-major HSV frame that fall in r.
func rangeMask(hsv []rimage.HSV8, width, height int, r HSVRange) *mat.Dense {
	mask := rimage.NewMask(width, height)
	for i, c := range hsv {
		if r.Contains(c) {
			mask.Set(i/width, i%width, 1)
		}
	}
	return mask
}

// Mask returns the thresholded mask after an opening and, unless disabled, a closing.
// Entry (r, c) is the pixel at img.Bounds().Min plus (c, r). It returns nil for an empty frame.
func (cs *ColorSegmenter) Mask(img image.Image) *mat.Dense {
	mask := cs.ThresholdMask(img)
	if mask == nil {
		return nil
	}
	cleaned, err := rimage.OpenSquare(mask, cs.params.KernelSize)
	if err != nil {
		// the kernel size is validated at construction
		cs.logger.Errorw("cannot open mask", "error", err)
		return mask
	}
	if !cs.params.FillGaps {
		return cleaned
	}
	closed, err := rimage.CloseSquare(cleaned, cs.params.KernelSize)
	if err != nil {
		cs.logger.Errorw("cannot close mask", "error", err)
		return cleaned
	}
	return closed
}

// Segment returns the regions of img matching the target color whose area is at
// least the minimum area, largest first, in the coordinates of img. An empty
// frame yields no regions.
func (cs *ColorSegmenter) Segment(img image.Image) []Region {
	regions, _ := cs.SegmentWithMask(img)
	return regions
}

// SegmentWithMask returns the regions of Segment along with the mask from Mask.
func (cs *ColorSegmenter) SegmentWithMask(img image.Image) ([]Region, *mat.Dense) {
	mask := cs.Mask(img)
	if mask == nil {
		return []Region{}, nil
	}
	regions := cs.regionsFromMask(mask)
	OffsetRegions(regions, img.Bounds().Min)
	return regions, mask
}

func (cs *ColorSegmenter) regionsFromMask(mask *mat.Dense) []Region {
	labels, comps := rimage.ConnectedComponents(mask)
	regions := make([]Region, 0, len(comps))
	for _, comp := range comps {
		if comp.Area < cs.params.MinArea {
			continue
		}
		contour := labels.TraceBoundary(comp.Start)
		if cs.params.ContourEpsilon > 0 {
			contour = rimage.ApproxClosedContourDP(contour, cs.params.ContourEpsilon)
		}
		regions = append(regions, Region{
			Contour:     contour,
			BoundingBox: comp.Bounds,
			Area:        float64(comp.Area),
			Centroid:    comp.Centroid(),
			Color:       cs.params.Color,
		})
	}
	SortRegionsByArea(regions)
	cs.logger.Debugf("found %d %s regions, %d components below %d px", len(regions), cs.params.Color,
		len(comps)-len(regions), cs.params.MinArea)
	return regions
}
