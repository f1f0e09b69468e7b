//go:build opencv

// Package cvsegmenter registers the "opencv" segmentation backend, which runs the
// color segmentation through OpenCV. Import it for its side effects.
package cvsegmenter

import (
	"image"
	"image/color"
	"math"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/colortrack/logging"
	"go.viam.com/colortrack/rimage"
	"go.viam.com/colortrack/utils"
	"go.viam.com/colortrack/vision/segmentation"
)

// BackendName is the registry name of this backend.
const BackendName = "opencv"

func init() {
	segmentation.RegisterBackend(BackendName, segmentation.Registration{
		Constructor: func(cfg *segmentation.ColorSegmenterConfig, logger logging.Logger) (segmentation.Segmenter, error) {
			return NewSegmenter(cfg, logger)
		},
		Parameters: utils.JSONTags(segmentation.ColorSegmenterConfig{}),
	})
}

// Segmenter is a segmentation.Segmenter backed by OpenCV.
type Segmenter struct {
	logger logging.Logger
	params segmentation.Params
}

// NewSegmenter validates cfg and returns an OpenCV segmenter.
func NewSegmenter(cfg *segmentation.ColorSegmenterConfig, logger logging.Logger) (*Segmenter, error) {
	params, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewBlankLogger(BackendName)
	}
	return &Segmenter{logger: logger, params: *params}, nil
}

// Color returns the current target color.
func (s *Segmenter) Color() segmentation.ColorName {
	return s.params.Color
}

// SetColor switches the target to a known color.
func (s *Segmenter) SetColor(name string) error {
	c, err := segmentation.ParseColorName(name)
	if err != nil {
		return err
	}
	ranges, err := segmentation.RangesForColor(c)
	if err != nil {
		return err
	}
	s.params.Color, s.params.Ranges, s.params.Custom = c, ranges, false
	s.logger.Infof("target color set to %s", c)
	return nil
}

func scalar(c rimage.HSV8) gocv.Scalar {
	return gocv.NewScalar(float64(c.H), float64(c.S), float64(c.V), 0)
}

// cleanMask returns the cleaned binary mask of img as a CV_8U Mat the caller must close.
func (s *Segmenter) cleanMask(img image.Image) (gocv.Mat, error) {
	if img == nil || img.Bounds().Empty() {
		return gocv.NewMat(), errors.New("empty frame")
	}
	bgr, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return gocv.NewMat(), errors.Wrap(err, "cannot convert frame")
	}
	defer bgr.Close()

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(bgr, &hsv, gocv.ColorBGRToHSV)

	mask := gocv.NewMatWithSize(hsv.Rows(), hsv.Cols(), gocv.MatTypeCV8U)
	part := gocv.NewMat()
	defer part.Close()
	for _, r := range s.params.Ranges {
		gocv.InRangeWithScalar(hsv, scalar(r.Lower), scalar(r.Upper), &part)
		gocv.BitwiseOr(mask, part, &mask)
	}

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(s.params.KernelSize, s.params.KernelSize))
	defer kernel.Close()
	gocv.MorphologyEx(mask, &mask, gocv.MorphOpen, kernel)
	if s.params.FillGaps {
		closed := closePadded(mask, kernel, s.params.KernelSize/2)
		mask.Close()
		mask = closed
	}
	return mask, nil
}

// closePadded closes mask inside a zero border of width pad and crops the
// result back to the mask's size.
func closePadded(mask, kernel gocv.Mat, pad int) gocv.Mat {
	padded := gocv.NewMat()
	defer padded.Close()
	gocv.CopyMakeBorder(mask, &padded, pad, pad, pad, pad, gocv.BorderConstant, color.RGBA{})
	gocv.MorphologyEx(padded, &padded, gocv.MorphClose, kernel)
	inner := padded.Region(image.Rect(pad, pad, pad+mask.Cols(), pad+mask.Rows()))
	defer inner.Close()
	return inner.Clone()
}

func toDense(mask gocv.Mat) *mat.Dense {
	out := rimage.NewMask(mask.Cols(), mask.Rows())
	for r := 0; r < mask.Rows(); r++ {
		for c := 0; c < mask.Cols(); c++ {
			if mask.GetUCharAt(r, c) != 0 {
				out.Set(r, c, 1)
			}
		}
	}
	return out
}

// Mask returns the cleaned mask as 0/1 entries, or nil for an empty frame.
func (s *Segmenter) Mask(img image.Image) *mat.Dense {
	mask, err := s.cleanMask(img)
	defer mask.Close()
	if err != nil {
		s.logger.Debugw("no mask", "error", err)
		return nil
	}
	return toDense(mask)
}

// Segment returns the external contours of the cleaned mask whose contour area
// reaches the minimum area, largest first.
func (s *Segmenter) Segment(img image.Image) []segmentation.Region {
	regions, _ := s.SegmentWithMask(img)
	return regions
}

// SegmentWithMask returns the regions of Segment along with the mask from Mask.
func (s *Segmenter) SegmentWithMask(img image.Image) ([]segmentation.Region, *mat.Dense) {
	regions := []segmentation.Region{}
	mask, err := s.cleanMask(img)
	defer mask.Close()
	if err != nil {
		s.logger.Debugw("no regions", "error", err)
		return regions, nil
	}
	dense := toDense(mask)
	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		area := gocv.ContourArea(contour)
		if area < float64(s.params.MinArea) {
			continue
		}
		box := gocv.BoundingRect(contour)
		pts := contour.ToPoints()
		if s.params.ContourEpsilon > 0 {
			pts = rimage.ApproxClosedContourDP(pts, s.params.ContourEpsilon)
		}
		regions = append(regions, segmentation.Region{
			Contour:     pts,
			BoundingBox: box,
			Area:        area,
			Centroid:    polygonCentroid(contour.ToPoints(), box),
			Color:       s.params.Color,
		})
	}
	segmentation.OffsetRegions(regions, img.Bounds().Min)
	segmentation.SortRegionsByArea(regions)
	s.logger.Debugf("found %d %s regions", len(regions), s.params.Color)
	return regions, dense
}

// polygonCentroid is the centroid of the polygon from its first order moments,
// or the center of box when the polygon has no area.
func polygonCentroid(pts []image.Point, box image.Rectangle) image.Point {
	var m00, m10, m01 float64
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		cross := float64(p.X*q.Y - q.X*p.Y)
		m00 += cross
		m10 += float64(p.X+q.X) * cross
		m01 += float64(p.Y+q.Y) * cross
	}
	if math.Abs(m00) < 1e-9 {
		return image.Point{(box.Min.X + box.Max.X) / 2, (box.Min.Y + box.Max.Y) / 2}
	}
	return image.Point{int(m10 / (3 * m00)), int(m01 / (3 * m00))}
}
