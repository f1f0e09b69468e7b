package position

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/colortrack/rimage"
)

// DefaultMaskOpacity is the weight of the mask when it is blended over a frame.
const DefaultMaskOpacity = 0.3

// AnnotateOptions controls what Annotate draws. The zero value draws boxes,
// crosshairs, labels and coordinates.
type AnnotateOptions struct {
	HideCrosshair bool
	HideCoords    bool
	// Header lines are written in a box at the top left of the frame.
	Header []string
	// Mask is blended in red under the annotations when set.
	Mask        *mat.Dense
	MaskOpacity float64
}

type recordStyle struct {
	box, text    color.Color
	dotRadius    float64
	crossSize    float64
	labelSize    float64
	labelOffset  int
	coordsOffset int
}

var styles = map[Source]recordStyle{
	SourceDetection: {
		box: rimage.Green, text: rimage.Black,
		dotRadius: 5, crossSize: 20, labelSize: 14, labelOffset: 55, coordsOffset: 35,
	},
	SourceColor: {
		box: rimage.Magenta, text: rimage.White,
		dotRadius: 8, crossSize: 25, labelSize: 14, labelOffset: 40, coordsOffset: 10,
	},
}

// Annotate returns a copy of img with every record drawn on it: green for
// detections and magenta for color regions. img is not modified. Records are in
// the coordinates of img; the copy has its origin at (0, 0).
func Annotate(img image.Image, records []Record, opts AnnotateOptions) image.Image {
	if img == nil {
		return nil
	}
	base := image.Image(imaging.Clone(img))
	if opts.Mask != nil {
		opacity := opts.MaskOpacity
		if opacity <= 0 {
			opacity = DefaultMaskOpacity
		}
		base = OverlayMask(base, opts.Mask, opacity)
	}
	dc := gg.NewContextForImage(base)
	for _, r := range records {
		drawRecord(dc, r, img.Bounds().Min, opts)
	}
	if len(opts.Header) != 0 {
		drawHeader(dc, opts.Header)
	}
	return dc.Image()
}

// drawRecord draws r on a canvas whose (0, 0) is origin in record coordinates.
func drawRecord(dc *gg.Context, r Record, origin image.Point, opts AnnotateOptions) {
	st, ok := styles[r.Source]
	if !ok {
		return
	}
	box := r.BoundingBox.Sub(origin)
	rimage.DrawRectangleEmpty(dc, box, st.box, 2)
	center := r.Pixel()
	if !opts.HideCrosshair {
		rimage.DrawCrosshair(dc, center.Sub(origin), st.dotRadius, st.crossSize, st.box, 2)
	}

	x1, y1 := box.Min.X, box.Min.Y
	if r.Source == SourceColor {
		label := strings.ToUpper(string(r.Color)) + " object"
		rimage.DrawLabel(dc, label, clampAbove(x1, y1-st.labelOffset), st.text, st.box, st.labelSize, 3)
	} else {
		label := fmt.Sprintf("%s %.2f", r.Label, r.Confidence)
		rimage.DrawLabel(dc, label, clampAbove(x1, y1-st.labelOffset), st.text, st.box, st.labelSize, 3)
	}
	if !opts.HideCoords {
		coords := fmt.Sprintf("Center: (%d, %d)", center.X, center.Y)
		rimage.DrawLabel(dc, coords, clampAbove(x1, y1-st.coordsOffset), st.text, st.box, st.labelSize-2, 3)
	}
}

// clampAbove keeps text anchored above a box inside the frame.
func clampAbove(x, y int) image.Point {
	return image.Point{max(x, 0), max(y, 0)}
}

func drawHeader(dc *gg.Context, lines []string) {
	const size, lineHeight = 16., 22.
	rimage.SetFontSize(dc, size)
	width := 0.
	for _, l := range lines {
		if w, _ := dc.MeasureString(l); w > width {
			width = w
		}
	}
	dc.SetColor(rimage.Black)
	dc.DrawRectangle(5, 5, width+10, float64(len(lines))*lineHeight+10)
	dc.Fill()
	for i, l := range lines {
		c := color.Color(rimage.White)
		if i > 0 {
			c = rimage.Green
		}
		rimage.DrawString(dc, l, image.Point{10, 10 + int(float64(i)*lineHeight)}, c, size)
	}
}

// OverlayMask blends a red view of mask over img with the given opacity in [0, 1].
// A mask whose shape differs from img is ignored.
func OverlayMask(img image.Image, mask *mat.Dense, opacity float64) image.Image {
	b := img.Bounds()
	if mask == nil {
		return imaging.Clone(img)
	}
	if rows, cols := mask.Dims(); rows != b.Dy() || cols != b.Dx() {
		return imaging.Clone(img)
	}
	red := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	rows, cols := mask.Dims()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			v := uint8(0)
			if mask.At(y, x) > 0 {
				v = 255
			}
			red.SetNRGBA(x, y, color.NRGBA{R: v, A: 255})
		}
	}
	return imaging.Overlay(imaging.Clone(img), red, image.Point{}, opacity)
}
