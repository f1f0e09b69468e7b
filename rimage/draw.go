package rimage

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
)

var font *truetype.Font

// init sets up the fonts we want to use.
func init() {
	var err error
	font, err = truetype.Parse(goregular.TTF)
	if err != nil {
		panic(err)
	}
}

// Font returns the font we use for drawing.
func Font() *truetype.Font {
	return font
}

// SetFontSize selects the default font at the given size.
func SetFontSize(dc *gg.Context, size float64) {
	dc.SetFontFace(truetype.NewFace(Font(), &truetype.Options{Size: size}))
}

// DrawString writes a string to the given context at a particular point.
func DrawString(dc *gg.Context, text string, p image.Point, c color.Color, size float64) {
	SetFontSize(dc, size)
	dc.SetColor(c)
	dc.DrawStringWrapped(text, float64(p.X), float64(p.Y), 0, 0, float64(dc.Width()), 1, 0)
}

// DrawLabel writes text with its top left corner at p over a filled
// background box padded by pad pixels.
func DrawLabel(dc *gg.Context, text string, p image.Point, fg, bg color.Color, size, pad float64) {
	SetFontSize(dc, size)
	w, h := dc.MeasureString(text)
	dc.SetColor(bg)
	dc.DrawRectangle(float64(p.X)-pad, float64(p.Y)-pad, w+2*pad, h+2*pad)
	dc.Fill()
	dc.SetColor(fg)
	dc.DrawStringAnchored(text, float64(p.X), float64(p.Y), 0, 1)
}

// DrawRectangleEmpty draws the given rectangle into the context. The positions of the
// rectangle are used to place it within the context.
func DrawRectangleEmpty(dc *gg.Context, r image.Rectangle, c color.Color, width float64) {
	dc.SetColor(c)

	dc.DrawLine(float64(r.Min.X), float64(r.Min.Y), float64(r.Max.X), float64(r.Min.Y))
	dc.SetLineWidth(width)
	dc.Stroke()

	dc.DrawLine(float64(r.Min.X), float64(r.Min.Y), float64(r.Min.X), float64(r.Max.Y))
	dc.SetLineWidth(width)
	dc.Stroke()

	dc.DrawLine(float64(r.Max.X), float64(r.Min.Y), float64(r.Max.X), float64(r.Max.Y))
	dc.SetLineWidth(width)
	dc.Stroke()

	dc.DrawLine(float64(r.Min.X), float64(r.Max.Y), float64(r.Max.X), float64(r.Max.Y))
	dc.SetLineWidth(width)
	dc.Stroke()
}

// DrawCrosshair draws a filled dot of the given radius at p and a cross whose
// arms are size pixels long in total.
func DrawCrosshair(dc *gg.Context, p image.Point, radius, size float64, c color.Color, width float64) {
	x, y := float64(p.X), float64(p.Y)
	dc.SetColor(c)
	dc.DrawCircle(x, y, radius)
	dc.Fill()

	dc.SetLineWidth(width)
	dc.DrawLine(x-size/2, y, x+size/2, y)
	dc.Stroke()
	dc.DrawLine(x, y-size/2, x, y+size/2)
	dc.Stroke()
}
