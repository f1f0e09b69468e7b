package rimage

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

// Color is a 24-bit RGB color that carries its HSV representation.
// H is in degrees [0, 360), S and V are in [0, 1].
type Color struct {
	R, G, B uint8
	H, S, V float64
}

// HSV8 is a color on the 8-bit HSV scale used by OpenCV: hue is halved to fit
// in [0, 180], saturation and value are in [0, 255].
type HSV8 struct {
	H, S, V uint8
}

func (h HSV8) String() string {
	return fmt.Sprintf("(%d,%d,%d)", h.H, h.S, h.V)
}

func (c Color) String() string {
	return fmt.Sprintf("%s (%3d,%4.2f,%4.2f)", c.Hex(), int(c.H), c.S, c.V)
}

// HSV8 returns the color on the OpenCV 8-bit HSV scale.
func (c Color) HSV8() HSV8 {
	return HSV8{
		H: uint8(math.Round(c.H / 2)),
		S: uint8(math.Round(c.S * 255)),
		V: uint8(math.Round(c.V * 255)),
	}
}

// Hex returns the #rrggbb representation of the color.
func (c Color) Hex() string {
	return fmt.Sprintf("#%.2x%.2x%.2x", c.R, c.G, c.B)
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	a = 0xffff
	return
}

// NewColor returns a Color from 8-bit RGB channels.
func NewColor(r, g, b uint8) Color {
	cc := colorful.Color{
		R: float64(r) / 255.0,
		G: float64(g) / 255.0,
		B: float64(b) / 255.0,
	}
	h, s, v := cc.Hsv()

	return Color{
		R: r,
		G: g,
		B: b,
		H: h,
		S: s,
		V: v,
	}
}

// NewColorFromHex parses a #rrggbb string.
func NewColorFromHex(hex string) (Color, error) {
	cc, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, errors.Wrapf(err, "couldn't parse hex %q", hex)
	}
	r, g, b := cc.RGB255()
	return NewColor(r, g, b), nil
}

// NewColorFromHSV returns the color with hue h in degrees and s, v in [0, 1].
func NewColorFromHSV(h, s, v float64) Color {
	cc := colorful.Hsv(h, s, v)
	r, g, b := cc.RGB255()
	return NewColor(r, g, b)
}

// NewColorFromHSV8 returns the color for a value on the OpenCV 8-bit HSV scale.
func NewColorFromHSV8(hsv HSV8) Color {
	return NewColorFromHSV(float64(hsv.H)*2, float64(hsv.S)/255, float64(hsv.V)/255)
}

// NewColorFromColor converts any color.Color, dropping alpha.
func NewColorFromColor(c color.Color) Color {
	switch cc := c.(type) {
	case Color:
		return cc
	case color.RGBA:
		return NewColor(cc.R, cc.G, cc.B)
	case color.NRGBA:
		return NewColor(cc.R, cc.G, cc.B)
	}
	r, g, b, _ := c.RGBA()
	return NewColor(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// Common colors.
var (
	Red     = NewColor(255, 0, 0)
	Green   = NewColor(0, 255, 0)
	Blue    = NewColor(0, 0, 255)
	White   = NewColor(255, 255, 255)
	Gray    = NewColor(128, 128, 128)
	Black   = NewColor(0, 0, 0)
	Yellow  = NewColor(255, 255, 0)
	Orange  = NewColor(255, 128, 0)
	Cyan    = NewColor(0, 255, 255)
	Purple  = NewColor(128, 0, 255)
	Magenta = NewColor(255, 0, 255)
)

// Luminance is the Rec. 601 luma of c, in [0, 255].
func Luminance(c Color) float64 {
	return 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
}
