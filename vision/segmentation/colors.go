package segmentation

import (
	"math"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"go.viam.com/colortrack/rimage"
)

// ColorName identifies a target color.
type ColorName string

// The colors known to the segmenter.
const (
	ColorRed    ColorName = "red"
	ColorBlue   ColorName = "blue"
	ColorGreen  ColorName = "green"
	ColorYellow ColorName = "yellow"
	ColorOrange ColorName = "orange"
	ColorPurple ColorName = "purple"
	ColorWhite  ColorName = "white"
	ColorBlack  ColorName = "black"
)

// HSVRange is an inclusive box on the 8-bit HSV scale.
type HSVRange struct {
	Lower rimage.HSV8 `json:"lower"`
	Upper rimage.HSV8 `json:"upper"`
}

// Contains reports whether c lies within the range on every channel.
func (r HSVRange) Contains(c rimage.HSV8) bool {
	return c.H >= r.Lower.H && c.H <= r.Upper.H &&
		c.S >= r.Lower.S && c.S <= r.Upper.S &&
		c.V >= r.Lower.V && c.V <= r.Upper.V
}

func (r HSVRange) String() string {
	return r.Lower.String() + "-" + r.Upper.String()
}

// ColorRanges is a union of HSV ranges. Red needs two of them because its hue
// wraps around 0.
type ColorRanges []HSVRange

// Contains reports whether c lies in any of the ranges.
func (cr ColorRanges) Contains(c rimage.HSV8) bool {
	for _, r := range cr {
		if r.Contains(c) {
			return true
		}
	}
	return false
}

func hsvRange(lh, ls, lv, uh, us, uv uint8) HSVRange {
	return HSVRange{Lower: rimage.HSV8{H: lh, S: ls, V: lv}, Upper: rimage.HSV8{H: uh, S: us, V: uv}}
}

var colorNames = []ColorName{
	ColorRed, ColorBlue, ColorGreen, ColorYellow, ColorOrange, ColorPurple, ColorWhite, ColorBlack,
}

var colorTable = map[ColorName]ColorRanges{
	ColorRed:    {hsvRange(0, 100, 100, 10, 255, 255), hsvRange(160, 100, 100, 180, 255, 255)},
	ColorBlue:   {hsvRange(100, 100, 100, 130, 255, 255)},
	ColorGreen:  {hsvRange(40, 50, 50, 80, 255, 255)},
	ColorYellow: {hsvRange(20, 100, 100, 30, 255, 255)},
	ColorOrange: {hsvRange(10, 100, 100, 20, 255, 255)},
	ColorPurple: {hsvRange(130, 50, 50, 160, 255, 255)},
	ColorWhite:  {hsvRange(0, 0, 200, 180, 30, 255)},
	ColorBlack:  {hsvRange(0, 0, 0, 180, 255, 50)},
}

// ColorNames returns the known colors in their fixed order.
func ColorNames() []ColorName {
	out := make([]ColorName, len(colorNames))
	copy(out, colorNames)
	return out
}

// ParseColorName returns the known color named s, ignoring case and surrounding space.
func ParseColorName(s string) (ColorName, error) {
	name := ColorName(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := colorTable[name]; !ok {
		return "", errors.Errorf("unknown color %q, available colors: %s", s,
			strings.Join(lo.Map(colorNames, func(c ColorName, _ int) string { return string(c) }), ", "))
	}
	return name, nil
}

// RangesForColor returns a copy of the table ranges of a known color.
func RangesForColor(name ColorName) (ColorRanges, error) {
	ranges, ok := colorTable[name]
	if !ok {
		return nil, errors.Errorf("unknown color %q", name)
	}
	return append(ColorRanges{}, ranges...), nil
}

// minDerivedSatVal is the saturation and value floor of ranges derived from a
// single color, so grays never match a hue band.
const minDerivedSatVal = 50

// HueRanges derives the hue band around c. tolerance is the fraction of the full
// hue circle covered by the band, in (0, 1]. A band that crosses 0/180 is split in two.
func HueRanges(c rimage.Color, tolerance float64) (ColorRanges, error) {
	if tolerance <= 0 || tolerance > 1 {
		return nil, errors.Errorf("hue_tolerance_pct must be between 0.0 and 1.0, got %v", tolerance)
	}
	if c.S == 0 {
		return nil, errors.Errorf("color %s has no hue", c.Hex())
	}
	band := func(l, u float64) HSVRange {
		return hsvRange(uint8(l), minDerivedSatVal, minDerivedSatVal, uint8(u), 255, 255)
	}
	if tolerance == 1 {
		return ColorRanges{band(0, 180)}, nil
	}
	h := c.H / 2
	half := tolerance * 90
	lower, upper := math.Floor(h-half), math.Ceil(h+half)
	switch {
	case lower < 0:
		return ColorRanges{band(0, upper), band(180+lower, 180)}, nil
	case upper > 180:
		return ColorRanges{band(lower, 180), band(0, upper-180)}, nil
	default:
		return ColorRanges{band(lower, upper)}, nil
	}
}
