package rimage

import (
	"image/color"
	"testing"

	"go.viam.com/test"
)

func TestColorRoundTrip(t *testing.T) {
	c := NewColor(17, 83, 133)
	c2 := NewColorFromColor(c)
	test.That(t, c2.Hex(), test.ShouldEqual, c.Hex())
	test.That(t, c2.Hex(), test.ShouldEqual, "#115385")

	c2 = NewColorFromColor(color.RGBA{17, 83, 133, 255})
	test.That(t, c2.Hex(), test.ShouldEqual, c.Hex())

	c2 = NewColorFromColor(color.NRGBA{17, 83, 133, 255})
	test.That(t, c2.Hex(), test.ShouldEqual, c.Hex())

	c2 = NewColorFromColor(color.Gray{Y: 200})
	test.That(t, c2.Hex(), test.ShouldEqual, "#c8c8c8")
}

func TestColorHex(t *testing.T) {
	c, err := NewColorFromHex("#123456")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, c.Hex(), test.ShouldEqual, "#123456")

	_, err = NewColorFromHex("#GGGGGG")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "couldn't parse hex")
}

func TestColorHSV(t *testing.T) {
	test.That(t, Red.S, test.ShouldEqual, 1.0)
	test.That(t, Red.V, test.ShouldEqual, 1.0)
	test.That(t, Green.H, test.ShouldEqual, 120.0)
	test.That(t, Blue.H, test.ShouldEqual, 240.0)
}

func TestColorHSV8(t *testing.T) {
	for _, tc := range []struct {
		name     string
		c        Color
		expected HSV8
	}{
		{"red", Red, HSV8{0, 255, 255}},
		{"green", Green, HSV8{60, 255, 255}},
		{"blue", Blue, HSV8{120, 255, 255}},
		{"yellow", Yellow, HSV8{30, 255, 255}},
		{"white", White, HSV8{0, 0, 255}},
		{"black", Black, HSV8{0, 0, 0}},
		{"gray", Gray, HSV8{0, 0, 128}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			test.That(t, tc.c.HSV8(), test.ShouldResemble, tc.expected)
		})
	}
}

func TestColorFromHSV8(t *testing.T) {
	c := NewColorFromHSV8(HSV8{H: 5, S: 255, V: 255})
	test.That(t, c.HSV8(), test.ShouldResemble, HSV8{H: 5, S: 255, V: 255})

	c = NewColorFromHSV8(HSV8{H: 175, S: 200, V: 200})
	got := c.HSV8()
	test.That(t, float64(got.H), test.ShouldAlmostEqual, 175, 1)
	test.That(t, float64(got.S), test.ShouldAlmostEqual, 200, 1)
	test.That(t, got.V, test.ShouldEqual, uint8(200))
}

func TestColorRGBA(t *testing.T) {
	r, g, b, a := NewColor(255, 128, 0).RGBA()
	test.That(t, r, test.ShouldEqual, uint32(0xffff))
	test.That(t, g, test.ShouldEqual, uint32(0x8080))
	test.That(t, b, test.ShouldEqual, uint32(0))
	test.That(t, a, test.ShouldEqual, uint32(0xffff))
}

func TestLuminance(t *testing.T) {
	test.That(t, Luminance(Black), test.ShouldEqual, 0.)
	test.That(t, Luminance(White), test.ShouldAlmostEqual, 255.)
	test.That(t, Luminance(Green), test.ShouldBeGreaterThan, Luminance(Red))
	test.That(t, Luminance(Red), test.ShouldBeGreaterThan, Luminance(Blue))
}
