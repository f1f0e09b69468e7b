package rimage

import (
	"image"
	"testing"

	"github.com/fogleman/gg"
	"go.viam.com/test"
)

func TestDrawRectangleEmpty(t *testing.T) {
	dc := gg.NewContext(20, 20)
	DrawRectangleEmpty(dc, image.Rect(5, 5, 15, 15), Red, 1)
	img := ConvertImage(dc.Image())
	test.That(t, img.Get(image.Point{10, 10}), test.ShouldResemble, Black)
	test.That(t, img.Get(image.Point{0, 0}), test.ShouldResemble, Black)
	edge := img.Get(image.Point{10, 5})
	test.That(t, edge.R, test.ShouldBeGreaterThan, uint8(0))
	test.That(t, edge.G, test.ShouldEqual, uint8(0))
}

func TestDrawCrosshair(t *testing.T) {
	dc := gg.NewContext(21, 21)
	DrawCrosshair(dc, image.Point{10, 10}, 3, 16, Green, 1)
	img := ConvertImage(dc.Image())
	test.That(t, img.Get(image.Point{10, 10}).G, test.ShouldBeGreaterThan, uint8(200))
	test.That(t, img.Get(image.Point{0, 0}), test.ShouldResemble, Black)
}

func TestDrawLabel(t *testing.T) {
	dc := gg.NewContext(100, 40)
	DrawLabel(dc, "blue", image.Point{10, 10}, White, Blue, 12, 2)
	img := ConvertImage(dc.Image())
	// the background box covers the padded corner
	test.That(t, img.Get(image.Point{9, 9}).B, test.ShouldBeGreaterThan, uint8(200))
}
