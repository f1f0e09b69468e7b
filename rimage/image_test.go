package rimage

import (
	"image"
	"image/color"
	"testing"

	"go.viam.com/test"
)

func TestImageSetGet(t *testing.T) {
	img := NewImage(4, 3)
	test.That(t, img.Width(), test.ShouldEqual, 4)
	test.That(t, img.Height(), test.ShouldEqual, 3)
	test.That(t, img.Bounds(), test.ShouldResemble, image.Rect(0, 0, 4, 3))
	test.That(t, img.GetXY(1, 1), test.ShouldResemble, Black)

	img.SetXY(1, 1, Red)
	test.That(t, img.GetXY(1, 1), test.ShouldResemble, Red)
	test.That(t, img.Get(image.Point{1, 1}), test.ShouldResemble, Red)

	// out of bounds is a no-op for writes and black for reads
	img.SetXY(10, 10, Red)
	test.That(t, img.GetXY(10, 10), test.ShouldResemble, Color{})
	test.That(t, img.GetXY(-1, 0), test.ShouldResemble, Color{})
}

func TestImageFillRect(t *testing.T) {
	img := NewImage(10, 10)
	img.FillRect(image.Rect(8, 8, 20, 20), Blue)
	test.That(t, img.GetXY(9, 9), test.ShouldResemble, Blue)
	test.That(t, img.GetXY(7, 9), test.ShouldResemble, Black)
}

func TestConvertImage(t *testing.T) {
	std := image.NewRGBA(image.Rect(5, 5, 8, 7))
	std.Set(5, 5, color.RGBA{255, 0, 0, 255})

	img := ConvertImage(std)
	test.That(t, img.Bounds(), test.ShouldResemble, image.Rect(0, 0, 3, 2))
	test.That(t, img.GetXY(0, 0).Hex(), test.ShouldEqual, "#ff0000")

	// writing detaches from the wrapped image
	img.SetXY(1, 1, Green)
	test.That(t, img.GetXY(1, 1), test.ShouldResemble, Green)
	test.That(t, img.GetXY(0, 0).Hex(), test.ShouldEqual, "#ff0000")
	r, g, b, _ := std.At(6, 6).RGBA()
	test.That(t, []uint32{r, g, b}, test.ShouldResemble, []uint32{0, 0, 0})

	test.That(t, ConvertImage(img), test.ShouldEqual, img)
	test.That(t, ConvertImage(nil).Empty(), test.ShouldBeTrue)
	var nilImg *Image
	test.That(t, ConvertImage(nilImg).Empty(), test.ShouldBeTrue)
}

func TestImageCloneAndRGBA(t *testing.T) {
	img := NewImage(2, 2)
	img.SetXY(0, 0, Yellow)
	cp := img.Clone()
	cp.SetXY(0, 0, Purple)
	test.That(t, img.GetXY(0, 0), test.ShouldResemble, Yellow)
	test.That(t, cp.GetXY(0, 0), test.ShouldResemble, Purple)

	rgba := img.ToRGBA()
	test.That(t, rgba.RGBAAt(0, 0), test.ShouldResemble, color.RGBA{255, 255, 0, 255})
}
