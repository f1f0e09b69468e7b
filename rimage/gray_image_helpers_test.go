package rimage

import (
	"image"
	"testing"

	"go.viam.com/test"
)

func TestMaskToGray(t *testing.T) {
	mask := maskFromRows(
		"#..#",
		".##.",
	)
	g := MaskToGray(mask)
	test.That(t, g.Bounds(), test.ShouldResemble, image.Rect(0, 0, 4, 2))
	test.That(t, g.GrayAt(0, 0).Y, test.ShouldEqual, uint8(255))
	test.That(t, g.GrayAt(1, 0).Y, test.ShouldEqual, uint8(0))
	test.That(t, g.GrayAt(2, 1).Y, test.ShouldEqual, uint8(255))
	test.That(t, CountNonZero(mask), test.ShouldEqual, 4)
}

func TestEmptyMasks(t *testing.T) {
	test.That(t, NewMask(0, 4), test.ShouldBeNil)
	test.That(t, NewMask(4, -1), test.ShouldBeNil)
	test.That(t, CountNonZero(nil), test.ShouldEqual, 0)
	test.That(t, MaskToGray(nil).Bounds().Empty(), test.ShouldBeTrue)

	m := NewMask(3, 2)
	rows, cols := m.Dims()
	test.That(t, rows, test.ShouldEqual, 2)
	test.That(t, cols, test.ShouldEqual, 3)
	test.That(t, CountNonZero(m), test.ShouldEqual, 0)
}

func TestMaskOr(t *testing.T) {
	a := maskFromRows("#..", "...")
	b := maskFromRows("..#", "#..")
	union := MaskOr(a, b)
	test.That(t, union.RawMatrix().Data, test.ShouldResemble, maskFromRows("#.#", "#..").RawMatrix().Data)
	// inputs are untouched
	test.That(t, CountNonZero(a), test.ShouldEqual, 1)
}
