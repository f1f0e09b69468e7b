package rimage

import (
	"image"
	"image/color"

	"gonum.org/v1/gonum/mat"
)

// A binary mask is a *mat.Dense with one row per image row; entries are 0 or 1.

// NewMask returns an all-zero mask for a width x height image, or nil when
// either dimension is zero.
func NewMask(width, height int) *mat.Dense {
	if width <= 0 || height <= 0 {
		return nil
	}
	return mat.NewDense(height, width, nil)
}

// MaskToGray renders a mask as black and white.
func MaskToGray(mask *mat.Dense) *image.Gray {
	if mask == nil {
		return image.NewGray(image.Rectangle{})
	}
	rows, cols := mask.Dims()
	out := image.NewGray(image.Rect(0, 0, cols, rows))
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if mask.At(r, c) > 0 {
				out.SetGray(c, r, color.Gray{Y: 255})
			}
		}
	}
	return out
}

// CountNonZero returns the number of set mask entries.
func CountNonZero(mask *mat.Dense) int {
	if mask == nil {
		return 0
	}
	rows, cols := mask.Dims()
	n := 0
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if mask.At(r, c) > 0 {
				n++
			}
		}
	}
	return n
}

// MaskOr returns the entry-wise union of two masks of the same shape.
func MaskOr(a, b *mat.Dense) *mat.Dense {
	rows, cols := a.Dims()
	out := mat.NewDense(rows, cols, nil)
	out.Apply(func(r, c int, v float64) float64 {
		if v > 0 || b.At(r, c) > 0 {
			return 1
		}
		return 0
	}, a)
	return out
}
