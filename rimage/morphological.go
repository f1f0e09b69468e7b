package rimage

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Structuring elements are centered on the pixel being computed. Neighbors
// that fall outside of the image are ignored, so erosion never eats in from
// the image border and dilation never grows in from it.

func checkKernelSize(img *mat.Dense, kernelSize int) error {
	if img == nil {
		return errors.New("cannot apply a morphological operation to a nil image")
	}
	if kernelSize < 1 || kernelSize%2 == 0 {
		return errors.Errorf("kernel size must be a positive odd number, got %d", kernelSize)
	}
	return nil
}

// slidingExtremum computes the min (or max) over a centered window of length
// k along rows (horizontal) or columns.
func slidingExtremum(img *mat.Dense, k int, horizontal, takeMin bool) *mat.Dense {
	rows, cols := img.Dims()
	out := mat.NewDense(rows, cols, nil)
	half := k / 2
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			best := math.Inf(1)
			if !takeMin {
				best = math.Inf(-1)
			}
			for d := -half; d <= half; d++ {
				rr, cc := r, c
				if horizontal {
					cc += d
				} else {
					rr += d
				}
				if rr < 0 || cc < 0 || rr >= rows || cc >= cols {
					continue
				}
				v := img.At(rr, cc)
				if (takeMin && v < best) || (!takeMin && v > best) {
					best = v
				}
			}
			out.Set(r, c, best)
		}
	}
	return out
}

// ErodeSquare takes the minimum over a kernelSize x kernelSize square.
func ErodeSquare(img *mat.Dense, kernelSize int) (*mat.Dense, error) {
	if err := checkKernelSize(img, kernelSize); err != nil {
		return nil, err
	}
	// a square window is separable into a row pass and a column pass
	return slidingExtremum(slidingExtremum(img, kernelSize, true, true), kernelSize, false, true), nil
}

// DilateSquare takes the maximum over a kernelSize x kernelSize square.
func DilateSquare(img *mat.Dense, kernelSize int) (*mat.Dense, error) {
	if err := checkKernelSize(img, kernelSize); err != nil {
		return nil, err
	}
	return slidingExtremum(slidingExtremum(img, kernelSize, true, false), kernelSize, false, false), nil
}

// OpenSquare erodes then dilates, removing specks smaller than the kernel.
func OpenSquare(img *mat.Dense, kernelSize int) (*mat.Dense, error) {
	eroded, err := ErodeSquare(img, kernelSize)
	if err != nil {
		return nil, err
	}
	return DilateSquare(eroded, kernelSize)
}

// CloseSquare dilates then erodes, filling gaps smaller than the kernel.
// The mask is zero-padded by kernelSize/2 on every side while closing so that
// blobs near the border do not grow into it.
func CloseSquare(img *mat.Dense, kernelSize int) (*mat.Dense, error) {
	if err := checkKernelSize(img, kernelSize); err != nil {
		return nil, err
	}
	half := kernelSize / 2
	rows, cols := img.Dims()
	padded := mat.NewDense(rows+2*half, cols+2*half, nil)
	padded.Slice(half, half+rows, half, half+cols).(*mat.Dense).Copy(img)

	dilated, err := DilateSquare(padded, kernelSize)
	if err != nil {
		return nil, err
	}
	closed, err := ErodeSquare(dilated, kernelSize)
	if err != nil {
		return nil, err
	}
	out := mat.NewDense(rows, cols, nil)
	out.Copy(closed.Slice(half, half+rows, half, half+cols))
	return out, nil
}
