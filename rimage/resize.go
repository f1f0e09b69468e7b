package rimage

import (
	"image"

	"github.com/nfnt/resize"
)

// ResizeToMaxWidth scales img down to maxWidth pixels wide, keeping the aspect
// ratio. Images that already fit, and a non-positive maxWidth, are returned as is.
func ResizeToMaxWidth(img image.Image, maxWidth int) image.Image {
	if img == nil || maxWidth <= 0 || img.Bounds().Dx() <= maxWidth {
		return img
	}
	return resize.Resize(uint(maxWidth), 0, img, resize.Bilinear)
}
