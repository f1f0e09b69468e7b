package rimage

import (
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/lmittmann/ppm"
	"github.com/pkg/errors"
	"github.com/xfmoulet/qoi"
	"go.uber.org/multierr"
)

// NewImageFromFile decodes a png, jpeg, ppm or qoi file into an Image.
func NewImageFromFile(fn string) (*Image, error) {
	img, err := ReadImageFromFile(fn)
	if err != nil {
		return nil, err
	}
	return ConvertImage(img), nil
}

// ReadImageFromFile decodes a png, jpeg, ppm or qoi file.
func ReadImageFromFile(fn string) (img image.Image, err error) {
	//nolint:gosec
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()
	img, _, err = image.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "can't decode image %q", fn)
	}
	return img, nil
}

// WriteImageToFile encodes img as png, jpeg, ppm or qoi depending on the extension of fn.
// fn is removed if img cannot be encoded.
func WriteImageToFile(fn string, img image.Image) (err error) {
	ext := strings.ToLower(filepath.Ext(fn))
	if ext != ".png" && ext != ".jpg" && ext != ".jpeg" && ext != ".ppm" && ext != ".qoi" {
		return errors.Errorf("rimage.WriteImageToFile unsupported format for %q", fn)
	}
	//nolint:gosec
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
		if err != nil {
			err = multierr.Combine(err, os.Remove(fn))
		}
	}()

	switch ext {
	case ".png":
		err = png.Encode(f, img)
	case ".ppm":
		// ppm only encodes the RGBA color model
		err = ppm.Encode(f, toRGBA(img))
	case ".qoi":
		err = qoi.Encode(f, img)
	default:
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: jpeg.DefaultQuality})
	}
	return errors.Wrapf(err, "can't encode image %q", fn)
}

func toRGBA(img image.Image) *image.RGBA {
	switch v := img.(type) {
	case *image.RGBA:
		return v
	case *Image:
		return v.ToRGBA()
	}
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	return out
}
