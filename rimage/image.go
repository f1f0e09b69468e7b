package rimage

import (
	"image"
	"image/color"
	"image/draw"
	"sync"
)

// Image is a frame of Colors with an origin at (0, 0). Images built from a
// standard image stay lazily backed by it until first written to.
type Image struct {
	immutable     image.Image
	offset        image.Point
	data          []Color
	width, height int
	mu            sync.Mutex
}

// ColorModel converts every color to a Color.
var ColorModel = color.ModelFunc(func(c color.Color) color.Color {
	return NewColorFromColor(c)
})

// ColorModel implements image.Image.
func (i *Image) ColorModel() color.Model {
	return ColorModel
}

// In reports whether (x, y) lies inside the image.
func (i *Image) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < i.width && y < i.height
}

func (i *Image) kxy(x, y int) int {
	return (y * i.width) + x
}

// Bounds implements image.Image.
func (i *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, i.width, i.height)
}

// Width is the number of columns.
func (i *Image) Width() int {
	return i.width
}

// Height is the number of rows.
func (i *Image) Height() int {
	return i.height
}

// Empty reports whether the image has no pixels.
func (i *Image) Empty() bool {
	return i.width <= 0 || i.height <= 0
}

// At implements image.Image.
func (i *Image) At(x, y int) color.Color {
	return i.GetXY(x, y)
}

// Get returns the color at p.
func (i *Image) Get(p image.Point) Color {
	return i.GetXY(p.X, p.Y)
}

// GetXY returns the color at (x, y), or the zero Color when out of bounds.
func (i *Image) GetXY(x, y int) Color {
	if !i.In(x, y) {
		return Color{}
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.immutable != nil {
		return NewColorFromColor(i.immutable.At(x+i.offset.X, y+i.offset.Y))
	}
	return i.data[i.kxy(x, y)]
}

// Set sets the color at p.
func (i *Image) Set(p image.Point, c Color) {
	i.SetXY(p.X, p.Y, c)
}

// SetXY sets the color at (x, y). Out of bounds writes are ignored.
func (i *Image) SetXY(x, y int, c Color) {
	if !i.In(x, y) {
		return
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.makeMutable()
	i.data[i.kxy(x, y)] = c
}

// FillRect paints every pixel of r that lies inside the image.
func (i *Image) FillRect(r image.Rectangle, c Color) {
	r = r.Intersect(i.Bounds())
	i.mu.Lock()
	defer i.mu.Unlock()
	i.makeMutable()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			i.data[i.kxy(x, y)] = c
		}
	}
}

// Clone returns a deep, mutable copy.
func (i *Image) Clone() *Image {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.makeMutable()
	data := make([]Color, len(i.data))
	copy(data, i.data)
	return &Image{data: data, width: i.width, height: i.height}
}

// ToRGBA converts the image to a standard RGBA image.
func (i *Image) ToRGBA() *image.RGBA {
	out := image.NewRGBA(i.Bounds())
	draw.Draw(out, out.Bounds(), i, image.Point{}, draw.Src)
	return out
}

func (i *Image) makeMutable() {
	if i.immutable == nil {
		return
	}
	i.data = make([]Color, i.width*i.height)
	for y := 0; y < i.height; y++ {
		for x := 0; x < i.width; x++ {
			i.data[i.kxy(x, y)] = NewColorFromColor(i.immutable.At(x+i.offset.X, y+i.offset.Y))
		}
	}
	i.immutable = nil
}

// NewImage returns a black image of the given size.
func NewImage(width, height int) *Image {
	if width < 0 || height < 0 {
		width, height = 0, 0
	}
	return &Image{
		data:   make([]Color, width*height),
		width:  width,
		height: height,
	}
}

// NewImageFromStdImage wraps img without copying it. The result is translated
// so that img.Bounds().Min becomes (0, 0).
func NewImageFromStdImage(img image.Image) *Image {
	bounds := img.Bounds()
	return &Image{
		immutable: img,
		offset:    bounds.Min,
		width:     bounds.Dx(),
		height:    bounds.Dy(),
	}
}

// ConvertImage returns img as an *Image, wrapping it if needed. A nil image
// converts to an empty Image.
func ConvertImage(img image.Image) *Image {
	switch v := img.(type) {
	case nil:
		return NewImage(0, 0)
	case *Image:
		if v == nil {
			return NewImage(0, 0)
		}
		return v
	default:
		return NewImageFromStdImage(img)
	}
}
