// Package position turns model detections and color regions into uniform
// position records, and renders them as text, tables and annotated images.
package position

import (
	"encoding/json"
	"fmt"
	"image"
	"strings"

	"github.com/golang/geo/r2"

	"go.viam.com/colortrack/vision/segmentation"
)

// Source is the component that produced a Record.
type Source int

// The record sources.
const (
	SourceDetection Source = iota
	SourceColor
)

func (s Source) String() string {
	switch s {
	case SourceDetection:
		return "detection"
	case SourceColor:
		return "color"
	default:
		return fmt.Sprintf("Source(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Source) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Record is the position of one object in a frame. Label and Confidence are set
// for SourceDetection, Color for SourceColor.
type Record struct {
	// Center is the exact midpoint of BoundingBox.
	Center      r2.Point
	BoundingBox image.Rectangle
	Width       int
	Height      int
	// Area is Width*Height.
	Area       int
	Source     Source
	Label      string
	Confidence float64
	Color      segmentation.ColorName
}

// newRecord fills in the geometry of a box, reporting false for degenerate boxes.
func newRecord(box image.Rectangle, src Source) (Record, bool) {
	if box.Min.X >= box.Max.X || box.Min.Y >= box.Max.Y {
		return Record{}, false
	}
	w, h := box.Dx(), box.Dy()
	return Record{
		Center: r2.Point{
			X: float64(box.Min.X+box.Max.X) / 2,
			Y: float64(box.Min.Y+box.Max.Y) / 2,
		},
		BoundingBox: box,
		Width:       w,
		Height:      h,
		Area:        w * h,
		Source:      src,
	}, true
}

// Pixel is the center truncated to whole pixels.
func (r Record) Pixel() image.Point {
	return image.Point{int(r.Center.X), int(r.Center.Y)}
}

// Name is the class label of a detection or the color of a color region.
func (r Record) Name() string {
	if r.Source == SourceColor {
		return string(r.Color)
	}
	return r.Label
}

// String prints the record on one line.
func (r Record) String() string {
	p, b := r.Pixel(), r.BoundingBox
	if r.Source == SourceColor {
		return fmt.Sprintf("%s object | Center: (%d, %d) | Area: %d px²", strings.ToUpper(string(r.Color)), p.X, p.Y, r.Area)
	}
	return fmt.Sprintf("Detected: %s (%.2f) | Center: (%d, %d) | BBox: [%d, %d, %d, %d]",
		r.Label, r.Confidence, p.X, p.Y, b.Min.X, b.Min.Y, b.Max.X, b.Max.Y)
}

type recordJSON struct {
	Source     Source     `json:"source"`
	Center     [2]float64 `json:"center"`
	Box        [4]int     `json:"box"`
	Width      int        `json:"width"`
	Height     int        `json:"height"`
	Area       int        `json:"area"`
	Label      string     `json:"label,omitempty"`
	Confidence *float64   `json:"confidence,omitempty"`
	Color      string     `json:"color,omitempty"`
}

// MarshalJSON writes the box as [x1, y1, x2, y2] and the center as [x, y].
func (r Record) MarshalJSON() ([]byte, error) {
	out := recordJSON{
		Source: r.Source,
		Center: [2]float64{r.Center.X, r.Center.Y},
		Box:    [4]int{r.BoundingBox.Min.X, r.BoundingBox.Min.Y, r.BoundingBox.Max.X, r.BoundingBox.Max.Y},
		Width:  r.Width,
		Height: r.Height,
		Area:   r.Area,
		Color:  string(r.Color),
	}
	if r.Source == SourceDetection {
		out.Label = r.Label
		conf := r.Confidence
		out.Confidence = &conf
	}
	return json.Marshal(out)
}
