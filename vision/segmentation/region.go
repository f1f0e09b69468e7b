package segmentation

import (
	"fmt"
	"image"
	"sort"
)

// Region is a connected blob of pixels matching the target color.
type Region struct {
	// Contour is the outer boundary of the blob, clockwise.
	Contour []image.Point
	// BoundingBox is the smallest rectangle holding the blob; Max is exclusive.
	BoundingBox image.Rectangle
	// Area is the pixel count of the blob for the native backend and the
	// contour area for the opencv backend.
	Area     float64
	Centroid image.Point
	Color    ColorName
}

func (r Region) String() string {
	return fmt.Sprintf("%s region at %v, area %.0f, centroid %v", r.Color, r.BoundingBox, r.Area, r.Centroid)
}

// Add returns the region translated by p.
func (r Region) Add(p image.Point) Region {
	contour := make([]image.Point, len(r.Contour))
	for i, q := range r.Contour {
		contour[i] = q.Add(p)
	}
	r.Contour = contour
	r.BoundingBox = r.BoundingBox.Add(p)
	r.Centroid = r.Centroid.Add(p)
	return r
}

// OffsetRegions translates regions found in a frame-sized mask into the
// coordinates of a frame whose bounds start at origin.
func OffsetRegions(regions []Region, origin image.Point) {
	if origin == (image.Point{}) {
		return
	}
	for i := range regions {
		regions[i] = regions[i].Add(origin)
	}
}

// SortRegionsByArea orders regions largest first, keeping the order of ties.
func SortRegionsByArea(regions []Region) {
	sort.SliceStable(regions, func(i, j int) bool {
		return regions[i].Area > regions[j].Area
	})
}
