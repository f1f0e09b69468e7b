package rimage

import (
	"image"
	"math"

	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/mat"
)

// Component is a maximal 8-connected set of foreground pixels in a mask.
type Component struct {
	Label int
	// Start is the first pixel of the component in raster order.
	Start image.Point
	// Area is the number of pixels in the component.
	Area int
	// Bounds is the bounding rectangle; Max is exclusive.
	Bounds     image.Rectangle
	sumX, sumY int
}

// Centroid is the mean pixel position, truncated toward zero.
func (c Component) Centroid() image.Point {
	if c.Area == 0 {
		return c.Start
	}
	return image.Point{c.sumX / c.Area, c.sumY / c.Area}
}

// LabelMap holds the component label of every pixel of a mask; 0 is background.
type LabelMap struct {
	width, height int
	labels        []int
}

// Label returns the label at p, or 0 when p is out of bounds.
func (lm *LabelMap) Label(p image.Point) int {
	if p.X < 0 || p.Y < 0 || p.X >= lm.width || p.Y >= lm.height {
		return 0
	}
	return lm.labels[p.Y*lm.width+p.X]
}

// eightNeighbors lists the neighbor offsets clockwise (y grows downward),
// starting at west.
var eightNeighbors = [8]image.Point{
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1},
}

// ConnectedComponents labels the 8-connected foreground components of mask.
// Components are returned in the raster order of their first pixel.
func ConnectedComponents(mask *mat.Dense) (*LabelMap, []Component) {
	if mask == nil {
		return &LabelMap{}, nil
	}
	rows, cols := mask.Dims()
	lm := &LabelMap{width: cols, height: rows, labels: make([]int, rows*cols)}
	var comps []Component
	queue := []image.Point{}
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if lm.labels[y*cols+x] != 0 || mask.At(y, x) <= 0 {
				continue
			}
			label := len(comps) + 1
			comp := Component{Label: label, Start: image.Point{x, y}}
			x0, y0, x1, y1 := x, y, x, y // the bounding box of the segment
			lm.labels[y*cols+x] = label
			queue = append(queue[:0], image.Point{x, y})
			for len(queue) != 0 {
				pt := queue[len(queue)-1]
				queue = queue[:len(queue)-1]
				comp.Area++
				comp.sumX += pt.X
				comp.sumY += pt.Y
				x0, y0 = min(x0, pt.X), min(y0, pt.Y)
				x1, y1 = max(x1, pt.X), max(y1, pt.Y)
				for _, d := range eightNeighbors {
					n := pt.Add(d)
					if n.X < 0 || n.Y < 0 || n.X >= cols || n.Y >= rows {
						continue
					}
					k := n.Y*cols + n.X
					if lm.labels[k] != 0 || mask.At(n.Y, n.X) <= 0 {
						continue
					}
					lm.labels[k] = label
					queue = append(queue, n)
				}
			}
			comp.Bounds = image.Rect(x0, y0, x1+1, y1+1)
			comps = append(comps, comp)
		}
	}
	return lm, comps
}

func neighborIndex(d image.Point) int {
	for i, n := range eightNeighbors {
		if n == d {
			return i
		}
	}
	return 0
}

// mooreStep searches the neighbors of cur clockwise starting just after the
// backtrack direction and returns the first one inside, together with the
// backtrack direction as seen from that neighbor.
func mooreStep(inside func(image.Point) bool, cur image.Point, back int) (image.Point, int, bool) {
	for i := 1; i <= 8; i++ {
		d := (back + i) % 8
		p := cur.Add(eightNeighbors[d])
		if inside(p) {
			prev := cur.Add(eightNeighbors[(back+i-1)%8])
			return p, neighborIndex(prev.Sub(p)), true
		}
	}
	return cur, back, false
}

// TraceBoundary follows the outer boundary of the component containing start
// using Moore neighbor tracing. start must be the component's first pixel in
// raster order so that its west neighbor is outside. The contour is returned
// clockwise without repeating start at the end.
func (lm *LabelMap) TraceBoundary(start image.Point) []image.Point {
	label := lm.Label(start)
	if label == 0 {
		return nil
	}
	inside := func(p image.Point) bool {
		return lm.Label(p) == label
	}

	contour := []image.Point{start}
	cur, back := start, 0
	var second image.Point
	// every boundary pixel is entered at most once from each of its 8 neighbors
	maxSteps := 8*len(lm.labels) + 8
	for step := 0; step < maxSteps; step++ {
		next, nextBack, ok := mooreStep(inside, cur, back)
		if !ok {
			break
		}
		if step == 0 {
			second = next
		} else if cur == start && next == second {
			break
		}
		cur, back = next, nextBack
		if cur != start {
			contour = append(contour, cur)
		}
	}
	return contour
}

// PointsToR2 converts pixel points to float points.
func PointsToR2(pts []image.Point) []r2.Point {
	out := make([]r2.Point, len(pts))
	for i, p := range pts {
		out[i] = r2.Point{X: float64(p.X), Y: float64(p.Y)}
	}
	return out
}

// R2ToPoints rounds float points to pixel points.
func R2ToPoints(pts []r2.Point) []image.Point {
	out := make([]image.Point, len(pts))
	for i, p := range pts {
		out[i] = image.Point{int(math.Round(p.X)), int(math.Round(p.Y))}
	}
	return out
}

// perpendicularDistance is the distance from p to the line through a and b,
// or to a itself when a and b coincide.
func perpendicularDistance(p, a, b r2.Point) float64 {
	ab := b.Sub(a)
	if ab.Norm() == 0 {
		return p.Sub(a).Norm()
	}
	return math.Abs(ab.Cross(p.Sub(a))) / ab.Norm()
}

// ApproxContourDP simplifies an open polyline with the Ramer-Douglas-Peucker
// algorithm: points closer than epsilon to the simplified curve are dropped.
// The first and last points are always kept.
func ApproxContourDP(contour []r2.Point, epsilon float64) []r2.Point {
	if len(contour) < 3 {
		out := make([]r2.Point, len(contour))
		copy(out, contour)
		return out
	}
	first, last := contour[0], contour[len(contour)-1]
	maxDist, index := 0., 0
	for i := 1; i < len(contour)-1; i++ {
		d := perpendicularDistance(contour[i], first, last)
		if d > maxDist {
			maxDist, index = d, i
		}
	}
	if maxDist <= epsilon {
		return []r2.Point{first, last}
	}
	left := ApproxContourDP(contour[:index+1], epsilon)
	right := ApproxContourDP(contour[index:], epsilon)
	return append(left[:len(left)-1], right...)
}

// ApproxClosedContourDP simplifies a closed contour. The contour is split at
// the point farthest from its first point so both halves keep real corners.
func ApproxClosedContourDP(contour []image.Point, epsilon float64) []image.Point {
	if len(contour) < 4 || epsilon <= 0 {
		out := make([]image.Point, len(contour))
		copy(out, contour)
		return out
	}
	pts := PointsToR2(contour)
	far, farDist := 0, -1.
	for i, p := range pts {
		if d := p.Sub(pts[0]).Norm(); d > farDist {
			far, farDist = i, d
		}
	}
	closed := append(append([]r2.Point{}, pts...), pts[0])
	left := ApproxContourDP(closed[:far+1], epsilon)
	right := ApproxContourDP(closed[far:], epsilon)
	// drop the duplicated split point and the closing copy of the start
	simplified := append(left[:len(left)-1], right[:len(right)-1]...)
	return R2ToPoints(simplified)
}
