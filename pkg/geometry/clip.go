package geometry

import (
	"math"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// Polygon is a polyline given as parallel coordinate slices
type Polygon struct {
	X []float64
	Y []float64
}

// Len returns the number of vertices
func (p Polygon) Len() int {
	return len(p.X)
}

// Closed reports whether the last vertex repeats the first
func (p Polygon) Closed() bool {
	n := len(p.X)
	return n > 1 && p.X[0] == p.X[n-1] && p.Y[0] == p.Y[n-1]
}

func (p Polygon) points() []vec.Vec2 {
	n := len(p.X)
	if len(p.Y) < n {
		n = len(p.Y)
	}
	pts := make([]vec.Vec2, n)
	for i := 0; i < n; i++ {
		pts[i] = vec.Vec2{X: p.X[i], Y: p.Y[i]}
	}
	return pts
}

func polygonFromPoints(pts []vec.Vec2) Polygon {
	out := Polygon{X: make([]float64, len(pts)), Y: make([]float64, len(pts))}
	for i, p := range pts {
		out.X[i], out.Y[i] = p.X, p.Y
	}
	return out
}

// clipEdge is a directed frame edge; the inside lies to its right in pixel
// coordinates, which makes the edges clockwise on screen.
type clipEdge struct {
	a, b vec.Vec2
}

func frameEdges(frame rect.Rect) []clipEdge {
	tl := vec.Vec2{X: frame.LLx, Y: frame.LLy}
	tr := vec.Vec2{X: frame.URx, Y: frame.LLy}
	br := vec.Vec2{X: frame.URx, Y: frame.URy}
	bl := vec.Vec2{X: frame.LLx, Y: frame.URy}
	// top, right, bottom, left
	return []clipEdge{{tl, tr}, {tr, br}, {br, bl}, {bl, tl}}
}

func (e clipEdge) inside(p vec.Vec2) bool {
	d := e.b.Sub(e.a)
	r := p.Sub(e.a)
	return d.X*r.Y-d.Y*r.X >= 0
}

// intersect returns where segment p->q crosses the edge line. Parallel
// input returns the edge start corner rather than dividing by zero.
func (e clipEdge) intersect(p, q vec.Vec2) vec.Vec2 {
	x1, y1, x2, y2 := p.X, p.Y, q.X, q.Y
	x3, y3, x4, y4 := e.a.X, e.a.Y, e.b.X, e.b.Y

	denom := (x1-x2)*(y3-y4) - (y1-y2)*(x3-x4)
	if math.Abs(denom) < 1e-12 {
		return e.a
	}
	t := ((x1-x3)*(y3-y4) - (y1-y3)*(x3-x4)) / denom
	return vec.Vec2{X: x1 + t*(x2-x1), Y: y1 + t*(y2-y1)}
}

// ClipPolygonToRect clips a polygon to [0,width]x[0,height] with the
// Sutherland-Hodgman algorithm, processing the top, right, bottom and left
// edges in turn. The result is closed (last vertex repeats the first).
//
// Input with fewer than 3 vertices is returned unchanged. If fewer than 3
// vertices survive any stage the result is empty.
func ClipPolygonToRect(xs, ys []float64, width, height float64) Polygon {
	in := Polygon{X: xs, Y: ys}
	pts := in.points()
	if len(pts) < 3 {
		return Polygon{X: append([]float64(nil), xs...), Y: append([]float64(nil), ys...)}
	}

	// Work on the open ring; the closing vertex is re-added at the end
	if n := len(pts); pts[0] == pts[n-1] {
		pts = pts[:n-1]
	}
	if len(pts) < 3 {
		return Polygon{X: []float64{}, Y: []float64{}}
	}

	for _, edge := range frameEdges(Frame(width, height)) {
		pts = clipAgainst(pts, edge)
		if len(pts) < 3 {
			return Polygon{X: []float64{}, Y: []float64{}}
		}
	}

	pts = append(pts, pts[0])
	return polygonFromPoints(pts)
}

func clipAgainst(pts []vec.Vec2, edge clipEdge) []vec.Vec2 {
	out := make([]vec.Vec2, 0, len(pts)+2)
	n := len(pts)
	for i, cur := range pts {
		prev := pts[(i+n-1)%n]
		curIn, prevIn := edge.inside(cur), edge.inside(prev)
		switch {
		case curIn && prevIn:
			out = append(out, cur)
		case curIn && !prevIn:
			out = append(out, edge.intersect(prev, cur), cur)
		case !curIn && prevIn:
			out = append(out, edge.intersect(prev, cur))
		}
	}
	return out
}
