package azimuthal

import (
	"saxslinecut/pkg/geometry"
)

type pixel struct {
	x, y int
}

// neighbours8 lists the 8-connected offsets
var neighbours8 = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// IsBoundary reports whether (x, y) is in the mask and touches a pixel that
// is out of the mask or off the grid
func IsBoundary(mask Mask, x, y int) bool {
	if y < 0 || y >= len(mask) || x < 0 || x >= len(mask[y]) || !mask[y][x] {
		return false
	}
	for _, d := range neighbours8 {
		nx, ny := x+d[0], y+d[1]
		if ny < 0 || ny >= len(mask) || nx < 0 || nx >= len(mask[ny]) || !mask[ny][nx] {
			return true
		}
	}
	return false
}

// boundaryPixels collects the boundary pixels in row-major order
func boundaryPixels(mask Mask) []pixel {
	var out []pixel
	for y := range mask {
		for x := range mask[y] {
			if IsBoundary(mask, x, y) {
				out = append(out, pixel{x, y})
			}
		}
	}
	return out
}

// TraceContour orders the mask's boundary pixels into a closed polyline
// (x = column, y = row) by greedy nearest-neighbour selection, starting from
// the first boundary pixel in row-major order. Ties go to the earliest
// remaining pixel.
//
// The greedy walk is O(n^2) in the number of boundary pixels. Masks with thin
// bridges, several disjoint regions or deep concavities can yield a
// self-crossing path.
//
// TODO: replace the greedy ordering with marching-squares boundary tracing
// once overlays for disjoint sectors are needed.
func TraceContour(mask Mask) geometry.Polygon {
	remaining := boundaryPixels(mask)
	if len(remaining) == 0 {
		return geometry.Polygon{X: []float64{}, Y: []float64{}}
	}

	ordered := make([]pixel, 0, len(remaining)+1)
	ordered = append(ordered, remaining[0])
	remaining = append([]pixel(nil), remaining[1:]...)

	for len(remaining) > 0 {
		last := ordered[len(ordered)-1]
		best, bestDist := 0, -1
		for i, p := range remaining {
			dx, dy := p.x-last.x, p.y-last.y
			d := dx*dx + dy*dy
			if bestDist < 0 || d < bestDist {
				best, bestDist = i, d
			}
		}
		ordered = append(ordered, remaining[best])
		remaining = append(remaining[:best], remaining[best+1:]...)
	}
	ordered = append(ordered, ordered[0])

	poly := geometry.Polygon{X: make([]float64, len(ordered)), Y: make([]float64, len(ordered))}
	for i, p := range ordered {
		poly.X[i] = float64(p.x)
		poly.Y[i] = float64(p.y)
	}
	return poly
}
