// Package geometry computes linecut endpoints inside an image frame and clips
// overlay polygons (linecut width envelopes) against that frame.
//
// Coordinates are pixel coordinates with rows increasing downward, so an
// angle of +90 degrees points up the image (towards row 0).
package geometry

import (
	"math"
	"sort"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// FallbackSegmentLength is the length of the segment returned when a line
// cannot be clipped to the image frame
const FallbackSegmentLength = 100.0

const boundaryEps = 1e-9

// Segment is a line segment in pixel coordinates
type Segment struct {
	P0, P1 vec.Vec2

	// Fallback is set when the segment is the fixed-length default rather
	// than a clip against the frame
	Fallback bool
}

// Length returns the Euclidean length of the segment
func (s Segment) Length() float64 {
	return s.P1.Sub(s.P0).Length()
}

// Frame returns the image frame [0,width]x[0,height]
func Frame(width, height float64) rect.Rect {
	return rect.Rect{LLx: 0, LLy: 0, URx: width, URy: height}
}

// Direction returns the unit direction of a line at angleDegrees. The y
// component is negated because pixel rows grow downward.
func Direction(angleDegrees float64) vec.Vec2 {
	theta := angleDegrees * math.Pi / 180
	return vec.Vec2{X: math.Cos(theta), Y: -math.Sin(theta)}
}

// LineEndpointsInRect intersects the line through center at angleDegrees with
// the image frame and returns the two extreme intersections, ordered by the
// line parameter.
//
// When fewer than two distinct intersections exist (center outside the frame
// and the line missing it, a line touching only a corner, or a degenerate
// frame) a segment of FallbackSegmentLength centred on center is returned
// instead. Callers always receive a segment.
func LineEndpointsInRect(center vec.Vec2, angleDegrees, width, height float64) Segment {
	dir := Direction(angleDegrees)
	frame := Frame(width, height)

	var ts []float64
	inRange := func(v, lo, hi float64) bool {
		return v >= lo-boundaryEps && v <= hi+boundaryEps
	}

	if dir.X != 0 {
		for _, bx := range []float64{frame.LLx, frame.URx} {
			t := (bx - center.X) / dir.X
			if y := center.Y + t*dir.Y; inRange(y, frame.LLy, frame.URy) {
				ts = append(ts, t)
			}
		}
	}
	if dir.Y != 0 {
		for _, by := range []float64{frame.LLy, frame.URy} {
			t := (by - center.Y) / dir.Y
			if x := center.X + t*dir.X; inRange(x, frame.LLx, frame.URx) {
				ts = append(ts, t)
			}
		}
	}

	// A centre sitting exactly on the boundary is itself an endpoint
	onVertical := center.X == frame.LLx || center.X == frame.URx
	onHorizontal := center.Y == frame.LLy || center.Y == frame.URy
	if (onVertical && inRange(center.Y, frame.LLy, frame.URy)) ||
		(onHorizontal && inRange(center.X, frame.LLx, frame.URx)) {
		ts = append(ts, 0)
	}

	sort.Float64s(ts)
	// A line touching the frame only at a corner yields coincident
	// candidates, which count as a single intersection
	if len(ts) < 2 || ts[len(ts)-1]-ts[0] < boundaryEps || width <= 0 || height <= 0 {
		half := dir.Mul(FallbackSegmentLength / 2)
		return Segment{P0: center.Sub(half), P1: center.Add(half), Fallback: true}
	}

	tMin, tMax := ts[0], ts[len(ts)-1]
	return Segment{
		P0: center.Add(dir.Mul(tMin)),
		P1: center.Add(dir.Mul(tMax)),
	}
}
