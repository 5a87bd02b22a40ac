package geometry

import (
	"seehuhn.de/go/geom/vec"
)

// WidthEnvelope returns the closed four-corner band of total width around a
// segment. Zero width or a zero-length segment gives an empty polygon.
func WidthEnvelope(seg Segment, width float64) Polygon {
	d := seg.P1.Sub(seg.P0)
	length := d.Length()
	if width <= 0 || length == 0 {
		return Polygon{}
	}
	// Unit normal, scaled to half the width
	n := vec.Vec2{X: -d.Y, Y: d.X}
	n = n.Mul(width / 2 / length)

	return polygonFromPoints([]vec.Vec2{
		seg.P0.Add(n),
		seg.P1.Add(n),
		seg.P1.Sub(n),
		seg.P0.Sub(n),
		seg.P0.Add(n),
	})
}

// ClippedEnvelope is WidthEnvelope clipped to the image frame
func ClippedEnvelope(seg Segment, width, imageWidth, imageHeight float64) Polygon {
	env := WidthEnvelope(seg, width)
	if env.Len() == 0 {
		return env
	}
	return ClipPolygonToRect(env.X, env.Y, imageWidth, imageHeight)
}

// HorizontalBand is the overlay of a horizontal linecut of the given pixel
// width centred on row, clipped to the image
func HorizontalBand(row, width, imageWidth, imageHeight float64) Polygon {
	if width <= 0 {
		return Polygon{}
	}
	top, bottom := row-width/2, row+width/2
	return ClipPolygonToRect(
		[]float64{0, imageWidth, imageWidth, 0},
		[]float64{top, top, bottom, bottom},
		imageWidth, imageHeight)
}

// VerticalBand is the overlay of a vertical linecut centred on col
func VerticalBand(col, width, imageWidth, imageHeight float64) Polygon {
	if width <= 0 {
		return Polygon{}
	}
	left, right := col-width/2, col+width/2
	return ClipPolygonToRect(
		[]float64{left, right, right, left},
		[]float64{0, 0, imageHeight, imageHeight},
		imageWidth, imageHeight)
}
