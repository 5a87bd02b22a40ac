package linecut

import (
	"math"

	"seehuhn.de/go/geom/vec"

	"saxslinecut/internal/models"
	"saxslinecut/pkg/geometry"
	"saxslinecut/pkg/qmap"
)

// VerticalToleranceDegrees is how close to +-90 degrees an angle must be for
// the line to be treated as vertical
const VerticalToleranceDegrees = 1.0

// lengthEps absorbs floating-point noise before rounding a line length up
const lengthEps = 1e-9

// NormalizeAngle maps an angle in degrees into [-180, 180)
func NormalizeAngle(angle float64) float64 {
	a := math.Mod(angle+180, 360)
	if a < 0 {
		a += 360
	}
	return a - 180
}

// IsNearVertical reports whether angle is within VerticalToleranceDegrees of +-90
func IsNearVertical(angle float64) bool {
	return math.Abs(math.Abs(NormalizeAngle(angle))-90) <= VerticalToleranceDegrees
}

// OrderEndpoints puts near-vertical lines top-to-bottom (increasing y) and all
// other lines left-to-right (increasing x). The fixed ordering keeps the sign
// of the q-radial axis stable while the angle sweeps through vertical.
func OrderEndpoints(seg geometry.Segment, angle float64) geometry.Segment {
	if IsNearVertical(angle) {
		if seg.P0.Y > seg.P1.Y {
			seg.P0, seg.P1 = seg.P1, seg.P0
		}
		return seg
	}
	if seg.P0.X > seg.P1.X {
		seg.P0, seg.P1 = seg.P1, seg.P0
	}
	return seg
}

// InclinedSamples is an inclined profile together with the pixel position
// of every sample
type InclinedSamples struct {
	X         []float64
	Y         []float64
	Intensity []float64

	// Segment is the ordered line the samples were taken along
	Segment geometry.Segment
}

// SampleInclined returns the averaged intensity along the line through center
// at angle degrees. See SampleInclinedWithPositions.
func SampleInclined(image models.Image, center vec.Vec2, angle, width float64) []float64 {
	return SampleInclinedWithPositions(image, center, angle, width).Intensity
}

// SampleInclinedWithPositions marches ceil(length) unit steps from the first
// ordered endpoint towards the second. At each step it averages the pixels at
// integer perpendicular offsets in [-width/2, width/2], skipping offsets that
// land outside the image; a step with no valid pixel yields 0.
func SampleInclinedWithPositions(image models.Image, center vec.Vec2, angle, width float64) InclinedSamples {
	rows, cols := image.Rows(), image.Cols()
	if rows == 0 || cols == 0 {
		return InclinedSamples{X: []float64{}, Y: []float64{}, Intensity: []float64{}}
	}

	seg := geometry.LineEndpointsInRect(center, angle, float64(cols), float64(rows))
	seg = OrderEndpoints(seg, angle)

	d := seg.P1.Sub(seg.P0)
	length := d.Length()
	numPoints := int(math.Ceil(length - lengthEps))
	if numPoints <= 0 {
		return InclinedSamples{X: []float64{}, Y: []float64{}, Intensity: []float64{}, Segment: seg}
	}

	unit := d.Mul(1 / length)
	perp := vec.Vec2{X: -unit.Y, Y: unit.X}

	halfWidth := 0.0
	if width > 0 {
		halfWidth = math.Floor(width / 2)
	}

	out := InclinedSamples{
		X:         make([]float64, numPoints),
		Y:         make([]float64, numPoints),
		Intensity: make([]float64, numPoints),
		Segment:   seg,
	}
	for i := 0; i < numPoints; i++ {
		p := seg.P0.Add(unit.Mul(float64(i)))
		out.X[i], out.Y[i] = p.X, p.Y

		sum, count := 0.0, 0
		for w := -halfWidth; w <= halfWidth; w++ {
			px := int(math.Round(p.X + w*perp.X))
			py := int(math.Round(p.Y + w*perp.Y))
			if px < 0 || px >= cols || py < 0 || py >= rows || px >= len(image[py]) {
				continue
			}
			sum += image[py][px]
			count++
		}
		if count > 0 {
			out.Intensity[i] = sum / float64(count)
		}
	}
	return out
}

// SignedQRadial returns the plotting coordinate of pixel (px, py) on an
// inclined linecut at angle.
//
// Two conventions are used on purpose:
//   - near-vertical lines (see IsNearVertical): qY(py) - qY(beam row), so the
//     sign follows the row and stays continuous as the angle passes +-90;
//   - all other lines: +-sqrt(qx^2 + qy^2), negative left of the beam column.
//
// A single Euclidean formula would flip sign abruptly at vertical, because
// "left of the beam" is undefined for a vertical line through it. Without
// q-vectors the same rules apply to pixel offsets from the beam centre.
func SignedQRadial(px, py, angle float64, qv models.QVectors, beamX, beamY float64) float64 {
	haveQ := len(qv.QX) > 0 && len(qv.QY) > 0

	if IsNearVertical(angle) {
		if !haveQ {
			return py - beamY
		}
		return qmap.PixelToQValue(py, qv.QY) - qmap.PixelToQValue(beamY, qv.QY)
	}

	var qx, qy float64
	if haveQ {
		qx = qmap.PixelToQValue(px, qv.QX)
		qy = qmap.PixelToQValue(py, qv.QY)
	} else {
		qx, qy = px-beamX, py-beamY
	}
	r := math.Sqrt(qx*qx + qy*qy)
	if px < beamX {
		return -r
	}
	return r
}

// InclinedProfile is a plot-ready inclined linecut
type InclinedProfile struct {
	InclinedSamples

	// QRadial is the signed q-radial coordinate of every sample
	QRadial []float64
}

// SampleInclinedProfile samples an inclined linecut and attaches the signed
// q-radial axis for the given calibration
func SampleInclinedProfile(image models.Image, lc models.InclinedLinecut, qv models.QVectors, cal models.CalibrationParams) InclinedProfile {
	angle := NormalizeAngle(lc.Angle)
	samples := SampleInclinedWithPositions(image, vec.Vec2{X: lc.XPosition, Y: lc.YPosition}, angle, lc.Width)

	q := make([]float64, len(samples.X))
	for i := range q {
		q[i] = SignedQRadial(samples.X[i], samples.Y[i], angle, qv, cal.BeamCenterX, cal.BeamCenterY)
	}
	return InclinedProfile{InclinedSamples: samples, QRadial: q}
}
