package session

import (
	"math"

	"seehuhn.de/go/geom/vec"

	"saxslinecut/internal/models"
	"saxslinecut/pkg/geometry"
	"saxslinecut/pkg/linecut"
)

// LinecutOverlay is the averaging band of one visible linecut in
// full-resolution pixel coordinates, clipped to the image
type LinecutOverlay struct {
	Type       models.LinecutType
	ID         int
	LeftColor  string
	RightColor string
	Band       geometry.Polygon
}

// LinecutOverlays outlines every visible horizontal, vertical and inclined
// linecut. A zero-width linecut is drawn one pixel wide.
func (s *Session) LinecutOverlays() []LinecutOverlay {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.sampled1 == nil {
		return nil
	}
	w, h := float64(s.sampled1.Cols()), float64(s.sampled1.Rows())

	var out []LinecutOverlay
	for _, t := range []models.LinecutType{models.HorizontalType, models.VerticalType} {
		m, _ := s.manager(t)
		for _, lc := range m.Visible() {
			pos, width := linecut.Resolve(lc, s.qVectors)
			width = math.Max(width, 1)
			band := geometry.HorizontalBand(pos, width, w, h)
			if t == models.VerticalType {
				band = geometry.VerticalBand(pos, width, w, h)
			}
			out = append(out, LinecutOverlay{
				Type: t, ID: lc.ID,
				LeftColor: lc.LeftColor, RightColor: lc.RightColor,
				Band: band,
			})
		}
	}

	for _, lc := range s.inclined.Visible() {
		angle := linecut.NormalizeAngle(lc.Angle)
		seg := geometry.LineEndpointsInRect(vec.Vec2{X: lc.XPosition, Y: lc.YPosition}, angle, w, h)
		seg = linecut.OrderEndpoints(seg, angle)
		out = append(out, LinecutOverlay{
			Type: models.InclinedType, ID: lc.ID,
			LeftColor: lc.LeftColor, RightColor: lc.RightColor,
			Band: geometry.ClippedEnvelope(seg, math.Max(lc.Width, 1), w, h),
		})
	}
	return out
}
