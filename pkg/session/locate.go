package session

import (
	"github.com/pkg/errors"

	"saxslinecut/internal/models"
	"saxslinecut/pkg/collection"
	"saxslinecut/pkg/qmap"
)

// PixelAtQ returns the full-resolution pixel whose (qx, qy) lies nearest
// the given q-space point. ok is false without q-vectors.
func (s *Session) PixelAtQ(qx, qy float64) (row, col int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.qLocator().Nearest(qx, qy)
}

// AddInclinedAtQ adds a zero-angle inclined linecut centred on the pixel
// nearest (qx, qy)
func (s *Session) AddInclinedAtQ(qx, qy float64) (models.InclinedLinecut, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, col, ok := s.qLocator().Nearest(qx, qy)
	if !ok {
		return models.InclinedLinecut{}, errors.New("no q-vectors to locate a q-space point")
	}
	lc := collection.NewInclinedLinecut(0, 0)
	lc.XPosition, lc.YPosition = float64(col), float64(row)
	lc = s.inclined.Add(lc)
	s.recomputeInclined(lc.ID)
	return lc, nil
}

// qLocator returns the kd-tree over the current q-vectors. Callers hold mu.
func (s *Session) qLocator() *qmap.Locator {
	if s.locator == nil {
		s.locator = qmap.NewLocator(qmap.Meshgrid(s.qVectors.QX, s.qVectors.QY))
	}
	return s.locator
}
