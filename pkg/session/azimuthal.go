package session

import (
	"context"

	"github.com/pkg/errors"

	"saxslinecut/internal/models"
	"saxslinecut/pkg/azimuthal"
	"saxslinecut/pkg/client"
	"saxslinecut/pkg/collection"
)

// AzimuthalResult is the integrated data of one integration for both images,
// tagged with the cache key it was computed under
type AzimuthalResult struct {
	ID    int
	Key   string
	Left  models.AzimuthalData
	Right models.AzimuthalData
}

// AzimuthalOverlay is the outline of one integration on both images
type AzimuthalOverlay struct {
	ID    int
	Left  azimuthal.Overlay
	Right azimuthal.Overlay
}

// AddAzimuthal adds an integration and fetches its data. A nil azimuthRange
// means the full circle and a nil qRange the full q-range. The integration
// is kept when the fetch fails.
func (s *Session) AddAzimuthal(ctx context.Context, azimuthRange *[2]float64, qRange *[2]float64) (models.AzimuthalIntegration, error) {
	integ := collection.NewAzimuthalIntegration()
	if azimuthRange != nil {
		integ.AzimuthRange = *azimuthRange
	}
	if qRange != nil {
		r := *qRange
		integ.QRange = &r
	}
	integ = s.azimuthal.Add(integ)
	return integ, s.ensureAzimuthal(ctx, integ.ID)
}

// UpdateAzimuthal applies fn to an integration and, when it is visible,
// makes sure its data matches the new azimuth range
func (s *Session) UpdateAzimuthal(ctx context.Context, id int, fn func(models.AzimuthalIntegration) models.AzimuthalIntegration) error {
	updated, ok := s.azimuthal.Update(id, fn)
	if !ok {
		return errors.Errorf("no azimuthal integration %d", id)
	}
	if updated.Hidden {
		return nil
	}
	return s.ensureAzimuthal(ctx, id)
}

// DeleteAzimuthal removes an integration; the data of later integrations
// follows their renumbered IDs
func (s *Session) DeleteAzimuthal(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.azimuthal.Delete(id) {
		return false
	}
	data := make(map[int]AzimuthalResult, len(s.azData))
	for oldID, r := range s.azData {
		switch {
		case oldID < id:
			data[oldID] = r
		case oldID > id:
			r.ID = oldID - 1
			r.Left.ID, r.Right.ID = r.ID, r.ID
			data[r.ID] = r
		}
	}
	s.azData = data
	return true
}

// ToggleAzimuthal flips an integration's visibility, fetching its data when
// it becomes visible
func (s *Session) ToggleAzimuthal(ctx context.Context, id int) (models.AzimuthalIntegration, error) {
	integ, ok := s.azimuthal.ToggleVisibility(id)
	if !ok {
		return integ, errors.Errorf("no azimuthal integration %d", id)
	}
	if integ.Hidden {
		return integ, nil
	}
	return integ, s.ensureAzimuthal(ctx, id)
}

// AzimuthalIntegrations returns a copy of the integrations
func (s *Session) AzimuthalIntegrations() []models.AzimuthalIntegration {
	return s.azimuthal.Items()
}

// AzimuthalData returns the fetched data of an integration
func (s *Session) AzimuthalData(id int) (AzimuthalResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.azData[id]
	return r, ok
}

// RefreshAzimuthal makes sure every visible integration has data for the
// current calibration. Every integration is attempted; the first error is
// returned.
func (s *Session) RefreshAzimuthal(ctx context.Context) error {
	var firstErr error
	for _, integ := range s.azimuthal.Visible() {
		if err := s.ensureAzimuthal(ctx, integ.ID); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Overlays outlines every visible integration with data on the active tier
func (s *Session) Overlays() []AzimuthalOverlay {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d := s.display
	factor := d.Factor
	if factor < 1 {
		factor = 1
	}
	var out []AzimuthalOverlay
	for _, integ := range s.azimuthal.Visible() {
		r, ok := s.azData[integ.ID]
		if !ok {
			continue
		}
		out = append(out, AzimuthalOverlay{
			ID:    integ.ID,
			Left:  azimuthal.BuildOverlay(integ, r.Left.QArray, factor, d.Array1.Rows(), d.Array1.Cols()),
			Right: azimuthal.BuildOverlay(integ, r.Right.QArray, factor, d.Array2.Rows(), d.Array2.Cols()),
		})
	}
	return out
}

// ensureAzimuthal fills azData for one integration, reusing the cached
// response when its key matches and fetching otherwise
func (s *Session) ensureAzimuthal(ctx context.Context, id int) error {
	integ, ok := s.azimuthal.Get(id)
	if !ok {
		return errors.Errorf("no azimuthal integration %d", id)
	}

	s.mu.Lock()
	cal := s.calibration
	key := models.AzimuthalCacheKey(cal, integ.AzimuthRange)
	if _, hit := s.azCache.Get(key); hit && s.azResponse != nil {
		s.storeAzimuthal(id, key, s.azResponse)
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	if err := s.requireFetcher(); err != nil {
		return err
	}
	gen := s.beginFetch()
	resp, err := s.fetcher.FetchAzimuthal(ctx, cal, integ.AzimuthRange)
	if err != nil {
		s.log.Errorf("Failed to fetch azimuthal integration %d: %v", id, err)
		return errors.Wrapf(err, "fetching azimuthal integration %d", id)
	}
	s.noteStale("azimuthal", gen)

	s.mu.Lock()
	defer s.mu.Unlock()
	matrix := resp.Matrix(key)
	s.azCache.Put(&matrix)
	s.azResponse = resp
	if _, ok := s.azimuthal.Get(id); ok {
		s.storeAzimuthal(id, key, resp)
	}
	return nil
}

// storeAzimuthal records resp as the data of integration id. Callers hold mu.
func (s *Session) storeAzimuthal(id int, key string, resp *client.AzimuthalResponse) {
	left, right := resp.Data(id)
	s.azData[id] = AzimuthalResult{ID: id, Key: key, Left: left, Right: right}
}
