package session

import (
	"fmt"

	"github.com/pkg/errors"

	"saxslinecut/internal/models"
	"saxslinecut/pkg/collection"
	"saxslinecut/pkg/linecut"
)

type profileKey struct {
	Type models.LinecutType
	ID   int
}

// LinecutProfiles is a horizontal or vertical linecut sampled from both images
type LinecutProfiles struct {
	ID    int
	Left  linecut.Profile
	Right linecut.Profile
}

// InclinedProfiles is an inclined linecut sampled from both images
type InclinedProfiles struct {
	ID    int
	Left  linecut.InclinedProfile
	Right linecut.InclinedProfile
}

func (s *Session) manager(t models.LinecutType) (*collection.Manager[models.Linecut], error) {
	switch t {
	case models.HorizontalType:
		return s.horizontal, nil
	case models.VerticalType:
		return s.vertical, nil
	default:
		return nil, errors.Errorf("linecut type %q is not horizontal or vertical", t)
	}
}

func throttleKey(t models.LinecutType, id int) string {
	return fmt.Sprintf("%s-%d", t, id)
}

// AddLinecut adds a horizontal or vertical linecut at the middle of the
// q-range and samples it
func (s *Session) AddLinecut(t models.LinecutType) (models.Linecut, error) {
	m, err := s.manager(t)
	if err != nil {
		return models.Linecut{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	qVector, extent := s.qVectors.QY, s.sampled1.Rows()
	if t == models.VerticalType {
		qVector, extent = s.qVectors.QX, s.sampled1.Cols()
	}
	lc := m.Add(collection.NewLinecut(t, qVector, extent))
	s.recomputeLinecut(t, lc.ID)
	return lc, nil
}

// UpdateLinecut schedules fn to be applied to a linecut. Updates to one
// linecut are throttled: within an interval only the last submitted fn is
// applied, at the end of the interval, followed by resampling. It reports
// false when the linecut does not exist at submission.
func (s *Session) UpdateLinecut(t models.LinecutType, id int, fn func(models.Linecut) models.Linecut) bool {
	m, err := s.manager(t)
	if err != nil {
		return false
	}
	if _, ok := m.Get(id); !ok {
		return false
	}
	return s.throttle.Submit(throttleKey(t, id), func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := m.Update(id, fn); ok {
			s.recomputeLinecut(t, id)
		}
	})
}

// DeleteLinecut removes a linecut and renumbers the rest. Pending updates
// are applied first so none lands on a renumbered linecut.
func (s *Session) DeleteLinecut(t models.LinecutType, id int) bool {
	m, err := s.manager(t)
	if err != nil {
		return false
	}
	s.throttle.Flush()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !m.Delete(id) {
		return false
	}
	s.recomputeFamily(t)
	return true
}

// ToggleLinecut flips a linecut's visibility
func (s *Session) ToggleLinecut(t models.LinecutType, id int) (models.Linecut, bool) {
	m, err := s.manager(t)
	if err != nil {
		return models.Linecut{}, false
	}
	return m.ToggleVisibility(id)
}

// Linecuts returns a copy of one family's linecuts
func (s *Session) Linecuts(t models.LinecutType) []models.Linecut {
	m, err := s.manager(t)
	if err != nil {
		return nil
	}
	return m.Items()
}

// Profiles returns the sampled profiles of one family's visible linecuts
func (s *Session) Profiles(t models.LinecutType) []LinecutProfiles {
	m, err := s.manager(t)
	if err != nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []LinecutProfiles
	for _, lc := range m.Visible() {
		if p, ok := s.profiles[profileKey{Type: t, ID: lc.ID}]; ok {
			out = append(out, p)
		}
	}
	return out
}

// AddInclined adds a zero-angle inclined linecut through the image centre
func (s *Session) AddInclined() models.InclinedLinecut {
	s.mu.Lock()
	defer s.mu.Unlock()
	lc := s.inclined.Add(collection.NewInclinedLinecut(s.sampled1.Cols(), s.sampled1.Rows()))
	s.recomputeInclined(lc.ID)
	return lc
}

// UpdateInclined schedules a throttled update of an inclined linecut. The
// angle is normalised to [-180, 180) when applied.
func (s *Session) UpdateInclined(id int, fn func(models.InclinedLinecut) models.InclinedLinecut) bool {
	if _, ok := s.inclined.Get(id); !ok {
		return false
	}
	return s.throttle.Submit(throttleKey(models.InclinedType, id), func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		_, ok := s.inclined.Update(id, func(lc models.InclinedLinecut) models.InclinedLinecut {
			lc = fn(lc)
			lc.Angle = linecut.NormalizeAngle(lc.Angle)
			return lc
		})
		if ok {
			s.recomputeInclined(id)
		}
	})
}

// DeleteInclined removes an inclined linecut and renumbers the rest
func (s *Session) DeleteInclined(id int) bool {
	s.throttle.Flush()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.inclined.Delete(id) {
		return false
	}
	s.inclinedProfiles = make(map[int]InclinedProfiles)
	for _, lc := range s.inclined.Items() {
		s.recomputeInclined(lc.ID)
	}
	return true
}

// ToggleInclined flips an inclined linecut's visibility
func (s *Session) ToggleInclined(id int) (models.InclinedLinecut, bool) {
	return s.inclined.ToggleVisibility(id)
}

// InclinedLinecuts returns a copy of the inclined linecuts
func (s *Session) InclinedLinecuts() []models.InclinedLinecut {
	return s.inclined.Items()
}

// InclinedProfiles returns the sampled profiles of visible inclined linecuts
func (s *Session) InclinedProfiles() []InclinedProfiles {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []InclinedProfiles
	for _, lc := range s.inclined.Visible() {
		if p, ok := s.inclinedProfiles[lc.ID]; ok {
			out = append(out, p)
		}
	}
	return out
}

// recomputeAll resamples every linecut. Callers hold mu.
func (s *Session) recomputeAll() {
	s.recomputeFamily(models.HorizontalType)
	s.recomputeFamily(models.VerticalType)
	s.inclinedProfiles = make(map[int]InclinedProfiles)
	for _, lc := range s.inclined.Items() {
		s.recomputeInclined(lc.ID)
	}
}

func (s *Session) recomputeFamily(t models.LinecutType) {
	m, _ := s.manager(t)
	for key := range s.profiles {
		if key.Type == t {
			delete(s.profiles, key)
		}
	}
	for _, lc := range m.Items() {
		s.recomputeLinecut(t, lc.ID)
	}
}

func (s *Session) recomputeLinecut(t models.LinecutType, id int) {
	m, _ := s.manager(t)
	lc, ok := m.Get(id)
	if !ok || s.sampled1 == nil {
		return
	}

	pos, _ := linecut.Resolve(lc, s.qVectors)
	m.Update(id, func(l models.Linecut) models.Linecut {
		l.PixelPosition = &pos
		return l
	})
	s.profiles[profileKey{Type: t, ID: id}] = LinecutProfiles{
		ID:    id,
		Left:  linecut.SampleLinecut(s.sampled1, lc, s.qVectors),
		Right: linecut.SampleLinecut(s.sampled2, lc, s.qVectors),
	}
}

func (s *Session) recomputeInclined(id int) {
	lc, ok := s.inclined.Get(id)
	if !ok || s.sampled1 == nil {
		return
	}
	s.inclinedProfiles[id] = InclinedProfiles{
		ID:    id,
		Left:  linecut.SampleInclinedProfile(s.sampled1, lc, s.qVectors, s.calibration),
		Right: linecut.SampleInclinedProfile(s.sampled2, lc, s.qVectors, s.calibration),
	}
}
