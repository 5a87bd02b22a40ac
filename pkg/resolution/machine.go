package resolution

import (
	"math"
	"sync"

	"saxslinecut/internal/models"
)

// Thresholds select a tier from the zoomed extent, in percent of the full
// image. A ratio at or above Low selects the low tier, at or above Medium the
// medium tier, and anything smaller the full tier.
type Thresholds struct {
	Low    float64 `yaml:"lowThresholdPercent"`
	Medium float64 `yaml:"mediumThresholdPercent"`
}

// DefaultThresholds returns 50% and 20%
func DefaultThresholds() Thresholds {
	return Thresholds{Low: 50, Medium: 20}
}

// Select returns the tier for a viewport covering ratio percent of the image
func (t Thresholds) Select(ratio float64) models.Resolution {
	switch {
	case ratio >= t.Low:
		return models.ResolutionLow
	case ratio >= t.Medium:
		return models.ResolutionMedium
	default:
		return models.ResolutionFull
	}
}

// Padding is the display margin added around the y axis on reset, in pixels
type Padding struct {
	Top    float64 `yaml:"axisTopPadding"`
	Bottom float64 `yaml:"axisBottomPadding"`
}

// AxisRange is a displayed viewport in the active tier's pixel units.
// Y is stored as given, so the inverted detector convention (row 0 at top)
// survives a round trip.
type AxisRange struct {
	X [2]float64
	Y [2]float64
}

// PixelRange is a zoomed region in full-resolution pixels, end exclusive
type PixelRange struct {
	X0, X1 int
	Y0, Y1 int
}

// RelayoutEvent is a viewport change. Autorange resets the view; otherwise
// X and Y carry the new axis ranges, and a missing axis keeps its range.
type RelayoutEvent struct {
	Autorange bool
	X         *[2]float64
	Y         *[2]float64
}

// Transition describes the outcome of a relayout
type Transition struct {
	From, To models.Resolution

	// TierChanged is true when the arrays on display must be swapped for Tier
	TierChanged bool
	Tier        models.ResolutionTier

	Axis  AxisRange
	Zoom  *PixelRange
	Reset bool

	// WidthRatio and HeightRatio are percentages of the full image
	WidthRatio  float64
	HeightRatio float64
}

// Machine tracks the active tier, the displayed axes and the zoomed pixel range
type Machine struct {
	mu sync.Mutex

	tiers      *models.TierSet
	current    models.Resolution
	axis       AxisRange
	zoom       *PixelRange
	thresholds Thresholds
	padding    Padding
}

// NewMachine creates a machine showing the low tier of tiers
func NewMachine(tiers *models.TierSet, thresholds Thresholds, padding Padding) *Machine {
	m := &Machine{
		thresholds: thresholds,
		padding:    padding,
	}
	m.SetTiers(tiers)
	return m
}

// SetTiers replaces the tier set and resets the view
func (m *Machine) SetTiers(tiers *models.TierSet) Transition {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tiers = tiers
	return m.reset()
}

// Current returns the active tier level
func (m *Machine) Current() models.Resolution {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Axis returns the displayed axis ranges
func (m *Machine) Axis() AxisRange {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.axis
}

// Zoom returns a copy of the zoomed full-resolution pixel range, or nil when
// the view is not zoomed
func (m *Machine) Zoom() *PixelRange {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.zoom == nil {
		return nil
	}
	z := *m.zoom
	return &z
}

// ActiveTier returns the arrays of the active tier
func (m *Machine) ActiveTier() models.ResolutionTier {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tiers == nil {
		return models.ResolutionTier{}
	}
	return m.tiers.Tier(m.current)
}

// Relayout applies a viewport event. A zoom or pan that keeps the tier only
// updates the axis range; a tier switch rescales the range by
// oldFactor/newFactor so the same region stays in view.
func (m *Machine) Relayout(ev RelayoutEvent) Transition {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ev.Autorange || m.tiers == nil {
		return m.reset()
	}
	if ev.X == nil && ev.Y == nil {
		return Transition{From: m.current, To: m.current, Axis: m.axis, Zoom: copyRange(m.zoom)}
	}

	axis := m.axis
	if ev.X != nil {
		axis.X = *ev.X
	}
	if ev.Y != nil {
		axis.Y = *ev.Y
	}

	old := m.tiers.Tier(m.current)
	oldFactor := factorOf(old)
	full := m.tiers.Full
	fullW, fullH := full.Array1.Cols(), full.Array1.Rows()

	zoom := &PixelRange{
		X0: clampIndex(int(math.Floor(math.Min(axis.X[0], axis.X[1])*float64(oldFactor))), fullW),
		X1: clampIndex(int(math.Ceil(math.Max(axis.X[0], axis.X[1])*float64(oldFactor))), fullW),
		Y0: clampIndex(int(math.Floor(math.Min(axis.Y[0], axis.Y[1])*float64(oldFactor))), fullH),
		Y1: clampIndex(int(math.Ceil(math.Max(axis.Y[0], axis.Y[1])*float64(oldFactor))), fullH),
	}

	widthRatio := percent(zoom.X1-zoom.X0, fullW)
	heightRatio := percent(zoom.Y1-zoom.Y0, fullH)
	next := m.thresholds.Select(math.Max(widthRatio, heightRatio))

	t := Transition{
		From:        m.current,
		To:          next,
		Zoom:        copyRange(zoom),
		WidthRatio:  widthRatio,
		HeightRatio: heightRatio,
	}

	if next != m.current {
		tier := m.tiers.Tier(next)
		scale := float64(oldFactor) / float64(factorOf(tier))
		axis.X = [2]float64{axis.X[0] * scale, axis.X[1] * scale}
		axis.Y = [2]float64{axis.Y[0] * scale, axis.Y[1] * scale}
		t.TierChanged = true
		t.Tier = tier
		m.current = next
	}

	m.axis = axis
	m.zoom = zoom
	t.Axis = axis
	return t
}

func (m *Machine) reset() Transition {
	from := m.current
	m.current = models.ResolutionLow
	m.zoom = nil

	var tier models.ResolutionTier
	if m.tiers != nil {
		tier = m.tiers.Low
	}
	w, h := float64(tier.Array1.Cols()), float64(tier.Array1.Rows())
	m.axis = AxisRange{
		X: [2]float64{0, w},
		Y: [2]float64{h + m.padding.Top, -m.padding.Bottom},
	}
	return Transition{
		From:        from,
		To:          models.ResolutionLow,
		TierChanged: true,
		Tier:        tier,
		Axis:        m.axis,
		Reset:       true,
	}
}

func factorOf(t models.ResolutionTier) int {
	if t.Factor < 1 {
		return 1
	}
	return t.Factor
}

func percent(span, extent int) float64 {
	if extent <= 0 {
		return 100
	}
	return float64(span) / float64(extent) * 100
}

func clampIndex(v, extent int) int {
	if v < 0 {
		return 0
	}
	if v > extent {
		return extent
	}
	return v
}

func copyRange(r *PixelRange) *PixelRange {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}
