package collection

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saxslinecut/internal/models"
)

func ids[T Item[T]](items []T) []int {
	out := make([]int, len(items))
	for i, item := range items {
		out[i] = item.GetID()
	}
	return out
}

func TestManager_AddAssignsDenseIDsAndColors(t *testing.T) {
	t.Parallel()

	palette := Palette{{Left: "red", Right: "pink"}, {Left: "blue", Right: "cyan"}}
	m := NewManager[models.Linecut](palette)

	for i := 0; i < 3; i++ {
		m.Add(models.Linecut{Position: float64(i), Type: models.HorizontalType})
	}
	items := m.Items()
	require.Len(t, items, 3)
	assert.Equal(t, []int{1, 2, 3}, ids(items))
	assert.Equal(t, "red", items[0].LeftColor)
	assert.Equal(t, "cyan", items[1].RightColor)
	// (3-1) mod 2 wraps back to the first pair
	assert.Equal(t, "red", items[2].LeftColor)
}

func TestManager_DeleteRenumbers(t *testing.T) {
	t.Parallel()

	m := NewManager[models.Linecut](nil)
	for i := 1; i <= 4; i++ {
		m.Add(models.Linecut{Position: float64(i * 10)})
	}

	require.True(t, m.Delete(2))
	items := m.Items()
	assert.Equal(t, []int{1, 2, 3}, ids(items))
	positions := []float64{items[0].Position, items[1].Position, items[2].Position}
	assert.Equal(t, []float64{10, 30, 40}, positions)

	assert.False(t, m.Delete(7))

	// Next ID follows the renumbered maximum
	added := m.Add(models.Linecut{Position: 50})
	assert.Equal(t, 4, added.ID)
}

func TestManager_UpdateKeepsID(t *testing.T) {
	t.Parallel()

	m := NewManager[models.InclinedLinecut](nil)
	m.Add(NewInclinedLinecut(100, 80))

	updated, ok := m.Update(1, func(l models.InclinedLinecut) models.InclinedLinecut {
		l.Angle = 45
		l.Width = 3
		l.ID = 99
		return l
	})
	require.True(t, ok)
	assert.Equal(t, 1, updated.ID)
	assert.Equal(t, 45.0, updated.Angle)

	got, ok := m.Get(1)
	require.True(t, ok)
	if diff := cmp.Diff(updated, got); diff != "" {
		t.Errorf("stored item mismatch (-want +got):\n%s", diff)
	}

	_, ok = m.Update(5, func(l models.InclinedLinecut) models.InclinedLinecut { return l })
	assert.False(t, ok)
}

func TestManager_ToggleAndRecolor(t *testing.T) {
	t.Parallel()

	m := NewManager[models.AzimuthalIntegration](nil)
	m.Add(NewAzimuthalIntegration())
	m.Add(NewAzimuthalIntegration())

	toggled, ok := m.ToggleVisibility(1)
	require.True(t, ok)
	assert.True(t, toggled.Hidden)
	assert.Equal(t, []int{2}, ids(m.Visible()))

	toggled, _ = m.ToggleVisibility(1)
	assert.False(t, toggled.Hidden)
	assert.Len(t, m.Visible(), 2)

	recolored, ok := m.SetColors(2, "black", "white")
	require.True(t, ok)
	assert.Equal(t, "black", recolored.LeftColor)
	assert.Equal(t, "white", recolored.RightColor)
}

func TestManager_ItemsIsACopy(t *testing.T) {
	t.Parallel()

	m := NewManager[models.Linecut](nil)
	m.Add(models.Linecut{Position: 1})
	items := m.Items()
	items[0].Position = 42

	got, _ := m.Get(1)
	assert.Equal(t, 1.0, got.Position)

	m.Clear()
	assert.Equal(t, 0, m.Len())
}

func TestPalette_ColorFor(t *testing.T) {
	t.Parallel()

	p := DefaultPalette()
	assert.Equal(t, p[0], p.ColorFor(1))
	assert.Equal(t, p[len(p)-1], p.ColorFor(len(p)))
	assert.Equal(t, p[0], p.ColorFor(len(p)+1))
	assert.Equal(t, p[len(p)-1], p.ColorFor(0))
	assert.Equal(t, ColorPair{}, Palette(nil).ColorFor(3))
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	lc := NewLinecut(models.VerticalType, []float64{-0.2, 0, 0.6}, 3)
	assert.InDelta(t, 0.2, lc.Position, 1e-12)
	assert.Equal(t, models.VerticalType, lc.Type)

	lc = NewLinecut(models.HorizontalType, nil, 101)
	assert.Equal(t, 50.0, lc.Position)

	inc := NewInclinedLinecut(200, 100)
	assert.Equal(t, 100.0, inc.XPosition)
	assert.Equal(t, 50.0, inc.YPosition)
	assert.Equal(t, models.InclinedType, inc.Type)

	az := NewAzimuthalIntegration()
	assert.Nil(t, az.QRange)
	assert.Equal(t, [2]float64{-180, 180}, az.AzimuthRange)
}
