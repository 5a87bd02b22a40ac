package models

// LinecutType identifies the linecut family
type LinecutType string

const (
	HorizontalType LinecutType = "horizontal"
	VerticalType   LinecutType = "vertical"
	InclinedType   LinecutType = "inclined"
	AzimuthalType  LinecutType = "azimuthal"
)

// Linecut is a horizontal or vertical linecut definition.
// IDs are 1-based and kept dense by the owning collection.
type Linecut struct {
	ID int

	// Position is in q-units when q-vectors are available, pixel units otherwise
	Position float64

	// PixelPosition caches the pixel index resolved from Position (nil = not resolved)
	PixelPosition *float64

	// Width is the full averaging width in q-units (>= 0)
	Width float64

	// LeftColor and RightColor are CSS colors for the two compared images
	LeftColor  string
	RightColor string

	Hidden bool
	Type   LinecutType
}

func (l Linecut) GetID() int                         { return l.ID }
func (l Linecut) IsHidden() bool                     { return l.Hidden }
func (l Linecut) WithID(id int) Linecut              { l.ID = id; return l }
func (l Linecut) WithHidden(hidden bool) Linecut     { l.Hidden = hidden; return l }
func (l Linecut) WithColors(left, right string) Linecut {
	l.LeftColor, l.RightColor = left, right
	return l
}

// InclinedLinecut is a line through an arbitrary pixel-space centre at an angle
type InclinedLinecut struct {
	ID int

	// XPosition and YPosition are the pixel-space centre of the line
	XPosition float64
	YPosition float64

	// Angle in degrees, normalised to [-180, 180)
	Angle float64

	// Width is the perpendicular averaging width
	Width float64

	LeftColor  string
	RightColor string
	Hidden     bool
	Type       LinecutType
}

func (l InclinedLinecut) GetID() int                             { return l.ID }
func (l InclinedLinecut) IsHidden() bool                         { return l.Hidden }
func (l InclinedLinecut) WithID(id int) InclinedLinecut          { l.ID = id; return l }
func (l InclinedLinecut) WithHidden(hidden bool) InclinedLinecut { l.Hidden = hidden; return l }
func (l InclinedLinecut) WithColors(left, right string) InclinedLinecut {
	l.LeftColor, l.RightColor = left, right
	return l
}
