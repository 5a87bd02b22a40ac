package models

// Resolution names a level-of-detail tier
type Resolution string

const (
	ResolutionLow    Resolution = "low"
	ResolutionMedium Resolution = "medium"
	ResolutionFull   Resolution = "full"
)

// ResolutionTier holds one downsampled copy of the compared images.
// Diff is Array1 - Array2 and all three share the same dimensions.
type ResolutionTier struct {
	Array1 Image
	Array2 Image
	Diff   Image

	// Factor is the downsampling ratio relative to full resolution
	Factor int
}

// TierSet holds all tiers; it is replaced wholesale, never mutated in place
type TierSet struct {
	Low    ResolutionTier
	Medium ResolutionTier
	Full   ResolutionTier
}

// Tier returns the tier for a resolution level
func (t *TierSet) Tier(r Resolution) ResolutionTier {
	switch r {
	case ResolutionLow:
		return t.Low
	case ResolutionMedium:
		return t.Medium
	default:
		return t.Full
	}
}
