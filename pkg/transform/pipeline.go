package transform

import (
	"saxslinecut/internal/models"
)

// Apply runs the log, percentile-clip and normalisation stages over a pair of
// images and returns new arrays; the inputs are never modified. img2 may be
// nil, in which case only img1 is transformed and the second result is nil.
//
// In ModeTogether the percentile bounds and normalisation statistics are
// computed over both images at once; in ModeIndividual each image uses its
// own. No NaN survives into the output.
func Apply(img1, img2 models.Image, s Settings) (models.Image, models.Image) {
	a, b := img1, img2
	hasSecond := img2 != nil

	if s.LogScale {
		a = LogScale(a)
		if hasSecond {
			b = LogScale(b)
		}
	}

	if s.ClipsPercentiles() {
		a, b = clipPair(a, b, hasSecond, s)
	} else {
		a = ReplaceNaN(a)
		if hasSecond {
			b = ReplaceNaN(b)
		}
	}

	a, b = normalizePair(a, b, hasSecond, s)
	if !hasSecond {
		b = nil
	}
	return a, b
}

// ApplySingle transforms one image on its own
func ApplySingle(img models.Image, s Settings) models.Image {
	out, _ := Apply(img, nil, s)
	return out
}

func clipPair(a, b models.Image, hasSecond bool, s Settings) (models.Image, models.Image) {
	clipOne := func(img models.Image, lo, hi float64, ok bool) models.Image {
		if !ok {
			return img.Clone()
		}
		return ClipImage(img, lo, hi)
	}

	if s.Mode == ModeTogether && hasSecond {
		lo, hi, ok := PercentileBounds(s.LowerPercentile, s.UpperPercentile, a, b)
		return clipOne(a, lo, hi, ok), clipOne(b, lo, hi, ok)
	}

	lo, hi, ok := PercentileBounds(s.LowerPercentile, s.UpperPercentile, a)
	a = clipOne(a, lo, hi, ok)
	if hasSecond {
		lo, hi, ok = PercentileBounds(s.LowerPercentile, s.UpperPercentile, b)
		b = clipOne(b, lo, hi, ok)
	}
	return a, b
}

func normalizePair(a, b models.Image, hasSecond bool, s Settings) (models.Image, models.Image) {
	together := s.Mode == ModeTogether && hasSecond

	switch s.Normalization {
	case NormalizationMinMax:
		if together {
			lo, hi, _ := MinMax(a, b)
			return NormalizeMinMax(a, lo, hi), NormalizeMinMax(b, lo, hi)
		}
		lo, hi, _ := MinMax(a)
		a = NormalizeMinMax(a, lo, hi)
		if hasSecond {
			lo, hi, _ = MinMax(b)
			b = NormalizeMinMax(b, lo, hi)
		}
		return a, b

	case NormalizationMean:
		if together {
			mean, std, _ := MeanStd(a, b)
			return NormalizeMeanStd(a, mean, std), NormalizeMeanStd(b, mean, std)
		}
		mean, std, _ := MeanStd(a)
		a = NormalizeMeanStd(a, mean, std)
		if hasSecond {
			mean, std, _ = MeanStd(b)
			b = NormalizeMeanStd(b, mean, std)
		}
		return a, b

	default:
		a = ReplaceNaN(a)
		if hasSecond {
			b = ReplaceNaN(b)
		}
		return a, b
	}
}
