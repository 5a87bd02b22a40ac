// Package resolution builds the downsampled level-of-detail tiers of a pair
// of detector images and tracks which tier a zoomed viewport should display.
package resolution

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/floats"

	"saxslinecut/internal/models"
)

// TierParams controls tier construction
type TierParams struct {
	// MediumFactor and LowFactor are the block sizes of the medium and low tiers
	MediumFactor int
	LowFactor    int

	// NumCores bounds the goroutines used per downsample
	NumCores int
}

// DefaultTierParams returns factors 2 and 4 using all CPUs
func DefaultTierParams() TierParams {
	return TierParams{
		MediumFactor: 2,
		LowFactor:    4,
		NumCores:     runtime.NumCPU(),
	}
}

// Downsample block-averages img by factor. Output dimensions are
// ceil(rows/factor) x ceil(cols/factor); partial edge blocks average what
// they cover. NaN pixels are skipped, and a block with no finite pixel is NaN.
func Downsample(img models.Image, factor, numCores int) models.Image {
	if factor <= 1 {
		return img.Clone()
	}
	rows, cols := img.Rows(), img.Cols()
	outRows := (rows + factor - 1) / factor
	outCols := (cols + factor - 1) / factor
	out := make(models.Image, outRows)

	if numCores < 1 {
		numCores = 1
	}
	rowsPerCore := (outRows + numCores - 1) / numCores

	var wg sync.WaitGroup
	for c := 0; c < numCores; c++ {
		start := c * rowsPerCore
		end := start + rowsPerCore
		if end > outRows {
			end = outRows
		}
		if start >= end {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			block := make([]float64, 0, factor*factor)
			for or := start; or < end; or++ {
				out[or] = make([]float64, outCols)
				for oc := 0; oc < outCols; oc++ {
					block = block[:0]
					for r := or * factor; r < (or+1)*factor && r < rows; r++ {
						for c := oc * factor; c < (oc+1)*factor && c < len(img[r]); c++ {
							if v := img[r][c]; !math.IsNaN(v) {
								block = append(block, v)
							}
						}
					}
					if len(block) == 0 {
						out[or][oc] = math.NaN()
						continue
					}
					out[or][oc] = floats.Sum(block) / float64(len(block))
				}
			}
		}(start, end)
	}
	wg.Wait()
	return out
}

// BuildTiers downsamples both images into low, medium and full tiers and
// computes the difference array of each tier. The tiers are built
// concurrently.
func BuildTiers(a1, a2 models.Image, p TierParams) (*models.TierSet, error) {
	if !a1.SameShape(a2) {
		return nil, fmt.Errorf("images must be non-empty and share a shape, got %dx%d and %dx%d",
			a1.Rows(), a1.Cols(), a2.Rows(), a2.Cols())
	}
	if p.MediumFactor < 1 || p.LowFactor < 1 {
		return nil, fmt.Errorf("invalid tier factors medium=%d low=%d", p.MediumFactor, p.LowFactor)
	}

	type tierResult struct {
		resolution models.Resolution
		tier       models.ResolutionTier
	}
	factors := map[models.Resolution]int{
		models.ResolutionLow:    p.LowFactor,
		models.ResolutionMedium: p.MediumFactor,
		models.ResolutionFull:   1,
	}
	resultChan := make(chan tierResult, len(factors))

	for res, factor := range factors {
		go func(res models.Resolution, factor int) {
			d1 := Downsample(a1, factor, p.NumCores)
			d2 := Downsample(a2, factor, p.NumCores)
			resultChan <- tierResult{
				resolution: res,
				tier: models.ResolutionTier{
					Array1: d1,
					Array2: d2,
					Diff:   models.CalculateDifferenceArray(d1, d2),
					Factor: factor,
				},
			}
		}(res, factor)
	}

	set := &models.TierSet{}
	for range factors {
		res := <-resultChan
		switch res.resolution {
		case models.ResolutionLow:
			set.Low = res.tier
		case models.ResolutionMedium:
			set.Medium = res.tier
		default:
			set.Full = res.tier
		}
	}
	return set, nil
}
