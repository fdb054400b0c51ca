package scoring

import (
	"math"

	"github.com/veridia-labs/veracity/internal/forensics"
)

// Normalize maps one measured value to its anomaly contribution: the
// one-sided z-score against the baseline, unbounded above. Deviations toward
// the authentic side contribute zero.
func Normalize(key forensics.FeatureKey, value float64) float64 {
	b, ok := Baselines[key]
	if !ok {
		return 0
	}
	std := math.Max(b.Std, 1e-6)
	z := (value - b.Mean) / std
	if !b.HigherSuspicious {
		z = -z
	}
	return math.Max(0, z)
}

// ComputeEnsembleScore folds the measured slots into a weighted raw anomaly
// score, zero or above. Unmeasured slots are excluded and the weights
// renormalized over the measured subset, so partial coverage is not
// penalized. An empty vector scores zero. Extreme slot deviations pass
// through uncapped; the calibration sigmoid is what bounds the final
// probability.
func ComputeEnsembleScore(fv *forensics.FeatureVector) float64 {
	if fv == nil {
		return 0
	}
	var weighted, totalWeight float64
	for _, key := range forensics.FeatureKeys {
		v, ok := fv.Get(key)
		if !ok {
			continue
		}
		b := Baselines[key]
		weighted += b.Weight * Normalize(key, v)
		totalWeight += b.Weight
	}
	if totalWeight == 0 {
		return 0
	}
	return weighted / totalWeight
}

// Calibrator maps a raw ensemble score to a probability via Platt scaling.
// The coefficients were fit on held-out labeled media and are replaceable
// through the tuning config without touching the ensemble.
type Calibrator struct {
	A float64
	B float64
}

// PlattScale returns sigmoid(A*score + B), the calibrated manipulation
// probability. The exponent is clamped to keep the sigmoid finite.
func (c Calibrator) PlattScale(score float64) float64 {
	x := c.A*score + c.B
	if x > 20 {
		x = 20
	} else if x < -20 {
		x = -20
	}
	return 1 / (1 + math.Exp(-x))
}
