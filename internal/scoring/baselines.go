// Package scoring combines extractor metrics into a calibrated manipulation
// probability: a weighted ensemble over baseline-normalized features, Platt
// scaling, risk classification, and a human-readable explanation.
package scoring

import "github.com/veridia-labs/veracity/internal/forensics"

// Baseline holds the authentic-media reference distribution for one feature
// slot, with its ensemble weight and suspicion direction.
type Baseline struct {
	Mean   float64
	Std    float64
	Weight float64

	// HigherSuspicious is true when values above the mean indicate
	// manipulation; false when suspicion grows below the mean.
	HigherSuspicious bool
}

// Baselines maps every feature slot to its reference distribution. Means and
// deviations come from the authentic calibration corpus.
var Baselines = map[forensics.FeatureKey]Baseline{
	forensics.FeatHFER:         {Mean: 0.25, Std: 0.08, Weight: 0.10, HigherSuspicious: false},
	forensics.FeatSVD:          {Mean: 0.15, Std: 0.12, Weight: 0.08, HigherSuspicious: true},
	forensics.FeatPDI:          {Mean: 0.008, Std: 0.005, Weight: 0.08, HigherSuspicious: true},
	forensics.FeatTIIS:         {Mean: 0.02, Std: 0.015, Weight: 0.10, HigherSuspicious: true},
	forensics.FeatFAV:          {Mean: 0.1, Std: 0.15, Weight: 0.08, HigherSuspicious: true},
	forensics.FeatETK:          {Mean: 3.0, Std: 2.0, Weight: 0.06, HigherSuspicious: true},
	forensics.FeatPVSS:         {Mean: 50.0, Std: 30.0, Weight: 0.06, HigherSuspicious: false},
	forensics.FeatFRD:          {Mean: 0.15, Std: 0.1, Weight: 0.06, HigherSuspicious: true},
	forensics.FeatNoise:        {Mean: 0.1, Std: 0.15, Weight: 0.10, HigherSuspicious: true},
	forensics.FeatSpectralPeak: {Mean: 0.05, Std: 0.10, Weight: 0.08, HigherSuspicious: true},
	forensics.FeatMetadata:     {Mean: 0.0, Std: 0.3, Weight: 0.07, HigherSuspicious: true},
}
