package forensics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/veridia-labs/veracity/internal/spectral"
)

// Frequency metric thresholds. Tuned against the calibration corpus; the
// signal triggers encode known generator signatures.
const (
	// Natural-image baseline for magnitude-spectrum variance.
	spectralVarianceBaseline = 3.2

	// Low-frequency disk radius as a fraction of the max radius.
	lowFreqRadiusFraction = 0.3

	// HFER below this suggests generator high-frequency suppression.
	hferTrigger  = 0.15
	hferEscalate = 0.08

	// SVD above this is a spectral distribution anomaly.
	svdTrigger  = 0.5
	svdEscalate = 1.0

	// GAN fingerprint radial profile analysis.
	radialBinCap     = 200
	peakScoreTrigger = 0.2
)

// FrequencyMetrics is the output of the frequency-domain extractor.
type FrequencyMetrics struct {
	HFER         float64
	SVD          float64
	SpectralPeak float64
	Signals      []Signal
}

// ComputeFrequencyMetrics computes HFER, SVD, and the GAN spectral
// fingerprint score from a single image. maxSpectrum caps the transform grid
// side (power of two).
func ComputeFrequencyMetrics(img *Image, maxSpectrum int) FrequencyMetrics {
	var out FrequencyMetrics
	if img == nil || img.Width == 0 || img.Height == 0 {
		out.HFER = 0.5 // neutral
		return out
	}

	mag := spectral.Spectrum(img.Gray(), maxSpectrum)
	n := len(mag)
	cy, cx := n/2, n/2
	maxRadius := math.Sqrt(float64(cy*cy + cx*cx))
	hfThreshold := maxRadius * lowFreqRadiusFraction

	var totalEnergy, highEnergy float64
	flat := make([]float64, 0, n*n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			m := mag[y][x]
			e := m * m
			totalEnergy += e
			dy := float64(y - cy)
			dx := float64(x - cx)
			if math.Sqrt(dy*dy+dx*dx) > hfThreshold {
				highEnergy += e
			}
			flat = append(flat, m)
		}
	}

	if totalEnergy > 0 {
		out.HFER = highEnergy / totalEnergy
	} else {
		out.HFER = 0.5 // degenerate all-zero spectrum, treat as neutral
	}

	variance := stat.Variance(flat, nil)
	out.SVD = math.Abs(variance-spectralVarianceBaseline) / spectralVarianceBaseline

	peakScore, nPeaks, peakRatio := spectralPeakScore(mag, cy, cx, maxRadius)
	out.SpectralPeak = peakScore

	if out.HFER < hferTrigger {
		sev := SeverityHarmful
		if out.HFER < hferEscalate {
			sev = SeverityHighRisk
		}
		out.Signals = append(out.Signals, Signal{
			ID:         "freq-hfer-low",
			Name:       "Suppressed High-Frequency Energy",
			Category:   CategoryVisual,
			Confidence: math.Min(0.95, 0.6+(hferTrigger-out.HFER)*3),
			Description: fmt.Sprintf(
				"High-frequency energy ratio is %.1f%%, well below the natural baseline. "+
					"GAN-generated images typically show suppressed high-frequency noise.",
				out.HFER*100),
			Severity:    sev,
			MetricValue: metricPtr(out.HFER),
		})
	}

	if out.SVD > svdTrigger {
		sev := SeveritySuspicious
		if out.SVD > svdEscalate {
			sev = SeverityHighRisk
		}
		out.Signals = append(out.Signals, Signal{
			ID:         "freq-svd-high",
			Name:       "Spectral Variance Anomaly",
			Category:   CategoryVisual,
			Confidence: math.Min(0.9, 0.5+out.SVD*0.3),
			Description: fmt.Sprintf(
				"Spectral variance deviates %.0f%% from the natural image baseline. "+
					"Synthetic images show abnormal spectral distribution.",
				out.SVD*100),
			Severity:    sev,
			MetricValue: metricPtr(out.SVD),
		})
	}

	if peakScore > peakScoreTrigger {
		sev := SeverityHarmful
		if peakScore > 0.6 {
			sev = SeverityHighRisk
		}
		out.Signals = append(out.Signals, Signal{
			ID:         "freq-gan-spectral-fingerprint",
			Name:       "GAN Spectral Fingerprint",
			Category:   CategoryVisual,
			Confidence: math.Min(0.93, peakScore+0.1),
			Description: fmt.Sprintf(
				"Detected %d periodic peaks in the FFT radial profile (peak ratio %.3f). "+
					"GAN architectures leave characteristic periodic artifacts in the frequency domain.",
				nPeaks, peakRatio),
			Severity:    sev,
			MetricValue: metricPtr(peakScore),
		})
	}

	return out
}

// spectralPeakScore looks for periodic peaks in the radial average of the
// magnitude spectrum. Upsampling-based generators leave regularly spaced
// ridges that natural images lack.
func spectralPeakScore(mag [][]float64, cy, cx int, maxRadius float64) (score float64, nPeaks int, peakRatio float64) {
	bins := int(maxRadius)
	if bins > radialBinCap {
		bins = radialBinCap
	}
	if bins <= 10 {
		return 0, 0, 0
	}

	profile := make([]float64, bins)
	counts := make([]float64, bins)
	n := len(mag)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			dy := float64(y - cy)
			dx := float64(x - cx)
			r := int(math.Sqrt(dy*dy + dx*dx))
			if r < bins {
				profile[r] += mag[y][x]
				counts[r]++
			}
		}
	}
	for i := range profile {
		if counts[i] > 0 {
			profile[i] /= counts[i]
		}
	}

	// Residual against a moving-average smoothed profile (window 5).
	const window = 5
	residual := make([]float64, bins)
	for i := range profile {
		lo := i - window/2
		hi := i + window/2
		if lo < 0 {
			lo = 0
		}
		if hi >= bins {
			hi = bins - 1
		}
		var sum float64
		for j := lo; j <= hi; j++ {
			sum += profile[j]
		}
		residual[i] = math.Abs(profile[i] - sum/float64(hi-lo+1))
	}

	resMean := stat.Mean(residual, nil)
	resStd := stat.StdDev(residual, nil)
	if resStd < 1e-6 || math.IsNaN(resStd) {
		return 0, 0, 0
	}

	peakThreshold := resMean + 2*resStd
	var peakEnergy, totalEnergy float64
	for _, r := range residual {
		totalEnergy += r
		if r > peakThreshold {
			nPeaks++
			peakEnergy += r
		}
	}
	peakRatio = peakEnergy / math.Max(totalEnergy, 1e-10)

	switch {
	case nPeaks >= 5 && peakRatio > 0.3:
		score = math.Min(1.0, peakRatio*1.2)
	case nPeaks >= 3 && peakRatio > 0.2:
		score = math.Min(0.7, peakRatio*0.8)
	case nPeaks >= 2 && peakRatio > 0.15:
		score = math.Min(0.4, peakRatio*0.5)
	}
	return score, nPeaks, peakRatio
}
