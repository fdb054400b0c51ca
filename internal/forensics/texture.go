package forensics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Texture drift thresholds.
const (
	pdiTrigger  = 0.02
	pdiEscalate = 0.05

	histBins    = 16
	histBinsRGB = histBins * 3

	// Patches smaller than this carry too few pixels for a stable histogram.
	minPatchSide = 4
)

// TextureMetrics is the output of the patch-drift extractor.
type TextureMetrics struct {
	PDI     float64
	Signals []Signal
}

// ComputeTextureMetrics partitions the image into a gridSize x gridSize patch
// grid, builds a normalized 48-bin color histogram per patch, and reports the
// variance of cosine similarity between adjacent patches. Locally
// inconsistent texture (compositing, splicing, per-region generation) raises
// the variance.
func ComputeTextureMetrics(img *Image, gridSize int) TextureMetrics {
	var out TextureMetrics
	if img == nil || gridSize < 2 {
		return out
	}
	patchH := img.Height / gridSize
	patchW := img.Width / gridSize
	if patchH < minPatchSide || patchW < minPatchSide {
		return out
	}

	hists := make([][histBinsRGB]float64, gridSize*gridSize)
	for gy := 0; gy < gridSize; gy++ {
		for gx := 0; gx < gridSize; gx++ {
			hists[gy*gridSize+gx] = colorHistogram(img, gx*patchW, gy*patchH, patchW, patchH)
		}
	}

	var sims []float64
	for gy := 0; gy < gridSize; gy++ {
		for gx := 0; gx < gridSize; gx++ {
			idx := gy*gridSize + gx
			if gx+1 < gridSize {
				sims = append(sims, cosineSimilarity(hists[idx][:], hists[idx+1][:]))
			}
			if gy+1 < gridSize {
				sims = append(sims, cosineSimilarity(hists[idx][:], hists[idx+gridSize][:]))
			}
		}
	}
	if len(sims) < 2 {
		return out
	}

	out.PDI = stat.Variance(sims, nil)

	if out.PDI > pdiTrigger {
		sev := SeveritySuspicious
		if out.PDI > pdiEscalate {
			sev = SeverityHarmful
		}
		out.Signals = append(out.Signals, Signal{
			ID:         "tex-pdi-high",
			Name:       "Texture Consistency Drift",
			Category:   CategoryVisual,
			Confidence: math.Min(0.85, 0.5+out.PDI*10),
			Description: fmt.Sprintf(
				"Patch drift index of %.4f indicates inconsistent texture across image "+
					"regions, suggesting compositing or generation artifacts.",
				out.PDI),
			Severity:    sev,
			MetricValue: metricPtr(out.PDI),
		})
	}
	return out
}

// colorHistogram builds a normalized 48-bin histogram (16 bins per channel)
// over the rectangle at (x0, y0) with the given width and height.
func colorHistogram(img *Image, x0, y0, w, h int) [histBinsRGB]float64 {
	var hist [histBinsRGB]float64
	if w <= 0 || h <= 0 {
		return hist
	}
	for y := y0; y < y0+h; y++ {
		base := y * img.Width
		for x := x0; x < x0+w; x++ {
			p := img.Pix[base+x]
			hist[int(p.R)/histBins]++
			hist[histBins+int(p.G)/histBins]++
			hist[2*histBins+int(p.B)/histBins]++
		}
	}
	norm := 1.0 / float64(w*h)
	for i := range hist {
		hist[i] *= norm
	}
	return hist
}

func cosineSimilarity(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na < 1e-20 || nb < 1e-20 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
