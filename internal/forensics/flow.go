package forensics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Block-matching optical flow parameters.
const (
	flowBlockSize    = 16
	flowSearchRadius = 4

	// Minimum frames for a usable acceleration sequence.
	flowMinFrames = 3
)

// FlowMetrics is the output of the optical-flow extractor.
type FlowMetrics struct {
	// FAV is the raw variance of the flow-magnitude first differences.
	FAV float64
	// Score is FAV folded into a [0,1] suspicion score: both over-smooth
	// (interpolated) and jerky (pasted frame-by-frame) motion raise it.
	Score    float64
	Measured bool
	Signals  []Signal
}

// ComputeFlowMetrics estimates per-transition motion via block matching on
// grayscale frames and reports the variance of flow acceleration. Inputs with
// more than maxFrames frames are subsampled evenly. Fewer than 3 frames
// yields an unmeasured zero.
func ComputeFlowMetrics(frames []Frame, maxFrames int) FlowMetrics {
	var out FlowMetrics
	if len(frames) < flowMinFrames {
		return out
	}
	if maxFrames >= flowMinFrames && len(frames) > maxFrames {
		frames = subsampleFrames(frames, maxFrames)
	}

	grays := make([][][]float64, len(frames))
	for i := range frames {
		grays[i] = frames[i].Gray()
	}

	// Mean block-match magnitude per consecutive frame pair.
	magnitudes := make([]float64, 0, len(grays)-1)
	for i := 1; i < len(grays); i++ {
		magnitudes = append(magnitudes, meanBlockFlow(grays[i-1], grays[i]))
	}
	if len(magnitudes) < 2 {
		return out
	}

	accel := make([]float64, len(magnitudes)-1)
	for i := 1; i < len(magnitudes); i++ {
		accel[i-1] = magnitudes[i] - magnitudes[i-1]
	}
	if len(accel) == 1 {
		out.FAV = 0
	} else {
		out.FAV = stat.Variance(accel, nil)
	}
	out.Measured = true

	// Suspicion ladder: both extremes of acceleration variance are unnatural.
	score := 0.0
	switch {
	case out.FAV < 0.01:
		score += 0.35
	case out.FAV < 0.05:
		score += 0.15
	}
	switch {
	case out.FAV > 2.0:
		score += 0.30
	case out.FAV > 1.0:
		score += 0.15
	}
	out.Score = clamp01(score)

	if out.Score > 0.2 {
		motion := "inconsistent"
		if out.FAV < 0.05 {
			motion = "over-smooth"
		} else if out.FAV > 1.0 {
			motion = "jerky"
		}
		sev := SeveritySuspicious
		if out.Score > 0.5 {
			sev = SeverityHarmful
		}
		out.Signals = append(out.Signals, Signal{
			ID:         "vid-flow-anomaly",
			Name:       "Optical Flow Anomaly",
			Category:   CategoryTemporal,
			Confidence: math.Min(0.90, out.Score+0.1),
			Description: fmt.Sprintf(
				"Flow acceleration variance of %.4f indicates %s motion. Natural "+
					"video shows moderate, irregular flow variation.",
				out.FAV, motion),
			Severity:    sev,
			MetricValue: metricPtr(out.Score),
		})
	}
	return out
}

// subsampleFrames picks n frames at even spacing, always keeping the first
// and last.
func subsampleFrames(frames []Frame, n int) []Frame {
	out := make([]Frame, n)
	step := float64(len(frames)-1) / float64(n-1)
	for i := 0; i < n; i++ {
		out[i] = frames[int(math.Round(float64(i)*step))]
	}
	return out
}

// meanBlockFlow matches each block of the current frame against a bounded
// window in the previous frame by minimum sum of absolute differences, and
// returns the mean match-vector magnitude.
func meanBlockFlow(prev, cur [][]float64) float64 {
	h := min(len(prev), len(cur))
	if h == 0 {
		return 0
	}
	w := min(len(prev[0]), len(cur[0]))
	if w < flowBlockSize || h < flowBlockSize {
		return 0
	}

	var total float64
	var blocks int
	for by := 0; by+flowBlockSize <= h; by += flowBlockSize {
		for bx := 0; bx+flowBlockSize <= w; bx += flowBlockSize {
			dx, dy := bestMatch(prev, cur, bx, by, w, h)
			total += math.Sqrt(float64(dx*dx + dy*dy))
			blocks++
		}
	}
	if blocks == 0 {
		return 0
	}
	return total / float64(blocks)
}

// bestMatch searches the +/-flowSearchRadius window in prev for the offset
// minimizing the SAD against the block at (bx, by) in cur.
func bestMatch(prev, cur [][]float64, bx, by, w, h int) (dx, dy int) {
	best := math.Inf(1)
	for oy := -flowSearchRadius; oy <= flowSearchRadius; oy++ {
		sy := by + oy
		if sy < 0 || sy+flowBlockSize > h {
			continue
		}
		for ox := -flowSearchRadius; ox <= flowSearchRadius; ox++ {
			sx := bx + ox
			if sx < 0 || sx+flowBlockSize > w {
				continue
			}
			var sad float64
			for y := 0; y < flowBlockSize; y++ {
				curRow := cur[by+y]
				prevRow := prev[sy+y]
				for x := 0; x < flowBlockSize; x++ {
					sad += math.Abs(curRow[bx+x] - prevRow[sx+x])
				}
				if sad >= best {
					break
				}
			}
			if sad < best {
				best = sad
				dx, dy = ox, oy
			}
		}
	}
	return dx, dy
}
