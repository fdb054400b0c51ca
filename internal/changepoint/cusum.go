// Package changepoint locates shifts in segment authenticity sequences with a
// two-sided CUSUM detector, marking where manipulation risk rises or recedes
// within a longer recording.
package changepoint

import (
	"gonum.org/v1/gonum/stat"

	"github.com/veridia-labs/veracity/internal/forensics"
)

// Config tunes the detector. Slack absorbs per-segment noise; Threshold is
// the cumulative deviation that declares a shift.
type Config struct {
	Slack     float64
	Threshold float64
}

// Fewer segments than this cannot support a meaningful mean reference.
const minSegments = 3

// Detect runs two one-sided CUSUM statistics over the segment authenticity
// scores against their own mean. The upper statistic accumulates authenticity
// drops (manipulation-risk increases), the lower accumulates recoveries. A
// statistic that crosses the threshold emits a change point stamped with the
// segment start time and resets, so repeated shifts each report once.
func Detect(segments []forensics.Segment, cfg Config) []forensics.ChangePoint {
	if len(segments) < minSegments || cfg.Threshold <= 0 {
		return nil
	}

	scores := make([]float64, len(segments))
	for i, s := range segments {
		scores[i] = s.Authenticity
	}
	mean := stat.Mean(scores, nil)

	var points []forensics.ChangePoint
	var upper, lower float64
	for i, score := range scores {
		upper = max(0, upper+(mean-score-cfg.Slack))
		lower = max(0, lower+(score-mean-cfg.Slack))

		if upper > cfg.Threshold {
			points = append(points, forensics.ChangePoint{
				Timestamp:    segments[i].StartTime,
				SegmentIndex: i,
				Statistic:    upper,
				Direction:    forensics.DirectionIncrease,
			})
			upper = 0
		}
		if lower > cfg.Threshold {
			points = append(points, forensics.ChangePoint{
				Timestamp:    segments[i].StartTime,
				SegmentIndex: i,
				Statistic:    lower,
				Direction:    forensics.DirectionDecrease,
			})
			lower = 0
		}
	}
	return points
}

// Enrich flags the segments within radius of each risk-increase change point.
// Flags are only ever added; segments already flagged by their own score stay
// flagged.
func Enrich(segments []forensics.Segment, points []forensics.ChangePoint, radius int) {
	for _, cp := range points {
		if cp.Direction != forensics.DirectionIncrease {
			continue
		}
		lo := cp.SegmentIndex - radius
		hi := cp.SegmentIndex + radius
		if lo < 0 {
			lo = 0
		}
		if hi >= len(segments) {
			hi = len(segments) - 1
		}
		for i := lo; i <= hi; i++ {
			segments[i].Flagged = true
		}
	}
}
