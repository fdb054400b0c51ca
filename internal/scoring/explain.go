package scoring

import (
	"fmt"
	"sort"
	"strings"

	"github.com/veridia-labs/veracity/internal/forensics"
)

// Explanation bands over the calibrated probability.
const (
	strongEvidenceFloor = 0.7
	someEvidenceFloor   = 0.4

	maxExplainedSignals = 3
)

// BuildExplanation renders a deterministic plain-language summary: an opener
// for the probability band, the strongest signals by confidence, and a
// coverage note. The same inputs always produce the same text.
func BuildExplanation(p float64, signals []forensics.Signal) string {
	var b strings.Builder
	switch {
	case p > strongEvidenceFloor:
		b.WriteString("Strong evidence of manipulation was found.")
	case p > someEvidenceFloor:
		b.WriteString("Some indicators of possible manipulation were found.")
	default:
		b.WriteString("The media appears consistent with authentic content.")
	}

	if len(signals) > 0 {
		ranked := make([]forensics.Signal, len(signals))
		copy(ranked, signals)
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Confidence > ranked[j].Confidence
		})
		if len(ranked) > maxExplainedSignals {
			ranked = ranked[:maxExplainedSignals]
		}
		b.WriteString(" Key findings:")
		for _, sig := range ranked {
			fmt.Fprintf(&b, " %s (%.0f%% confidence);", sig.Name, sig.Confidence*100)
		}
	}

	fmt.Fprintf(&b, " Assessment based on %d detection signal(s).", len(signals))
	return b.String()
}

// ManipulationType names the most likely manipulation technique from the
// signal pattern, or returns the empty string when no technique is implied.
func ManipulationType(signals []forensics.Signal, fv *forensics.FeatureVector) string {
	has := make(map[string]bool, len(signals))
	for _, sig := range signals {
		has[sig.ID] = true
	}

	if has["freq-hfer-low"] && fv != nil {
		if hfer, ok := fv.Get(forensics.FeatHFER); ok && hfer < 0.1 {
			return "AI-Generated (GAN Signature)"
		}
	}
	switch {
	case has["freq-gan-spectral-fingerprint"]:
		return "AI-Generated (Spectral Fingerprint)"
	case has["vid-tiis-high"]:
		return "Deepfake Video (Identity Instability)"
	case has["vid-identity-spike"]:
		return "Deepfake Video (Face Swap Transition)"
	case has["audio-pvss-smooth"]:
		return "Synthetic Audio (TTS)"
	case has["tex-pdi-high"]:
		return "Composited / Face-Swapped"
	}
	return ""
}
