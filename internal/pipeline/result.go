// Package pipeline orchestrates a full analysis run: extraction across
// escalating depth levels, ensemble scoring, change detection, and final
// report assembly.
package pipeline

import (
	"github.com/veridia-labs/veracity/internal/forensics"
	"github.com/veridia-labs/veracity/internal/scoring"
)

// Result is the complete analysis report for one media item. Every analyzable
// input yields a Result; missing decoded payloads degrade the analysis rather
// than fail it.
type Result struct {
	ID        string              `json:"id"`
	MediaType forensics.MediaKind `json:"media_type"`

	RawScore              float64 `json:"raw_score"`
	CalibratedProbability float64 `json:"calibrated_probability"`

	RiskLevel scoring.RiskLevel `json:"risk_level"`
	RiskScore int               `json:"risk_score"`
	Verdict   string            `json:"verdict"`

	AnalysisLevel string `json:"analysis_level"`
	EarlyExit     bool   `json:"early_exit"`

	FeatureVector    *forensics.FeatureVector   `json:"feature_vector"`
	Signals          []forensics.Signal         `json:"signals"`
	Explanation      string                     `json:"explanation"`
	ManipulationType string                     `json:"manipulation_type,omitempty"`
	MetadataEvidence forensics.MetadataEvidence `json:"metadata_evidence"`

	Segments     []forensics.Segment     `json:"segments,omitempty"`
	ChangePoints []forensics.ChangePoint `json:"change_points,omitempty"`

	ProcessingTimeMS int64 `json:"processing_time_ms"`
}
