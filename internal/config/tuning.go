// Package config loads the engine tuning file.
//
// All values in the tuning file are empirically fit (calibration coefficients,
// decision thresholds, cost caps), not universal constants. The file is a
// partial JSON document: any omitted field falls back to the built-in default
// through its Get* accessor, so a deployment only overrides what it has
// re-calibrated.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the canonical tuning defaults file, relative to the
// repository root.
const DefaultConfigPath = "config/tuning.defaults.json"

// TuningConfig is the root tuning document. Pointer fields distinguish
// "absent from file" from a real zero value.
type TuningConfig struct {
	// Calibration params
	PlattA *float64 `json:"platt_a,omitempty"`
	PlattB *float64 `json:"platt_b,omitempty"`

	// Change detection params
	CusumSlack      *float64 `json:"cusum_slack,omitempty"`
	CusumThreshold  *float64 `json:"cusum_threshold,omitempty"`
	EnrichRadius    *int     `json:"enrich_radius,omitempty"`
	MinSegmentCount *int     `json:"min_segment_count,omitempty"`

	// Escalation params
	EscalateProbability *float64 `json:"escalate_probability,omitempty"`
	EarlyExitHigh       *float64 `json:"early_exit_high,omitempty"`
	EarlyExitLow        *float64 `json:"early_exit_low,omitempty"`
	StabilityRuns       *int     `json:"stability_runs,omitempty"`
	SmallImageBytes     *int64   `json:"small_image_bytes,omitempty"`

	// Extraction cost caps
	MaxSpectrumSize  *int     `json:"max_spectrum_size,omitempty"`
	TextureGridSize  *int     `json:"texture_grid_size,omitempty"`
	AudioFrameLength *int     `json:"audio_frame_length,omitempty"`
	PitchFrameLength *int     `json:"pitch_frame_length,omitempty"`
	MaxFlowFrames    *int     `json:"max_flow_frames,omitempty"`
	SegmentSeconds   *float64 `json:"segment_seconds,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields unset; every Get*
// accessor then returns its built-in default.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. Fields omitted from
// the file retain their defaults, so partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are usable.
func (c *TuningConfig) Validate() error {
	if c.EscalateProbability != nil {
		if *c.EscalateProbability < 0 || *c.EscalateProbability > 1 {
			return fmt.Errorf("escalate_probability must be between 0 and 1, got %f", *c.EscalateProbability)
		}
	}
	if c.EarlyExitHigh != nil && c.EarlyExitLow != nil {
		if *c.EarlyExitHigh <= *c.EarlyExitLow {
			return fmt.Errorf("early_exit_high (%f) must exceed early_exit_low (%f)", *c.EarlyExitHigh, *c.EarlyExitLow)
		}
	}
	if c.CusumThreshold != nil && *c.CusumThreshold <= 0 {
		return fmt.Errorf("cusum_threshold must be positive, got %f", *c.CusumThreshold)
	}
	if c.MaxSpectrumSize != nil {
		n := *c.MaxSpectrumSize
		if n < 8 || n&(n-1) != 0 {
			return fmt.Errorf("max_spectrum_size must be a power of two >= 8, got %d", n)
		}
	}
	if c.AudioFrameLength != nil {
		n := *c.AudioFrameLength
		if n < 256 || n&(n-1) != 0 {
			return fmt.Errorf("audio_frame_length must be a power of two >= 256, got %d", n)
		}
	}
	if c.SegmentSeconds != nil && *c.SegmentSeconds <= 0 {
		return fmt.Errorf("segment_seconds must be positive, got %f", *c.SegmentSeconds)
	}
	return nil
}

// GetPlattA returns the Platt scaling slope or the default.
func (c *TuningConfig) GetPlattA() float64 {
	if c.PlattA == nil {
		return 2.5
	}
	return *c.PlattA
}

// GetPlattB returns the Platt scaling intercept or the default.
func (c *TuningConfig) GetPlattB() float64 {
	if c.PlattB == nil {
		return -1.0
	}
	return *c.PlattB
}

// GetCusumSlack returns the CUSUM slack allowance or the default.
func (c *TuningConfig) GetCusumSlack() float64 {
	if c.CusumSlack == nil {
		return 0.1
	}
	return *c.CusumSlack
}

// GetCusumThreshold returns the CUSUM decision threshold or the default.
func (c *TuningConfig) GetCusumThreshold() float64 {
	if c.CusumThreshold == nil {
		return 0.5
	}
	return *c.CusumThreshold
}

// GetEnrichRadius returns the segment enrichment radius or the default.
func (c *TuningConfig) GetEnrichRadius() int {
	if c.EnrichRadius == nil {
		return 1
	}
	return *c.EnrichRadius
}

// GetMinSegmentCount returns the minimum segments for change detection.
func (c *TuningConfig) GetMinSegmentCount() int {
	if c.MinSegmentCount == nil {
		return 3
	}
	return *c.MinSegmentCount
}

// GetEscalateProbability returns the randomized escalation probability.
func (c *TuningConfig) GetEscalateProbability() float64 {
	if c.EscalateProbability == nil {
		return 0.2
	}
	return *c.EscalateProbability
}

// GetEarlyExitHigh returns the confident-fake early exit bound.
func (c *TuningConfig) GetEarlyExitHigh() float64 {
	if c.EarlyExitHigh == nil {
		return 0.95
	}
	return *c.EarlyExitHigh
}

// GetEarlyExitLow returns the confident-authentic early exit bound.
func (c *TuningConfig) GetEarlyExitLow() float64 {
	if c.EarlyExitLow == nil {
		return 0.05
	}
	return *c.EarlyExitLow
}

// GetStabilityRuns returns how many consecutive stable evaluations are
// required before an early exit is allowed.
func (c *TuningConfig) GetStabilityRuns() int {
	if c.StabilityRuns == nil {
		return 3
	}
	return *c.StabilityRuns
}

// GetSmallImageBytes returns the file size under which an image starts
// directly at the deep-spatial level.
func (c *TuningConfig) GetSmallImageBytes() int64 {
	if c.SmallImageBytes == nil {
		return 2 * 1024 * 1024 // 2MB
	}
	return *c.SmallImageBytes
}

// GetMaxSpectrumSize returns the 2D transform grid cap.
func (c *TuningConfig) GetMaxSpectrumSize() int {
	if c.MaxSpectrumSize == nil {
		return 512
	}
	return *c.MaxSpectrumSize
}

// GetTextureGridSize returns the patch grid dimension.
func (c *TuningConfig) GetTextureGridSize() int {
	if c.TextureGridSize == nil {
		return 8
	}
	return *c.TextureGridSize
}

// GetAudioFrameLength returns the STFT frame length for energy/flatness.
func (c *TuningConfig) GetAudioFrameLength() int {
	if c.AudioFrameLength == nil {
		return 1024
	}
	return *c.AudioFrameLength
}

// GetPitchFrameLength returns the analysis frame for pitch tracking.
func (c *TuningConfig) GetPitchFrameLength() int {
	if c.PitchFrameLength == nil {
		return 2048
	}
	return *c.PitchFrameLength
}

// GetMaxFlowFrames returns the frame cap for optical flow.
func (c *TuningConfig) GetMaxFlowFrames() int {
	if c.MaxFlowFrames == nil {
		return 10
	}
	return *c.MaxFlowFrames
}

// GetSegmentSeconds returns the segment window duration.
func (c *TuningConfig) GetSegmentSeconds() float64 {
	if c.SegmentSeconds == nil {
		return 5.0
	}
	return *c.SegmentSeconds
}
