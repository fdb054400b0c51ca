package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEmptyConfigDefaults(t *testing.T) {
	cfg := EmptyTuningConfig()

	if got := cfg.GetPlattA(); got != 2.5 {
		t.Errorf("GetPlattA() = %v, want 2.5", got)
	}
	if got := cfg.GetPlattB(); got != -1.0 {
		t.Errorf("GetPlattB() = %v, want -1.0", got)
	}
	if got := cfg.GetCusumSlack(); got != 0.1 {
		t.Errorf("GetCusumSlack() = %v, want 0.1", got)
	}
	if got := cfg.GetCusumThreshold(); got != 0.5 {
		t.Errorf("GetCusumThreshold() = %v, want 0.5", got)
	}
	if got := cfg.GetEscalateProbability(); got != 0.2 {
		t.Errorf("GetEscalateProbability() = %v, want 0.2", got)
	}
	if got := cfg.GetMaxSpectrumSize(); got != 512 {
		t.Errorf("GetMaxSpectrumSize() = %v, want 512", got)
	}
	if got := cfg.GetTextureGridSize(); got != 8 {
		t.Errorf("GetTextureGridSize() = %v, want 8", got)
	}
	if got := cfg.GetSegmentSeconds(); got != 5.0 {
		t.Errorf("GetSegmentSeconds() = %v, want 5.0", got)
	}
	if got := cfg.GetStabilityRuns(); got != 3 {
		t.Errorf("GetStabilityRuns() = %v, want 3", got)
	}
}

func TestLoadPartialConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.json")
	body := `{"platt_a": 3.0, "cusum_threshold": 0.8}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadTuningConfig(path)
	if err != nil {
		t.Fatalf("LoadTuningConfig: %v", err)
	}

	if got := cfg.GetPlattA(); got != 3.0 {
		t.Errorf("GetPlattA() = %v, want 3.0 (overridden)", got)
	}
	if got := cfg.GetCusumThreshold(); got != 0.8 {
		t.Errorf("GetCusumThreshold() = %v, want 0.8 (overridden)", got)
	}
	// Omitted fields keep defaults.
	if got := cfg.GetPlattB(); got != -1.0 {
		t.Errorf("GetPlattB() = %v, want default -1.0", got)
	}
}

func TestLoadRejectsNonJSONExtension(t *testing.T) {
	if _, err := LoadTuningConfig("tuning.yaml"); err == nil {
		t.Error("expected error for non-JSON extension")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	bad := 1.5
	cfg := &TuningConfig{EscalateProbability: &bad}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for escalate_probability > 1")
	}

	notPow2 := 500
	cfg = &TuningConfig{MaxSpectrumSize: &notPow2}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for non-power-of-two max_spectrum_size")
	}

	lo, hi := 0.6, 0.4
	cfg = &TuningConfig{EarlyExitLow: &lo, EarlyExitHigh: &hi}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when early_exit_high <= early_exit_low")
	}
}
