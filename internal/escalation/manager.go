// Package escalation decides whether an analysis run should proceed to a
// deeper, more expensive level or conclude where it stands.
package escalation

import (
	"math/rand"

	"github.com/veridia-labs/veracity/internal/config"
	"github.com/veridia-labs/veracity/internal/forensics"
)

// Level identifies an analysis depth tier.
type Level int

const (
	// Level1 runs the lightweight frequency screen.
	Level1 Level = 1
	// Level2 adds deep spatial and spectral extractors.
	Level2 Level = 2
	// Level3 adds temporal and cross-modal extractors. Terminal.
	Level3 Level = 3
)

// Name returns the wire label for the level.
func (l Level) Name() string {
	switch l {
	case Level1:
		return "level1_lightweight"
	case Level2:
		return "level2_deep_spatial"
	case Level3:
		return "level3_temporal_crossmodal"
	}
	return "unknown"
}

// RandSource supplies the randomized-escalation draw. Injectable so tests and
// replay runs are deterministic.
type RandSource interface {
	Float64() float64
}

// Decision is the outcome of one escalation evaluation.
type Decision struct {
	Escalate  bool
	Next      Level
	EarlyExit bool
	Reason    string
}

// Ambiguity band: probabilities in this range always justify a deeper look.
const (
	ambiguousLow  = 0.25
	ambiguousHigh = 0.75
)

// Manager applies the escalation policy. Zero value is not usable; construct
// with New.
type Manager struct {
	cfg *config.TuningConfig
	rng RandSource
}

// New returns a Manager using the given tuning and randomness source. A nil
// rng falls back to the global math/rand source.
func New(cfg *config.TuningConfig, rng RandSource) *Manager {
	if cfg == nil {
		cfg = config.EmptyTuningConfig()
	}
	if rng == nil {
		rng = globalRand{}
	}
	return &Manager{cfg: cfg, rng: rng}
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// StartingLevel picks the entry tier for a payload. Small images and audio
// clips are cheap enough to start deep; large videos start at the screen.
func (m *Manager) StartingLevel(kind forensics.MediaKind, fileSize int64) Level {
	switch kind {
	case forensics.KindImage:
		if fileSize < m.cfg.GetSmallImageBytes() {
			return Level2
		}
		return Level1
	case forensics.KindAudio:
		return Level2
	default:
		return Level1
	}
}

// Evaluate decides what happens after a level completes, given the calibrated
// probability and how many consecutive evaluations it has held stable.
//
// Confident verdicts that have stabilized exit early at any level. Ambiguous
// probabilities always escalate. Everything else escalates with a small
// configured probability, keeping an exploration floor that resists
// threshold-probing inputs.
func (m *Manager) Evaluate(level Level, probability float64, stability int) Decision {
	confident := probability > m.cfg.GetEarlyExitHigh() || probability < m.cfg.GetEarlyExitLow()
	if confident && stability >= m.cfg.GetStabilityRuns() {
		return Decision{EarlyExit: true, Reason: "confident stable verdict"}
	}

	if level >= Level3 {
		return Decision{Reason: "deepest level reached"}
	}

	// The exploration draw is taken on every evaluation, not only when the
	// ambiguity rule declines, so a replayed random stream advances
	// identically whatever the probabilities were.
	exploratory := m.rng.Float64() < m.cfg.GetEscalateProbability()

	if probability >= ambiguousLow && probability <= ambiguousHigh {
		return Decision{Escalate: true, Next: level + 1, Reason: "ambiguous probability"}
	}
	if exploratory {
		return Decision{Escalate: true, Next: level + 1, Reason: "randomized escalation"}
	}
	return Decision{Reason: "verdict accepted"}
}
