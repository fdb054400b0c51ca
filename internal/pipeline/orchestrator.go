package pipeline

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/veridia-labs/veracity/internal/changepoint"
	"github.com/veridia-labs/veracity/internal/config"
	"github.com/veridia-labs/veracity/internal/escalation"
	"github.com/veridia-labs/veracity/internal/forensics"
	"github.com/veridia-labs/veracity/internal/monitoring"
	"github.com/veridia-labs/veracity/internal/scoring"
)

// ErrNoInput is returned when Analyze receives nothing to analyze.
var ErrNoInput = errors.New("pipeline: no input")

// Probability drift under this between evaluations counts as stable.
const stabilityDelta = 0.05

// Orchestrator runs the multi-level analysis loop. Safe for concurrent use;
// all per-run state lives on the stack.
type Orchestrator struct {
	cfg *config.TuningConfig
	mgr *escalation.Manager
	cal scoring.Calibrator
	log zerolog.Logger
}

// New builds an Orchestrator from tuning config and a randomness source for
// the escalation policy. A nil cfg uses built-in defaults.
func New(cfg *config.TuningConfig, rng escalation.RandSource) *Orchestrator {
	if cfg == nil {
		cfg = config.EmptyTuningConfig()
	}
	return &Orchestrator{
		cfg: cfg,
		mgr: escalation.New(cfg, rng),
		cal: scoring.Calibrator{A: cfg.GetPlattA(), B: cfg.GetPlattB()},
		log: monitoring.Logger().With().Str("component", "pipeline").Logger(),
	}
}

// runState carries the accumulating evidence for one analysis.
type runState struct {
	fv       *forensics.FeatureVector
	signals  *forensics.SignalSet
	evidence forensics.MetadataEvidence
	segments []forensics.Segment
}

// Analyze runs the full pipeline on one input. It returns an error only for a
// nil input or a cancelled context; any analyzable payload, including one with
// no decoded media at all, produces a complete Result.
func (o *Orchestrator) Analyze(ctx context.Context, in *forensics.Input) (*Result, error) {
	if in == nil {
		return nil, ErrNoInput
	}
	start := time.Now()
	id := uuid.NewString()
	log := o.log.With().Str("analysis_id", id).Str("media_type", string(in.Kind)).Logger()

	st := &runState{
		fv:      forensics.NewFeatureVector(),
		signals: forensics.NewSignalSet(),
	}

	// Byte-level metadata is always available and always runs.
	meta := forensics.AnalyzeMetadata(in.Raw)
	st.evidence = meta.Evidence
	st.fv.Set(forensics.FeatMetadata, meta.Score)
	st.signals.AddAll(meta.Signals)

	level := o.mgr.StartingLevel(in.Kind, int64(len(in.Raw)))
	earlyExit := false
	var probability, rawScore float64

	if !in.HasDecodedPayload() {
		log.Warn().Msg("no decoded payload, degrading to metadata-only analysis")
		level = escalation.Level1
		rawScore = scoring.ComputeEnsembleScore(st.fv)
		probability = o.cal.PlattScale(rawScore)
	} else {
		// Entering at a deep level still runs the shallower extractors first.
		for l := escalation.Level1; l <= level; l++ {
			o.runLevel(l, in, st)
		}

		stability := 1
		prev := math.NaN()
		for {
			rawScore = scoring.ComputeEnsembleScore(st.fv)
			probability = o.cal.PlattScale(rawScore)
			if !math.IsNaN(prev) {
				if math.Abs(probability-prev) < stabilityDelta {
					stability++
				} else {
					stability = 1
				}
			}
			prev = probability

			d := o.mgr.Evaluate(level, probability, stability)
			log.Debug().
				Int("level", int(level)).
				Float64("probability", probability).
				Int("stability", stability).
				Str("decision", d.Reason).
				Msg("level evaluated")

			if d.EarlyExit {
				earlyExit = true
				break
			}
			if !d.Escalate {
				break
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			level = d.Next
			o.runLevel(level, in, st)
		}
	}

	// Localize manipulation within long recordings once segment scores exist.
	var points []forensics.ChangePoint
	if len(st.segments) >= o.cfg.GetMinSegmentCount() {
		points = changepoint.Detect(st.segments, changepoint.Config{
			Slack:     o.cfg.GetCusumSlack(),
			Threshold: o.cfg.GetCusumThreshold(),
		})
		changepoint.Enrich(st.segments, points, o.cfg.GetEnrichRadius())

		increases := 0
		for _, cp := range points {
			if cp.Direction == forensics.DirectionIncrease {
				increases++
			}
		}
		if increases > 0 {
			st.signals.Add(forensics.Signal{
				ID:         "vid-partial-manipulation",
				Name:       "Partial Manipulation Detected",
				Category:   forensics.CategoryTemporal,
				Confidence: math.Min(0.9, 0.5+0.1*float64(increases)),
				Description: "Authenticity shifts sharply between segments, " +
					"suggesting manipulation of part of the recording.",
				Severity: forensics.SeverityHarmful,
			})
		}
	}

	signals := st.signals.Signals()
	riskLevel, verdict := scoring.ClassifyRisk(probability)

	res := &Result{
		ID:                    id,
		MediaType:             in.Kind,
		RawScore:              rawScore,
		CalibratedProbability: probability,
		RiskLevel:             riskLevel,
		RiskScore:             scoring.RiskScore(probability),
		Verdict:               verdict,
		AnalysisLevel:         level.Name(),
		EarlyExit:             earlyExit,
		FeatureVector:         st.fv,
		Signals:               signals,
		Explanation:           scoring.BuildExplanation(probability, signals),
		ManipulationType:      scoring.ManipulationType(signals, st.fv),
		MetadataEvidence:      st.evidence,
		Segments:              st.segments,
		ChangePoints:          points,
		ProcessingTimeMS:      time.Since(start).Milliseconds(),
	}

	log.Info().
		Str("verdict", res.Verdict).
		Str("risk_level", string(res.RiskLevel)).
		Float64("probability", res.CalibratedProbability).
		Str("analysis_level", res.AnalysisLevel).
		Bool("early_exit", res.EarlyExit).
		Int64("elapsed_ms", res.ProcessingTimeMS).
		Msg("analysis complete")
	return res, nil
}

// runLevel executes the extractors a depth tier adds on top of the previous
// one. Later measurements of a slot replace earlier ones outright, so a deep
// recomputation on a better sample supersedes the screen value.
func (o *Orchestrator) runLevel(level escalation.Level, in *forensics.Input, st *runState) {
	switch level {
	case escalation.Level1:
		if img := o.primaryFrame(in); img != nil {
			o.applyFrequency(img, st)
		}

	case escalation.Level2:
		if img := o.bestFrame(in); img != nil {
			o.applyFrequency(img, st)

			tex := forensics.ComputeTextureMetrics(img, o.cfg.GetTextureGridSize())
			st.fv.Set(forensics.FeatPDI, tex.PDI)
			st.signals.AddAll(tex.Signals)

			noise := forensics.AnalyzeNoise(img)
			if noise.Measured {
				st.fv.Set(forensics.FeatNoise, noise.Score)
				st.signals.AddAll(noise.Signals)
			}
		}
		if len(in.Frames) > 0 {
			st.segments = forensics.ComputeSegments(
				in.Frames, in.Duration, o.cfg.GetSegmentSeconds(), o.cfg.GetMaxSpectrumSize())
		}
		if in.Audio != nil {
			au := forensics.AnalyzeAudioSpectral(in.Audio, o.cfg.GetAudioFrameLength())
			st.fv.Set(forensics.FeatETK, au.ETK)
			st.fv.Set(forensics.FeatFRD, au.FRD)
			st.signals.AddAll(au.Signals)
		}

	case escalation.Level3:
		if len(in.Frames) > 0 {
			vid := forensics.ComputeIdentityDrift(in.Frames)
			if vid.Measured {
				st.fv.Set(forensics.FeatTIIS, vid.TIIS)
				st.signals.AddAll(vid.Signals)
			}
			flow := forensics.ComputeFlowMetrics(in.Frames, o.cfg.GetMaxFlowFrames())
			if flow.Measured {
				st.fv.Set(forensics.FeatFAV, flow.Score)
				st.signals.AddAll(flow.Signals)
			}
		}
		if in.Audio != nil {
			pitch := forensics.AnalyzePitch(in.Audio, o.cfg.GetPitchFrameLength())
			if pitch.VoicedFrames > 0 {
				st.fv.Set(forensics.FeatPVSS, pitch.PVSS)
				st.signals.AddAll(pitch.Signals)
			}
		}
	}
}

// applyFrequency runs the frequency extractor on one frame and records its
// three slots.
func (o *Orchestrator) applyFrequency(img *forensics.Image, st *runState) {
	freq := forensics.ComputeFrequencyMetrics(img, o.cfg.GetMaxSpectrumSize())
	st.fv.Set(forensics.FeatHFER, freq.HFER)
	st.fv.Set(forensics.FeatSVD, freq.SVD)
	st.fv.Set(forensics.FeatSpectralPeak, freq.SpectralPeak)
	st.signals.AddAll(freq.Signals)
}

// primaryFrame is the cheap screen target: the still image, or the first
// video frame.
func (o *Orchestrator) primaryFrame(in *forensics.Input) *forensics.Image {
	if in.Image != nil {
		return in.Image
	}
	if len(in.Frames) > 0 {
		return &in.Frames[0].Image
	}
	return nil
}

// bestFrame is the deep-analysis target: the still image, or the middle video
// frame, which is less likely to be a title card or fade.
func (o *Orchestrator) bestFrame(in *forensics.Input) *forensics.Image {
	if in.Image != nil {
		return in.Image
	}
	if len(in.Frames) > 0 {
		return &in.Frames[len(in.Frames)/2].Image
	}
	return nil
}
