package forensics

import (
	"math"
	"testing"
)

func frameSeq(imgs ...*Image) []Frame {
	frames := make([]Frame, len(imgs))
	for i, img := range imgs {
		frames[i] = Frame{Image: *img, Timestamp: float64(i)}
	}
	return frames
}

func TestIdentityDriftStableFrames(t *testing.T) {
	img := uniformImage(32, 32, Pixel{120, 120, 120})
	m := ComputeIdentityDrift(frameSeq(img, img, img, img, img))

	if !m.Measured {
		t.Fatal("five frames should produce a measurement")
	}
	if m.TIIS != 0 {
		t.Errorf("TIIS = %v, want 0 for identical frames", m.TIIS)
	}
	if len(m.Signals) != 0 {
		t.Errorf("stable frames should emit no signals, got %d", len(m.Signals))
	}
}

func TestIdentityDriftAlternatingFrames(t *testing.T) {
	dark := uniformImage(32, 32, Pixel{10, 10, 10})
	bright := uniformImage(32, 32, Pixel{240, 240, 240})
	m := ComputeIdentityDrift(frameSeq(dark, bright, dark, bright, dark))

	if m.TIIS <= tiisTrigger {
		t.Fatalf("TIIS = %v, want above %v for alternating identities", m.TIIS, tiisTrigger)
	}
	sig := findSignal(m.Signals, "vid-tiis-high")
	if sig == nil {
		t.Fatal("expected vid-tiis-high signal")
	}
	if sig.Severity != SeverityHighRisk {
		t.Errorf("severity = %v, want %v for extreme drift", sig.Severity, SeverityHighRisk)
	}
	// Every transition drifts by the same amount, so none stands out as a
	// spike.
	if findSignal(m.Signals, "vid-identity-spike") != nil {
		t.Error("uniformly erratic footage must not raise the spike signal")
	}
}

func TestIdentityDriftSpike(t *testing.T) {
	dark := uniformImage(32, 32, Pixel{10, 10, 10})
	bright := uniformImage(32, 32, Pixel{240, 240, 240})

	// Steady footage with one abrupt identity switch in the middle: a single
	// drift far above the rest.
	imgs := make([]*Image, 0, 12)
	for i := 0; i < 6; i++ {
		imgs = append(imgs, dark)
	}
	for i := 0; i < 6; i++ {
		imgs = append(imgs, bright)
	}
	m := ComputeIdentityDrift(frameSeq(imgs...))

	sig := findSignal(m.Signals, "vid-identity-spike")
	if sig == nil {
		t.Fatal("expected vid-identity-spike signal for an isolated switch")
	}
	if sig.Severity != SeverityHarmful {
		t.Errorf("severity = %v, want %v", sig.Severity, SeverityHarmful)
	}
	if math.Abs(sig.Confidence-0.6) > 1e-9 {
		t.Errorf("confidence = %v, want 0.6 for a single spike", sig.Confidence)
	}
	if sig.MetricValue == nil || math.Abs(*sig.MetricValue-math.Sqrt(6)) > 1e-9 {
		t.Errorf("metric should carry the peak drift of sqrt(6), got %v", sig.MetricValue)
	}
}

func TestIdentityDriftTooFewFrames(t *testing.T) {
	img := uniformImage(32, 32, Pixel{50, 50, 50})
	m := ComputeIdentityDrift(frameSeq(img))
	if m.Measured {
		t.Error("a single frame cannot measure drift")
	}
}

func TestSegmentsPartitionAndFlag(t *testing.T) {
	img := uniformImage(32, 32, Pixel{128, 128, 128})
	frames := make([]Frame, 5)
	for i := range frames {
		frames[i] = Frame{Image: *img, Timestamp: float64(i) * 2}
	}

	segs := ComputeSegments(frames, 10, 5, 512)
	if len(segs) != 2 {
		t.Fatalf("got %d segments, want 2", len(segs))
	}
	if segs[0].StartTime != 0 || segs[0].EndTime != 5 {
		t.Errorf("segment 0 window = [%v, %v], want [0, 5]", segs[0].StartTime, segs[0].EndTime)
	}
	if segs[1].Index != 1 || segs[1].StartTime != 5 || segs[1].EndTime != 10 {
		t.Errorf("segment 1 = %+v, want index 1 over [5, 10]", segs[1])
	}

	// Flat frames have no high-frequency energy, so each window blends a zero
	// frequency score with perfect stability: 0.6*0 + 0.4*1 = 0.4, flagged.
	for _, s := range segs {
		if math.Abs(s.Authenticity-0.4) > 1e-9 {
			t.Errorf("segment %d authenticity = %v, want 0.4", s.Index, s.Authenticity)
		}
		if !s.Flagged {
			t.Errorf("segment %d should be flagged below the threshold", s.Index)
		}
	}
}

func TestSegmentsEmptyInput(t *testing.T) {
	if segs := ComputeSegments(nil, 10, 5, 512); segs != nil {
		t.Errorf("nil frames should yield nil segments, got %d", len(segs))
	}
	img := uniformImage(8, 8, Pixel{0, 0, 0})
	if segs := ComputeSegments(frameSeq(img), 10, 0, 512); segs != nil {
		t.Error("non-positive segment duration should yield nil")
	}
}
