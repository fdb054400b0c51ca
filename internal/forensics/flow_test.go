package forensics

import "testing"

func TestFlowStaticSceneOverSmooth(t *testing.T) {
	img := uniformImage(32, 32, Pixel{90, 90, 90})
	m := ComputeFlowMetrics(frameSeq(img, img, img, img, img), 10)

	if !m.Measured {
		t.Fatal("five frames should produce a measurement")
	}
	if m.FAV != 0 {
		t.Errorf("FAV = %v, want 0 for a static scene", m.FAV)
	}
	// Zero acceleration variance lands in the over-smooth band.
	if m.Score != 0.35 {
		t.Errorf("Score = %v, want 0.35", m.Score)
	}
	sig := findSignal(m.Signals, "vid-flow-anomaly")
	if sig == nil {
		t.Fatal("expected vid-flow-anomaly signal")
	}
	if sig.Severity != SeveritySuspicious {
		t.Errorf("severity = %v, want %v", sig.Severity, SeveritySuspicious)
	}
	if sig.Confidence != 0.45 {
		t.Errorf("confidence = %v, want 0.45", sig.Confidence)
	}
}

func TestFlowTooFewFrames(t *testing.T) {
	img := uniformImage(32, 32, Pixel{90, 90, 90})
	m := ComputeFlowMetrics(frameSeq(img, img), 10)
	if m.Measured {
		t.Error("two frames cannot measure flow acceleration")
	}
	if len(m.Signals) != 0 {
		t.Error("unmeasured flow should emit no signals")
	}
}

func TestFlowSubsamplingCapsFrames(t *testing.T) {
	imgs := make([]*Image, 20)
	for i := range imgs {
		imgs[i] = uniformImage(32, 32, Pixel{uint8(i * 10), 0, 0})
	}
	frames := frameSeq(imgs...)

	got := subsampleFrames(frames, 10)
	if len(got) != 10 {
		t.Fatalf("got %d frames, want 10", len(got))
	}
	if got[0].Timestamp != frames[0].Timestamp {
		t.Error("subsampling must keep the first frame")
	}
	if got[9].Timestamp != frames[19].Timestamp {
		t.Error("subsampling must keep the last frame")
	}
}

func TestBestMatchFindsTranslation(t *testing.T) {
	// A bright dot shifted two pixels right between frames should match at
	// offset (-2, 0) when searching the previous frame.
	prev := make([][]float64, 32)
	cur := make([][]float64, 32)
	for y := range prev {
		prev[y] = make([]float64, 32)
		cur[y] = make([]float64, 32)
	}
	prev[20][20] = 255
	cur[20][22] = 255

	dx, dy := bestMatch(prev, cur, 16, 16, 32, 32)
	if dx != -2 || dy != 0 {
		t.Errorf("bestMatch offset = (%d, %d), want (-2, 0)", dx, dy)
	}
}
