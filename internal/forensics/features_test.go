package forensics

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestFeatureVectorSetReplaces(t *testing.T) {
	fv := NewFeatureVector()
	if _, ok := fv.Get(FeatHFER); ok {
		t.Error("fresh vector should have no measured slots")
	}

	fv.Set(FeatHFER, 0.3)
	fv.Set(FeatHFER, 0.12)
	v, ok := fv.Get(FeatHFER)
	if !ok || v != 0.12 {
		t.Errorf("Get(hfer) = %v, %v, want 0.12, true", v, ok)
	}
	if fv.Populated() != 1 {
		t.Errorf("Populated() = %d, want 1", fv.Populated())
	}
}

func TestFeatureVectorZeroIsMeasured(t *testing.T) {
	fv := NewFeatureVector()
	fv.Set(FeatPDI, 0)
	if _, ok := fv.Get(FeatPDI); !ok {
		t.Error("a genuine zero must count as measured")
	}
}

func TestFeatureVectorCloneIndependent(t *testing.T) {
	fv := NewFeatureVector()
	fv.Set(FeatETK, 7.5)
	cl := fv.Clone()
	cl.Set(FeatETK, 1.0)
	if v, _ := fv.Get(FeatETK); v != 7.5 {
		t.Errorf("clone mutation leaked into original: got %v", v)
	}
}

func TestFeatureVectorJSON(t *testing.T) {
	fv := NewFeatureVector()
	fv.Set(FeatHFER, 0.25)
	fv.Set(FeatMetadata, 0)

	data, err := json.Marshal(fv)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, `"hfer":0.25`) {
		t.Errorf("marshal missing measured slot: %s", s)
	}
	if !strings.Contains(s, `"tiis":null`) {
		t.Errorf("unmeasured slot should serialize as null: %s", s)
	}

	var back FeatureVector
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Populated() != 2 {
		t.Errorf("round trip Populated() = %d, want 2", back.Populated())
	}
	if _, ok := back.Get(FeatTIIS); ok {
		t.Error("null slot must stay unmeasured after round trip")
	}
}

func TestSignalSetFirstWriteWins(t *testing.T) {
	set := NewSignalSet()
	if !set.Add(Signal{ID: "freq-hfer-low", Confidence: 0.9}) {
		t.Error("first Add should insert")
	}
	if set.Add(Signal{ID: "freq-hfer-low", Confidence: 0.4}) {
		t.Error("duplicate ID should be rejected")
	}
	if set.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", set.Len())
	}
	if got := set.Signals()[0].Confidence; got != 0.9 {
		t.Errorf("first write must win, got confidence %v", got)
	}
	if !set.Has("freq-hfer-low") {
		t.Error("Has should report the inserted ID")
	}
}

func TestSignalSetPreservesOrder(t *testing.T) {
	set := NewSignalSet()
	set.AddAll([]Signal{{ID: "a"}, {ID: "b"}, {ID: "a"}, {ID: "c"}})
	got := set.Signals()
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %d signals, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("signal[%d] = %q, want %q", i, got[i].ID, id)
		}
	}
}
