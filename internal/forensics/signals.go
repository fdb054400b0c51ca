package forensics

// Severity tiers for detection signals, in ascending order of concern.
type Severity string

const (
	SeverityLow        Severity = "low"
	SeveritySuspicious Severity = "suspicious"
	SeverityHarmful    Severity = "harmful"
	SeverityHighRisk   Severity = "high_risk"
)

// Category groups signals by the kind of evidence they carry.
type Category string

const (
	CategoryVisual   Category = "visual"
	CategoryTemporal Category = "temporal"
	CategorySpectral Category = "spectral"
	CategorySemantic Category = "semantic"
	CategoryMetadata Category = "metadata"
)

// Signal is one detection finding. Immutable once emitted.
type Signal struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Confidence  float64  `json:"confidence"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
	MetricValue *float64 `json:"metric_value,omitempty"`
}

// metricPtr is a convenience for populating Signal.MetricValue.
func metricPtr(v float64) *float64 { return &v }

// SignalSet accumulates signals across analysis levels, deduplicated by ID.
//
// Dedup is first-write-wins: a signal recomputed at a deeper level with a
// different confidence is dropped, keeping results deterministic across
// escalation paths. (A later-write-wins upgrade was considered and rejected;
// see DESIGN.md.)
type SignalSet struct {
	seen map[string]struct{}
	list []Signal
}

// NewSignalSet returns an empty set.
func NewSignalSet() *SignalSet {
	return &SignalSet{seen: make(map[string]struct{})}
}

// Add inserts the signal unless its ID is already present. Reports whether it
// was inserted.
func (s *SignalSet) Add(sig Signal) bool {
	if _, dup := s.seen[sig.ID]; dup {
		return false
	}
	s.seen[sig.ID] = struct{}{}
	s.list = append(s.list, sig)
	return true
}

// AddAll inserts each signal in order, skipping duplicates.
func (s *SignalSet) AddAll(sigs []Signal) {
	for _, sig := range sigs {
		s.Add(sig)
	}
}

// Has reports whether a signal with the given ID is present.
func (s *SignalSet) Has(id string) bool {
	_, ok := s.seen[id]
	return ok
}

// Signals returns the accumulated signals in insertion order. The returned
// slice is shared; callers must not mutate it.
func (s *SignalSet) Signals() []Signal {
	return s.list
}

// Len returns the number of distinct signals.
func (s *SignalSet) Len() int {
	return len(s.list)
}
