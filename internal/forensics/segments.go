package forensics

// Segment is one fixed-duration authenticity window over a frame sequence.
// Only Flagged is mutated after creation (by change-point enrichment).
type Segment struct {
	Index        int     `json:"segment_index"`
	StartTime    float64 `json:"start_time"`
	EndTime      float64 `json:"end_time"`
	Authenticity float64 `json:"authenticity_score"`
	Flagged      bool    `json:"flagged"`
}

// ChangeDirection indicates which side of the mean the CUSUM statistic
// crossed.
type ChangeDirection string

const (
	// DirectionIncrease marks a manipulation-risk increase (authenticity drop).
	DirectionIncrease ChangeDirection = "increase"
	// DirectionDecrease marks an authenticity recovery.
	DirectionDecrease ChangeDirection = "decrease"
)

// ChangePoint is a detected shift in the segment authenticity sequence.
// Read-only once produced.
type ChangePoint struct {
	Timestamp    float64         `json:"timestamp"`
	SegmentIndex int             `json:"segment_index"`
	Statistic    float64         `json:"statistic"`
	Direction    ChangeDirection `json:"direction"`
}
