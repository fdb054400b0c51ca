package scoring

import "math"

// RiskLevel is the classified concern tier for a calibrated probability.
type RiskLevel string

const (
	RiskLow        RiskLevel = "low"
	RiskSuspicious RiskLevel = "suspicious"
	RiskHarmful    RiskLevel = "harmful"
	RiskHighRisk   RiskLevel = "high_risk"
)

// Verdict labels.
const (
	VerdictAuthentic   = "authentic"
	VerdictSuspicious  = "suspicious"
	VerdictManipulated = "manipulated"
)

// Probability boundaries for the risk ladder. Boundaries belong to the upper
// tier.
const (
	highRiskFloor   = 0.8
	harmfulFloor    = 0.55
	suspiciousFloor = 0.3
)

// ClassifyRisk maps a calibrated probability onto the risk ladder and its
// verdict.
func ClassifyRisk(p float64) (RiskLevel, string) {
	switch {
	case p >= highRiskFloor:
		return RiskHighRisk, VerdictManipulated
	case p >= harmfulFloor:
		return RiskHarmful, VerdictManipulated
	case p >= suspiciousFloor:
		return RiskSuspicious, VerdictSuspicious
	default:
		return RiskLow, VerdictAuthentic
	}
}

// RiskScore converts the probability to the 0-100 integer scale reports use.
func RiskScore(p float64) int {
	return int(math.Round(p * 100))
}
