package policy

import "strings"

const fullRefundPhrase = "full refund"

// Only these literal phrases are recognised, in this order of precedence.
var proseThresholds = []struct {
	phrase    string
	threshold Threshold
}{
	{"28 days", Threshold{Unit: UnitDays, Min: 28, Percent: 100}},
	{"14 days", Threshold{Unit: UnitDays, Min: 14, Percent: 100}},
	{"7 days", Threshold{Unit: UnitDays, Min: 7, Percent: 100}},
	{"72 hours", Threshold{Unit: UnitHours, Min: 72, Percent: 100}},
	{"24 hours", Threshold{Unit: UnitHours, Min: 24, Percent: 100}},
}

// ParseBeforeCheckIn reads a full-refund threshold out of the policy's
// before-check-in prose, e.g. "Full refund if cancelled at least 72 hours
// before check-in". ok is false when the text has no recognisable rule; the
// caller then grants nothing.
//
// TODO: drop once policies carry a typed tier with explicit thresholds.
func ParseBeforeCheckIn(text string) (Threshold, bool) {
	lower := strings.ToLower(text)
	if !strings.Contains(lower, fullRefundPhrase) {
		return Threshold{}, false
	}
	for _, p := range proseThresholds {
		if strings.Contains(lower, p.phrase) {
			return p.threshold, true
		}
	}
	return Threshold{}, false
}
