package policy

import "strings"

type Unit string

const (
	UnitDays  Unit = "days"
	UnitHours Unit = "hours"
)

// Threshold grants Percent when the time left before check-in is at least Min
// of Unit. Day thresholds compare against whole days, hour thresholds against
// fractional hours.
type Threshold struct {
	Unit    Unit
	Min     int
	Percent int
}

func (t Threshold) Met(days int, hours float64) bool {
	switch t.Unit {
	case UnitDays:
		return days >= t.Min
	case UnitHours:
		return hours >= float64(t.Min)
	default:
		return false
	}
}

type Tier struct {
	Name    string
	Keyword string
	// Ordered from most to least generous; the first met threshold wins.
	Thresholds []Threshold
}

// Percent returns the refund percentage for the time left before check-in.
func (t Tier) Percent(days int, hours float64) int {
	for _, th := range t.Thresholds {
		if th.Met(days, hours) {
			return th.Percent
		}
	}
	return 0
}

// Tiers is matched in order against the lower-cased group name. The keywords
// and thresholds are the listing platform's published tiers; names that match
// none of them fall through to the prose parser.
var Tiers = []Tier{
	{
		Name:    "easy",
		Keyword: "easy",
		Thresholds: []Threshold{
			{Unit: UnitHours, Min: 24, Percent: 100},
		},
	},
	{
		Name:    "flexible_short",
		Keyword: "flexible short",
		Thresholds: []Threshold{
			{Unit: UnitHours, Min: 72, Percent: 100},
		},
	},
	{
		Name:    "reasonable",
		Keyword: "reasonable",
		Thresholds: []Threshold{
			{Unit: UnitDays, Min: 7, Percent: 100},
			{Unit: UnitHours, Min: 72, Percent: 50},
		},
	},
	{
		Name:    "strong",
		Keyword: "strong",
		Thresholds: []Threshold{
			{Unit: UnitDays, Min: 14, Percent: 100},
			{Unit: UnitDays, Min: 7, Percent: 50},
		},
	},
	{
		Name:    "strict_short",
		Keyword: "strict short",
		Thresholds: []Threshold{
			{Unit: UnitDays, Min: 28, Percent: 100},
			{Unit: UnitDays, Min: 14, Percent: 50},
		},
	},
	{
		Name:    "flexible_long",
		Keyword: "flexible long",
		Thresholds: []Threshold{
			{Unit: UnitDays, Min: 28, Percent: 100},
		},
	},
	{
		Name:    "strict_long",
		Keyword: "strict long",
		Thresholds: []Threshold{
			{Unit: UnitDays, Min: 28, Percent: 100},
		},
	},
}

// Classify finds the tier whose keyword occurs in the policy's group name.
func Classify(p *CancellationPolicy) (Tier, bool) {
	if p == nil {
		return Tier{}, false
	}
	name := p.normalizedGroupName()
	if name == "" {
		return Tier{}, false
	}
	for _, tier := range Tiers {
		if strings.Contains(name, tier.Keyword) {
			return tier, true
		}
	}
	return Tier{}, false
}
