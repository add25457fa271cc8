package refund

import (
	"time"

	"booking-lifecycle/internal/domain/booking"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryFull    Category = "full"
	CategoryPartial Category = "partial"
	CategoryNone    Category = "none"
)

func (c Category) String() string {
	return string(c)
}

// Tier names reported besides the policy tiers.
const (
	TierNoPolicy     = "no_policy"
	TierProse        = "prose"
	TierUnclassified = "unclassified"
	TierAfterCheckIn = "after_check_in"
)

// Reasons a conservative default replaced the computed value.
const (
	DegradedNoPolicy   = "no_policy"
	DegradedZeroNights = "zero_nights"
	DegradedZeroTotal  = "zero_total"
)

// Result is a refund preview. It is never persisted; the backend computes
// the authoritative amount when the cancellation is committed.
type Result struct {
	AsOf              time.Time
	Percentage        decimal.Decimal
	RefundAmount      booking.Money
	ForfeitAmount     booking.Money
	HostPayout        booking.Money
	IsBeforeCheckIn   bool
	DaysUntilCheckIn  int
	HoursUntilCheckIn float64
	Category          Category
	Tier              string

	// Set on the after-check-in branch only.
	NightsStayed    int
	MandatoryNights int
	NightsRemaining int

	Degraded string
}

func categorize(pct decimal.Decimal) Category {
	switch {
	case pct.GreaterThanOrEqual(hundred):
		return CategoryFull
	case pct.LessThanOrEqual(decimal.Zero):
		return CategoryNone
	default:
		return CategoryPartial
	}
}
