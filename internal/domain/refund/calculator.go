// Package refund computes cancellation refund previews. Every function takes
// "now" explicitly; nothing here reads the clock.
package refund

import (
	"errors"
	"math"
	"time"

	"booking-lifecycle/internal/domain/booking"
	"booking-lifecycle/internal/domain/policy"
	"booking-lifecycle/internal/pkg/localtime"

	"github.com/shopspring/decimal"
)

var (
	ErrNowRequired     = errors.New("refund: as-of time is required")
	ErrBookingRequired = errors.New("refund: booking is required")
)

var (
	hundred = decimal.NewFromInt(100)
	half    = decimal.NewFromFloat(0.5)
)

type Input struct {
	Booking *booking.Booking
	// Nil means the stay carries no policy of the selected type.
	Policy *policy.CancellationPolicy
	Nights int
	Now    time.Time
}

// InputFor builds the input the way the booking detail view does: nights
// from the stay dates and the policy picked by stay length.
func InputFor(b *booking.Booking, now time.Time) Input {
	return Input{Booking: b, Policy: b.Policy(), Nights: b.Nights(), Now: now}
}

// Calculate returns the refund a cancellation at in.Now would yield.
// Missing policy, zero nights and zero totals produce conservative results
// rather than errors.
func Calculate(in Input) (Result, error) {
	if in.Now.IsZero() {
		return Result{}, ErrNowRequired
	}
	if in.Booking == nil {
		return Result{}, ErrBookingRequired
	}

	checkIn := in.Booking.CheckInAt()
	days, hours := localtime.Until(in.Now, checkIn)

	res := Result{
		AsOf:              in.Now,
		IsBeforeCheckIn:   in.Now.Before(checkIn),
		DaysUntilCheckIn:  days,
		HoursUntilCheckIn: hours,
	}

	var pct decimal.Decimal
	switch {
	case in.Policy == nil:
		pct = decimal.Zero
		res.Tier = TierNoPolicy
		res.Degraded = DegradedNoPolicy
	case res.IsBeforeCheckIn:
		pct = beforeCheckIn(in.Policy, days, hours, &res)
	default:
		pct = afterCheckIn(in.Nights, in.Now.Sub(checkIn), &res)
	}

	pct = clampPercent(pct)
	res.Category = categorize(pct)
	res.Percentage = pct.Round(2)

	total := in.Booking.GrandTotal()
	if !total.IsPositive() && res.Degraded == "" {
		res.Degraded = DegradedZeroTotal
	}
	res.RefundAmount, res.ForfeitAmount = split(total, pct)
	res.HostPayout = res.ForfeitAmount

	return res, nil
}

func beforeCheckIn(p *policy.CancellationPolicy, days int, hours float64, res *Result) decimal.Decimal {
	if tier, ok := policy.Classify(p); ok {
		res.Tier = tier.Name
		return decimal.NewFromInt(int64(tier.Percent(days, hours)))
	}
	if th, ok := policy.ParseBeforeCheckIn(p.BeforeCheckIn); ok {
		res.Tier = TierProse
		if th.Met(days, hours) {
			return decimal.NewFromInt(int64(th.Percent))
		}
		return decimal.Zero
	}
	res.Tier = TierUnclassified
	return decimal.Zero
}

// afterCheckIn pays the host for every night already started plus one, and
// half of each night left after that. The ratio is taken over nights so the
// grand total never becomes a divisor.
func afterCheckIn(nights int, sinceCheckIn time.Duration, res *Result) decimal.Decimal {
	res.Tier = TierAfterCheckIn
	if nights <= 0 {
		res.Degraded = DegradedZeroNights
		return decimal.Zero
	}

	stayed := int(math.Floor(sinceCheckIn.Hours() / 24))
	if stayed < 0 {
		stayed = 0
	}
	mandatory := stayed + 1
	remaining := nights - mandatory
	if remaining < 0 {
		remaining = 0
	}

	res.NightsStayed = stayed
	res.MandatoryNights = mandatory
	res.NightsRemaining = remaining

	n := decimal.NewFromInt(int64(nights))
	hostNights := decimal.NewFromInt(int64(mandatory)).Add(half.Mul(decimal.NewFromInt(int64(remaining))))
	if hostNights.GreaterThan(n) {
		hostNights = n
	}
	return n.Sub(hostNights).Mul(hundred).Div(n)
}

func clampPercent(pct decimal.Decimal) decimal.Decimal {
	if pct.IsNegative() {
		return decimal.Zero
	}
	if pct.GreaterThan(hundred) {
		return hundred
	}
	return pct
}

// split rounds the refund to cents and leaves the remainder as forfeit, so
// refund + forfeit always equals the total.
func split(total booking.Money, pct decimal.Decimal) (refund, forfeit booking.Money) {
	if !total.IsPositive() {
		return booking.ZeroMoney(), booking.ZeroMoney()
	}
	amount := total.Decimal().Mul(pct).Div(hundred).Round(2)
	r, err := booking.NewMoney(amount)
	if err != nil {
		r = booking.ZeroMoney()
	}
	if r.Decimal().GreaterThan(total.Decimal()) {
		r = total
	}
	return r, total.Sub(r)
}
