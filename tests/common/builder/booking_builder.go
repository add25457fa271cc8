//go:build unit || e2e

package builder

import (
	"time"

	"booking-lifecycle/internal/domain/booking"
	"booking-lifecycle/internal/domain/policy"
	reqdto "booking-lifecycle/internal/handler/dto/request"
	"booking-lifecycle/internal/infra/marketplace"
	"booking-lifecycle/internal/pkg/localtime"
	"booking-lifecycle/internal/usecase/queries"

	"github.com/shopspring/decimal"
)

const (
	DefaultGuestID = "guest-1"
	DefaultHostID  = "host-1"
)

type BookingBuilder struct {
	ID            string
	Reference     string
	GuestID       string
	HostID        string
	Arrival       localtime.Date
	Departure     localtime.Date
	CreatedAt     time.Time
	CheckedInAt   *time.Time
	CheckedInBy   booking.Actor
	CancelledAt   *time.Time
	Party         booking.Party
	GrandTotal    decimal.Decimal
	RefundAmount  *decimal.Decimal
	RefundStatus  string
	Status        booking.Status
	PaymentStatus booking.PaymentStatus
	TimeZone      string
	CheckInAfter  localtime.TimeOfDay
	CheckOutAt    localtime.TimeOfDay
	ShortPolicy   *policy.CancellationPolicy
	LongPolicy    *policy.CancellationPolicy
}

// NewBookingBuilder returns a confirmed five-night stay in New York,
// 10–15 July 2025, 1000.00 total, under a strict short-term policy.
func NewBookingBuilder() *BookingBuilder {
	return &BookingBuilder{
		ID:            "bk_123",
		Reference:     "HX-4821",
		GuestID:       DefaultGuestID,
		HostID:        DefaultHostID,
		Arrival:       localtime.NewDate(2025, time.July, 10),
		Departure:     localtime.NewDate(2025, time.July, 15),
		CreatedAt:     time.Date(2025, time.May, 1, 12, 0, 0, 0, time.UTC),
		Party:         booking.Party{Guests: 2, Children: 1},
		GrandTotal:    decimal.RequireFromString("1000.00"),
		Status:        booking.StatusConfirmed,
		PaymentStatus: booking.PaymentCaptured,
		TimeZone:      "America/New_York",
		CheckInAfter:  localtime.TimeOfDay{Hour: 15},
		CheckOutAt:    localtime.TimeOfDay{Hour: 11},
		ShortPolicy: &policy.CancellationPolicy{
			ID:            "pol-short",
			Type:          policy.TypeShort,
			GroupName:     "Strict Short Term",
			BeforeCheckIn: "Full refund up to 28 days before check-in, 50% up to 14 days.",
			AfterCheckIn:  "Nights stayed plus one are non-refundable; half of the remaining nights are refunded.",
		},
		LongPolicy: &policy.CancellationPolicy{
			ID:            "pol-long",
			Type:          policy.TypeLong,
			GroupName:     "Strict Long Term",
			BeforeCheckIn: "Full refund up to 28 days before check-in.",
		},
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *BookingBuilder) BuildSnapshot() booking.Snapshot {
	return booking.Snapshot{
		ID:            b.ID,
		Reference:     b.Reference,
		GuestID:       b.GuestID,
		HostID:        b.HostID,
		ArrivalDate:   b.Arrival,
		DepartureDate: b.Departure,
		CreatedAt:     b.CreatedAt,
		CheckedInAt:   b.CheckedInAt,
		CheckedInBy:   b.CheckedInBy,
		CancelledAt:   b.CancelledAt,
		Party:         b.Party,
		GrandTotal:    b.GrandTotal,
		RefundAmount:  b.RefundAmount,
		RefundStatus:  b.RefundStatus,
		Status:        b.Status,
		PaymentStatus: b.PaymentStatus,
		Stay: booking.StaySnapshot{
			TimeZone:                b.TimeZone,
			CheckInAfter:            b.CheckInAfter,
			CheckOutBefore:          b.CheckOutAt,
			CancellationPolicyShort: b.ShortPolicy,
			CancellationPolicyLong:  b.LongPolicy,
		},
	}
}

func (b *BookingBuilder) BuildDomain() (*booking.Booking, error) {
	return booking.Reconstruct(b.BuildSnapshot(), time.UTC)
}

// MustBuildDomain panics on invalid builder state; for tests that only need a valid booking.
func (b *BookingBuilder) MustBuildDomain() *booking.Booking {
	bk, err := b.BuildDomain()
	if err != nil {
		panic(err)
	}
	return bk
}

// BuildPayload renders the booking the way the marketplace API returns it,
// with nested stay and pricing.
func (b *BookingBuilder) BuildPayload() marketplace.BookingPayload {
	total := b.GrandTotal
	created := b.CreatedAt
	return marketplace.BookingPayload{
		ID:               b.ID,
		BookingReference: b.Reference,
		ArrivalDate:      b.Arrival.String(),
		DepartureDate:    b.Departure.String(),
		CreatedAt:        &created,
		CheckedInAt:      b.CheckedInAt,
		CheckedInBy:      string(b.CheckedInBy),
		CancelledAt:      b.CancelledAt,
		Guests:           b.Party.Guests,
		Children:         b.Party.Children,
		Pets:             b.Party.Pets,
		RefundAmount:     b.RefundAmount,
		RefundStatus:     b.RefundStatus,
		Status:           string(b.Status),
		PaymentStatus:    string(b.PaymentStatus),
		Guest:            &marketplace.PartyPayload{ID: b.GuestID},
		Host:             &marketplace.PartyPayload{ID: b.HostID},
		Pricing:          &marketplace.PricingPayload{GrandTotal: &total},
		Stay: &marketplace.StayPayload{
			TimeZone:                b.TimeZone,
			CheckInAfter:            b.CheckInAfter.String(),
			CheckOutBefore:          b.CheckOutAt.String(),
			CancellationPolicyShort: policyPayload(b.ShortPolicy),
			CancellationPolicyLong:  policyPayload(b.LongPolicy),
		},
	}
}

func policyPayload(p *policy.CancellationPolicy) *marketplace.PolicyPayload {
	if p == nil {
		return nil
	}
	return &marketplace.PolicyPayload{
		ID:            p.ID,
		Type:          p.Type.String(),
		GroupName:     p.GroupName,
		BeforeCheckIn: p.BeforeCheckIn,
		AfterCheckIn:  p.AfterCheckIn,
	}
}

func (b *BookingBuilder) BuildDetail(caller queries.Caller, now time.Time) *queries.BookingDetail {
	detail, err := queries.BuildDetail(b.MustBuildDomain(), caller, now)
	if err != nil {
		panic(err)
	}
	return detail
}

func (b *BookingBuilder) BuildCancelRequestDTO() reqdto.CancelBookingRequest {
	return reqdto.CancelBookingRequest{
		Reason:       "Plans changed",
		Acknowledged: true,
	}
}

func (b *BookingBuilder) BuildCheckInRequestDTO() reqdto.CheckInRequest {
	return reqdto.CheckInRequest{CheckInMethod: "self_check_in"}
}

// Fluent builder methods
func (b *BookingBuilder) WithID(id string) *BookingBuilder {
	b.ID = id
	return b
}

func (b *BookingBuilder) WithStay(arrival, departure localtime.Date) *BookingBuilder {
	b.Arrival = arrival
	b.Departure = departure
	return b
}

func (b *BookingBuilder) WithNights(nights int) *BookingBuilder {
	b.Departure = b.Arrival.AddDays(nights)
	return b
}

func (b *BookingBuilder) WithTimeZone(tz string) *BookingBuilder {
	b.TimeZone = tz
	return b
}

func (b *BookingBuilder) WithGrandTotal(total string) *BookingBuilder {
	b.GrandTotal = decimal.RequireFromString(total)
	return b
}

func (b *BookingBuilder) WithRefundAmount(amount string) *BookingBuilder {
	d := decimal.RequireFromString(amount)
	b.RefundAmount = &d
	return b
}

func (b *BookingBuilder) WithStatus(status booking.Status) *BookingBuilder {
	b.Status = status
	return b
}

func (b *BookingBuilder) WithPaymentStatus(ps booking.PaymentStatus) *BookingBuilder {
	b.PaymentStatus = ps
	return b
}

func (b *BookingBuilder) WithShortPolicyGroup(groupName string) *BookingBuilder {
	b.ShortPolicy.GroupName = groupName
	return b
}

func (b *BookingBuilder) WithoutPolicies() *BookingBuilder {
	b.ShortPolicy = nil
	b.LongPolicy = nil
	return b
}

func (b *BookingBuilder) AsPendingPayment() *BookingBuilder {
	b.Status = booking.StatusPendingPayment
	b.PaymentStatus = booking.PaymentAuthorized
	b.CheckedInAt = nil
	b.CheckedInBy = ""
	return b
}

func (b *BookingBuilder) AsCheckedIn(at time.Time, by booking.Actor) *BookingBuilder {
	b.Status = booking.StatusConfirmed
	b.CheckedInAt = &at
	b.CheckedInBy = by
	return b
}

func (b *BookingBuilder) AsCancelled(at time.Time, refund string) *BookingBuilder {
	b.Status = booking.StatusCancelled
	b.CancelledAt = &at
	b.RefundStatus = "pending"
	return b.WithRefundAmount(refund)
}

// Location loads the builder's zone; it panics on an unknown zone name.
func (b *BookingBuilder) Location() *time.Location {
	loc, err := time.LoadLocation(b.TimeZone)
	if err != nil {
		panic(err)
	}
	return loc
}

// LocalTime is a wall-clock instant in the builder's property zone.
func (b *BookingBuilder) LocalTime(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, b.Location())
}
