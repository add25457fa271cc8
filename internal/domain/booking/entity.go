package booking

import (
	"time"

	"booking-lifecycle/internal/domain/policy"
	"booking-lifecycle/internal/pkg/localtime"

	"github.com/shopspring/decimal"
)

// Snapshot is the booking as read from the marketplace, before validation.
type Snapshot struct {
	ID            string
	Reference     string
	GuestID       string
	HostID        string
	ArrivalDate   localtime.Date
	DepartureDate localtime.Date
	CreatedAt     time.Time
	ConfirmedAt   *time.Time
	CheckedInAt   *time.Time
	CheckedInBy   Actor
	CancelledAt   *time.Time
	Party         Party
	GrandTotal    decimal.Decimal
	RefundAmount  *decimal.Decimal
	RefundStatus  string
	Status        Status
	PaymentStatus PaymentStatus
	Stay          StaySnapshot
}

// Booking is a read model of a marketplace booking. It is never mutated
// locally; every transition goes through the backend and the booking is read
// again afterwards.
type Booking struct {
	id            string
	reference     string
	guestID       string
	hostID        string
	arrival       localtime.Date
	departure     localtime.Date
	createdAt     time.Time
	confirmedAt   *time.Time
	cancelledAt   *time.Time
	party         Party
	grandTotal    Money
	refundAmount  *Money
	refundStatus  string
	state         State
	paymentStatus PaymentStatus
	stay          StaySnapshot
	loc           *time.Location
}

// Reconstruct validates a snapshot. The property zone falls back to
// defaultLoc when the stay names none. Same-day stays (zero nights) are
// accepted; the refund calculator handles them conservatively.
func Reconstruct(s Snapshot, defaultLoc *time.Location) (*Booking, error) {
	if s.ArrivalDate.IsZero() || s.DepartureDate.IsZero() || s.DepartureDate.Before(s.ArrivalDate) {
		return nil, ErrInvalidStayDates
	}

	total, err := NewMoney(s.GrandTotal)
	if err != nil {
		return nil, err
	}

	var refund *Money
	if s.RefundAmount != nil {
		m, err := NewMoney(*s.RefundAmount)
		if err != nil {
			return nil, err
		}
		refund = &m
	}

	state, err := DeriveState(s.Status, s.CheckedInAt, s.CheckedInBy)
	if err != nil {
		return nil, err
	}

	return &Booking{
		id:            s.ID,
		reference:     s.Reference,
		guestID:       s.GuestID,
		hostID:        s.HostID,
		arrival:       s.ArrivalDate,
		departure:     s.DepartureDate,
		createdAt:     s.CreatedAt,
		confirmedAt:   s.ConfirmedAt,
		cancelledAt:   s.CancelledAt,
		party:         s.Party,
		grandTotal:    total,
		refundAmount:  refund,
		refundStatus:  s.RefundStatus,
		state:         state,
		paymentStatus: s.PaymentStatus,
		stay:          s.Stay,
		loc:           localtime.ResolveLocation(s.Stay.TimeZone, defaultLoc),
	}, nil
}

func (b *Booking) ID() string                    { return b.id }
func (b *Booking) Reference() string             { return b.reference }
func (b *Booking) GuestID() string               { return b.guestID }
func (b *Booking) HostID() string                { return b.hostID }
func (b *Booking) ArrivalDate() localtime.Date   { return b.arrival }
func (b *Booking) DepartureDate() localtime.Date { return b.departure }
func (b *Booking) CreatedAt() time.Time          { return b.createdAt }
func (b *Booking) ConfirmedAt() *time.Time       { return b.confirmedAt }
func (b *Booking) CancelledAt() *time.Time       { return b.cancelledAt }
func (b *Booking) Party() Party                  { return b.party }
func (b *Booking) GrandTotal() Money             { return b.grandTotal }
func (b *Booking) RefundAmount() *Money          { return b.refundAmount }
func (b *Booking) RefundStatus() string          { return b.refundStatus }
func (b *Booking) State() State                  { return b.state }
func (b *Booking) Status() Status                { return b.state.Status() }
func (b *Booking) PaymentStatus() PaymentStatus  { return b.paymentStatus }
func (b *Booking) Stay() StaySnapshot            { return b.stay }
func (b *Booking) Location() *time.Location      { return b.loc }

func (b *Booking) Nights() int {
	return localtime.NightsBetween(b.arrival, b.departure)
}

// CheckInAt is arrival date + check-in time in the property zone.
func (b *Booking) CheckInAt() time.Time {
	return localtime.Combine(b.arrival, b.stay.CheckInAfter, b.loc)
}

// CheckOutAt is departure date + check-out time in the property zone.
func (b *Booking) CheckOutAt() time.Time {
	return localtime.Combine(b.departure, b.stay.CheckOutBefore, b.loc)
}

// Policy is the cancellation policy that governs this stay, or nil.
func (b *Booking) Policy() *policy.CancellationPolicy {
	return policy.Resolve(b.Nights(), b.stay)
}

// ActorFor resolves which party the caller is. Admin role wins over
// party membership.
func (b *Booking) ActorFor(userID string, role string) (Actor, bool) {
	if a, err := ParseActor(role); err == nil && a == ActorAdmin {
		return ActorAdmin, true
	}
	switch {
	case userID == "":
		return "", false
	case userID == b.hostID:
		return ActorHost, true
	case userID == b.guestID:
		return ActorGuest, true
	default:
		return "", false
	}
}
