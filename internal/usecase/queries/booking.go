package queries

import (
	"context"
	"log/slog"
	"time"

	"booking-lifecycle/internal/domain/booking"
	"booking-lifecycle/internal/domain/policy"
	"booking-lifecycle/internal/domain/refund"
	"booking-lifecycle/internal/pkg/clock"
	"booking-lifecycle/internal/pkg/errs"
)

type BookingReader interface {
	GetBooking(ctx context.Context, id string) (booking.Snapshot, error)
}

type BookingQueries interface {
	Load(ctx context.Context, id string) (*booking.Booking, error)
	GetDetail(ctx context.Context, id string, caller Caller) (*BookingDetail, error)
	PreviewRefund(ctx context.Context, id string, at time.Time) (*RefundView, error)
}

type bookingQueriesImpl struct {
	reader     BookingReader
	clock      clock.Clock
	defaultLoc *time.Location
	logger     *slog.Logger
}

func NewBookingQueries(reader BookingReader, clk clock.Clock, defaultLoc *time.Location, logger *slog.Logger) BookingQueries {
	return &bookingQueriesImpl{
		reader:     reader,
		clock:      clk,
		defaultLoc: defaultLoc,
		logger:     logger,
	}
}

// Load reads the booking from the marketplace and validates it.
func (q *bookingQueriesImpl) Load(ctx context.Context, id string) (*booking.Booking, error) {
	snap, err := q.reader.GetBooking(ctx, id)
	if err != nil {
		return nil, MapGatewayError(err)
	}
	bk, err := booking.Reconstruct(snap, q.defaultLoc)
	if err != nil {
		q.logger.Warn("marketplace returned an unusable booking",
			slog.String("booking_id", id),
			slog.String("error", err.Error()))
		return nil, errs.Mark(errs.Wrapf(err, "reconstruct booking %s", id), errs.ErrUpstreamInvalid)
	}
	return bk, nil
}

func (q *bookingQueriesImpl) GetDetail(ctx context.Context, id string, caller Caller) (*BookingDetail, error) {
	bk, err := q.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return BuildDetail(bk, caller, q.clock.Now())
}

// PreviewRefund computes the refund a cancellation at "at" would yield; a zero
// "at" means now.
func (q *bookingQueriesImpl) PreviewRefund(ctx context.Context, id string, at time.Time) (*RefundView, error) {
	if at.IsZero() {
		at = q.clock.Now()
	}
	bk, err := q.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	res, err := refund.Calculate(refund.InputFor(bk, at))
	if err != nil {
		return nil, errs.Wrap(err, "calculate refund")
	}
	view := ToRefundView(res)
	return &view, nil
}

// BuildDetail assembles what the booking detail view renders for caller at now.
func BuildDetail(bk *booking.Booking, caller Caller, now time.Time) (*BookingDetail, error) {
	res, err := refund.Calculate(refund.InputFor(bk, now))
	if err != nil {
		return nil, errs.Wrap(err, "calculate refund")
	}

	detail := &BookingDetail{
		Booking:          ToBookingView(bk),
		AvailableActions: []string{},
		RefundPreview:    ToRefundView(res),
	}
	if actor, ok := bk.ActorFor(caller.UserID, caller.Role); ok {
		detail.Actor = actor.String()
		for _, a := range bk.AvailableActions(actor, now) {
			detail.AvailableActions = append(detail.AvailableActions, a.String())
		}
	}
	return detail, nil
}

func ToBookingView(bk *booking.Booking) BookingView {
	party := bk.Party()
	state := bk.State()
	v := BookingView{
		ID:            bk.ID(),
		Reference:     bk.Reference(),
		Status:        state.Status().String(),
		Phase:         state.Phase().String(),
		StatusLabel:   state.Label(),
		PaymentStatus: string(bk.PaymentStatus()),
		ArrivalDate:   bk.ArrivalDate().String(),
		DepartureDate: bk.DepartureDate().String(),
		CheckInAt:     bk.CheckInAt(),
		CheckOutAt:    bk.CheckOutAt(),
		TimeZone:      bk.Location().String(),
		Nights:        bk.Nights(),
		Guests:        party.Guests,
		Children:      party.Children,
		Pets:          party.Pets,
		GrandTotal:    bk.GrandTotal().Decimal(),
		RefundStatus:  bk.RefundStatus(),
		CreatedAt:     bk.CreatedAt(),
		ConfirmedAt:   bk.ConfirmedAt(),
		CancelledAt:   bk.CancelledAt(),
		PolicyType:    policy.TypeFor(bk.Nights()).String(),
	}
	if m := bk.RefundAmount(); m != nil {
		d := m.Decimal()
		v.RefundAmount = &d
	}
	if rec, ok := state.CheckIn(); ok {
		at := rec.At
		v.CheckedInAt = &at
		v.CheckedInBy = rec.By.String()
	}
	if p := bk.Policy(); p != nil {
		v.Policy = &PolicyView{
			ID:            p.ID,
			Type:          p.Type.String(),
			GroupName:     p.GroupName,
			BeforeCheckIn: p.BeforeCheckIn,
			AfterCheckIn:  p.AfterCheckIn,
		}
	}
	return v
}

func ToRefundView(r refund.Result) RefundView {
	return RefundView{
		AsOf:              r.AsOf,
		Percentage:        r.Percentage,
		RefundAmount:      r.RefundAmount.Decimal().Round(2),
		ForfeitAmount:     r.ForfeitAmount.Decimal().Round(2),
		HostPayout:        r.HostPayout.Decimal().Round(2),
		IsBeforeCheckIn:   r.IsBeforeCheckIn,
		DaysUntilCheckIn:  r.DaysUntilCheckIn,
		HoursUntilCheckIn: r.HoursUntilCheckIn,
		Category:          r.Category.String(),
		Tier:              r.Tier,
		NightsStayed:      r.NightsStayed,
		MandatoryNights:   r.MandatoryNights,
		NightsRemaining:   r.NightsRemaining,
		Degraded:          r.Degraded,
	}
}
