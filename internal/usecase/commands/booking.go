package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"booking-lifecycle/internal/domain/booking"
	"booking-lifecycle/internal/domain/refund"
	"booking-lifecycle/internal/infra"
	"booking-lifecycle/internal/pkg/clock"
	"booking-lifecycle/internal/pkg/errs"
	"booking-lifecycle/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

var (
	ErrAcknowledgementRequired = errs.New("cancellation must be acknowledged")
	ErrNotAParty               = errs.New("caller is not a party to this booking")
	ErrCheckInMethodRequired   = errs.New("check-in method is required")
)

type CancelInput struct {
	Reason       string
	Acknowledged bool
	QuoteID      *uuid.UUID
}

type ActionResult struct {
	Message string
	// Nil when the transition succeeded but the booking could not be read back.
	Detail *queries.BookingDetail
}

type CancelResult struct {
	ActionResult
	Preview       queries.RefundView
	QuoteHonoured bool
	// Refund the backend recorded; nil until it reports one.
	AuthoritativeRefund *decimal.Decimal
	Diverged            bool
}

type BookingCommands interface {
	Accept(ctx context.Context, id string, caller queries.Caller) (*ActionResult, error)
	Decline(ctx context.Context, id string, caller queries.Caller) (*ActionResult, error)
	Complete(ctx context.Context, id string, caller queries.Caller) (*ActionResult, error)
	CheckIn(ctx context.Context, id string, caller queries.Caller, method string) (*ActionResult, error)
	QuoteCancellation(ctx context.Context, id string, caller queries.Caller) (*refund.Quote, error)
	Cancel(ctx context.Context, id string, caller queries.Caller, in CancelInput) (*CancelResult, error)
}

type bookingUseCaseImpl struct {
	gateway  BookingGateway
	quotes   QuoteStore
	queries  queries.BookingQueries
	clock    clock.Clock
	quoteTTL time.Duration
	logger   *slog.Logger
	cancels  singleflight.Group
}

func NewBookingUseCase(
	gateway BookingGateway,
	quotes QuoteStore,
	bookingQueries queries.BookingQueries,
	clk clock.Clock,
	quoteTTL time.Duration,
	logger *slog.Logger,
) BookingCommands {
	return &bookingUseCaseImpl{
		gateway:  gateway,
		quotes:   quotes,
		queries:  bookingQueries,
		clock:    clk,
		quoteTTL: quoteTTL,
		logger:   logger,
	}
}

func (uc *bookingUseCaseImpl) Accept(ctx context.Context, id string, caller queries.Caller) (*ActionResult, error) {
	return uc.transition(ctx, id, caller, booking.ActionAccept, func(ctx context.Context, _ booking.Actor) (string, error) {
		return uc.gateway.Accept(ctx, id)
	})
}

func (uc *bookingUseCaseImpl) Decline(ctx context.Context, id string, caller queries.Caller) (*ActionResult, error) {
	return uc.transition(ctx, id, caller, booking.ActionDecline, func(ctx context.Context, _ booking.Actor) (string, error) {
		return uc.gateway.Decline(ctx, id)
	})
}

func (uc *bookingUseCaseImpl) Complete(ctx context.Context, id string, caller queries.Caller) (*ActionResult, error) {
	return uc.transition(ctx, id, caller, booking.ActionComplete, func(ctx context.Context, _ booking.Actor) (string, error) {
		return uc.gateway.Complete(ctx, id)
	})
}

func (uc *bookingUseCaseImpl) CheckIn(ctx context.Context, id string, caller queries.Caller, method string) (*ActionResult, error) {
	method = strings.TrimSpace(method)
	if method == "" {
		return nil, errs.Mark(ErrCheckInMethodRequired, errs.ErrDomainValidation)
	}
	return uc.transition(ctx, id, caller, booking.ActionCheckIn, func(ctx context.Context, actor booking.Actor) (string, error) {
		return uc.gateway.CheckIn(ctx, id, actor, method)
	})
}

// transition runs the advisory guard, submits, then reads the booking back.
// Nothing is changed locally; the re-read is the only source of new state.
func (uc *bookingUseCaseImpl) transition(
	ctx context.Context,
	id string,
	caller queries.Caller,
	action booking.Action,
	submit func(context.Context, booking.Actor) (string, error),
) (*ActionResult, error) {
	bk, actor, err := uc.loadAs(ctx, id, caller)
	if err != nil {
		return nil, err
	}
	if err := bk.Guard(action, actor, uc.clock.Now()); err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	msg, err := submit(ctx, actor)
	if err != nil {
		return nil, queries.MapGatewayError(err)
	}

	return &ActionResult{Message: msg, Detail: uc.reread(ctx, id, caller, action)}, nil
}

// QuoteCancellation snapshots "now" for the cancellation dialog.
func (uc *bookingUseCaseImpl) QuoteCancellation(ctx context.Context, id string, caller queries.Caller) (*refund.Quote, error) {
	bk, actor, err := uc.loadAs(ctx, id, caller)
	if err != nil {
		return nil, err
	}
	now := uc.clock.Now()
	if err := bk.Guard(booking.ActionCancel, actor, now); err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	res, err := refund.Calculate(refund.InputFor(bk, now))
	if err != nil {
		return nil, errs.Wrap(err, "calculate refund")
	}

	q := refund.NewQuote(bk.ID(), res, uc.quoteTTL)
	if err := uc.quotes.Save(ctx, q); err != nil {
		// An unsaved quote only means "now" is re-evaluated at submit.
		uc.logger.Warn("failed to store cancellation quote",
			slog.String("booking_id", id),
			slog.String("error", err.Error()))
	}
	return &q, nil
}

// Cancel submits a cancellation. Each caller is authorized and guarded on
// its own; only a repeated submission by the same caller shares the upstream
// request. The backend still has to reject a second writer on its own.
func (uc *bookingUseCaseImpl) Cancel(ctx context.Context, id string, caller queries.Caller, in CancelInput) (*CancelResult, error) {
	if !in.Acknowledged {
		return nil, errs.Mark(ErrAcknowledgementRequired, errs.ErrDomainValidation)
	}

	bk, actor, err := uc.loadAs(ctx, id, caller)
	if err != nil {
		return nil, err
	}

	// The guard always uses the real clock; a quote only pins the refund tier.
	now := uc.clock.Now()
	if err := bk.Guard(booking.ActionCancel, actor, now); err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}
	asOf, honoured := uc.quotedNow(ctx, bk.ID(), in.QuoteID, now)
	preview, err := refund.Calculate(refund.InputFor(bk, asOf))
	if err != nil {
		return nil, errs.Wrap(err, "calculate refund")
	}

	// Joined callers must not fail because the first caller went away.
	submitCtx := context.WithoutCancel(ctx)
	v, err, shared := uc.cancels.Do(id+"/"+caller.UserID, func() (any, error) {
		return uc.gateway.Cancel(submitCtx, id, in.Reason, uuid.NewString())
	})
	if shared {
		uc.logger.Info("cancellation collapsed with an in-flight request",
			slog.String("booking_id", id),
			slog.String("user_id", caller.UserID))
	}
	if err != nil {
		return nil, queries.MapGatewayError(err)
	}
	if in.QuoteID != nil {
		if err := uc.quotes.Delete(ctx, *in.QuoteID); err != nil {
			uc.logger.Warn("failed to delete used quote", slog.String("quote_id", in.QuoteID.String()))
		}
	}

	result := &CancelResult{
		ActionResult:  ActionResult{Message: v.(string), Detail: uc.reread(ctx, id, caller, booking.ActionCancel)},
		Preview:       queries.ToRefundView(preview),
		QuoteHonoured: honoured,
	}
	if result.Detail != nil && result.Detail.Booking.RefundAmount != nil {
		authoritative := *result.Detail.Booking.RefundAmount
		result.AuthoritativeRefund = &authoritative
		if !authoritative.Equal(preview.RefundAmount.Decimal()) {
			result.Diverged = true
			uc.logger.Warn("refund preview diverged from recorded refund",
				slog.String("booking_id", id),
				slog.String("preview", preview.RefundAmount.String()),
				slog.String("recorded", authoritative.StringFixed(2)),
				slog.Time("as_of", asOf),
				slog.Bool("quote_honoured", honoured))
		}
	}
	return result, nil
}

// quotedNow returns the quote's as-of time when the quote is live and belongs
// to this booking, otherwise now.
func (uc *bookingUseCaseImpl) quotedNow(ctx context.Context, bookingID string, quoteID *uuid.UUID, now time.Time) (time.Time, bool) {
	if quoteID == nil {
		return now, false
	}
	q, err := uc.quotes.Get(ctx, *quoteID)
	if err != nil {
		if !infra.IsKind(err, infra.KindNotFound) {
			uc.logger.Warn("failed to read cancellation quote",
				slog.String("quote_id", quoteID.String()),
				slog.String("error", err.Error()))
		}
		return now, false
	}
	if !q.Honours(bookingID, now) {
		return now, false
	}
	return q.AsOf, true
}

func (uc *bookingUseCaseImpl) loadAs(ctx context.Context, id string, caller queries.Caller) (*booking.Booking, booking.Actor, error) {
	bk, err := uc.queries.Load(ctx, id)
	if err != nil {
		return nil, "", err
	}
	actor, ok := bk.ActorFor(caller.UserID, caller.Role)
	if !ok {
		return nil, "", errs.Mark(ErrNotAParty, errs.ErrDomainValidation)
	}
	return bk, actor, nil
}

func (uc *bookingUseCaseImpl) reread(ctx context.Context, id string, caller queries.Caller, action booking.Action) *queries.BookingDetail {
	detail, err := uc.queries.GetDetail(ctx, id, caller)
	if err != nil {
		uc.logger.Warn("transition accepted but booking could not be re-read",
			slog.String("booking_id", id),
			slog.String("action", action.String()),
			slog.String("error", err.Error()))
		return nil
	}
	return detail
}
