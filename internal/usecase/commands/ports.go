package commands

import (
	"context"

	"booking-lifecycle/internal/domain/booking"
	"booking-lifecycle/internal/domain/refund"
	"booking-lifecycle/internal/usecase/queries"

	"github.com/google/uuid"
)

// BookingGateway submits transitions to the marketplace, which decides
// whether they are legal.
type BookingGateway interface {
	queries.BookingReader
	Accept(ctx context.Context, id string) (string, error)
	Decline(ctx context.Context, id string) (string, error)
	Complete(ctx context.Context, id string) (string, error)
	CheckIn(ctx context.Context, id string, by booking.Actor, method string) (string, error)
	Cancel(ctx context.Context, id, reason, idempotencyKey string) (string, error)
}

type QuoteStore interface {
	Save(ctx context.Context, q refund.Quote) error
	Get(ctx context.Context, id uuid.UUID) (refund.Quote, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
