package refund

import (
	"time"

	"github.com/google/uuid"
)

// Quote pins a refund preview to the instant the cancellation dialog was
// opened, so the figure the user acknowledges does not drift while the
// dialog stays open across a tier boundary.
type Quote struct {
	ID        uuid.UUID
	BookingID string
	AsOf      time.Time
	Result    Result
	ExpiresAt time.Time
}

func NewQuote(bookingID string, res Result, ttl time.Duration) Quote {
	return Quote{
		ID:        uuid.New(),
		BookingID: bookingID,
		AsOf:      res.AsOf,
		Result:    res,
		ExpiresAt: res.AsOf.Add(ttl),
	}
}

func (q Quote) Expired(now time.Time) bool {
	return !now.Before(q.ExpiresAt)
}

// Honours reports whether the quote can stand in for "now" when cancelling
// bookingID.
func (q Quote) Honours(bookingID string, now time.Time) bool {
	return q.BookingID == bookingID && !q.Expired(now)
}
