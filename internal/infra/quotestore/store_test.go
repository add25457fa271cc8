//go:build unit

package quotestore

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"booking-lifecycle/internal/domain/booking"
	"booking-lifecycle/internal/domain/refund"
	"booking-lifecycle/internal/infra"
	"booking-lifecycle/internal/pkg/clock"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, time.June, 7, 12, 0, 0, 0, time.UTC)

func sampleQuote() refund.Quote {
	return refund.NewQuote("bk_1", refund.Result{
		AsOf:              t0,
		Percentage:        decimal.RequireFromString("33.33"),
		RefundAmount:      booking.MustMoney("33.33"),
		ForfeitAmount:     booking.MustMoney("66.67"),
		HostPayout:        booking.MustMoney("66.67"),
		DaysUntilCheckIn:  -1,
		HoursUntilCheckIn: -3.5,
		Category:          refund.CategoryPartial,
		Tier:              refund.TierAfterCheckIn,
		NightsStayed:      1,
		MandatoryNights:   2,
		NightsRemaining:   1,
	}, 15*time.Minute)
}

func TestRecordRoundTrip(t *testing.T) {
	q := sampleQuote()

	raw, err := encode(q)
	require.NoError(t, err)
	got, err := decode(raw)
	require.NoError(t, err)

	opts := cmp.Options{
		cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) }),
		cmp.Comparer(func(a, b booking.Money) bool { return a.Equal(b) }),
		cmp.Comparer(func(a, b time.Time) bool { return a.Equal(b) }),
	}
	if diff := cmp.Diff(q, got, opts); diff != "" {
		t.Errorf("quote mismatch (-want +got):\n%s", diff)
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewMockClock(t0)
	store := NewMemoryStore(clk, slog.New(slog.NewTextHandler(io.Discard, nil)))

	q := sampleQuote()
	require.NoError(t, store.Save(ctx, q))

	got, err := store.Get(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, q.BookingID, got.BookingID)

	_, err = store.Get(ctx, uuid.New())
	assert.True(t, infra.IsKind(err, infra.KindNotFound))

	clk.Add(15 * time.Minute)
	_, err = store.Get(ctx, q.ID)
	assert.True(t, infra.IsKind(err, infra.KindNotFound), "expired quotes are gone")

	clk.Set(t0)
	require.NoError(t, store.Save(ctx, q))
	require.NoError(t, store.Delete(ctx, q.ID))
	_, err = store.Get(ctx, q.ID)
	assert.True(t, infra.IsKind(err, infra.KindNotFound))

	clk.Set(t0.Add(time.Hour))
	require.NoError(t, store.Save(ctx, q), "saving an expired quote is a no-op")
	assert.Empty(t, store.quotes)
}
