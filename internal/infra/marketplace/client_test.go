//go:build unit

package marketplace_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"booking-lifecycle/internal/domain/booking"
	"booking-lifecycle/internal/infra"
	"booking-lifecycle/internal/infra/marketplace"
	"booking-lifecycle/internal/pkg/config"
	"booking-lifecycle/internal/pkg/jwt"
	"booking-lifecycle/internal/pkg/localtime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nestedBooking = `{
  "message": "ok",
  "booking": {
    "id": "bk_1",
    "booking_reference": "HX-1",
    "arrival_date": "2025-07-10",
    "departure_date": "2025-07-15",
    "status": "confirmed",
    "payment_status": "Captured",
    "guests": 2,
    "pricing": {"grand_total": "1250.50"},
    "guest": {"id": "guest-1"},
    "host": {"id": "host-1"},
    "stay": {
      "timezone": "Europe/Lisbon",
      "check_in_after": "4:00 PM",
      "check_out_before": "10:00",
      "cancellation_policy_short": {"id": "p1", "type": "short", "group_name": "Reasonable"}
    }
  }
}`

const snapshotBooking = `{
  "id": "bk_2",
  "arrival_date": "2025-08-01",
  "departure_date": "2025-09-01",
  "status": "pending_payment",
  "payment_status": "authorized",
  "grand_total": 3100,
  "guest_id": "guest-2",
  "host_id": "host-2",
  "listing_snapshot": "{\"timezone\":\"Asia/Tokyo\",\"cancellation_policy_long\":{\"id\":\"p2\",\"group_name\":\"Strict Long Term\"}}"
}`

func newClient(t *testing.T, handler http.HandlerFunc) *marketplace.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.MarketplaceConfig{BaseURL: srv.URL + "/", Timeout: time.Second}
	return marketplace.NewClient(cfg, time.UTC, logger)
}

func TestGetBooking(t *testing.T) {
	t.Run("nested stay and pricing", func(t *testing.T) {
		var gotAuth, gotPath string
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			gotPath = r.URL.Path
			_, _ = io.WriteString(w, nestedBooking)
		})

		ctx := jwt.ContextWithToken(context.Background(), "tok-123")
		snap, err := c.GetBooking(ctx, "bk_1")
		require.NoError(t, err)

		assert.Equal(t, "Bearer tok-123", gotAuth)
		assert.Equal(t, "/bookings/bk_1", gotPath)
		assert.Equal(t, "bk_1", snap.ID)
		assert.Equal(t, localtime.NewDate(2025, time.July, 10), snap.ArrivalDate)
		assert.Equal(t, booking.StatusConfirmed, snap.Status)
		assert.Equal(t, booking.PaymentCaptured, snap.PaymentStatus)
		assert.Equal(t, "1250.5", snap.GrandTotal.String())
		assert.Equal(t, "guest-1", snap.GuestID)
		assert.Equal(t, "host-1", snap.HostID)
		assert.Equal(t, "Europe/Lisbon", snap.Stay.TimeZone)
		assert.Equal(t, localtime.TimeOfDay{Hour: 16}, snap.Stay.CheckInAfter)
		assert.Equal(t, localtime.TimeOfDay{Hour: 10}, snap.Stay.CheckOutBefore)
		require.NotNil(t, snap.Stay.CancellationPolicyShort)
		assert.Equal(t, "Reasonable", snap.Stay.CancellationPolicyShort.GroupName)
		assert.Nil(t, snap.Stay.CancellationPolicyLong)
	})

	t.Run("listing snapshot fallback", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, snapshotBooking)
		})

		snap, err := c.GetBooking(context.Background(), "bk_2")
		require.NoError(t, err)

		assert.Equal(t, booking.StatusPendingPayment, snap.Status)
		assert.Equal(t, "3100", snap.GrandTotal.String())
		assert.Equal(t, "Asia/Tokyo", snap.Stay.TimeZone)
		assert.Equal(t, localtime.DefaultCheckIn, snap.Stay.CheckInAfter)
		assert.Equal(t, localtime.DefaultCheckOut, snap.Stay.CheckOutBefore)
		require.NotNil(t, snap.Stay.CancellationPolicyLong)
		assert.Equal(t, "Strict Long Term", snap.Stay.CancellationPolicyLong.GroupName)

		bk, err := booking.Reconstruct(snap, time.UTC)
		require.NoError(t, err)
		assert.Equal(t, 31, bk.Nights())
		assert.Same(t, snap.Stay.CancellationPolicyLong, bk.Policy())
	})

	t.Run("not found", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"message":"Booking not found"}`)
		})

		_, err := c.GetBooking(context.Background(), "missing")
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})

	t.Run("malformed payload", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"id":"bk_3","arrival_date":"soon","departure_date":"2025-07-15","status":"confirmed"}`)
		})

		_, err := c.GetBooking(context.Background(), "bk_3")
		assert.True(t, infra.IsKind(err, infra.KindDecode))
		assert.ErrorIs(t, err, localtime.ErrInvalidDate)
	})

	t.Run("unknown status", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"id":"bk_4","arrival_date":"2025-07-10","departure_date":"2025-07-15","status":"archived"}`)
		})

		_, err := c.GetBooking(context.Background(), "bk_4")
		assert.True(t, infra.IsKind(err, infra.KindDecode))
		assert.ErrorIs(t, err, booking.ErrUnknownStatus)
	})
}

func TestActions(t *testing.T) {
	t.Run("cancel forwards reason and idempotency key", func(t *testing.T) {
		var gotBody map[string]any
		var gotKey, gotPath, gotMethod string
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotKey = r.Header.Get(marketplace.IdempotencyKeyHeader)
			gotPath = r.URL.Path
			gotMethod = r.Method
			_ = json.NewDecoder(r.Body).Decode(&gotBody)
			_, _ = io.WriteString(w, `{"message":"Booking cancelled"}`)
		})

		msg, err := c.Cancel(context.Background(), "bk_1", "  change of plans ", "key-1")
		require.NoError(t, err)

		assert.Equal(t, "Booking cancelled", msg)
		assert.Equal(t, http.MethodPost, gotMethod)
		assert.Equal(t, "/bookings/bk_1/cancel", gotPath)
		assert.Equal(t, "key-1", gotKey)
		assert.Equal(t, map[string]any{"reason": "change of plans"}, gotBody)
	})

	t.Run("check-in body", func(t *testing.T) {
		var gotBody map[string]any
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/bookings/bk_1/check-in", r.URL.Path)
			assert.NotEmpty(t, r.Header.Get(marketplace.IdempotencyKeyHeader))
			_ = json.NewDecoder(r.Body).Decode(&gotBody)
			_, _ = io.WriteString(w, `{"message":"Checked in"}`)
		})

		msg, err := c.CheckIn(context.Background(), "bk_1", booking.ActorGuest, "self_check_in")
		require.NoError(t, err)
		assert.Equal(t, "Checked in", msg)
		assert.Equal(t, map[string]any{"checked_by": "guest", "check_in_method": "self_check_in"}, gotBody)
	})

	t.Run("business rejection surfaces message verbatim", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			_, _ = io.WriteString(w, `{"message":"Booking is already cancelled"}`)
		})

		_, err := c.Accept(context.Background(), "bk_1")
		require.Error(t, err)
		e, ok := infra.AsError(err)
		require.True(t, ok)
		assert.Equal(t, infra.KindRejected, e.Kind)
		assert.Equal(t, http.StatusConflict, e.Status)
		assert.Equal(t, "Booking is already cancelled", e.Message)
	})

	t.Run("nested error message", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = io.WriteString(w, `{"error":{"message":"Stay has not ended"}}`)
		})

		_, err := c.Complete(context.Background(), "bk_1")
		e, ok := infra.AsError(err)
		require.True(t, ok)
		assert.Equal(t, "Stay has not ended", e.Message)
	})

	t.Run("server error is transport", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := c.Decline(context.Background(), "bk_1")
		assert.True(t, infra.IsKind(err, infra.KindTransport))
	})

	t.Run("unreachable backend is transport", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		c := marketplace.NewClient(config.MarketplaceConfig{BaseURL: "http://127.0.0.1:1", Timeout: 200 * time.Millisecond}, time.UTC, logger)

		_, err := c.Accept(context.Background(), "bk_1")
		assert.True(t, infra.IsKind(err, infra.KindTransport))
	})
}
