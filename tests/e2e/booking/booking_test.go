//go:build e2e

package booking_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"booking-lifecycle/internal/domain/booking"
	reqdto "booking-lifecycle/internal/handler/dto/request"
	resdto "booking-lifecycle/internal/handler/dto/response"
	"booking-lifecycle/tests/common/authtest"
	"booking-lifecycle/tests/common/builder"
	"booking-lifecycle/tests/common/httptest"
	"booking-lifecycle/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	bookingURL       = "/api/bookings/%s"
	refundPreviewURL = "/api/bookings/%s/refund-preview"
	quotesURL        = "/api/bookings/%s/cancellation-quotes"
	cancelURL        = "/api/bookings/%s/cancel"
	acceptURL        = "/api/bookings/%s/accept"
	checkInURL       = "/api/bookings/%s/check-in"
)

type BookingSuite struct {
	e2e.SharedSuite
	jwt *authtest.JWTHelper
}

func (s *BookingSuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	s.jwt = authtest.NewJWTHelper(s.Config.JWT)
}

func (s *BookingSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestBookingSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(BookingSuite))
}

func (s *BookingSuite) guestToken() string {
	return s.jwt.GenerateToken(s.T(), builder.DefaultGuestID, "guest")
}

func (s *BookingSuite) hostToken() string {
	return s.jwt.GenerateToken(s.T(), builder.DefaultHostID, "host")
}

func (s *BookingSuite) quoteKey(id string) string {
	return s.Config.Redis.Prefix + ":quote:" + id
}

// =============================================================================
// TestGetBooking
// =============================================================================

func (s *BookingSuite) TestGetBooking() {
	s.Run("Normal case: guest sees the booking with cancel available and a partial refund", func() {
		t := s.T()
		b := builder.NewBookingBuilder()
		s.Marketplace.PutBooking(b.BuildPayload())
		s.SetNow(b.LocalTime(2025, time.June, 20, 15, 0))
		token := s.guestToken()

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(bookingURL, b.ID), nil, token)

		var got resdto.BookingDetailResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &got)
		httptest.AssertHeaders(t, w, map[string]string{"Content-Type": "application/json; charset=utf-8"})
		assert.Equal(t, "Booking loaded", got.Message)
		assert.Equal(t, "guest", got.Actor)
		assert.Equal(t, []string{"cancel"}, got.AvailableActions)

		want := resdto.BookingResponse{
			ID:            b.ID,
			Reference:     b.Reference,
			Status:        "confirmed",
			Phase:         "upcoming",
			StatusLabel:   "Confirmed",
			PaymentStatus: "captured",
			ArrivalDate:   "2025-07-10",
			DepartureDate: "2025-07-15",
			TimeZone:      "America/New_York",
			Nights:        5,
			Guests:        2,
			Children:      1,
			GrandTotal:    "1000.00",
			PolicyType:    "short",
		}
		if diff := cmp.Diff(want, got.Booking,
			cmpopts.IgnoreFields(resdto.BookingResponse{}, "CheckInAt", "CheckOutAt", "CreatedAt", "Policy"),
		); diff != "" {
			t.Errorf("booking mismatch (-want +got):\n%s", diff)
		}
		assert.True(t, got.Booking.CheckInAt.Equal(time.Date(2025, time.July, 10, 19, 0, 0, 0, time.UTC)))
		assert.Equal(t, 50.0, got.RefundPreview.Percentage)
		assert.Equal(t, "500.00", got.RefundPreview.RefundAmount)
		assert.Equal(t, "partial", got.RefundPreview.Category)
	})

	s.Run("Normal case: caller's token is forwarded to the marketplace", func() {
		t := s.T()
		b := builder.NewBookingBuilder()
		s.Marketplace.PutBooking(b.BuildPayload())
		s.SetNow(b.LocalTime(2025, time.June, 20, 15, 0))
		token := s.guestToken()

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(bookingURL, b.ID), nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		reqs := s.Marketplace.Requests()
		require.Len(t, reqs, 1)
		assert.Equal(t, "Bearer "+token, reqs[0].Authorization)
	})

	s.Run("Normal case: a stranger gets no actions", func() {
		t := s.T()
		b := builder.NewBookingBuilder()
		s.Marketplace.PutBooking(b.BuildPayload())
		s.SetNow(b.LocalTime(2025, time.June, 20, 15, 0))
		token := s.jwt.GenerateToken(t, "someone-else", "guest")

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(bookingURL, b.ID), nil, token)

		var got resdto.BookingDetailResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &got)
		assert.Empty(t, got.AvailableActions)
	})

	s.Run("Error case: unknown booking is 404", func() {
		t := s.T()
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(bookingURL, "bk_missing"), nil, s.guestToken())
		body := httptest.AssertErrorResponse(t, w, http.StatusNotFound, "Booking not found")
		assert.Equal(t, httptest.AssertRequestID(t, w), body.RequestID)
	})

	s.Run("Error case: missing token is 401", func() {
		t := s.T()
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(bookingURL, "bk_123"), nil, "")
		httptest.AssertErrorResponse(t, w, http.StatusUnauthorized, "Access token required")
		assert.Empty(t, s.Marketplace.Requests())
	})

	s.Run("Error case: expired token is 401", func() {
		t := s.T()
		token := s.jwt.CreateExpiredToken(t, builder.DefaultGuestID, "guest")
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(bookingURL, "bk_123"), nil, token)
		httptest.AssertErrorResponse(t, w, http.StatusUnauthorized, "Invalid or expired token")
	})
}

// =============================================================================
// TestRefundPreview
// =============================================================================

func (s *BookingSuite) TestRefundPreview() {
	s.Run("Normal case: explicit instant after check-in", func() {
		t := s.T()
		b := builder.NewBookingBuilder()
		s.Marketplace.PutBooking(b.BuildPayload())
		s.SetNow(b.LocalTime(2025, time.June, 20, 15, 0))

		url := fmt.Sprintf(refundPreviewURL, b.ID) + "?at=2025-07-11T20:00:00Z"
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, url, nil, s.guestToken())

		var got resdto.RefundPreviewEnvelope
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &got)
		assert.False(t, got.RefundPreview.IsBeforeCheckIn)
		assert.Equal(t, 1, got.RefundPreview.NightsStayed)
		assert.Equal(t, 2, got.RefundPreview.MandatoryNights)
		assert.Equal(t, 3, got.RefundPreview.NightsRemaining)
		assert.Equal(t, 30.0, got.RefundPreview.Percentage)
		assert.Equal(t, "300.00", got.RefundPreview.RefundAmount)
		assert.Equal(t, "700.00", got.RefundPreview.ForfeitAmount)
	})

	s.Run("Error case: malformed instant is 400", func() {
		t := s.T()
		url := fmt.Sprintf(refundPreviewURL, "bk_123") + "?at=tomorrow"
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, url, nil, s.guestToken())
		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "Invalid at parameter")
	})
}

// =============================================================================
// TestCancel - quote, cancel and divergence against the recorded refund
// =============================================================================

func (s *BookingSuite) TestCancel() {
	s.Run("Normal case: quote opened at the full-refund boundary is honoured after it passes", func() {
		t := s.T()
		ctx := context.Background()
		b := builder.NewBookingBuilder()
		s.Marketplace.PutBooking(b.BuildPayload())
		s.Marketplace.RecordRefundOnCancel(b.ID, "1000.00")
		token := s.guestToken()

		s.SetNow(b.LocalTime(2025, time.June, 12, 15, 0))
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(quotesURL, b.ID), nil, token)

		var quote resdto.QuoteResponse
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &quote)
		assert.Equal(t, 100.0, quote.RefundPreview.Percentage)
		assert.True(t, quote.ExpiresAt.Equal(quote.AsOf.Add(s.Config.Booking.QuoteTTL)))
		quoteID := uuid.MustParse(quote.QuoteID)

		exists, err := s.Redis.Exists(ctx, s.quoteKey(quote.QuoteID)).Result()
		require.NoError(t, err)
		assert.Equal(t, int64(1), exists, "quote should be stored in Redis")

		s.SetNow(b.LocalTime(2025, time.June, 12, 15, 10))
		reqBody := b.BuildCancelRequestDTO()
		reqBody.QuoteID = &quoteID
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(cancelURL, b.ID), reqBody, token)

		var got resdto.CancelResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &got)
		assert.True(t, got.QuoteHonoured)
		assert.Equal(t, "1000.00", got.RefundPreview.RefundAmount)
		require.NotNil(t, got.RecordedRefund)
		assert.Equal(t, "1000.00", *got.RecordedRefund)
		assert.False(t, got.RefundDiverged)
		require.NotNil(t, got.Detail)
		assert.Equal(t, "cancelled", got.Detail.Booking.Status)

		cancels := s.Marketplace.Transitions("cancel")
		require.Len(t, cancels, 1)
		assert.NotEmpty(t, cancels[0].IdempotencyKey)
		assert.Equal(t, "Bearer "+token, cancels[0].Authorization)
		assert.Equal(t, "Plans changed", cancels[0].Body["reason"])

		exists, err = s.Redis.Exists(ctx, s.quoteKey(quote.QuoteID)).Result()
		require.NoError(t, err)
		assert.Equal(t, int64(0), exists, "quote should be consumed by the cancellation")
	})

	s.Run("Normal case: without a quote the submit instant decides and divergence is reported", func() {
		t := s.T()
		b := builder.NewBookingBuilder()
		s.Marketplace.PutBooking(b.BuildPayload())
		s.Marketplace.RecordRefundOnCancel(b.ID, "600.00")
		s.SetNow(b.LocalTime(2025, time.June, 12, 15, 10))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(cancelURL, b.ID), b.BuildCancelRequestDTO(), s.guestToken())

		var got resdto.CancelResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &got)
		assert.False(t, got.QuoteHonoured)
		assert.Equal(t, "500.00", got.RefundPreview.RefundAmount)
		require.NotNil(t, got.RecordedRefund)
		assert.Equal(t, "600.00", *got.RecordedRefund)
		assert.True(t, got.RefundDiverged)
	})

	s.Run("Error case: unacknowledged cancellation never reaches the marketplace", func() {
		t := s.T()
		b := builder.NewBookingBuilder()
		s.Marketplace.PutBooking(b.BuildPayload())
		s.SetNow(b.LocalTime(2025, time.June, 20, 15, 0))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(cancelURL, b.ID),
			reqdto.CancelBookingRequest{Reason: "Plans changed"}, s.guestToken())
		httptest.AssertErrorResponse(t, w, http.StatusUnprocessableEntity, "acknowledge")
		assert.Empty(t, s.Marketplace.Transitions("cancel"))
	})

	s.Run("Error case: cancelled booking is closed", func() {
		t := s.T()
		b := builder.NewBookingBuilder().AsCancelled(time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC), "1000.00")
		s.Marketplace.PutBooking(b.BuildPayload())
		s.SetNow(b.LocalTime(2025, time.June, 20, 15, 0))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(cancelURL, b.ID), b.BuildCancelRequestDTO(), s.guestToken())
		httptest.AssertErrorResponse(t, w, http.StatusConflict, "This booking is closed")
	})

	s.Run("Error case: upstream rejection keeps its status and message", func() {
		t := s.T()
		b := builder.NewBookingBuilder()
		s.Marketplace.PutBooking(b.BuildPayload())
		s.Marketplace.FailAction(b.ID, "cancel", http.StatusConflict, "Refund already in progress")
		s.SetNow(b.LocalTime(2025, time.June, 20, 15, 0))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(cancelURL, b.ID), b.BuildCancelRequestDTO(), s.guestToken())
		httptest.AssertErrorResponse(t, w, http.StatusConflict, "Refund already in progress")
	})
}

// =============================================================================
// TestHostTransitions
// =============================================================================

func (s *BookingSuite) TestHostTransitions() {
	s.Run("Normal case: host accepts a booking awaiting payment", func() {
		t := s.T()
		b := builder.NewBookingBuilder().AsPendingPayment()
		s.Marketplace.PutBooking(b.BuildPayload())
		s.SetNow(b.LocalTime(2025, time.June, 20, 15, 0))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(acceptURL, b.ID), nil, s.hostToken())

		var got resdto.ActionResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &got)
		assert.Equal(t, "Booking accepted", got.Message)
		require.NotNil(t, got.Detail)
		assert.Equal(t, "confirmed", got.Detail.Booking.Status)
		assert.Len(t, s.Marketplace.Transitions("accept"), 1)
	})

	s.Run("Error case: guest cannot accept", func() {
		t := s.T()
		b := builder.NewBookingBuilder().AsPendingPayment()
		s.Marketplace.PutBooking(b.BuildPayload())
		s.SetNow(b.LocalTime(2025, time.June, 20, 15, 0))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(acceptURL, b.ID), nil, s.guestToken())
		httptest.AssertErrorResponse(t, w, http.StatusForbidden, "not allowed")
		assert.Empty(t, s.Marketplace.Transitions("accept"))
	})

	s.Run("Error case: marketplace outage is 502", func() {
		t := s.T()
		b := builder.NewBookingBuilder().AsPendingPayment()
		s.Marketplace.PutBooking(b.BuildPayload())
		s.Marketplace.FailAction(b.ID, "accept", http.StatusServiceUnavailable, "maintenance")
		s.SetNow(b.LocalTime(2025, time.June, 20, 15, 0))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(acceptURL, b.ID), nil, s.hostToken())
		httptest.AssertErrorResponse(t, w, http.StatusBadGateway, "Booking service is unavailable, please retry")
	})

	s.Run("Normal case: host checks the guest in on arrival day", func() {
		t := s.T()
		b := builder.NewBookingBuilder()
		s.Marketplace.PutBooking(b.BuildPayload())
		s.SetNow(b.LocalTime(2025, time.July, 10, 14, 0))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(checkInURL, b.ID),
			reqdto.CheckInRequest{CheckInMethod: "keypad"}, s.hostToken())

		var got resdto.ActionResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &got)
		require.NotNil(t, got.Detail)
		assert.Equal(t, string(booking.ActorHost), got.Detail.Booking.CheckedInBy)
		assert.NotContains(t, got.Detail.AvailableActions, "check_in")

		checkIns := s.Marketplace.Transitions("check-in")
		require.Len(t, checkIns, 1)
		assert.Equal(t, "host", checkIns[0].Body["checked_by"])
		assert.Equal(t, "keypad", checkIns[0].Body["check_in_method"])
	})

	s.Run("Error case: check-in before the window opens", func() {
		t := s.T()
		b := builder.NewBookingBuilder()
		s.Marketplace.PutBooking(b.BuildPayload())
		s.SetNow(b.LocalTime(2025, time.July, 10, 12, 59))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(checkInURL, b.ID),
			b.BuildCheckInRequestDTO(), s.hostToken())
		httptest.AssertErrorResponse(t, w, http.StatusUnprocessableEntity, "Check-in opens")
		assert.Empty(t, s.Marketplace.Transitions("check-in"))
	})
}
