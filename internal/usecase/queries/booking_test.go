//go:build unit

package queries_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"booking-lifecycle/internal/domain/booking"
	"booking-lifecycle/internal/infra"
	"booking-lifecycle/internal/pkg/clock"
	"booking-lifecycle/internal/pkg/errs"
	"booking-lifecycle/internal/usecase/queries"
	"booking-lifecycle/tests/common/builder"
	queriesmock "booking-lifecycle/tests/mock/queries"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BookingQueriesTestSuite struct {
	suite.Suite
	mockCtrl   *gomock.Controller
	mockReader *queriesmock.MockBookingReader
	clock      *clock.MockClock
	logger     *slog.Logger
	queries    queries.BookingQueries
}

func (s *BookingQueriesTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockReader = queriesmock.NewMockBookingReader(s.mockCtrl)
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	s.clock = clock.NewMockClock(builder.NewBookingBuilder().LocalTime(2025, time.June, 20, 15, 0))
	s.queries = queries.NewBookingQueries(s.mockReader, s.clock, time.UTC, s.logger)
}

func (s *BookingQueriesTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingQueriesSuite(t *testing.T) {
	suite.Run(t, new(BookingQueriesTestSuite))
}

func (s *BookingQueriesTestSuite) TestGetDetail() {
	b := builder.NewBookingBuilder()
	snap := b.BuildSnapshot()

	s.Run("success: guest sees cancel and a half refund", func() {
		s.mockReader.EXPECT().GetBooking(gomock.Any(), snap.ID).Return(snap, nil).Times(1)

		detail, err := s.queries.GetDetail(context.Background(), snap.ID, queries.Caller{UserID: builder.DefaultGuestID})

		s.Require().NoError(err)
		s.Equal("guest", detail.Actor)
		s.Equal([]string{"cancel"}, detail.AvailableActions)
		s.Equal("upcoming", detail.Booking.Phase)
		s.Equal("Confirmed", detail.Booking.StatusLabel)
		s.Equal(5, detail.Booking.Nights)
		s.Equal("America/New_York", detail.Booking.TimeZone)
		s.Equal("short", detail.Booking.PolicyType)
		s.Require().NotNil(detail.Booking.Policy)
		s.Equal("Strict Short Term", detail.Booking.Policy.GroupName)
		s.True(detail.Booking.CheckInAt.Equal(time.Date(2025, time.July, 10, 19, 0, 0, 0, time.UTC)))
		s.Equal("50", detail.RefundPreview.Percentage.String())
		s.Equal("partial", detail.RefundPreview.Category)
		s.Equal(20, detail.RefundPreview.DaysUntilCheckIn)
	})

	s.Run("success: host inside the check-in window", func() {
		s.clock.Set(b.LocalTime(2025, time.July, 10, 14, 0))
		s.mockReader.EXPECT().GetBooking(gomock.Any(), snap.ID).Return(snap, nil).Times(1)

		detail, err := s.queries.GetDetail(context.Background(), snap.ID, queries.Caller{UserID: builder.DefaultHostID})

		s.Require().NoError(err)
		s.Equal("host", detail.Actor)
		s.ElementsMatch([]string{"check_in", "cancel"}, detail.AvailableActions)
	})

	s.Run("success: non-party sees the booking without actions", func() {
		s.mockReader.EXPECT().GetBooking(gomock.Any(), snap.ID).Return(snap, nil).Times(1)

		detail, err := s.queries.GetDetail(context.Background(), snap.ID, queries.Caller{UserID: "someone-else"})

		s.Require().NoError(err)
		s.Empty(detail.Actor)
		s.Empty(detail.AvailableActions)
		s.NotNil(detail.AvailableActions)
	})

	s.Run("error: invalid stay dates are invalid upstream data", func() {
		bad := builder.NewBookingBuilder().WithNights(-1).BuildSnapshot()
		s.mockReader.EXPECT().GetBooking(gomock.Any(), bad.ID).Return(bad, nil).Times(1)

		_, err := s.queries.GetDetail(context.Background(), bad.ID, queries.Caller{UserID: builder.DefaultGuestID})

		s.ErrorIs(err, booking.ErrInvalidStayDates)
		s.True(errs.Is(err, errs.ErrUpstreamInvalid))
	})

	s.Run("error: gateway errors are categorized", func() {
		cases := []struct {
			name   string
			err    error
			marker error
		}{
			{"not found", infra.UpstreamErr(s.logger, infra.KindNotFound, http.StatusNotFound, "Booking not found", "get booking"), errs.ErrBookingNotFound},
			{"transport", infra.WrapErr(s.logger, infra.KindTransport, "get booking", io.EOF), errs.ErrUpstreamUnavailable},
			{"decode", infra.WrapErr(s.logger, infra.KindDecode, "decode booking", io.ErrUnexpectedEOF), errs.ErrUpstreamInvalid},
			{"rejected", infra.UpstreamErr(s.logger, infra.KindRejected, http.StatusForbidden, "Forbidden", "get booking"), errs.ErrUpstreamRejected},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockReader.EXPECT().GetBooking(gomock.Any(), snap.ID).Return(booking.Snapshot{}, tc.err).Times(1)

				_, err := s.queries.GetDetail(context.Background(), snap.ID, queries.Caller{})

				s.True(errs.Is(err, tc.marker))
			})
		}
	})
}

func (s *BookingQueriesTestSuite) TestPreviewRefund() {
	b := builder.NewBookingBuilder()
	snap := b.BuildSnapshot()

	s.Run("success: zero instant means now", func() {
		s.mockReader.EXPECT().GetBooking(gomock.Any(), snap.ID).Return(snap, nil).Times(1)

		view, err := s.queries.PreviewRefund(context.Background(), snap.ID, time.Time{})

		s.Require().NoError(err)
		s.True(view.AsOf.Equal(s.clock.Now()))
		s.Equal("500", view.RefundAmount.String())
		s.Equal("500", view.ForfeitAmount.String())
		s.Equal("500", view.HostPayout.String())
	})

	s.Run("success: explicit instant after check-in", func() {
		s.mockReader.EXPECT().GetBooking(gomock.Any(), snap.ID).Return(snap, nil).Times(1)

		view, err := s.queries.PreviewRefund(context.Background(), snap.ID, b.LocalTime(2025, time.July, 11, 16, 0))

		s.Require().NoError(err)
		s.False(view.IsBeforeCheckIn)
		s.Equal("after_check_in", view.Tier)
		s.Equal(1, view.NightsStayed)
		s.Equal(2, view.MandatoryNights)
		s.Equal(3, view.NightsRemaining)
		s.Equal("30", view.Percentage.String())
	})

	s.Run("success: missing policy is degraded not failed", func() {
		bare := builder.NewBookingBuilder().WithoutPolicies().BuildSnapshot()
		s.mockReader.EXPECT().GetBooking(gomock.Any(), bare.ID).Return(bare, nil).Times(1)

		view, err := s.queries.PreviewRefund(context.Background(), bare.ID, time.Time{})

		s.Require().NoError(err)
		s.Equal("no_policy", view.Degraded)
		s.Equal("0", view.RefundAmount.String())
	})
}
