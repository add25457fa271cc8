package api

import (
	"net/http"

	"booking-lifecycle/internal/domain/booking"
	"booking-lifecycle/internal/handler/httperr"
	"booking-lifecycle/internal/pkg/errs"
	"booking-lifecycle/internal/usecase/commands"
	"booking-lifecycle/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

const upstreamUnavailableMessage = "Booking service is unavailable, please retry"

type errorMapping struct {
	err     error
	status  int
	message string
}

// Checked in order; local guard failures come before upstream categories.
var bookingErrorMappings = []errorMapping{
	{commands.ErrNotAParty, http.StatusForbidden, "You are not a party to this booking"},
	{booking.ErrActorNotPermitted, http.StatusForbidden, "You are not allowed to perform this action"},
	{booking.ErrTerminal, http.StatusConflict, "This booking is closed"},
	{booking.ErrDepartureInPast, http.StatusConflict, "The departure date has passed"},
	{booking.ErrAlreadyCheckedIn, http.StatusConflict, "This booking is already checked in"},
	{booking.ErrPaymentNotAuthorized, http.StatusConflict, "Payment is not awaiting a host decision"},
	{booking.ErrActionNotAllowed, http.StatusConflict, "This action is not available for the booking's current state"},
	{booking.ErrTooEarlyToCheckIn, http.StatusUnprocessableEntity, "Check-in opens two hours before the check-in time"},
	{booking.ErrStayNotOver, http.StatusUnprocessableEntity, "The stay has not ended yet"},
	{commands.ErrAcknowledgementRequired, http.StatusUnprocessableEntity, "Please acknowledge the cancellation terms"},
	{commands.ErrCheckInMethodRequired, http.StatusUnprocessableEntity, "Check-in method is required"},
	{errs.ErrBookingNotFound, http.StatusNotFound, "Booking not found"},
	{errs.ErrUpstreamUnavailable, http.StatusBadGateway, upstreamUnavailableMessage},
	{errs.ErrUpstreamInvalid, http.StatusBadGateway, upstreamUnavailableMessage},
}

func abortWithBookingError(c *gin.Context, err error) {
	if status, message, ok := queries.Rejection(err); ok {
		httperr.AbortWithError(c, status, err, message, nil)
		return
	}
	for _, m := range bookingErrorMappings {
		if errs.Is(err, m.err) {
			httperr.AbortWithError(c, m.status, err, m.message, nil)
			return
		}
	}
	httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
}
