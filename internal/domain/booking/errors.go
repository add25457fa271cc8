package booking

import "errors"

var (
	ErrUnknownStatus     = errors.New("unknown booking status")
	ErrUnknownActor      = errors.New("unknown actor")
	ErrUnknownAction     = errors.New("unknown booking action")
	ErrInvalidStayDates  = errors.New("departure date must be after arrival date")
	ErrInconsistentState = errors.New("booking status and check-in record disagree")
	ErrNegativeAmount    = errors.New("amount cannot be negative")

	ErrActionNotAllowed     = errors.New("action not allowed in current booking state")
	ErrActorNotPermitted    = errors.New("actor may not perform this action")
	ErrTerminal             = errors.New("booking is closed")
	ErrPaymentNotAuthorized = errors.New("payment is not awaiting a host decision")
	ErrAlreadyCheckedIn     = errors.New("booking is already checked in")
	ErrTooEarlyToCheckIn    = errors.New("check-in window has not opened")
	ErrStayNotOver          = errors.New("stay has not ended yet")
	ErrDepartureInPast      = errors.New("departure date has passed")
)
