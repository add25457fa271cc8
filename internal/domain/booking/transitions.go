package booking

import "time"

// CheckInEarlyWindow is how long before the check-in time a stay may be
// checked in.
const CheckInEarlyWindow = 2 * time.Hour

// Guard reports whether actor may request action at now. A nil result only
// means the request is worth sending: the backend decides whether the
// transition is legal.
func (b *Booking) Guard(action Action, actor Actor, now time.Time) error {
	if action == ActionCancel && !now.Before(b.CheckOutAt()) {
		return ErrDepartureInPast
	}
	if !action.PermittedFor(actor) {
		return ErrActorNotPermitted
	}
	if b.state.IsTerminal() {
		return ErrTerminal
	}

	switch action {
	case ActionAccept, ActionDecline:
		if b.state.Phase() != PhaseAwaitingPayment {
			return ErrActionNotAllowed
		}
		if !b.paymentStatus.AwaitsHostDecision() {
			return ErrPaymentNotAuthorized
		}
	case ActionCheckIn:
		switch b.state.Phase() {
		case PhaseInProgress:
			return ErrAlreadyCheckedIn
		case PhaseUpcoming:
		default:
			return ErrActionNotAllowed
		}
		if now.Before(b.CheckInAt().Add(-CheckInEarlyWindow)) {
			return ErrTooEarlyToCheckIn
		}
	case ActionComplete:
		if b.state.Status() != StatusConfirmed {
			return ErrActionNotAllowed
		}
		if !now.After(b.CheckOutAt()) {
			return ErrStayNotOver
		}
	case ActionCancel:
		// pending or confirmed, both non-terminal
	default:
		return ErrUnknownAction
	}
	return nil
}

// AvailableActions lists the actions whose guard passes, in AllActions order.
func (b *Booking) AvailableActions(actor Actor, now time.Time) []Action {
	actions := make([]Action, 0, len(AllActions))
	for _, a := range AllActions {
		if b.Guard(a, actor, now) == nil {
			actions = append(actions, a)
		}
	}
	return actions
}
