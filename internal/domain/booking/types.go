package booking

import "strings"

type Status string

const (
	StatusPendingPayment Status = "pending_payment"
	StatusConfirmed      Status = "confirmed"
	StatusCompleted      Status = "completed"
	StatusCancelled      Status = "cancelled"
	StatusDeclined       Status = "declined"
)

// ParseStatus normalises the spellings the marketplace has used over time
// ("pending-payment", "Canceled") onto the closed set above.
func ParseStatus(s string) (Status, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	if norm == "canceled" {
		norm = string(StatusCancelled)
	}
	st := Status(norm)
	if !st.IsValid() {
		return "", ErrUnknownStatus
	}
	return st, nil
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPendingPayment, StatusConfirmed, StatusCompleted, StatusCancelled, StatusDeclined:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusDeclined:
		return true
	default:
		return false
	}
}

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentAuthorized PaymentStatus = "authorized"
	PaymentCaptured   PaymentStatus = "captured"
	PaymentRefunded   PaymentStatus = "refunded"
	PaymentFailed     PaymentStatus = "failed"
)

// AwaitsHostDecision reports whether the payment is in a state where the host
// may still accept or decline.
func (p PaymentStatus) AwaitsHostDecision() bool {
	switch PaymentStatus(strings.ToLower(string(p))) {
	case PaymentAuthorized, PaymentPending:
		return true
	default:
		return false
	}
}

type Actor string

const (
	ActorGuest Actor = "guest"
	ActorHost  Actor = "host"
	ActorAdmin Actor = "admin"
)

func ParseActor(s string) (Actor, error) {
	a := Actor(strings.ToLower(strings.TrimSpace(s)))
	switch a {
	case ActorGuest, ActorHost, ActorAdmin:
		return a, nil
	default:
		return "", ErrUnknownActor
	}
}

func (a Actor) String() string {
	return string(a)
}

type Action string

const (
	ActionAccept   Action = "accept"
	ActionDecline  Action = "decline"
	ActionCheckIn  Action = "check_in"
	ActionComplete Action = "complete"
	ActionCancel   Action = "cancel"
)

// AllActions is the order in which actions are offered to a caller.
var AllActions = []Action{ActionAccept, ActionDecline, ActionCheckIn, ActionComplete, ActionCancel}

func ParseAction(s string) (Action, error) {
	a := Action(strings.NewReplacer("-", "_").Replace(strings.ToLower(strings.TrimSpace(s))))
	for _, known := range AllActions {
		if a == known {
			return a, nil
		}
	}
	return "", ErrUnknownAction
}

func (a Action) String() string {
	return string(a)
}

var permittedActors = map[Action][]Actor{
	ActionAccept:   {ActorHost},
	ActionDecline:  {ActorHost},
	ActionCheckIn:  {ActorHost, ActorGuest},
	ActionComplete: {ActorGuest, ActorHost, ActorAdmin},
	ActionCancel:   {ActorGuest, ActorHost, ActorAdmin},
}

func (a Action) PermittedFor(actor Actor) bool {
	for _, p := range permittedActors[a] {
		if p == actor {
			return true
		}
	}
	return false
}
