package booking

import "time"

// Phase folds the wire status and the checked-in flag into one value so that
// impossible pairs (checked in while awaiting payment) cannot be represented.
type Phase string

const (
	PhaseAwaitingPayment Phase = "awaiting_payment"
	PhaseUpcoming        Phase = "upcoming"
	PhaseInProgress      Phase = "in_progress"
	PhaseCompleted       Phase = "completed"
	PhaseCancelled       Phase = "cancelled"
	PhaseDeclined        Phase = "declined"
)

func (p Phase) String() string {
	return string(p)
}

// CheckInRecord exists only for the in-progress phase.
type CheckInRecord struct {
	At time.Time
	By Actor
}

type State struct {
	phase   Phase
	checkIn *CheckInRecord
}

func AwaitingPayment() State { return State{phase: PhaseAwaitingPayment} }
func Upcoming() State        { return State{phase: PhaseUpcoming} }
func Completed() State       { return State{phase: PhaseCompleted} }
func Cancelled() State       { return State{phase: PhaseCancelled} }
func Declined() State        { return State{phase: PhaseDeclined} }

func InProgress(rec CheckInRecord) State {
	return State{phase: PhaseInProgress, checkIn: &rec}
}

// DeriveState maps the backend's (status, checked_in_at) pair onto a State.
// Terminal statuses drop the check-in record: once closed, whether the guest
// had arrived no longer changes what can happen to the booking.
func DeriveState(status Status, checkedInAt *time.Time, checkedInBy Actor) (State, error) {
	checkedIn := checkedInAt != nil && !checkedInAt.IsZero()

	switch status {
	case StatusPendingPayment:
		if checkedIn {
			return State{}, ErrInconsistentState
		}
		return AwaitingPayment(), nil
	case StatusConfirmed:
		if checkedIn {
			return InProgress(CheckInRecord{At: *checkedInAt, By: checkedInBy}), nil
		}
		return Upcoming(), nil
	case StatusCompleted:
		return Completed(), nil
	case StatusCancelled:
		return Cancelled(), nil
	case StatusDeclined:
		return Declined(), nil
	default:
		return State{}, ErrUnknownStatus
	}
}

func (s State) Phase() Phase { return s.phase }

// CheckIn returns the check-in record when the phase is in-progress.
func (s State) CheckIn() (CheckInRecord, bool) {
	if s.checkIn == nil {
		return CheckInRecord{}, false
	}
	return *s.checkIn, true
}

func (s State) Status() Status {
	switch s.phase {
	case PhaseAwaitingPayment:
		return StatusPendingPayment
	case PhaseUpcoming, PhaseInProgress:
		return StatusConfirmed
	case PhaseCompleted:
		return StatusCompleted
	case PhaseCancelled:
		return StatusCancelled
	case PhaseDeclined:
		return StatusDeclined
	default:
		return ""
	}
}

func (s State) IsTerminal() bool {
	return s.Status().IsTerminal()
}

// Label is the pseudo-status shown to users; in-progress is not a backend status.
func (s State) Label() string {
	switch s.phase {
	case PhaseAwaitingPayment:
		return "Pending Payment"
	case PhaseUpcoming:
		return "Confirmed"
	case PhaseInProgress:
		return "In Progress"
	case PhaseCompleted:
		return "Completed"
	case PhaseCancelled:
		return "Cancelled"
	case PhaseDeclined:
		return "Declined"
	default:
		return ""
	}
}
