package booking

import (
	"booking-lifecycle/internal/domain/policy"
	"booking-lifecycle/internal/pkg/localtime"
)

// StaySnapshot is the copy of listing data taken when the booking was made.
// Refund math reads only from here so that later listing edits do not move it.
type StaySnapshot struct {
	TimeZone                string
	CheckInAfter            localtime.TimeOfDay
	CheckOutBefore          localtime.TimeOfDay
	CancellationPolicyShort *policy.CancellationPolicy
	CancellationPolicyLong  *policy.CancellationPolicy
}

// DefaultStay is used when the backend returns neither a nested stay nor a
// parsable listing snapshot.
func DefaultStay() StaySnapshot {
	return StaySnapshot{
		CheckInAfter:   localtime.DefaultCheckIn,
		CheckOutBefore: localtime.DefaultCheckOut,
	}
}

func (s StaySnapshot) ShortPolicy() *policy.CancellationPolicy { return s.CancellationPolicyShort }
func (s StaySnapshot) LongPolicy() *policy.CancellationPolicy  { return s.CancellationPolicyLong }
