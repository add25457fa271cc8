package marketplace

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"booking-lifecycle/internal/domain/booking"
	"booking-lifecycle/internal/domain/policy"
	"booking-lifecycle/internal/pkg/errs"
	"booking-lifecycle/internal/pkg/localtime"
	"booking-lifecycle/internal/pkg/patch"

	"github.com/shopspring/decimal"
)

// ToSnapshot maps a wire booking onto the domain snapshot. Unknown or
// malformed stay details fall back to defaults; dates and status must parse.
func ToSnapshot(p BookingPayload, defaultLoc *time.Location) (booking.Snapshot, error) {
	stay := resolveStay(p)
	loc := localtime.ResolveLocation(stay.TimeZone, defaultLoc)

	arrival, err := localtime.ParseDate(p.ArrivalDate, loc)
	if err != nil {
		return booking.Snapshot{}, errs.Wrap(err, "arrival_date")
	}
	departure, err := localtime.ParseDate(p.DepartureDate, loc)
	if err != nil {
		return booking.Snapshot{}, errs.Wrap(err, "departure_date")
	}

	status, err := booking.ParseStatus(p.Status)
	if err != nil {
		return booking.Snapshot{}, errs.Wrapf(err, "status %q", p.Status)
	}

	// Unknown actors are kept empty rather than rejecting the booking.
	checkedInBy, _ := booking.ParseActor(p.CheckedInBy)

	snap := booking.Snapshot{
		ID:            p.ID,
		Reference:     p.BookingReference,
		GuestID:       patch.FirstNonZero(p.GuestID, partyID(p.Guest)),
		HostID:        patch.FirstNonZero(p.HostID, partyID(p.Host)),
		ArrivalDate:   arrival,
		DepartureDate: departure,
		ConfirmedAt:   p.ConfirmedAt,
		CheckedInAt:   p.CheckedInAt,
		CheckedInBy:   checkedInBy,
		CancelledAt:   p.CancelledAt,
		Party:         booking.Party{Guests: p.Guests, Children: p.Children, Pets: p.Pets},
		GrandTotal:    grandTotal(p),
		RefundAmount:  p.RefundAmount,
		RefundStatus:  p.RefundStatus,
		Status:        status,
		PaymentStatus: booking.PaymentStatus(strings.ToLower(strings.TrimSpace(p.PaymentStatus))),
		Stay:          toStay(stay),
	}
	snap.CreatedAt = patch.Coalesce(p.CreatedAt, time.Time{})
	return snap, nil
}

// resolveStay prefers the nested stay and falls back to listing_snapshot.
func resolveStay(p BookingPayload) StayPayload {
	if p.Stay != nil {
		return *p.Stay
	}
	if s, ok := parseListingSnapshot(p.ListingSnapshot); ok {
		return s
	}
	return StayPayload{}
}

func parseListingSnapshot(raw json.RawMessage) (StayPayload, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return StayPayload{}, false
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil || strings.TrimSpace(s) == "" {
			return StayPayload{}, false
		}
		raw = []byte(s)
	}
	var stay StayPayload
	if err := json.Unmarshal(raw, &stay); err != nil {
		return StayPayload{}, false
	}
	return stay, true
}

func toStay(s StayPayload) booking.StaySnapshot {
	// Malformed times keep the defaults that ParseTimeOfDay hands back.
	checkIn, _ := localtime.ParseTimeOfDay(s.CheckInAfter, localtime.DefaultCheckIn)
	checkOut, _ := localtime.ParseTimeOfDay(s.CheckOutBefore, localtime.DefaultCheckOut)

	return booking.StaySnapshot{
		TimeZone:                s.TimeZone,
		CheckInAfter:            checkIn,
		CheckOutBefore:          checkOut,
		CancellationPolicyShort: toPolicy(s.CancellationPolicyShort, policy.TypeShort),
		CancellationPolicyLong:  toPolicy(s.CancellationPolicyLong, policy.TypeLong),
	}
}

func toPolicy(p *PolicyPayload, slot policy.Type) *policy.CancellationPolicy {
	if p == nil {
		return nil
	}
	typ := policy.Type(strings.ToLower(strings.TrimSpace(p.Type)))
	if !typ.IsValid() {
		typ = slot
	}
	return &policy.CancellationPolicy{
		ID:            p.ID,
		Type:          typ,
		GroupName:     p.GroupName,
		BeforeCheckIn: p.BeforeCheckIn,
		AfterCheckIn:  p.AfterCheckIn,
	}
}

func grandTotal(p BookingPayload) decimal.Decimal {
	if p.GrandTotal == nil && p.Pricing != nil {
		return patch.Coalesce(p.Pricing.GrandTotal, decimal.Zero)
	}
	return patch.Coalesce(p.GrandTotal, decimal.Zero)
}

func partyID(p *PartyPayload) string {
	if p == nil {
		return ""
	}
	return p.ID
}
