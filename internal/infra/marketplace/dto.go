package marketplace

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Wire types for the marketplace booking API.

type envelope struct {
	Message string          `json:"message"`
	Booking json.RawMessage `json:"booking"`
	Data    json.RawMessage `json:"data"`
}

type errorBody struct {
	Message string `json:"message"`
	Error   any    `json:"error"`
}

type BookingPayload struct {
	ID               string           `json:"id"`
	BookingReference string           `json:"booking_reference"`
	ArrivalDate      string           `json:"arrival_date"`
	DepartureDate    string           `json:"departure_date"`
	CreatedAt        *time.Time       `json:"created_at"`
	ConfirmedAt      *time.Time       `json:"confirmed_at"`
	CheckedInAt      *time.Time       `json:"checked_in_at"`
	CheckedInBy      string           `json:"checked_in_by"`
	CancelledAt      *time.Time       `json:"cancelled_at"`
	Guests           int              `json:"guests"`
	Children         int              `json:"children"`
	Pets             int              `json:"pets"`
	GrandTotal       *decimal.Decimal `json:"grand_total"`
	RefundAmount     *decimal.Decimal `json:"refund_amount"`
	RefundStatus     string           `json:"refund_status"`
	Status           string           `json:"status"`
	PaymentStatus    string           `json:"payment_status"`
	GuestID          string           `json:"guest_id"`
	HostID           string           `json:"host_id"`
	Guest            *PartyPayload    `json:"guest"`
	Host             *PartyPayload    `json:"host"`
	Stay             *StayPayload     `json:"stay"`
	Pricing          *PricingPayload  `json:"pricing"`
	// Either a JSON object or a string holding one.
	ListingSnapshot json.RawMessage `json:"listing_snapshot"`
}

type PartyPayload struct {
	ID string `json:"id"`
}

type PricingPayload struct {
	GrandTotal *decimal.Decimal `json:"grand_total"`
}

type StayPayload struct {
	TimeZone                string         `json:"timezone"`
	CheckInAfter            string         `json:"check_in_after"`
	CheckOutBefore          string         `json:"check_out_before"`
	CancellationPolicyShort *PolicyPayload `json:"cancellation_policy_short"`
	CancellationPolicyLong  *PolicyPayload `json:"cancellation_policy_long"`
}

type PolicyPayload struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	GroupName     string `json:"group_name"`
	BeforeCheckIn string `json:"before_check_in"`
	AfterCheckIn  string `json:"after_check_in"`
}

type cancelRequest struct {
	Reason string `json:"reason,omitempty"`
}

type checkInRequest struct {
	CheckedBy     string `json:"checked_by"`
	CheckInMethod string `json:"check_in_method"`
}
