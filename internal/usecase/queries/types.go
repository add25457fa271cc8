package queries

import (
	"time"

	"github.com/shopspring/decimal"
)

// Caller is the authenticated user behind a request, as read from the
// marketplace access token.
type Caller struct {
	UserID string
	Role   string
}

// Read models (DTO for read side)
type BookingView struct {
	ID            string           `json:"id"`
	Reference     string           `json:"booking_reference"`
	Status        string           `json:"status"`
	Phase         string           `json:"phase"`
	StatusLabel   string           `json:"status_label"`
	PaymentStatus string           `json:"payment_status"`
	ArrivalDate   string           `json:"arrival_date"`
	DepartureDate string           `json:"departure_date"`
	CheckInAt     time.Time        `json:"check_in_at"`
	CheckOutAt    time.Time        `json:"check_out_at"`
	TimeZone      string           `json:"timezone"`
	Nights        int              `json:"nights"`
	Guests        int              `json:"guests"`
	Children      int              `json:"children"`
	Pets          int              `json:"pets"`
	GrandTotal    decimal.Decimal  `json:"grand_total"`
	RefundAmount  *decimal.Decimal `json:"refund_amount,omitempty"`
	RefundStatus  string           `json:"refund_status,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	ConfirmedAt   *time.Time       `json:"confirmed_at,omitempty"`
	CheckedInAt   *time.Time       `json:"checked_in_at,omitempty"`
	CheckedInBy   string           `json:"checked_in_by,omitempty"`
	CancelledAt   *time.Time       `json:"cancelled_at,omitempty"`
	PolicyType    string           `json:"policy_type"`
	Policy        *PolicyView      `json:"policy,omitempty"`
}

type PolicyView struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	GroupName     string `json:"group_name"`
	BeforeCheckIn string `json:"before_check_in"`
	AfterCheckIn  string `json:"after_check_in"`
}

type RefundView struct {
	AsOf              time.Time       `json:"as_of"`
	Percentage        decimal.Decimal `json:"refund_percentage"`
	RefundAmount      decimal.Decimal `json:"refund_amount"`
	ForfeitAmount     decimal.Decimal `json:"forfeit_amount"`
	HostPayout        decimal.Decimal `json:"host_payout"`
	IsBeforeCheckIn   bool            `json:"is_before_check_in"`
	DaysUntilCheckIn  int             `json:"days_until_check_in"`
	HoursUntilCheckIn float64         `json:"hours_until_check_in"`
	Category          string          `json:"refund_category"`
	Tier              string          `json:"tier"`
	NightsStayed      int             `json:"nights_stayed"`
	MandatoryNights   int             `json:"mandatory_nights"`
	NightsRemaining   int             `json:"nights_remaining"`
	Degraded          string          `json:"degraded,omitempty"`
}

type BookingDetail struct {
	Booking          BookingView `json:"booking"`
	Actor            string      `json:"actor,omitempty"`
	AvailableActions []string    `json:"available_actions"`
	RefundPreview    RefundView  `json:"refund_preview"`
}
