package response

import (
	"time"

	"booking-lifecycle/internal/domain/refund"
	"booking-lifecycle/internal/pkg/errs"
	"booking-lifecycle/internal/usecase/commands"
	"booking-lifecycle/internal/usecase/queries"

	"github.com/jinzhu/copier"
	"github.com/shopspring/decimal"
)

type BookingResponse struct {
	ID            string          `json:"id"`
	Reference     string          `json:"booking_reference"`
	Status        string          `json:"status"`
	Phase         string          `json:"phase"`
	StatusLabel   string          `json:"status_label"`
	PaymentStatus string          `json:"payment_status"`
	ArrivalDate   string          `json:"arrival_date"`
	DepartureDate string          `json:"departure_date"`
	CheckInAt     time.Time       `json:"check_in_at"`
	CheckOutAt    time.Time       `json:"check_out_at"`
	TimeZone      string          `json:"timezone"`
	Nights        int             `json:"nights"`
	Guests        int             `json:"guests"`
	Children      int             `json:"children"`
	Pets          int             `json:"pets"`
	GrandTotal    string          `json:"grand_total"`
	RefundAmount  *string         `json:"refund_amount,omitempty"`
	RefundStatus  string          `json:"refund_status,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	ConfirmedAt   *time.Time      `json:"confirmed_at,omitempty"`
	CheckedInAt   *time.Time      `json:"checked_in_at,omitempty"`
	CheckedInBy   string          `json:"checked_in_by,omitempty"`
	CancelledAt   *time.Time      `json:"cancelled_at,omitempty"`
	PolicyType    string          `json:"policy_type"`
	Policy        *PolicyResponse `json:"policy,omitempty"`
}

type PolicyResponse struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	GroupName     string `json:"group_name"`
	BeforeCheckIn string `json:"before_check_in"`
	AfterCheckIn  string `json:"after_check_in"`
}

type RefundPreviewResponse struct {
	AsOf              time.Time `json:"as_of"`
	Percentage        float64   `json:"refund_percentage"`
	RefundAmount      string    `json:"refund_amount"`
	ForfeitAmount     string    `json:"forfeit_amount"`
	HostPayout        string    `json:"host_payout"`
	IsBeforeCheckIn   bool      `json:"is_before_check_in"`
	DaysUntilCheckIn  int       `json:"days_until_check_in"`
	HoursUntilCheckIn float64   `json:"hours_until_check_in"`
	Category          string    `json:"refund_category"`
	Tier              string    `json:"tier"`
	NightsStayed      int       `json:"nights_stayed"`
	MandatoryNights   int       `json:"mandatory_nights"`
	NightsRemaining   int       `json:"nights_remaining"`
	Degraded          string    `json:"degraded,omitempty"`
}

type DetailResponse struct {
	Booking          BookingResponse       `json:"booking"`
	Actor            string                `json:"actor,omitempty"`
	AvailableActions []string              `json:"available_actions"`
	RefundPreview    RefundPreviewResponse `json:"refund_preview"`
}

type BookingDetailResponse struct {
	Message string `json:"message"`
	DetailResponse
}

type RefundPreviewEnvelope struct {
	Message       string                `json:"message"`
	RefundPreview RefundPreviewResponse `json:"refund_preview"`
}

type QuoteResponse struct {
	Message       string                `json:"message"`
	QuoteID       string                `json:"quote_id"`
	BookingID     string                `json:"booking_id"`
	AsOf          time.Time             `json:"as_of"`
	ExpiresAt     time.Time             `json:"expires_at"`
	RefundPreview RefundPreviewResponse `json:"refund_preview"`
}

// ActionResponse carries the marketplace's message verbatim. Detail is
// omitted when the booking could not be read back after the transition.
type ActionResponse struct {
	Message string          `json:"message"`
	Detail  *DetailResponse `json:"detail,omitempty"`
}

type CancelResponse struct {
	Message        string                `json:"message"`
	Detail         *DetailResponse       `json:"detail,omitempty"`
	RefundPreview  RefundPreviewResponse `json:"refund_preview"`
	QuoteHonoured  bool                  `json:"quote_honoured"`
	RecordedRefund *string               `json:"recorded_refund_amount,omitempty"`
	RefundDiverged bool                  `json:"refund_diverged"`
}

// Money leaves the service as fixed two-decimal strings, percentages as numbers.
var copyOption = copier.Option{
	Converters: []copier.TypeConverter{
		{
			SrcType: decimal.Decimal{},
			DstType: copier.String,
			Fn: func(src any) (any, error) {
				return src.(decimal.Decimal).StringFixed(2), nil
			},
		},
		{
			SrcType: (*decimal.Decimal)(nil),
			DstType: (*string)(nil),
			Fn: func(src any) (any, error) {
				d := src.(*decimal.Decimal)
				if d == nil {
					return nil, nil
				}
				s := d.StringFixed(2)
				return &s, nil
			},
		},
		{
			SrcType: decimal.Decimal{},
			DstType: float64(0),
			Fn: func(src any) (any, error) {
				return src.(decimal.Decimal).InexactFloat64(), nil
			},
		},
	},
}

func copyView[T any](src any, opt copier.Option, what string) (T, error) {
	var res T
	if err := copier.CopyWithOption(&res, src, opt); err != nil {
		var zero T
		return zero, errs.Wrapf(err, "map %s", what)
	}
	return res, nil
}

func FromBookingView(v queries.BookingView) (BookingResponse, error) {
	return copyView[BookingResponse](&v, copyOption, "booking view")
}

func FromRefundView(v queries.RefundView) (RefundPreviewResponse, error) {
	return copyView[RefundPreviewResponse](&v, copyOption, "refund view")
}

func FromDetail(d *queries.BookingDetail) (*DetailResponse, error) {
	if d == nil {
		return nil, nil
	}
	bk, err := FromBookingView(d.Booking)
	if err != nil {
		return nil, err
	}
	preview, err := FromRefundView(d.RefundPreview)
	if err != nil {
		return nil, err
	}
	actions := d.AvailableActions
	if actions == nil {
		actions = []string{}
	}
	return &DetailResponse{
		Booking:          bk,
		Actor:            d.Actor,
		AvailableActions: actions,
		RefundPreview:    preview,
	}, nil
}

func FromQuote(q *refund.Quote) (QuoteResponse, error) {
	preview, err := FromRefundView(queries.ToRefundView(q.Result))
	if err != nil {
		return QuoteResponse{}, err
	}
	return QuoteResponse{
		Message:       "Cancellation quote created",
		QuoteID:       q.ID.String(),
		BookingID:     q.BookingID,
		AsOf:          q.AsOf,
		ExpiresAt:     q.ExpiresAt,
		RefundPreview: preview,
	}, nil
}

func FromActionResult(r *commands.ActionResult) (ActionResponse, error) {
	detail, err := FromDetail(r.Detail)
	if err != nil {
		return ActionResponse{}, err
	}
	return ActionResponse{Message: r.Message, Detail: detail}, nil
}

func FromCancelResult(r *commands.CancelResult) (CancelResponse, error) {
	detail, err := FromDetail(r.Detail)
	if err != nil {
		return CancelResponse{}, err
	}
	preview, err := FromRefundView(r.Preview)
	if err != nil {
		return CancelResponse{}, err
	}
	res := CancelResponse{
		Message:        r.Message,
		Detail:         detail,
		RefundPreview:  preview,
		QuoteHonoured:  r.QuoteHonoured,
		RefundDiverged: r.Diverged,
	}
	if r.AuthoritativeRefund != nil {
		s := r.AuthoritativeRefund.StringFixed(2)
		res.RecordedRefund = &s
	}
	return res, nil
}
