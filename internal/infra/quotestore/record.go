package quotestore

import (
	"encoding/json"
	"time"

	"booking-lifecycle/internal/domain/booking"
	"booking-lifecycle/internal/domain/refund"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type quoteRecord struct {
	ID        uuid.UUID    `json:"id"`
	BookingID string       `json:"booking_id"`
	AsOf      time.Time    `json:"as_of"`
	ExpiresAt time.Time    `json:"expires_at"`
	Result    resultRecord `json:"result"`
}

type resultRecord struct {
	Percentage        decimal.Decimal `json:"percentage"`
	RefundAmount      decimal.Decimal `json:"refund_amount"`
	ForfeitAmount     decimal.Decimal `json:"forfeit_amount"`
	HostPayout        decimal.Decimal `json:"host_payout"`
	IsBeforeCheckIn   bool            `json:"is_before_check_in"`
	DaysUntilCheckIn  int             `json:"days_until_check_in"`
	HoursUntilCheckIn float64         `json:"hours_until_check_in"`
	Category          string          `json:"category"`
	Tier              string          `json:"tier"`
	NightsStayed      int             `json:"nights_stayed,omitempty"`
	MandatoryNights   int             `json:"mandatory_nights,omitempty"`
	NightsRemaining   int             `json:"nights_remaining,omitempty"`
	Degraded          string          `json:"degraded,omitempty"`
}

func encode(q refund.Quote) ([]byte, error) {
	r := q.Result
	return json.Marshal(quoteRecord{
		ID:        q.ID,
		BookingID: q.BookingID,
		AsOf:      q.AsOf,
		ExpiresAt: q.ExpiresAt,
		Result: resultRecord{
			Percentage:        r.Percentage,
			RefundAmount:      r.RefundAmount.Decimal(),
			ForfeitAmount:     r.ForfeitAmount.Decimal(),
			HostPayout:        r.HostPayout.Decimal(),
			IsBeforeCheckIn:   r.IsBeforeCheckIn,
			DaysUntilCheckIn:  r.DaysUntilCheckIn,
			HoursUntilCheckIn: r.HoursUntilCheckIn,
			Category:          r.Category.String(),
			Tier:              r.Tier,
			NightsStayed:      r.NightsStayed,
			MandatoryNights:   r.MandatoryNights,
			NightsRemaining:   r.NightsRemaining,
			Degraded:          r.Degraded,
		},
	})
}

func decode(raw []byte) (refund.Quote, error) {
	var rec quoteRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return refund.Quote{}, err
	}
	refundAmt, err := booking.NewMoney(rec.Result.RefundAmount)
	if err != nil {
		return refund.Quote{}, err
	}
	forfeit, err := booking.NewMoney(rec.Result.ForfeitAmount)
	if err != nil {
		return refund.Quote{}, err
	}
	payout, err := booking.NewMoney(rec.Result.HostPayout)
	if err != nil {
		return refund.Quote{}, err
	}
	return refund.Quote{
		ID:        rec.ID,
		BookingID: rec.BookingID,
		AsOf:      rec.AsOf,
		ExpiresAt: rec.ExpiresAt,
		Result: refund.Result{
			AsOf:              rec.AsOf,
			Percentage:        rec.Result.Percentage,
			RefundAmount:      refundAmt,
			ForfeitAmount:     forfeit,
			HostPayout:        payout,
			IsBeforeCheckIn:   rec.Result.IsBeforeCheckIn,
			DaysUntilCheckIn:  rec.Result.DaysUntilCheckIn,
			HoursUntilCheckIn: rec.Result.HoursUntilCheckIn,
			Category:          refund.Category(rec.Result.Category),
			Tier:              rec.Result.Tier,
			NightsStayed:      rec.Result.NightsStayed,
			MandatoryNights:   rec.Result.MandatoryNights,
			NightsRemaining:   rec.Result.NightsRemaining,
			Degraded:          rec.Result.Degraded,
		},
	}, nil
}
