package request

import (
	"strings"

	"booking-lifecycle/internal/usecase/commands"

	"github.com/google/uuid"
)

type CancelBookingRequest struct {
	Reason       string     `json:"reason" binding:"max=1000"`
	Acknowledged bool       `json:"acknowledged"`
	QuoteID      *uuid.UUID `json:"quote_id"`
}

func (r *CancelBookingRequest) ToInput() commands.CancelInput {
	return commands.CancelInput{
		Reason:       strings.TrimSpace(r.Reason),
		Acknowledged: r.Acknowledged,
		QuoteID:      r.QuoteID,
	}
}

type CheckInRequest struct {
	CheckInMethod string `json:"check_in_method" binding:"required,max=64"`
}
