package queries

import (
	"net/http"

	"booking-lifecycle/internal/infra"
	"booking-lifecycle/internal/pkg/errs"
)

// MapGatewayError marks a marketplace error with the category the HTTP layer
// maps to a status.
func MapGatewayError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case infra.IsKind(err, infra.KindNotFound):
		return errs.Mark(err, errs.ErrBookingNotFound)
	case infra.IsKind(err, infra.KindRejected):
		return errs.Mark(err, errs.ErrUpstreamRejected)
	case infra.IsKind(err, infra.KindDecode):
		return errs.Mark(err, errs.ErrUpstreamInvalid)
	default:
		return errs.Mark(err, errs.ErrUpstreamUnavailable)
	}
}

// Rejection returns the upstream status and verbatim message of a business
// rejection.
func Rejection(err error) (status int, message string, ok bool) {
	e, found := infra.AsError(err)
	if !found || e.Kind != infra.KindRejected {
		return 0, "", false
	}
	status = e.Status
	if status == 0 {
		status = http.StatusUnprocessableEntity
	}
	return status, e.Message, true
}
