package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	reqdto "booking-lifecycle/internal/handler/dto/request"
	resdto "booking-lifecycle/internal/handler/dto/response"
	"booking-lifecycle/internal/handler/httperr"
	"booking-lifecycle/internal/handler/middleware"
	"booking-lifecycle/internal/pkg/errs"
	"booking-lifecycle/internal/usecase/commands"
	"booking-lifecycle/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

var (
	ErrUnauthenticated = errs.New("caller not authenticated")
	ErrInvalidInstant  = errs.New("at must be an RFC3339 timestamp")
)

type BookingHandler struct {
	cmds commands.BookingCommands
	q    queries.BookingQueries
}

func NewBookingHandler(cmds commands.BookingCommands, q queries.BookingQueries) *BookingHandler {
	return &BookingHandler{cmds: cmds, q: q}
}

// @Summary Get booking
// @Description Booking detail with the caller's available actions and a refund preview as of now
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingDetailResponse
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /api/bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	detail, err := h.q.GetDetail(c.Request.Context(), bookingID(c), caller)
	if err != nil {
		abortWithBookingError(c, err)
		return
	}
	res, err := resdto.FromDetail(detail)
	if err != nil {
		abortWithBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.BookingDetailResponse{
		Message:        "Booking loaded",
		DetailResponse: *res,
	})
}

// @Summary Preview refund
// @Description Refund a cancellation would yield at the given instant (defaults to now)
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param at query string false "RFC3339 instant"
// @Success 200 {object} resdto.RefundPreviewEnvelope
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /api/bookings/{id}/refund-preview [get]
func (h *BookingHandler) PreviewRefund(c *gin.Context) {
	var at time.Time
	if raw := strings.TrimSpace(c.Query("at")); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, errs.Mark(err, ErrInvalidInstant), "Invalid at parameter", nil)
			return
		}
		at = parsed
	}
	view, err := h.q.PreviewRefund(c.Request.Context(), bookingID(c), at)
	if err != nil {
		abortWithBookingError(c, err)
		return
	}
	preview, err := resdto.FromRefundView(*view)
	if err != nil {
		abortWithBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.RefundPreviewEnvelope{
		Message:       "Refund preview calculated",
		RefundPreview: preview,
	})
}

// @Summary Open cancellation quote
// @Description Snapshots now for the cancellation dialog; submit the quote id with the cancellation to keep this figure
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 201 {object} resdto.QuoteResponse
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /api/bookings/{id}/cancellation-quotes [post]
func (h *BookingHandler) QuoteCancellation(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	quote, err := h.cmds.QuoteCancellation(c.Request.Context(), bookingID(c), caller)
	if err != nil {
		abortWithBookingError(c, err)
		return
	}
	respond(c, http.StatusCreated)(resdto.FromQuote(quote))
}

// @Summary Cancel booking
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.CancelBookingRequest true "Cancellation"
// @Success 200 {object} resdto.CancelResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /api/bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	var req reqdto.CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", httperr.BindingDetail(err))
		return
	}
	result, err := h.cmds.Cancel(c.Request.Context(), bookingID(c), caller, req.ToInput())
	if err != nil {
		abortWithBookingError(c, err)
		return
	}
	respond(c, http.StatusOK)(resdto.FromCancelResult(result))
}

// @Summary Accept booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.ActionResponse
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /api/bookings/{id}/accept [post]
func (h *BookingHandler) Accept(c *gin.Context) {
	h.transition(c, h.cmds.Accept)
}

// @Summary Decline booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.ActionResponse
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /api/bookings/{id}/decline [post]
func (h *BookingHandler) Decline(c *gin.Context) {
	h.transition(c, h.cmds.Decline)
}

// @Summary Complete booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.ActionResponse
// @Failure 401 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /api/bookings/{id}/complete [post]
func (h *BookingHandler) Complete(c *gin.Context) {
	h.transition(c, h.cmds.Complete)
}

// @Summary Check in
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.CheckInRequest true "Check-in"
// @Success 200 {object} resdto.ActionResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /api/bookings/{id}/check-in [post]
func (h *BookingHandler) CheckIn(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	var req reqdto.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", httperr.BindingDetail(err))
		return
	}
	result, err := h.cmds.CheckIn(c.Request.Context(), bookingID(c), caller, req.CheckInMethod)
	if err != nil {
		abortWithBookingError(c, err)
		return
	}
	respond(c, http.StatusOK)(resdto.FromActionResult(result))
}

type transitionFunc func(ctx context.Context, id string, caller queries.Caller) (*commands.ActionResult, error)

func (h *BookingHandler) transition(c *gin.Context, run transitionFunc) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	result, err := run(c.Request.Context(), bookingID(c), caller)
	if err != nil {
		abortWithBookingError(c, err)
		return
	}
	respond(c, http.StatusOK)(resdto.FromActionResult(result))
}

func (h *BookingHandler) caller(c *gin.Context) (queries.Caller, bool) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, ErrUnauthenticated, "Unauthorized", nil)
	}
	return caller, ok
}

// respond returns a writer for a mapped response body; a mapping error is a 500.
func respond(c *gin.Context, status int) func(any, error) {
	return func(body any, err error) {
		if err != nil {
			abortWithBookingError(c, err)
			return
		}
		c.JSON(status, body)
	}
}

func bookingID(c *gin.Context) string {
	return strings.TrimSpace(c.Param("id"))
}
