//go:build unit

package handler_test

import (
	"net/http"
	"testing"
	"time"

	"booking-lifecycle/internal/handler"
	"booking-lifecycle/internal/handler/api"
	"booking-lifecycle/internal/handler/middleware"
	"booking-lifecycle/internal/pkg/config"
	"booking-lifecycle/internal/pkg/jwt"
	"booking-lifecycle/internal/usecase"
	"booking-lifecycle/tests/common/httptest"
	commandsmock "booking-lifecycle/tests/mock/commands"
	queriesmock "booking-lifecycle/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestNewRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)

	cfg := config.NewTestConfig()
	auth := middleware.NewAuthMiddleware(usecase.NewTokenValidator(jwt.NewService(cfg.JWT.Secret, time.Hour)))
	bookingHandler := api.NewBookingHandler(commandsmock.NewMockBookingCommands(ctrl), queriesmock.NewMockBookingQueries(ctrl))

	engine := gin.New()
	handler.NewRouter(engine, cfg, bookingHandler, auth)

	t.Run("registers every booking route", func(t *testing.T) {
		registered := make(map[string]bool)
		for _, r := range engine.Routes() {
			registered[r.Method+" "+r.Path] = true
		}
		for _, want := range []string{
			"GET /health",
			"GET /api/bookings/:id",
			"GET /api/bookings/:id/refund-preview",
			"POST /api/bookings/:id/cancellation-quotes",
			"POST /api/bookings/:id/cancel",
			"POST /api/bookings/:id/accept",
			"POST /api/bookings/:id/decline",
			"POST /api/bookings/:id/complete",
			"POST /api/bookings/:id/check-in",
		} {
			assert.True(t, registered[want], want)
		}
	})

	t.Run("health is public", func(t *testing.T) {
		rec := httptest.PerformRequest(t, engine, http.MethodGet, "/health", nil, "")

		var body map[string]string
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &body)
		assert.Equal(t, "ok", body["status"])
	})

	t.Run("booking routes require a token", func(t *testing.T) {
		rec := httptest.PerformRequest(t, engine, http.MethodPost, "/api/bookings/bk_1/accept", nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "Access token required")
	})
}
