package components

import (
	"booking-lifecycle/internal/handler"
	"booking-lifecycle/internal/handler/api"
	"booking-lifecycle/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewBookingHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
