package bootstrap

import (
	"booking-lifecycle/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	JWTModule,
	components.ClockModule,
	QuoteStoreModule,
	components.GatewayModule,
	components.UseCaseModule,
	components.HandlerModule,
)
