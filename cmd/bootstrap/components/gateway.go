package components

import (
	"log/slog"
	"time"

	"booking-lifecycle/internal/infra/marketplace"
	"booking-lifecycle/internal/pkg/clock"
	"booking-lifecycle/internal/pkg/config"
	"booking-lifecycle/internal/pkg/localtime"
	"booking-lifecycle/internal/usecase/commands"
	"booking-lifecycle/internal/usecase/queries"

	"go.uber.org/fx"
)

var ClockModule = fx.Module("clock",
	fx.Provide(
		clock.NewRealClock,
		NewDefaultLocation,
	),
)

var GatewayModule = fx.Module("gateway",
	fx.Provide(
		fx.Annotate(
			NewMarketplaceClient,
			fx.As(new(commands.BookingGateway)),
			fx.As(new(queries.BookingReader)),
		),
	),
)

// NewDefaultLocation is the zone assumed for stays whose snapshot names none.
func NewDefaultLocation(cfg config.Config) *time.Location {
	return localtime.ResolveLocation(cfg.Booking.DefaultTimeZone, nil)
}

func NewMarketplaceClient(cfg config.Config, defaultLoc *time.Location, logger *slog.Logger) *marketplace.Client {
	return marketplace.NewClient(cfg.Marketplace, defaultLoc, logger)
}
