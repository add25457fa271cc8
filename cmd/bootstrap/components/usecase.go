package components

import (
	"log/slog"

	"booking-lifecycle/internal/pkg/clock"
	"booking-lifecycle/internal/pkg/config"
	"booking-lifecycle/internal/usecase"
	"booking-lifecycle/internal/usecase/commands"
	"booking-lifecycle/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		NewBookingCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewBookingQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

func NewBookingCommands(
	gateway commands.BookingGateway,
	quotes commands.QuoteStore,
	bookingQueries queries.BookingQueries,
	clk clock.Clock,
	cfg config.Config,
	logger *slog.Logger,
) commands.BookingCommands {
	return commands.NewBookingUseCase(gateway, quotes, bookingQueries, clk, cfg.Booking.QuoteTTL, logger)
}
