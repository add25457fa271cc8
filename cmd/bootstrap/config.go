package bootstrap

import (
	"booking-lifecycle/internal/pkg/config"
	"booking-lifecycle/internal/pkg/errs"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		NewConfig,
	),
)

// NewConfig loads the environment and rejects settings the booking flows
// cannot run with.
func NewConfig() (config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return config.Config{}, err
	}
	if cfg.Booking.QuoteTTL <= 0 {
		return config.Config{}, errs.Newf("BOOKING_QUOTE_TTL must be positive, got %s", cfg.Booking.QuoteTTL)
	}
	if cfg.Marketplace.Timeout <= 0 {
		return config.Config{}, errs.Newf("MARKETPLACE_TIMEOUT must be positive, got %s", cfg.Marketplace.Timeout)
	}
	return cfg, nil
}
