package bootstrap

import (
	"context"
	"log/slog"

	"booking-lifecycle/internal/infra/quotestore"
	"booking-lifecycle/internal/pkg/clock"
	"booking-lifecycle/internal/pkg/config"
	"booking-lifecycle/internal/usecase/commands"

	"go.uber.org/fx"
)

var QuoteStoreModule = fx.Module("quotestore",
	fx.Provide(
		NewQuoteStore,
	),
)

// NewQuoteStore prefers Redis so quotes survive restarts and are shared
// between instances. Without REDIS_ADDR, or when Redis is unreachable at
// startup, quotes live in process memory.
func NewQuoteStore(lc fx.Lifecycle, cfg config.Config, clk clock.Clock, logger *slog.Logger) commands.QuoteStore {
	if cfg.Redis.Addr == "" {
		logger.Info("REDIS_ADDR not set, keeping cancellation quotes in memory")
		return quotestore.NewMemoryStore(clk, logger)
	}

	client, err := quotestore.Connect(context.Background(), cfg.Redis)
	if err != nil {
		logger.Warn("Redis unreachable, keeping cancellation quotes in memory",
			"addr", cfg.Redis.Addr, "error", err)
		return quotestore.NewMemoryStore(clk, logger)
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	return quotestore.NewRedisStore(client, cfg.Redis.Prefix, clk, logger)
}
