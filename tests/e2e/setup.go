//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"booking-lifecycle/cmd/bootstrap"
	"booking-lifecycle/cmd/bootstrap/components"
	"booking-lifecycle/internal/infra/quotestore"
	"booking-lifecycle/internal/pkg/clock"
	"booking-lifecycle/internal/pkg/config"

	"github.com/docker/go-connections/nat"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"
)

var (
	redisContainerOnce sync.Once
	redisTestContainer testcontainers.Container
)

type ContainerInfo struct {
	Host string
	Port nat.Port
}

// ------------------------------------------------------------
// Per test process setup
// ------------------------------------------------------------
func setupE2EEnvironment(t *testing.T, clk *clock.MockClock) (*gin.Engine, config.Config, *redis.Client, *FakeMarketplace) {
	redisInfo := startContainers(t)

	fake := NewFakeMarketplace()
	t.Cleanup(fake.Close)

	cfg := createTestConfig(redisInfo, fake.URL())

	rdb, err := quotestore.Connect(context.Background(), cfg.Redis)
	require.NoError(t, err, "failed to connect to Redis")
	t.Cleanup(func() { _ = rdb.Close() })

	router, app := buildE2EApp(cfg, clk)
	require.NotNil(t, router, "failed to set up router")

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.Stop(ctx); err != nil {
			slog.Warn("failed to stop fx app", "error", err.Error())
		}
	})

	slog.Info("E2E environment ready",
		"redis_host", redisInfo.Host,
		"redis_port", redisInfo.Port.Port(),
		"marketplace_url", fake.URL())

	return router, cfg, rdb, fake
}

func startContainers(t *testing.T) ContainerInfo {
	gin.SetMode(gin.TestMode)
	startRedisContainerOnce(t)

	redisInfo, err := getContainerHostPort(redisTestContainer, "6379/tcp")
	require.NoError(t, err, "failed to read Redis container address")

	return redisInfo
}

// ------------------------------------------------------------
// Builds the real fx graph with a fixed clock.
// ------------------------------------------------------------
func buildE2EApp(cfg config.Config, clk *clock.MockClock) (*gin.Engine, *fx.App) {
	var router *gin.Engine

	testConfigModule := fx.Module("testconfig",
		fx.Provide(func() config.Config { return cfg }),
	)

	app := fx.New(
		testConfigModule,
		fx.Provide(func() *gin.Engine { return gin.New() }),
		bootstrap.LoggerModule,
		bootstrap.JWTModule,
		components.ClockModule,
		fx.Decorate(func(clock.Clock) clock.Clock { return clk }),
		bootstrap.QuoteStoreModule,
		components.GatewayModule,
		components.UseCaseModule,
		components.HandlerModule,

		fx.Populate(&router),

		fx.NopLogger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		panic(fmt.Sprintf("Failed to start fx app: %v", err))
	}

	return router, app
}

func createTestConfig(redisInfo ContainerInfo, marketplaceURL string) config.Config {
	testConfig := config.NewTestConfig()
	testConfig.Marketplace.BaseURL = marketplaceURL
	testConfig.Redis.Addr = fmt.Sprintf("%s:%s", redisInfo.Host, redisInfo.Port.Port())
	// Separate key space per test process.
	testConfig.Redis.Prefix = "e2e-" + uuid.NewString()
	return testConfig
}

// ------------------------------------------------------------
// Container helpers
// ------------------------------------------------------------
func startGenericContainer(req testcontainers.ContainerRequest, timeoutSec int) (testcontainers.Container, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSec)*time.Second)
	defer cancel()

	return testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
}

func startRedisContainerOnce(t *testing.T) {
	redisContainerOnce.Do(func() {
		req := testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			Cmd:          []string{"redis-server", "--save", "", "--appendonly", "no"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
			Labels:       map[string]string{"purpose": "e2e-tests"},
		}

		var err error
		redisTestContainer, err = startGenericContainer(req, 120)
		require.NoError(t, err, "failed to start Redis container")

		t.Cleanup(func() {
			if redisTestContainer != nil {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := redisTestContainer.Terminate(ctx); err != nil {
					slog.Warn("failed to terminate Redis container", "error", err.Error())
				}
			}
		})
	})
}

func getContainerHostPort(c testcontainers.Container, port string) (ContainerInfo, error) {
	ctx := context.Background()
	mappedPort, err := c.MappedPort(ctx, nat.Port(port))
	if err != nil {
		return ContainerInfo{}, err
	}
	host, err := c.Host(ctx)
	if err != nil {
		return ContainerInfo{}, err
	}
	return ContainerInfo{Host: host, Port: mappedPort}, nil
}

// ------------------------------------------------------------
// Shared E2E suite
// ------------------------------------------------------------
type SharedSuite struct {
	suite.Suite
	Router      *gin.Engine
	Config      config.Config
	Redis       *redis.Client
	Marketplace *FakeMarketplace
	Clock       *clock.MockClock
}

func (s *SharedSuite) SetupSharedSuite(t *testing.T) {
	s.Clock = clock.NewMockClock(time.Now())
	router, cfg, rdb, fake := setupE2EEnvironment(t, s.Clock)
	s.Router = router
	s.Config = cfg
	s.Redis = rdb
	s.Marketplace = fake
	require.NotEmpty(t, s.Config, "failed to load config")
	require.NotNil(t, s.Router, "failed to set up router")
}

func (s *SharedSuite) SetupSuite() {
	s.SetupSharedSuite(s.T())
}

// SetNow moves the service clock and the fake marketplace together.
func (s *SharedSuite) SetNow(t time.Time) {
	s.Clock.Set(t)
	s.Marketplace.SetNow(t)
}

func (s *SharedSuite) SetupSubTest() {
	s.Marketplace.Reset()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	keys, err := s.Redis.Keys(ctx, s.Config.Redis.Prefix+":*").Result()
	require.NoError(s.T(), err, "failed to list quote keys")
	if len(keys) > 0 {
		require.NoError(s.T(), s.Redis.Del(ctx, keys...).Err(), "failed to reset quote keys")
	}
}
