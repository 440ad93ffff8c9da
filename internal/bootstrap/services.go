package bootstrap

import (
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/rotalabs/viagens-ui/config"
	"github.com/rotalabs/viagens-ui/internal/adapters/tripsapi"
	"github.com/rotalabs/viagens-ui/internal/core"
	"github.com/rotalabs/viagens-ui/internal/data"
	"github.com/rotalabs/viagens-ui/internal/observability/metrics"
	"github.com/rotalabs/viagens-ui/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth    *service.AuthService
	Trips   *service.TripBoardService
	Metrics *metrics.Metrics
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewServices wires the auth service, the trip board service, and the shared
// metrics collectors from configuration and the Redis client.
func NewServices(deps *ServiceDeps) ServiceContainer {
	if deps == nil {
		return ServiceContainer{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	appCfg := deps.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	var m *metrics.Metrics
	if appCfg.Observability.Metrics.Enabled {
		m = metrics.New(appCfg.Observability.Metrics.Namespace)
	}

	authService := BuildAuthService(AuthConfig{
		Auth:           appCfg.Auth,
		RedisClient:    deps.RedisClient,
		DecodeFailures: decodeFailureSink(m),
		Logger:         logger,
	})

	tripService := buildTripBoardService(tripBoardDeps{
		Config:      appCfg,
		RedisClient: deps.RedisClient,
		Metrics:     m,
		Logger:      logger,
	})

	return ServiceContainer{
		Auth:    authService,
		Trips:   tripService,
		Metrics: m,
	}
}

// decodeFailureSink adapts the metrics counter to the auth service's plain
// Inc() dependency without handing a typed nil through an interface.
func decodeFailureSink(m *metrics.Metrics) interface{ Inc() } {
	if m == nil {
		return nil
	}
	return m.DecodeFailures()
}

type tripBoardDeps struct {
	Config      *config.AppConfig
	RedisClient redis.UniversalClient
	Metrics     *metrics.Metrics
	Logger      *slog.Logger
}

// buildTripBoardService wires the remote API client and the per-session board
// cache. Returns nil when the remote API is not configured; the router
// renders a 404 for trip pages in that case.
func buildTripBoardService(deps tripBoardDeps) *service.TripBoardService {
	apiOpts := tripsapi.Options{
		BaseURL:    deps.Config.TripsAPI.BaseURL,
		HTTPClient: &http.Client{Timeout: deps.Config.TripsAPI.Timeout},
	}
	if deps.Metrics != nil {
		apiOpts.Observer = deps.Metrics
	}

	client, err := tripsapi.NewClient(apiOpts)
	if err != nil {
		if deps.Logger != nil {
			deps.Logger.Warn("trip board disabled: remote API not configured", "error", err)
		}
		return nil
	}

	var boards *core.BoardCacheService
	if deps.RedisClient != nil {
		boards = core.NewBoardCacheService(
			data.NewRedisCacheRepo(deps.RedisClient),
			core.BoardCacheConfig{TTL: deps.Config.Cache.BoardTTL},
		)
	}

	return service.NewTripBoardService(service.TripBoardServiceOptions{
		API:    client,
		Boards: boards,
		Logger: deps.Logger,
	})
}
