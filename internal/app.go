package internal

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/c7d5a6/goliath/internal/api"
	"github.com/c7d5a6/goliath/internal/config"
	"github.com/c7d5a6/goliath/internal/identity"
	"github.com/c7d5a6/goliath/internal/login"
	"github.com/c7d5a6/goliath/internal/session"
	"github.com/c7d5a6/goliath/internal/telemetry/metrics"
	"github.com/c7d5a6/goliath/internal/telemetry/tracing"
	"github.com/c7d5a6/goliath/internal/tokenstore"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

var ErrIdentityNotConfigured = errors.New("identity provider not configured, set GOLIATH_FIREBASE_API_KEY")

// App wires the client side of goliath: token storage, the identity provider, the session
// store and the API client, plus telemetry.
type App struct {
	Config         *config.Config
	Client         *api.Client
	TokenStore     tokenstore.Store
	MetricsManager *metrics.Manager

	// nil when no firebase api key is configured
	Provider *identity.Firebase
	Session  *session.Store
	// nil unless login attempts are limited
	Limiter login.Limiter

	redisClient  *redis.Client
	promRegistry *prometheus.Registry
	otelShutdown func()
	cancel       context.CancelFunc
}

type NewAppParams struct {
	Config      *config.Config
	ServiceName string
	// DevicePrompt shows the Google device sign-in code; Google sign in is off when nil.
	DevicePrompt identity.DevicePrompt
}

func NewApp(ctx context.Context, params NewAppParams) (*App, error) {
	cfg := params.Config
	ctx, cancel := context.WithCancel(ctx)

	promRegistry := metrics.SetupPrometheus()
	metricsManager := metrics.NewManager("goliath", "client", promRegistry)

	var rdb *redis.Client
	if cfg.TokenStore == config.TokenStoreRedis {
		rdb = redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
			Password: cfg.RedisPassword,
			DB:       0,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Errorf("--> failed to ping redis: %s", err)
		}
	}

	otelShutdown, err := tracing.HoneycombSetup(cfg.HoneycombEnabled, params.ServiceName, rdb)
	if err != nil {
		cancel()
		closeRedis(rdb)
		return nil, err
	}

	var store tokenstore.Store
	if rdb != nil {
		store = tokenstore.NewRedisStore(rdb, tokenstore.DefaultRedisKeyPrefix)
	} else {
		store = tokenstore.NewFileStore(cfg.TokenFilePath)
		log.Debugf("token store file: %s", cfg.TokenFilePath)
	}

	client, err := api.NewClient(api.NewClientParams{
		BaseURL:        cfg.ApiBaseURL,
		BasePath:       cfg.ApiBasePath,
		Timeout:        cfg.RequestTimeout(),
		TokenSource:    session.NewStorageTokenSource(store),
		CacheTTL:       cfg.CacheTTL(),
		CacheSizeMB:    cfg.CacheSizeMB,
		MetricsManager: metricsManager,
	})
	if err != nil {
		cancel()
		closeRedis(rdb)
		otelShutdown()
		return nil, fmt.Errorf("new api client: %w", err)
	}

	app := &App{
		Config:         cfg,
		Client:         client,
		TokenStore:     store,
		MetricsManager: metricsManager,
		redisClient:    rdb,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
		cancel:         cancel,
	}

	if cfg.FirebaseApiKey == "" {
		log.Warnln("firebase api key not set, signing in is disabled")
	} else {
		var google identity.GoogleCredentials
		if cfg.GoogleClientID != "" && params.DevicePrompt != nil {
			google = identity.NewGoogleDeviceFlow(cfg.GoogleClientID, cfg.GoogleClientSecret, params.DevicePrompt)
		}

		provider, err := identity.NewFirebase(ctx, identity.FirebaseParams{
			APIKey:                  cfg.FirebaseApiKey,
			IdentityToolkitEndpoint: cfg.IdentityToolkitEndpoint,
			SecureTokenEndpoint:     cfg.SecureTokenEndpoint,
			RefreshMargin:           cfg.RefreshMargin(),
			Store:                   store,
			Google:                  google,
			MetricsManager:          metricsManager,
		})
		if err != nil {
			_ = app.Shutdown()
			return nil, fmt.Errorf("new firebase provider: %w", err)
		}

		app.Provider = provider
		app.Session = session.NewStore(provider, store)
		app.Session.Start(ctx)
		provider.Start(ctx)
	}

	if cfg.LoginAttemptsPerMinute > 0 && rdb != nil {
		app.Limiter = login.NewRedisThrottle(rdb, cfg.LoginAttemptsPerMinute)
	}

	if cfg.MetricsEnabled {
		metrics.Serve(ctx, cfg.MetricsAddr, promRegistry)
	}

	return app, nil
}

func closeRedis(rdb *redis.Client) {
	if rdb == nil {
		return
	}
	if err := rdb.Close(); err != nil {
		log.Errorf("close redis: %s", err)
	}
}

// Shutdown stops the background work and releases every connection.
func (a *App) Shutdown() error {
	if a.Session != nil {
		a.Session.Close()
	}
	if a.Provider != nil {
		a.Provider.Close()
	}
	a.cancel()

	var err error
	if a.redisClient != nil {
		err = multierr.Append(err, a.redisClient.Close())
	}
	a.otelShutdown()

	return err
}
