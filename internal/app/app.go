package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/cmi5-backend/internal/data/db"
	apphttp "github.com/yungbote/cmi5-backend/internal/http"
	"github.com/yungbote/cmi5-backend/internal/observability"
	"github.com/yungbote/cmi5-backend/internal/platform/logger"
	"github.com/yungbote/cmi5-backend/internal/realtime"
	"github.com/yungbote/cmi5-backend/internal/realtime/bus"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *apphttp.Server
	Cfg      Config
	Repos    Repos
	Services Services
	Bus      bus.Bus
	Metrics  *observability.Metrics

	pg           *db.PostgresService
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

func New(ctx context.Context) (*App, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg, err := LoadConfig(log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	otelShutdown := observability.InitOTel(ctx, log, cfg.Otel)
	metrics := observability.Init(cfg.MetricsEnabled)

	pg, err := db.NewPostgresService(cfg.DB, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	theDB := pg.DB()
	if err := db.AutoMigrateAll(theDB); err != nil {
		_ = pg.Close()
		log.Sync()
		return nil, fmt.Errorf("database automigrate: %w", err)
	}
	if err := metrics.RegisterDBStats(theDB, cfg.DB.Name); err != nil {
		log.Warn("db stats collector not registered", "error", err)
	}

	store, err := resolveStore(ctx, log, cfg)
	if err != nil {
		_ = pg.Close()
		log.Sync()
		return nil, err
	}

	eventBus := wireBus(log, cfg)

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, store, metrics)
	handlerset, err := wireHandlers(theDB, log, serviceset, eventBus, metrics)
	if err != nil {
		_ = eventBus.Close()
		_ = pg.Close()
		log.Sync()
		return nil, fmt.Errorf("wire handlers: %w", err)
	}
	server := wireServer(cfg, log, metrics, handlerset)

	return &App{
		Log:          log,
		DB:           theDB,
		Server:       server,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Bus:          eventBus,
		Metrics:      metrics,
		pg:           pg,
		otelShutdown: otelShutdown,
	}, nil
}

// wireBus falls back to a no-op bus when Redis is unset or unreachable so
// the API keeps serving without event fan-out.
func wireBus(log *logger.Logger, cfg Config) bus.Bus {
	if cfg.Redis.Addr == "" {
		log.Info("REDIS_ADDR not set; domain events disabled")
		return bus.NewNoopBus()
	}
	b, err := bus.NewRedisBus(log, cfg.Redis)
	if err != nil {
		log.Warn("Redis event bus unavailable; domain events disabled", "error", err)
		return bus.NewNoopBus()
	}
	return b
}

func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	a.Metrics.StartServer(ctx, a.Log, a.Cfg.MetricsAddr)

	eventLog := a.Log.With("component", "EventForwarder")
	if err := a.Bus.StartForwarder(ctx, func(ev realtime.Event) {
		eventLog.Debug("event received", "type", ev.Type, "request_id", ev.RequestID)
	}); err != nil {
		a.Log.Warn("event forwarder not started", "error", err)
	}
}

func (a *App) Run(addr string) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Server.Run(addr)
}

// Serve runs the HTTP server until ctx is done, then drains in-flight requests.
func (a *App) Serve(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	addr := ":" + a.Cfg.Port
	a.Log.Info("Server listening", "addr", addr)
	return a.Server.Serve(ctx, addr, a.Cfg.ShutdownTimeout)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.Bus != nil {
		if err := a.Bus.Close(); err != nil {
			a.Log.Warn("event bus close failed", "error", err)
		}
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	if a.pg != nil {
		if err := a.pg.Close(); err != nil {
			a.Log.Warn("database close failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
