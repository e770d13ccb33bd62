package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Future-Now-Studio/shirtshop-2026-sub000/api/controllers"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/api/routes"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/canvas"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/cart"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/catalog"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/ingest"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/pricing"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/session"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/config"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/db"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/debounce"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/logger"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/metrics"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/migrate"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/pubsub"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/redis"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/storage"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/storage/gcs"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/storage/local"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return fmt.Errorf("bootstrap database: %w", err)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return fmt.Errorf("run dev migrations: %w", err)
	}

	readiness := map[string]controllers.Pinger{"db": dbClient}
	deps := routes.Dependencies{Readiness: readiness}

	var autosave session.Autosaver
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return fmt.Errorf("bootstrap redis: %w", err)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		readiness["redis"] = redisClient
		deps.Idempotency = redisClient
		deps.RateLimiter = redisClient
		autosave = session.NewRedisAutosaver(redisClient, cfg.Session.AutosaveTTL)
	} else {
		logg.Warn(ctx, "redis disabled; autosave, idempotency and upload rate limits are off")
	}

	store, err := newStore(ctx, cfg, logg, readiness)
	if err != nil {
		return err
	}

	var publisher cart.EventPublisher
	topic := ""
	if cfg.FeatureFlags.PublishCart {
		psClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			return fmt.Errorf("bootstrap pubsub: %w", err)
		}
		defer func() {
			if err := psClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub", err)
			}
		}()
		readiness["pubsub"] = psClient
		publisher = psClient
		topic = psClient.CartTopic()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewEditorMetrics(reg)
	deps.Metrics = reg

	manager, err := newManager(ctx, cfg, logg, managerInputs{
		db:        dbClient,
		store:     store,
		autosave:  autosave,
		publisher: publisher,
		topic:     topic,
		recorder:  recorder,
		clock:     debounce.RealClock(),
	})
	if err != nil {
		return err
	}
	defer manager.Shutdown()
	deps.Sessions = manager

	go func() {
		if err := manager.Run(ctx, sweepInterval(cfg.Session.IdleTimeout)); err != nil && !errors.Is(err, context.Canceled) {
			logg.Error(ctx, "session sweeper stopped", err)
		}
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
		"storage":  cfg.Storage.Driver,
	})
	logg.Info(logCtx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func newStore(ctx context.Context, cfg *config.Config, logg *logger.Logger, readiness map[string]controllers.Pinger) (storage.Store, error) {
	switch cfg.Storage.Driver {
	case "gcs":
		client, err := gcs.NewClient(ctx, cfg.Storage, cfg.GCP, logg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap gcs: %w", err)
		}
		readiness["storage"] = client
		return client, nil
	case "local", "":
		store, err := local.New(cfg.Storage.LocalDir)
		if err != nil {
			return nil, fmt.Errorf("bootstrap local storage: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

type managerInputs struct {
	db        *db.Client
	store     storage.Store
	autosave  session.Autosaver
	publisher cart.EventPublisher
	topic     string
	recorder  *metrics.EditorMetrics
	clock     debounce.Clock
}

func newManager(ctx context.Context, cfg *config.Config, logg *logger.Logger, in managerInputs) (*session.Manager, error) {
	catalogService, err := catalog.NewService(catalog.NewRepository(in.db.DB()))
	if err != nil {
		return nil, fmt.Errorf("create catalog service: %w", err)
	}
	cartService, err := cart.NewService(cart.NewRepository(in.db.DB()), in.db, in.publisher, in.topic, logg)
	if err != nil {
		return nil, fmt.Errorf("create cart service: %w", err)
	}
	surcharge, err := cfg.Pricing.Surcharge()
	if err != nil {
		return nil, fmt.Errorf("parse surcharge: %w", err)
	}
	calculator, err := pricing.NewCalculator(surcharge, cfg.Pricing.Currency)
	if err != nil {
		return nil, fmt.Errorf("create price calculator: %w", err)
	}
	fonts, err := canvas.NewFontBook()
	if err != nil {
		return nil, fmt.Errorf("load fonts: %w", err)
	}
	pipeline, err := ingest.NewPipeline(ingest.RulesFromConfig(cfg.Media, cfg.Canvas), in.recorder)
	if err != nil {
		return nil, fmt.Errorf("create ingest pipeline: %w", err)
	}

	manager, err := session.NewManager(ctx, session.Dependencies{
		Catalog:     catalogService,
		Cart:        cartService,
		Pipeline:    pipeline,
		Calculator:  calculator,
		Fonts:       fonts,
		Backgrounds: catalog.NewBackgrounds(in.store),
		Storage:     in.store,
		Autosave:    in.autosave,
		Recorder:    in.recorder,
		Canvas:      cfg.Canvas,
		Clock:       in.clock,
		Logger:      logg,
	}, cfg.Session.IdleTimeout)
	if err != nil {
		return nil, fmt.Errorf("create session manager: %w", err)
	}
	return manager, nil
}

func sweepInterval(idle time.Duration) time.Duration {
	every := idle / 4
	if every < time.Minute {
		return time.Minute
	}
	return every
}
