package cmd

import (
	"context"
	"fmt"
	"log"

	"inventory-guard/core/activity"
	"inventory-guard/core/cache"
	"inventory-guard/core/config"
	"inventory-guard/core/database"
	"inventory-guard/core/ledger"
	"inventory-guard/core/logger"
	"inventory-guard/core/metrics"
	"inventory-guard/core/notify"
	"inventory-guard/core/stock"
	"inventory-guard/core/storage"
	"inventory-guard/core/tracing"
	"inventory-guard/feature/alert"
	"inventory-guard/feature/expiry"
	"inventory-guard/feature/reconcile"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// app is the wired object graph shared by the commands.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	redis    *redis.Client
	ledger   *ledger.Repository
	stock    *stock.Store
	activity *activity.RedisController

	sweeper    *expiry.Runner
	reconciler *reconcile.Runner

	closers []func(context.Context) error
}

// loadBase loads configuration and builds the logger.
func loadBase() (*config.Config, *zap.Logger) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	zap.ReplaceGlobals(logg)
	return cfg, logg
}

// connectStores opens the ledger and the stock store.
func connectStores(ctx context.Context, cfg *config.Config) (*ledger.Repository, *redis.Client, func(context.Context) error, error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, nil, nil, err
	}

	rdb, err := cache.Connect(ctx, cfg.Redis)
	if err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return nil, nil, nil, err
	}

	closeAll := func(context.Context) error {
		var firstErr error
		if err := rdb.Close(); err != nil {
			firstErr = err
		}
		if sqlDB, err := db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}
	return ledger.NewRepository(db), rdb, closeAll, nil
}

// bootstrap wires every component of the expiry and reconciliation loops.
func bootstrap(ctx context.Context) (*app, error) {
	cfg, logg := loadBase()
	a := &app{cfg: cfg, logger: logg}

	shutdownTracing, err := tracing.Init(cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	a.closers = append(a.closers, shutdownTracing)

	repo, rdb, closeStores, err := connectStores(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, closeStores)
	a.ledger = repo
	a.redis = rdb
	a.stock = stock.NewStore(rdb)
	a.activity = activity.NewRedisController(rdb)
	logg.Info("Connected to ledger and stock store",
		zap.String("driver", cfg.Database.Driver),
		zap.String("redis", cfg.Redis.Addr))

	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(a.registry)

	notifiers := notify.Multi{notify.NewLogNotifier(logg)}
	if cfg.Kafka.Enabled() {
		kn := notify.NewKafkaNotifier(cfg.Kafka)
		notifiers = append(notifiers, kn)
		a.closers = append(a.closers, func(context.Context) error { return kn.Close() })
		logg.Info("Publishing alerts to Kafka",
			zap.Strings("brokers", cfg.Kafka.BrokerList()),
			zap.String("topic", cfg.Kafka.Topic))
	}

	var archiver reconcile.Archiver
	if cfg.Storage.Enabled {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			a.Close()
			return nil, err
		}
		if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
			logg.Warn("Report archive bucket unavailable, reports may not be archived", zap.Error(err))
		}
		archiver = reconcile.NewStorageArchiver(client, cfg.Storage.Bucket)
	}

	expirySvc := expiry.NewService(repo, a.stock, logg, m, tracing.Tracer("inventory-guard/expiry"))
	a.sweeper = expiry.NewRunner(expirySvc, cfg.Expiry, logg)

	alerts := alert.NewService(cfg.Alert, notifiers, a.activity, logg, m)
	engine := reconcile.NewEngine(repo, a.stock, cfg.Reconcile, logg, m, tracing.Tracer("inventory-guard/reconcile"))
	a.reconciler = reconcile.NewRunner(engine, alerts, archiver, logg, m)

	return a, nil
}

// Close releases connections in reverse order of acquisition.
func (a *app) Close() {
	ctx := context.Background()
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.logger.Warn("Error during shutdown", zap.Error(err))
		}
	}
	a.closers = nil
	_ = a.logger.Sync()
}
