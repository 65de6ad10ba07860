package cmd

import (
	"context"
	"fmt"

	"game-catalog/core/config"
	"game-catalog/core/database"
	"game-catalog/core/logger"
	"game-catalog/core/queue"
	"game-catalog/core/redis"
	"game-catalog/core/storage"
	"game-catalog/feature/catalog"
	"game-catalog/feature/media"
	"game-catalog/feature/propagation"
	"game-catalog/feature/provider"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// runtime is the object graph shared by every command.
type runtime struct {
	cfg        *config.Config
	logger     *zap.Logger
	db         *gorm.DB
	storage    storage.Client
	redis      *goredis.Client
	registry   *provider.Registry
	metrics    *prometheus.Registry
	dispatcher *queue.Dispatcher
	mediaCache *media.ViewCache
	media      *media.Propagator
	engine     *propagation.Engine
}

// bootstrap loads configuration and connects every dependency. The dispatcher
// is built but not started.
func bootstrap(ctx context.Context) (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	l.Info("Connected to catalog database", zap.String("driver", cfg.Database.Driver))

	rt := &runtime{cfg: cfg, logger: l, db: db, registry: provider.NewRegistry()}

	// Storage only feeds the optional registry document and exports
	if client, err := storage.NewClient(cfg.Storage); err != nil {
		l.Warn("Storage client unavailable", zap.Error(err))
	} else {
		rt.storage = client
		n, err := rt.registry.LoadFromStorage(ctx, client, cfg.Storage.Bucket, cfg.Storage.RegistryObject)
		if err != nil {
			l.Warn("Provider registry overrides not loaded", zap.String("object", cfg.Storage.RegistryObject), zap.Error(err))
		} else if n > 0 {
			l.Info("Loaded provider registry overrides", zap.Int("count", n))
		}
	}

	opts := []queue.Option{queue.WithFailedJobStore(queue.NewFailedJobStore(db))}
	if cfg.Redis.Enabled {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		rt.redis = client
		opts = append(opts, queue.WithLocker(queue.NewRedisLocker(client)))
		l.Info("Using redis job locks", zap.String("addr", cfg.Redis.Addr))
	}

	rt.metrics = prometheus.NewRegistry()
	rt.metrics.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	opts = append(opts, queue.WithMetrics(queue.NewMetrics(rt.metrics)))

	rt.dispatcher = queue.NewDispatcher(cfg.Queue, l, opts...)
	rt.mediaCache = media.NewViewCache(cfg.Server.MediaCacheTTL())
	rt.media = media.NewPropagator(db, rt.dispatcher, rt.mediaCache, l)
	rt.engine = propagation.NewEngine(db, rt.registry, rt.dispatcher, rt.media, l)

	return rt, nil
}

// migrate brings the catalog schema up to date.
func (rt *runtime) migrate() error {
	if err := catalog.Migrate(rt.db); err != nil {
		return fmt.Errorf("failed to migrate catalog schema: %w", err)
	}
	return nil
}

// recorder returns a Recorder publishing through the engine's pipeline.
func (rt *runtime) recorder() *propagation.Recorder {
	return propagation.NewRecorder(rt.db, rt.engine.Pipeline(), rt.logger)
}

func (rt *runtime) close() {
	if rt.redis != nil {
		_ = rt.redis.Close()
	}
	if sqlDB, err := rt.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = rt.logger.Sync()
}
