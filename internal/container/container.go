package container

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/sync/errgroup"

	"library/router/internal/config"
	"library/router/internal/dispatch"
	"library/router/internal/history"
	"library/router/internal/queue"
	"library/router/internal/repository"
	"library/router/internal/server"
	"library/router/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config     *config.Config
	Table      *dispatch.Table
	History    history.Tracker
	Repository repository.RouteHitRepository
	Queue      queue.Queue
	Service    *service.Service // Nil unless analytics are enabled
	Server     *http.Server

	db    *pgxpool.Pool
	redis *redis.Client
}

// New creates a new container with all dependencies initialized
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
		Table:  dispatch.DefaultTable(),
	}

	if cfg.UsesRedis() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.Database,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		log.Info("✅ Connected to Redis successfully")
		container.redis = rdb
	}

	switch cfg.History.Backend {
	case config.HistoryBackendRedis:
		container.History = history.NewRedisTracker(container.redis, cfg.History.KeyPrefix, cfg.History.TTL)
	default:
		container.History = history.NewMemoryTracker()
	}
	log.Infof("📍 Navigation history kept in %s", cfg.History.Backend)

	if cfg.Analytics.Enabled {
		if err := container.initAnalytics(ctx); err != nil {
			container.Close()
			return nil, err
		}
	}

	opts := server.Options{SessionCookie: cfg.Server.SessionCookie}
	if container.Service != nil {
		opts.Publisher = container.Service
	}
	container.Server = &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      server.New(container.Table, container.History, opts).Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return container, nil
}

func (c *Container) initAnalytics(ctx context.Context) error {
	db, err := pgxpool.New(ctx, c.Config.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	c.db = db

	if err := repository.EnsureSchema(ctx, db); err != nil {
		return err
	}
	c.Repository = repository.NewRouteHitRepository(db)
	log.Info("✅ Connected to database successfully")

	redisQueue, err := queue.NewRedisQueue(ctx, c.redis, c.Config.Redis)
	if err != nil {
		return err
	}
	c.Queue = redisQueue

	c.Service = service.NewService(
		c.Repository,
		redisQueue,
		c.Config.Redis.ConsumerGroup,
		c.Config.Redis.MinIdleTime,
	)
	return nil
}

// Run serves HTTP and, with analytics enabled, consumes navigation events
// until ctx is cancelled.
func (c *Container) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return c.serve(ctx)
	})

	if c.Service != nil {
		g.Go(func() error {
			return c.Service.RunWorkers(ctx, c.Config.Analytics.MaxWorkers)
		})
	}

	return g.Wait()
}

// RunWorkers only consumes navigation events.
func (c *Container) RunWorkers(ctx context.Context) error {
	if c.Service == nil {
		return errors.New("analytics are disabled, nothing to consume")
	}
	return c.Service.RunWorkers(ctx, c.Config.Analytics.MaxWorkers)
}

func (c *Container) serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Infof("🚀 Listening on %s", c.Server.Addr)
		if err := c.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("🛑 Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), c.Config.Server.ShutdownTimeout)
	defer cancel()
	if err := c.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

// Close performs cleanup when shutting down
func (c *Container) Close() {
	log.Info("Shutting down container...")

	if c.db != nil {
		c.db.Close()
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			log.Warnf("⚠️ Failed to close Redis: %v", err)
		}
	}

	log.Info("Container shut down successfully")
}
