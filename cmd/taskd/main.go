package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/taskhive/taskd/pkg/access"
	"github.com/taskhive/taskd/pkg/api"
	"github.com/taskhive/taskd/pkg/auth"
	"github.com/taskhive/taskd/pkg/config"
	"github.com/taskhive/taskd/pkg/labels"
	"github.com/taskhive/taskd/pkg/observability"
	"github.com/taskhive/taskd/pkg/store"
	"github.com/taskhive/taskd/pkg/store/memory"
	"github.com/taskhive/taskd/pkg/store/postgres"
	"github.com/taskhive/taskd/pkg/tasks"
	"github.com/taskhive/taskd/pkg/users"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		os.Stderr.WriteString("taskd: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)

	st, err := openStore(cfg.Store)
	if err != nil {
		logger.WithError(err).Fatal("failed to open store")
	}
	defer st.Close()
	logger.WithField("type", cfg.Store.Type).Info("store initialized")

	sessionStore, cleanup, err := openSessionStore(cfg.Sessions)
	if err != nil {
		logger.WithError(err).Fatal("failed to open session store")
	}
	defer cleanup()
	sessions := auth.NewSessions(sessionStore, cfg.Sessions.TTL)

	var metrics *observability.Metrics
	if cfg.Observability.MetricsEnabled {
		metrics = observability.NewMetrics()
	}

	server := api.NewServer(api.Deps{
		Store:    st,
		Sessions: sessions,
		Users:    users.NewService(st, logger),
		Projects: access.NewService(st, logger),
		Tasks:    tasks.NewService(st, logger),
		Labels:   labels.NewService(st, logger),
		Logger:   logger,
		Metrics:  metrics,
	})

	health := observability.NewHealthChecker(map[string]observability.Pinger{
		"store": st,
	})
	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/healthz", health.Liveness)
	healthMux.HandleFunc("/readyz", health.Readiness)
	if metrics != nil {
		healthMux.Handle("/metrics", metrics.Handler())
	}

	apiServer := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      server,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	healthServer := &http.Server{
		Addr:    net.JoinHostPort(cfg.Server.Host, cfg.Server.HealthPort),
		Handler: healthMux,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.WithField("addr", apiServer.Addr).Info("api server listening")
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		logger.WithField("addr", healthServer.Addr).Info("health server listening")
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("api server shutdown")
		}
		return healthServer.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.WithError(err).Fatal("server error")
	}
	logger.Info("stopped")
}

func openStore(cfg store.Config) (store.Store, error) {
	if cfg.Type == "postgres" {
		st, err := postgres.New(cfg)
		if err != nil {
			return nil, err
		}
		return st, nil
	}
	return memory.New(), nil
}

// openSessionStore picks redis when configured, otherwise an in-memory store
// with a periodic expiry sweep. The returned cleanup stops the sweeper or
// closes the redis pool.
func openSessionStore(cfg config.SessionConfig) (auth.SessionStore, func(), error) {
	if cfg.RedisURL != "" {
		rs, err := auth.NewRedisSessionStore(cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return rs, func() { rs.Close() }, nil
	}

	ms := auth.NewMemorySessionStore()
	if err := ms.StartSweeper(cfg.SweepSchedule); err != nil {
		return nil, nil, err
	}
	return ms, ms.StopSweeper, nil
}
