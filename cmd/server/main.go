// Command server runs the marketplace moderation service: the HTTP API, the
// background event worker, and their shared lifecycle. Business logic lives
// in internal/moderation.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"marketmod/internal/clients/catalog"
	"marketmod/internal/clients/users"
	"marketmod/internal/jwtauth"
	"marketmod/internal/moderation/events"
	"marketmod/internal/moderation/handler"
	moderationmetrics "marketmod/internal/moderation/metrics"
	"marketmod/internal/moderation/service"
	actionstore "marketmod/internal/moderation/store/action"
	auditstore "marketmod/internal/moderation/store/audit"
	"marketmod/internal/platform/config"
	"marketmod/internal/platform/httpserver"
	"marketmod/internal/platform/logger"
	"marketmod/internal/platform/metrics"
	"marketmod/internal/platform/middleware"
	"marketmod/internal/platform/postgres"
	platformredis "marketmod/internal/platform/redis"
	"marketmod/internal/throttle"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Ledgers: postgres when a DSN is configured, memory twins otherwise.
	var (
		actions service.ActionStore
		audits  service.AuditStore
	)
	if cfg.Database.DSN != "" {
		db, err := postgres.Open(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		defer db.Close()

		if err := postgres.Migrate(db); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		actions = actionstore.NewPostgres(db)
		audits = auditstore.NewPostgres(db)
	} else {
		log.Warn("no database configured, moderation ledgers are in-memory")
		actions = actionstore.NewMemory()
		audits = auditstore.NewMemory()
	}

	// Write throttle: redis-backed when redis is configured so the limit
	// holds across replicas, in-process otherwise.
	var limiter throttle.Limiter
	if cfg.Throttle.Enabled {
		redisClient, err := platformredis.New(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		if redisClient != nil {
			defer redisClient.Close()
			limiter = throttle.NewRedis(redisClient.Client, cfg.Throttle.Limit, cfg.Throttle.Window)
		} else {
			limiter = throttle.NewMemory(cfg.Throttle.Limit, cfg.Throttle.Window)
		}
	}

	publisher := events.NewPublisher(cfg.Events.Buffer, log)
	var sink events.Sink
	if len(cfg.Events.Brokers) > 0 {
		kafkaSink, err := events.NewKafkaSink(cfg.Events.Brokers, cfg.Events.Topic)
		if err != nil {
			return fmt.Errorf("connect kafka: %w", err)
		}
		defer kafkaSink.Close()
		sink = kafkaSink
	} else {
		sink = events.NewLogSink(log)
	}
	worker := events.NewWorker(sink, publisher.Inbox(), log)

	domainMetrics := moderationmetrics.New()
	svc := service.NewService(
		users.New(cfg.Users),
		catalog.New(cfg.Catalog),
		actions,
		audits,
		service.WithLogger(log),
		service.WithMetrics(domainMetrics),
		service.WithPublisher(publisher),
	)

	validator := jwtauth.NewValidator(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer)
	moderationHandler := handler.New(svc, tokenValidator{validator}, limiter, log)

	httpMetrics := metrics.New()
	router := newRouter(cfg, log, httpMetrics, moderationHandler)
	srv := httpserver.New(cfg.Server, router)

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("event worker: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		log.Info("moderation service listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	})

	return group.Wait()
}

func newRouter(cfg *config.Config, log *slog.Logger, m *metrics.Metrics, moderationHandler *handler.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Timeout(cfg.Server.WriteTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api/moderation", func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		r.Use(middleware.Latency(m, "moderation"))
		moderationHandler.Register(r)
	})

	return r
}

// tokenValidator adapts the jwt validator to the middleware contract.
type tokenValidator struct {
	validator *jwtauth.Validator
}

func (t tokenValidator) ValidateToken(tokenString string) (*middleware.TokenClaims, error) {
	claims, err := t.validator.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &middleware.TokenClaims{ActorID: claims.ActorID}, nil
}
