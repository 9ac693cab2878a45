// Command server runs the boarding-document verification service.
//
// main wires configuration, the ledger backend, notification fan-out, and the
// HTTP router, then supervises the server and the notification worker until a
// shutdown signal arrives. Business logic lives in the internal packages.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	httpapi "boardcheck/internal/http"
	"boardcheck/internal/jwttoken"
	"boardcheck/internal/ledger"
	"boardcheck/internal/platform/config"
	"boardcheck/internal/platform/httpserver"
	"boardcheck/internal/platform/logger"
	platformredis "boardcheck/internal/platform/redis"
	verificationhandler "boardcheck/internal/verification/handler"
	"boardcheck/internal/verification/metrics"
	"boardcheck/internal/verification/service"
	"boardcheck/pkg/platform/notify"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "boardcheck:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	checks := make(map[string]httpapi.HealthChecker)
	if redisClient != nil {
		checks["redis"] = redisClient
	}

	store, closeStore, err := buildStore(ctx, cfg.Ledger, redisClient, checks)
	if err != nil {
		return err
	}
	defer closeStore()

	bus := notify.NewBus()
	g, ctx := errgroup.WithContext(ctx)

	if len(cfg.Kafka.Brokers) > 0 {
		sink, err := notify.NewKafkaSink(notify.KafkaConfig{
			Brokers:          cfg.Kafka.Brokers,
			EvaluationsTopic: cfg.Kafka.EvaluationsTopic,
			AlertsTopic:      cfg.Kafka.AlertsTopic,
		})
		if err != nil {
			return err
		}
		defer sink.Close()

		inbox, unsubscribe := bus.Subscribe()
		defer unsubscribe()

		worker := notify.NewWorker(sink, inbox, log)
		g.Go(func() error {
			if err := worker.Run(ctx); !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
		log.Info("kafka notifications enabled", "brokers", cfg.Kafka.Brokers)
	}

	svc := service.New(store, bus, log, metrics.New())
	handler := verificationhandler.New(svc, log)
	tokens := jwttoken.NewService(cfg.Auth.JWTSigningKey, cfg.Auth.Issuer, cfg.Auth.Audience)

	srv := httpserver.New(cfg.Server.Addr, httpapi.NewRouter(handler, tokens, log, checks))

	g.Go(func() error {
		log.Info("starting boardcheck", "addr", cfg.Server.Addr, "ledger_backend", cfg.Ledger.Backend)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// buildStore selects the ledger backend and registers its health check.
func buildStore(
	ctx context.Context,
	cfg config.Ledger,
	redisClient *platformredis.Client,
	checks map[string]httpapi.HealthChecker,
) (ledger.Store, func(), error) {
	switch cfg.Backend {
	case "memory":
		return ledger.NewInMemoryStore(), func() {}, nil

	case "postgres":
		if cfg.PostgresDSN == "" {
			return nil, nil, errors.New("BOARDCHECK_POSTGRES_DSN is required for the postgres ledger backend")
		}
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("postgres ping failed: %w", err)
		}
		store := ledger.NewPostgresStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		checks["postgres"] = dbHealth{db}
		return store, func() { db.Close() }, nil

	case "redis":
		if redisClient == nil {
			return nil, nil, errors.New("BOARDCHECK_REDIS_URL is required for the redis ledger backend")
		}
		return ledger.NewRedisStore(redisClient.Client), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown ledger backend %q", cfg.Backend)
	}
}

type dbHealth struct {
	db *sql.DB
}

func (h dbHealth) Health(ctx context.Context) error {
	return h.db.PingContext(ctx)
}
