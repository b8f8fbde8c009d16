package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"warden/internal/access"
	accesshandler "warden/internal/access/handler"
	accessmetrics "warden/internal/access/metrics"
	authtoken "warden/internal/auth_token"
	"warden/internal/decisionlog"
	logmetrics "warden/internal/decisionlog/metrics"
	"warden/internal/decisionlog/queue"
	logmemory "warden/internal/decisionlog/store/memory"
	logpostgres "warden/internal/decisionlog/store/postgres"
	"warden/internal/events"
	eventsmetrics "warden/internal/events/metrics"
	"warden/internal/identity"
	identitymetrics "warden/internal/identity/metrics"
	"warden/internal/platform/config"
	"warden/internal/platform/httpserver"
	"warden/internal/platform/logger"
	platformredis "warden/internal/platform/redis"
	"warden/internal/platform/tracing"
	"warden/internal/policy"
	"warden/internal/source"
	sourcehandler "warden/internal/source/handler"
	httptransport "warden/internal/transport/http"
	id "warden/pkg/domain"
	strs "warden/pkg/platform/strings"
)

// main wires configuration, stores, services, and the HTTP surface, then
// runs the server and the fallback-queue reconciler until a signal
// arrives. Business logic lives in the internal services packages.
func main() {
	log := logger.New()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	tracingShutdown, err := tracing.Setup(ctx, "warden", cfg.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		if err := tracingShutdown(context.Background()); err != nil {
			log.Error("tracing shutdown failed", "error", err)
		}
	}()

	// Stores. Without a Postgres DSN everything runs in memory, which is
	// only useful for local development.
	var (
		identityStore identity.Store
		sourceStore   source.Store
		primary       decisionlog.Store
		db            *sql.DB
	)
	if cfg.Postgres.DSN != "" {
		pool, err := pgxpool.New(ctx, cfg.Postgres.DSN)
		if err != nil {
			return fmt.Errorf("connect postgres pool: %w", err)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			return fmt.Errorf("ping postgres: %w", err)
		}

		db, err = sql.Open("postgres", cfg.Postgres.DSN)
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		defer db.Close()

		identityStore = identity.NewPostgres(pool)
		sourceStore = source.NewPostgres(pool)
		primary = logpostgres.New(db)
	} else {
		log.Warn("no postgres DSN configured, running on in-memory stores")
		identityStore = identity.NewInMemory()
		sourceStore = source.NewInMemory()
		primary = logmemory.New()
	}

	rosterMetrics := identitymetrics.New()

	rc, err := platformredis.New(cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if rc != nil {
		defer rc.Close()
		identityStore = identity.NewSnapshotCache(identityStore, rc.Client, log,
			identity.WithTTL(cfg.Redis.RosterTTL),
			identity.WithMetrics(rosterMetrics),
		)
	}

	fallback, err := queue.Open(cfg.Queue.Path)
	if err != nil {
		return fmt.Errorf("open fallback queue: %w", err)
	}
	defer fallback.Close()

	sink := decisionlog.NewLog(primary, fallback, log,
		decisionlog.WithMetrics(logmetrics.New()),
	)

	var publisher access.EventPublisher = events.Noop{}
	brokers := strs.DedupeAndTrim(cfg.Kafka.Brokers)
	if len(brokers) > 0 {
		kafka, err := events.NewKafka(brokers, log,
			events.WithTopic(cfg.Kafka.Topic),
			events.WithMetrics(eventsmetrics.New()),
		)
		if err != nil {
			return fmt.Errorf("connect kafka: %w", err)
		}
		defer kafka.Close()
		if err := kafka.EnsureTopic(ctx, 3, 1); err != nil {
			return fmt.Errorf("ensure kafka topic: %w", err)
		}
		publisher = kafka
	} else {
		log.Info("no kafka brokers configured, decisions will not be published")
	}

	registry := policy.NewRegistry()
	activeEnvironment, err := id.ParseEnvironmentID(cfg.ActiveEnvironment)
	if err != nil {
		return fmt.Errorf("parse active environment: %w", err)
	}
	if err := policy.RegisterDefaults(registry, activeEnvironment); err != nil {
		return fmt.Errorf("register default policies: %w", err)
	}

	roster := identity.NewService(identityStore, log, rosterMetrics)

	tokens := authtoken.NewService(cfg.JWT.SigningKey, cfg.JWT.Issuer, cfg.JWT.TokenTTL)
	sources := source.NewService(sourceStore, tokens, log)

	seeds, err := cfg.Seeds.Sources()
	if err != nil {
		return err
	}
	if len(seeds) > 0 {
		seeded := make([]source.Seed, 0, len(seeds))
		for _, s := range seeds {
			seeded = append(seeded, source.Seed{
				ID:            s.ID,
				EnvironmentID: s.EnvironmentID,
				Name:          s.Name,
				Secret:        s.Secret,
			})
		}
		if err := sources.SeedSources(ctx, seeded); err != nil {
			return fmt.Errorf("seed sources: %w", err)
		}
	}

	svc := access.NewService(registry, roster, sink, log,
		access.WithMetrics(accessmetrics.New()),
		access.WithPublisher(publisher),
	)

	var healthOpts []httptransport.HealthOption
	if db != nil {
		healthOpts = append(healthOpts, httptransport.WithCheck("postgres", db.PingContext))
	}
	if rc != nil {
		healthOpts = append(healthOpts, httptransport.WithCheck("redis", rc.Health))
	}
	health := httptransport.NewHealthHandler(log, fallback, healthOpts...)

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:    log,
		Sources:   sourcehandler.New(sources, log),
		Access:    accesshandler.New(svc, log),
		Validator: authtoken.NewMiddlewareAdapter(tokens),
		Health:    health,
	})

	reconciler := decisionlog.NewReconciler(sink,
		decisionlog.WithDrainInterval(cfg.Queue.DrainInterval),
	)

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("warden listening",
			"addr", cfg.Addr,
			"active_environment", activeEnvironment,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return reconciler.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("warden stopped")
	return nil
}
