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
	"time"

	"batchtrace/internal/audit"
	"batchtrace/internal/platform/config"
	"batchtrace/internal/platform/database"
	"batchtrace/internal/platform/health"
	"batchtrace/internal/platform/httpserver"
	"batchtrace/internal/platform/kafka/producer"
	"batchtrace/internal/platform/logger"
	"batchtrace/internal/registry"
	"batchtrace/internal/report"
	"batchtrace/internal/report/storage"
	httptransport "batchtrace/internal/transport/http"
	"batchtrace/internal/verification"
	verifhandler "batchtrace/internal/verification/handler"
	"batchtrace/internal/verification/metrics"
	"batchtrace/internal/verification/tracer"
	"batchtrace/pkg/platform/circuit"
)

// reportStorage is what main needs from a storage adapter: credential
// signing, index reads, and a health probe. Both the GCS and in-memory
// adapters satisfy it.
type reportStorage interface {
	report.ObjectStore
	ReadObject(ctx context.Context, object string) ([]byte, error)
	Health(ctx context.Context) error
}

// main wires dependencies and owns the server lifecycle. Business logic
// lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx := context.Background()

	log.Info("initializing batchtrace",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"credential_ttl", cfg.CredentialTTL.String(),
	)

	var store reportStorage
	if cfg.ReportBucket != "" {
		gcs, err := storage.NewGCS(ctx, cfg.ReportBucket)
		if err != nil {
			return fmt.Errorf("init report storage: %w", err)
		}
		defer gcs.Close()
		store = gcs
	} else {
		log.Warn("REPORT_BUCKET not set, using in-memory report storage")
		store = storage.NewMemory()
	}

	// The registry must load before the server accepts a single request.
	// A missing or malformed index is a deployment fault, not something to
	// limp through with an empty snapshot.
	loader, registryPool, err := buildRegistryLoader(cfg, store)
	if err != nil {
		return err
	}
	if registryPool != nil {
		defer registryPool.Close()
	}
	snap, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("load batch registry: %w", err)
	}
	reg := registry.New(snap)
	log.Info("batch registry loaded", "records", reg.Len())

	sink, auditPool, kafkaProducer, err := buildAuditSink(cfg, log)
	if err != nil {
		return err
	}
	if auditPool != nil {
		defer auditPool.Close()
	}
	if kafkaProducer != nil {
		defer kafkaProducer.Close()
	}

	publisherOpts := []audit.PublisherOption{audit.WithPublisherLogger(log)}
	if cfg.AuditBufferSize > 0 {
		log.Info("audit writes are asynchronous", "buffer", cfg.AuditBufferSize)
		publisherOpts = append(publisherOpts, audit.WithAsyncBuffer(cfg.AuditBufferSize))
	}
	publisher := audit.NewPublisher(sink, publisherOpts...)
	defer publisher.Close()

	m := metrics.New()
	m.RegistryRecords.Set(float64(reg.Len()))

	guarded := report.NewGuardedStore(store, circuit.New("report-storage"), log)
	issuer := report.NewIssuer(guarded, cfg.CredentialTTL, log)
	svc := verification.NewService(reg, issuer, publisher, log,
		verification.WithMetrics(m),
		verification.WithTracer(tracer.NewOTel()),
	)

	hh := health.New(cfg.Environment)
	hh.RegisterCheck("registry", func(context.Context) error {
		if reg.Len() == 0 {
			return errors.New("registry is empty")
		}
		return nil
	})
	hh.RegisterCheck("report_storage", store.Health)
	if registryPool != nil {
		hh.RegisterCheck("registry_db", registryPool.Health)
	}
	if auditPool != nil {
		hh.RegisterCheck("audit_db", auditPool.Health)
	}

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Verification:   verifhandler.New(svc, log),
		Health:         hh,
		Logger:         log,
		RequestTimeout: cfg.RequestTimeout,
	})

	srv := httpserver.New(cfg.Addr, router)

	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// SIGHUP reloads the registry snapshot in place; in-flight lookups keep
	// the generation they started with.
	reload := make(chan os.Signal, 1)
	signal.Notify(reload, syscall.SIGHUP)
	go func() {
		for range reload {
			newSnap, err := loader.Load(context.Background())
			if err != nil {
				log.Error("registry reload failed, keeping current snapshot", "error", err)
				continue
			}
			reg.Swap(newSnap)
			m.RegistryRecords.Set(float64(reg.Len()))
			log.Info("batch registry reloaded", "records", reg.Len())
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	case sig := <-quit:
		log.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// buildRegistryLoader picks the registry source: Postgres when a database URL
// is configured, the bucket-hosted index when RegistryFromBucket is set, a
// local JSON file otherwise.
func buildRegistryLoader(cfg config.Server, store reportStorage) (registry.Loader, *database.Pool, error) {
	switch {
	case cfg.RegistryDatabaseURL != "":
		pool, err := database.New(database.DefaultConfig(cfg.RegistryDatabaseURL))
		if err != nil {
			return nil, nil, fmt.Errorf("connect registry database: %w", err)
		}
		return registry.NewPostgresLoader(pool.DB()), pool, nil
	case cfg.RegistryFromBucket:
		return registry.ObjectLoader{Reader: store, Object: cfg.RegistryIndexPath}, nil, nil
	default:
		return registry.FileLoader{Path: cfg.RegistryIndexPath}, nil, nil
	}
}

// buildAuditSink picks the audit store: Postgres, then Kafka, then in-memory
// for development.
func buildAuditSink(cfg config.Server, log *slog.Logger) (audit.Store, *database.Pool, *producer.Producer, error) {
	switch {
	case cfg.AuditDatabaseURL != "":
		pool, err := database.New(database.DefaultConfig(cfg.AuditDatabaseURL))
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect audit database: %w", err)
		}
		return audit.NewPostgresStore(pool.DB()), pool, nil, nil
	case cfg.AuditKafkaBrokers != "":
		p, err := producer.New(producer.Config{
			Brokers:         cfg.AuditKafkaBrokers,
			DeliveryTimeout: 10 * time.Second,
		}, log)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect kafka: %w", err)
		}
		return audit.NewKafkaStore(p, cfg.AuditKafkaTopic), nil, p, nil
	default:
		log.Warn("no audit sink configured, audit entries stay in memory")
		return audit.NewInMemoryStore(), nil, nil, nil
	}
}
