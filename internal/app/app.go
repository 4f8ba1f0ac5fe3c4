// Package app assembles the docflow process from configuration: stores,
// signer cache, event publisher, workflow, HTTP router.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	httpapi "docflow/internal/http"
	jwttoken "docflow/internal/jwt_token"
	"docflow/internal/platform/config"
	"docflow/internal/platform/metrics"
	"docflow/internal/platform/postgres"
	platformredis "docflow/internal/platform/redis"
	"docflow/internal/translation"
	"docflow/internal/translation/events"
	translationmetrics "docflow/internal/translation/metrics"
	"docflow/internal/translation/pdf"
	"docflow/internal/translation/service"
	"docflow/internal/translation/store/blob"
	"docflow/internal/translation/store/document"
	"docflow/pkg/platform/circuit"
)

// App is a fully wired process. Close releases every client it opened.
type App struct {
	Router http.Handler

	logger  *slog.Logger
	closers []namedCloser
}

type namedCloser struct {
	name  string
	close func() error
}

// New connects to the configured backends and builds the router. On error
// every client opened so far is closed.
func New(ctx context.Context, cfg config.Server, logger *slog.Logger) (_ *App, err error) {
	a := &App{logger: logger}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	checks := map[string]httpapi.HealthCheck{}

	docs, err := a.documentStore(ctx, cfg.Documents, checks)
	if err != nil {
		return nil, err
	}
	objects, err := a.objectStore(ctx, cfg.Objects, cfg.Redis, checks)
	if err != nil {
		return nil, err
	}
	publisher, err := a.publisher(ctx, cfg.Kafka, checks)
	if err != nil {
		return nil, err
	}

	workflow := translation.NewWorkflow(docs,
		service.WithLogger(logger),
		service.WithPublisher(publisher),
		service.WithMetrics(translationmetrics.New(reg)),
	)
	svc := translation.NewService(workflow, objects, pdf.NewInspector(cfg.MaxUploadSize),
		service.WithSignedURLTTL(cfg.SignedURLTTL),
	)
	tokens := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)

	a.Router = httpapi.NewRouter(httpapi.Deps{
		Logger:         logger,
		Metrics:        metrics.New(reg),
		Gatherer:       reg,
		Validator:      jwttoken.NewJWTServiceAdapter(tokens),
		Translations:   translation.NewHandler(svc, logger, cfg.MaxUploadSize),
		HealthChecks:   checks,
		RequestTimeout: cfg.RequestTimeout,
	})
	return a, nil
}

func (a *App) documentStore(ctx context.Context, cfg config.DocumentStoreConfig, checks map[string]httpapi.HealthCheck) (service.DocumentStore, error) {
	switch cfg.Backend {
	case config.DocumentStorePostgres:
		db, err := postgres.Open(ctx, cfg.DatabaseURL, postgres.PoolConfig{
			MaxOpenConns:    cfg.MaxOpenConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			ConnMaxLifetime: cfg.ConnMaxLifetime,
		})
		if err != nil {
			return nil, err
		}
		a.onClose("postgres", db.Close)
		if err := postgres.Migrate(ctx, db); err != nil {
			return nil, err
		}
		checks["postgres"] = db.PingContext
		a.logger.InfoContext(ctx, "document store ready", "backend", cfg.Backend)
		return document.NewPostgres(db), nil

	case config.DocumentStoreFirestore:
		client, err := firestore.NewClient(ctx, cfg.FirestoreProjectID)
		if err != nil {
			return nil, fmt.Errorf("create firestore client: %w", err)
		}
		a.onClose("firestore", client.Close)
		a.logger.InfoContext(ctx, "document store ready",
			"backend", cfg.Backend,
			"collection", cfg.FirestoreCollection,
		)
		return document.NewFirestore(client, cfg.FirestoreCollection), nil

	default:
		a.logger.WarnContext(ctx, "using in-memory document store; records are lost on restart")
		return document.NewInMemory(), nil
	}
}

func (a *App) objectStore(ctx context.Context, cfg config.ObjectStoreConfig, redisCfg config.RedisConfig, checks map[string]httpapi.HealthCheck) (service.ObjectStore, error) {
	var store blob.Store
	switch cfg.Backend {
	case config.ObjectStoreGCS:
		client, err := storage.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("create storage client: %w", err)
		}
		a.onClose("gcs", client.Close)
		var opts []blob.GCSOption
		if cfg.GCSSigningEmail != "" && cfg.GCSPrivateKey != "" {
			opts = append(opts, blob.WithSigningKey(cfg.GCSSigningEmail, []byte(cfg.GCSPrivateKey)))
		}
		store = blob.NewGCS(client, cfg.Bucket, opts...)

	case config.ObjectStoreS3:
		s3Store, err := blob.NewS3(ctx, blob.S3Config{
			Bucket:       cfg.Bucket,
			Region:       cfg.S3Region,
			Endpoint:     cfg.S3Endpoint,
			AccessKey:    cfg.S3AccessKeyID,
			SecretKey:    cfg.S3SecretAccessKey,
			UsePathStyle: cfg.S3UsePathStyle,
		})
		if err != nil {
			return nil, err
		}
		store = s3Store

	default:
		a.logger.WarnContext(ctx, "using in-memory object store; files are lost on restart")
		store = blob.NewInMemory(cfg.Bucket)
	}
	a.logger.InfoContext(ctx, "object store ready", "backend", cfg.Backend, "bucket", cfg.Bucket)

	client, err := platformredis.New(ctx, redisCfg)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return store, nil
	}
	a.onClose("redis", client.Close)
	checks["redis"] = client.Health
	return blob.NewCachingSigner(store, client, a.logger), nil
}

func (a *App) publisher(ctx context.Context, cfg config.KafkaConfig, checks map[string]httpapi.HealthCheck) (events.Publisher, error) {
	if len(cfg.Brokers) == 0 {
		a.logger.InfoContext(ctx, "no kafka brokers configured; transition events are logged only")
		return events.NewLog(a.logger), nil
	}
	publisher, err := events.NewKafkaPublisher(cfg.Brokers, cfg.Topic, events.WithLogger(a.logger))
	if err != nil {
		return nil, err
	}
	a.onClose("kafka", func() error {
		publisher.Close()
		return nil
	})
	if err := publisher.EnsureTopic(ctx, cfg.Partitions, cfg.ReplicationFactor); err != nil {
		return nil, err
	}
	checks["kafka"] = publisher.Ping
	breaker := circuit.New("kafka", circuit.WithFailureThreshold(3), circuit.WithCooldown(30*time.Second))
	return events.NewGuarded(publisher, events.NewLog(a.logger), breaker, a.logger), nil
}

func (a *App) onClose(name string, fn func() error) {
	a.closers = append(a.closers, namedCloser{name: name, close: fn})
}

// Close releases clients in reverse order of creation.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.close(); err != nil {
			a.logger.Error("failed to close client", "client", c.name, "error", err)
			errs = append(errs, fmt.Errorf("close %s: %w", c.name, err))
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
