package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	auditHandler "quotedesk/internal/auditlog/handler"
	"quotedesk/internal/comparison/attachments"
	comparisonHandler "quotedesk/internal/comparison/handler"
	comparisonMetrics "quotedesk/internal/comparison/metrics"
	comparisonService "quotedesk/internal/comparison/service"
	comparisonStore "quotedesk/internal/comparison/store"
	"quotedesk/internal/delivery"
	deliveryMetrics "quotedesk/internal/delivery/metrics"
	ocrHandler "quotedesk/internal/ocr/handler"
	ocrModels "quotedesk/internal/ocr/models"
	ocrService "quotedesk/internal/ocr/service"
	"quotedesk/internal/platform/config"
	"quotedesk/internal/platform/crypto"
	"quotedesk/internal/platform/httpserver"
	"quotedesk/internal/platform/logger"
	"quotedesk/internal/platform/metrics"
	"quotedesk/internal/platform/postgres"
	"quotedesk/internal/platform/redis"
	portalHandler "quotedesk/internal/portal/handler"
	portalModels "quotedesk/internal/portal/models"
	portalService "quotedesk/internal/portal/service"
	portalStore "quotedesk/internal/portal/store"
	httptransport "quotedesk/internal/transport/http"
	audit "quotedesk/pkg/platform/audit"
	auditKafka "quotedesk/pkg/platform/audit/kafka"
	auditPublisher "quotedesk/pkg/platform/audit/publisher"
	auditMemory "quotedesk/pkg/platform/audit/store/memory"
)

const auditBufferSize = 256

// main wires dependencies and runs the server until SIGINT/SIGTERM.
// Business logic lives in the internal service packages.
func main() {
	if err := run(); err != nil {
		slog.Error("quotedesk exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.Environment, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checks := map[string]httptransport.Check{}

	requestLog, closeLog, err := buildRequestLog(ctx, cfg, log, checks)
	if err != nil {
		return err
	}
	defer closeLog()

	auditStore, closeAudit, err := buildAuditStore(ctx, cfg, log, checks)
	if err != nil {
		return err
	}
	defer closeAudit()
	auditor := auditPublisher.NewPublisher(auditStore,
		auditPublisher.WithAsyncBuffer(auditBufferSize),
		auditPublisher.WithLogger(log),
	)
	// Runs before closeAudit: buffered events drain into the sink first.
	defer auditor.Close()

	issues, closeIssues, err := buildPortalStore(ctx, cfg, log, checks)
	if err != nil {
		return err
	}
	defer closeIssues()
	portals := portalService.New(issues,
		portalService.WithLogger(log),
		portalService.WithAuditPublisher(auditor),
	)
	if err := portals.Seed(ctx, portalModels.DefaultIssues()); err != nil {
		return err
	}

	ocr := ocrService.New(ocrModels.SampleData(),
		ocrService.WithLogger(log),
		ocrService.WithAuditPublisher(auditor),
	)

	cm := comparisonMetrics.New()
	fetcher := attachments.NewHTTPFetcher(
		attachments.WithTimeout(cfg.Fetch.Timeout),
		attachments.WithMaxBytes(cfg.Fetch.MaxBytes),
	)
	normalizer := attachments.New(fetcher, attachments.WithLogger(log), attachments.WithMetrics(cm))
	sender := delivery.New(delivery.Config{
		APIKey:      cfg.Email.APIKey,
		Endpoint:    cfg.Email.Endpoint,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		Timeout:     cfg.Email.Timeout,
	}, delivery.WithLogger(log), delivery.WithMetrics(deliveryMetrics.New()))
	if !sender.Configured() {
		log.Warn("SENDGRID_API_KEY not set, comparison emails will be dry sent")
	}
	comparisons := comparisonService.New(normalizer, sender, requestLog,
		comparisonService.WithLogger(log),
		comparisonService.WithMetrics(cm),
		comparisonService.WithAuditPublisher(auditor),
	)

	router := httptransport.NewRouter(httptransport.Config{
		Logger:  log,
		Metrics: metrics.New(),
		Checks:  checks,
		Handlers: []httptransport.Registrar{
			comparisonHandler.New(comparisons, log, cfg.MaxBodyBytes),
			portalHandler.New(portals, log),
			ocrHandler.New(ocr, log),
			auditHandler.New(auditor, log),
		},
	})

	srv := httpserver.New(cfg.Addr, router, log)
	return httpserver.Run(ctx, srv, log)
}

func buildRequestLog(ctx context.Context, cfg config.Server, log *slog.Logger, checks map[string]httptransport.Check) (comparisonService.Store, func(), error) {
	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	if db == nil {
		log.Warn("DATABASE_URL not set, comparison requests are logged in memory only")
		return comparisonStore.NewInMemory(), func() {}, nil
	}
	store := comparisonStore.NewPostgres(db)
	checks["database"] = store.Ping
	log.Info("comparison request log backed by postgres")
	return store, func() { _ = db.Close() }, nil
}

func buildAuditStore(ctx context.Context, cfg config.Server, log *slog.Logger, checks map[string]httptransport.Check) (audit.Store, func(), error) {
	if len(cfg.Audit.Brokers) == 0 {
		log.Info("KAFKA_BROKERS not set, audit events kept in memory")
		return auditMemory.NewInMemoryStore(), func() {}, nil
	}
	store, err := auditKafka.New(cfg.Audit.Brokers, cfg.Audit.Topic)
	if err != nil {
		return nil, nil, err
	}
	if err := store.EnsureTopic(ctx, 1, 1); err != nil {
		log.Warn("could not ensure audit topic", "topic", cfg.Audit.Topic, "error", err)
	}
	checks["audit"] = store.Ping
	log.Info("audit events published to kafka", "topic", cfg.Audit.Topic, "brokers", cfg.Audit.Brokers)
	return store, store.Close, nil
}

func buildPortalStore(ctx context.Context, cfg config.Server, log *slog.Logger, checks map[string]httptransport.Check) (portalService.Store, func(), error) {
	client, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		log.Info("REDIS_URL not set, portal issues kept in memory")
		return portalStore.NewInMemory(), func() {}, nil
	}

	var crypter *crypto.Crypter
	if cfg.Portal.SecretKey != "" {
		if crypter, err = crypto.New([]byte(cfg.Portal.SecretKey)); err != nil {
			_ = client.Close()
			return nil, nil, err
		}
	} else {
		log.Warn("PORTAL_SECRET_KEY not set, portal passwords stored in plain text")
	}
	checks["redis"] = client.Health
	return portalStore.NewRedis(client.UniversalClient, crypter), func() { _ = client.Close() }, nil
}
