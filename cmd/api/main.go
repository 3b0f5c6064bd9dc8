package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"visa_leads_backend/internal/adapters/storage"
	"visa_leads_backend/internal/email"
	"visa_leads_backend/internal/events"
	"visa_leads_backend/internal/exports"
	"visa_leads_backend/internal/followups"
	followupsservice "visa_leads_backend/internal/followups/service"
	apphttp "visa_leads_backend/internal/http"
	"visa_leads_backend/internal/http/router"
	"visa_leads_backend/internal/leads"
	"visa_leads_backend/internal/leads/management"
	"visa_leads_backend/internal/leads/seed"
	"visa_leads_backend/internal/scheduler"
	"visa_leads_backend/internal/stores"
	"visa_leads_backend/platform/config"
	"visa_leads_backend/platform/logger"
	"visa_leads_backend/platform/metrics"
	"visa_leads_backend/platform/validator"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var seedActor = management.Actor{ID: "system", Name: "Seed"}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr, "storage", cfg.GetStorageDriver())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	storeSet, err := stores.Open(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open storage", "error", err)
		panic("failed to open storage: " + err.Error())
	}
	defer storeSet.Close()

	appMetrics := metrics.New()

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)
	events.RegisterMetrics(eventBus, appMetrics)

	reminderClient, closeScheduler := initReminderScheduler(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	leadsModule, err := leads.NewModule(ctx, storeSet.Leads, eventBus, val, log)
	if err != nil {
		log.Error("failed to initialize leads module", "error", err)
		panic("failed to initialize leads module: " + err.Error())
	}

	var reminders followupsservice.ReminderScheduler
	if reminderClient != nil {
		reminders = reminderClient
	}
	followUpsModule, err := followups.NewModule(ctx, storeSet.FollowUps, eventBus, reminders, val, log)
	if err != nil {
		log.Error("failed to initialize follow-ups module", "error", err)
		panic("failed to initialize follow-ups module: " + err.Error())
	}

	if path := cfg.GetSeedFile(); path != "" {
		if err := seedFromFile(ctx, path, leadsModule.ManagementService(), followUpsModule.Service(), log); err != nil {
			log.Error("failed to seed leads", "error", err, "file", path)
			panic("failed to seed leads: " + err.Error())
		}
	}

	modules := []apphttp.Module{leadsModule, followUpsModule}

	// Lead exports need object storage (MinIO)
	if cfg.IsMinIOEnabled() {
		storageSvc, err := storage.NewMinIOService(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		bucket := cfg.GetMinioBucketLeadExports()
		if err := withRetry(ctx, log, "ensure lead-exports bucket", 5, 2*time.Second, func() error {
			return storageSvc.EnsureBucketExists(ctx, bucket)
		}); err != nil {
			log.Error("failed to ensure storage bucket exists", "error", err, "bucket", bucket)
			panic("failed to ensure storage bucket exists: " + err.Error())
		}
		exportSvc := exports.NewService(leadsModule.ManagementService(), storageSvc, bucket, log)
		modules = append(modules, exports.NewModule(exportSvc, val, log))
		log.Info("storage service initialized", "leadExportsBucket", bucket)
	} else {
		log.Warn("MINIO_ENDPOINT not configured; lead exports disabled")
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   storeSet.Health,
		Metrics:  appMetrics,
		EventBus: eventBus,
		Modules:  modules,
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if reminderClient != nil {
		worker, err := scheduler.NewWorker(cfg, scheduler.WorkerDeps{
			FollowUps: followUpsModule.Service(),
			Leads:     leadsModule.ManagementService(),
			Sender:    email.NewSender(cfg),
			Recipient: cfg.GetReminderRecipient(),
			Metrics:   appMetrics,
		}, log)
		if err != nil {
			log.Error("failed to initialize reminder worker", "error", err)
			panic("failed to initialize reminder worker: " + err.Error())
		}
		g.Go(func() error {
			worker.Run(gctx)
			return nil
		})
	}

	// Wait for all background tasks (e.g., in-flight event handlers) to drain
	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
	}
	eventBus.Wait()
	log.Info("server stopped")
}

func initReminderScheduler(cfg config.SchedulerConfig, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; follow-up reminders disabled")
		return nil, nil
	}

	reminderClient, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize reminder scheduler client", "error", err)
		return nil, nil
	}

	return reminderClient, func() {
		_ = reminderClient.Close()
	}
}

func seedFromFile(ctx context.Context, path string, leadSvc *management.Service, followUpSvc *followupsservice.Service, log *logger.Logger) error {
	if len(leadSvc.ListLeads(ctx)) > 0 {
		log.Info("lead collection not empty; skipping seed", "file", path)
		return nil
	}

	fx, err := seed.LoadFile(path)
	if err != nil {
		return err
	}
	res, err := seed.Apply(ctx, fx, leadSvc, followUpSvc, seedActor, log)
	if err != nil {
		return err
	}
	log.Info("seed applied", "file", path, "leads", res.Leads, "followUps", res.FollowUps)
	return nil
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
