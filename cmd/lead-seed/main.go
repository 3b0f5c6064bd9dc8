// Command lead-seed loads a YAML lead fixture into the configured store.
// SEED_FILE selects the fixture; the bundled demo data is used when unset.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"visa_leads_backend/internal/events"
	followupsservice "visa_leads_backend/internal/followups/service"
	"visa_leads_backend/internal/leads/management"
	"visa_leads_backend/internal/leads/seed"
	"visa_leads_backend/internal/stores"
	"visa_leads_backend/platform/config"
	"visa_leads_backend/platform/logger"
	"visa_leads_backend/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	if cfg.GetStorageDriver() == config.StorageMemory {
		log.Warn("STORAGE_DRIVER is memory; seeded data will not outlive this process")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storeSet, err := stores.Open(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer storeSet.Close()

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()
	leadSvc := management.New(storeSet.Leads, val, eventBus, log)
	followUpSvc := followupsservice.New(storeSet.FollowUps, val, eventBus, log)
	if err := leadSvc.Load(ctx); err != nil {
		log.Error("failed to load leads", "error", err)
		os.Exit(1)
	}
	if err := followUpSvc.Load(ctx); err != nil {
		log.Error("failed to load follow-ups", "error", err)
		os.Exit(1)
	}

	if n := len(leadSvc.ListLeads(ctx)); n > 0 {
		log.Info("lead collection not empty; nothing to do", "leads", n)
		return
	}

	fx, err := fixture(cfg.GetSeedFile())
	if err != nil {
		log.Error("failed to read fixture", "error", err)
		os.Exit(1)
	}

	res, err := seed.Apply(ctx, fx, leadSvc, followUpSvc, management.Actor{ID: "system", Name: "Seed"}, log)
	eventBus.Wait()
	if err != nil {
		log.Error("seed failed", "error", err, "leads", res.Leads, "followUps", res.FollowUps)
		os.Exit(1)
	}
	log.Info("seed complete", "leads", res.Leads, "followUps", res.FollowUps)
}

func fixture(path string) (seed.Fixture, error) {
	if path == "" {
		return seed.Default()
	}
	return seed.LoadFile(path)
}
