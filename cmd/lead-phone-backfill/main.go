// One-off backfill that rewrites stored lead phone numbers into E.164 form.
// Leads captured before normalization was enforced at the capture endpoint
// may still carry whatever the homeowner typed.
package main

import (
	"context"

	"leadgrid_backend/internal/leads/repository"
	"leadgrid_backend/platform/config"
	"leadgrid_backend/platform/db"
	"leadgrid_backend/platform/logger"
	"leadgrid_backend/platform/phone"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting lead phone backfill")

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	repo := repository.New(pool)

	phones, err := repo.ListForPhoneBackfill(ctx)
	if err != nil {
		log.Error("failed to list leads", "error", err)
		panic("failed to list leads: " + err.Error())
	}

	var updated, skipped, failed int
	for id, raw := range phones {
		normalized := phone.NormalizeE164(raw)
		if normalized == raw {
			skipped++
			continue
		}
		if err := repo.UpdatePhone(ctx, id, normalized); err != nil {
			failed++
			log.Error("failed to update lead phone", "leadId", id, "error", err)
			continue
		}
		updated++
	}

	log.Info("lead phone backfill complete",
		"total", len(phones), "updated", updated, "unchanged", skipped, "failed", failed)
}
