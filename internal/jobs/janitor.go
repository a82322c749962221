package jobs

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/NarekMan21/test-deploy-crm/internal/domain/repository"
	"github.com/NarekMan21/test-deploy-crm/internal/uploads"
)

// orphanGrace protects files uploaded mid-request: a file younger than
// this is never swept even when no order references it yet.
const orphanGrace = time.Hour

// UploadsJanitor periodically removes upload files no order references
// anymore, e.g. photos replaced by a later details submission or left
// behind by a deleted order.
type UploadsJanitor struct {
	orders repository.OrderRepository
	store  *uploads.Store
	cron   *cron.Cron
	logger *slog.Logger
}

// NewUploadsJanitor creates the janitor with the given cron schedule
// (six-field, seconds first).
func NewUploadsJanitor(orders repository.OrderRepository, store *uploads.Store, logger *slog.Logger) *UploadsJanitor {
	return &UploadsJanitor{
		orders: orders,
		store:  store,
		cron:   cron.New(cron.WithSeconds()),
		logger: logger.With("component", "uploads_janitor"),
	}
}

// Start schedules the sweep.
func (j *UploadsJanitor) Start(schedule string) error {
	_, err := j.cron.AddFunc(schedule, func() {
		if err := j.Sweep(context.Background()); err != nil {
			j.logger.Error("uploads sweep failed", slog.String("error", err.Error()))
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("uploads janitor started", slog.String("schedule", schedule))
	return nil
}

// Stop halts scheduling. A sweep already in flight finishes.
func (j *UploadsJanitor) Stop() {
	j.cron.Stop()
	j.logger.Info("uploads janitor stopped")
}

// Sweep removes unreferenced upload files older than the grace period.
func (j *UploadsJanitor) Sweep(ctx context.Context) error {
	referenced, err := j.orders.PhotoFilenames(ctx)
	if err != nil {
		return err
	}

	files, err := j.store.List()
	if err != nil {
		return err
	}

	removed := 0
	for _, name := range files {
		if _, ok := referenced[name]; ok {
			continue
		}
		info, err := os.Stat(filepath.Join(j.store.Dir(), name))
		if err != nil || time.Since(info.ModTime()) < orphanGrace {
			continue
		}
		if err := j.store.Remove(name); err != nil {
			j.logger.Warn("could not remove orphan upload",
				slog.String("file", name),
				slog.String("error", err.Error()),
			)
			continue
		}
		removed++
	}

	if removed > 0 {
		j.logger.Info("swept orphan uploads", slog.Int("removed", removed))
	}
	return nil
}
