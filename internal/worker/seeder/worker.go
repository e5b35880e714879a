package seeder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/m04kA/SMC-AvailabilityService/internal/infra/locker"
	"github.com/m04kA/SMC-AvailabilityService/internal/usecase/seed_availability"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// LeaderLockKey ключ лидерской блокировки: сеет только один инстанс
const LeaderLockKey = "availability:seeder:leader"

// Статусы запуска (метка status в метриках)
const (
	StatusOK      = "ok"
	StatusPartial = "partial"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Config параметры воркера
type Config struct {
	CronSpec   string
	WindowDays int           // окно по умолчанию для шаблонов без своего окна
	LockTTL    time.Duration // время жизни лидерской блокировки
}

// Result итог одного прохода
type Result struct {
	Status    string
	Templates int
	Created   int
	Skipped   int
	Failed    int
}

// Worker периодически досевает записи доступности на скользящее окно вперед
type Worker struct {
	cfg       Config
	templates TemplateSource
	seed      SeedUseCase
	locker    Locker
	metrics   Metrics
	logger    Logger
	now       func() time.Time

	mu     sync.Mutex
	cron   *cron.Cron
	cancel context.CancelFunc
}

// NewWorker создает воркер посева
func NewWorker(cfg Config, templates TemplateSource, seed SeedUseCase, locker Locker, metrics Metrics, logger Logger) *Worker {
	return &Worker{
		cfg:       cfg,
		templates: templates,
		seed:      seed,
		locker:    locker,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// Start запускает расписание. Остановка через Stop.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cron != nil {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	c := cron.New()
	if _, err := c.AddFunc(w.cfg.CronSpec, func() { _, _ = w.RunOnce(runCtx) }); err != nil {
		cancel()
		return fmt.Errorf("seeder: invalid cron spec %q: %w", w.cfg.CronSpec, err)
	}
	c.Start()

	w.cron = c
	w.cancel = cancel
	w.logger.Info("Seeder: scheduled with %q, window=%d days", w.cfg.CronSpec, w.cfg.WindowDays)
	return nil
}

// Stop отменяет текущий проход и ждет его завершения
func (w *Worker) Stop() {
	w.mu.Lock()
	c, cancel := w.cron, w.cancel
	w.cron, w.cancel = nil, nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if c != nil {
		<-c.Stop().Done()
		w.logger.Info("Seeder: stopped")
	}
}

// RunOnce один проход: захватить лидерство, для каждого активного шаблона досеять окно
func (w *Worker) RunOnce(ctx context.Context) (*Result, error) {
	result := &Result{Status: StatusSkipped}

	lock, err := w.locker.TryLock(ctx, LeaderLockKey, w.cfg.LockTTL)
	if err != nil {
		w.logger.Warn("Seeder: leader lock attempt failed: %v", err)
		w.observe(result)
		return result, err
	}
	if lock == nil {
		w.logger.Info("Seeder: another instance is seeding, skipping run")
		w.observe(result)
		return result, nil
	}
	defer func() {
		if err := w.locker.Unlock(context.WithoutCancel(ctx), lock); err != nil {
			w.logger.Warn("Seeder: unlock failed: %v", err)
		}
	}()

	// продление блокировки, пока идет проход
	refreshCtx, stopRefresh := context.WithCancel(ctx)
	defer stopRefresh()
	go w.keepLock(refreshCtx, lock)

	templates, err := w.templates.ListActive(ctx)
	if err != nil {
		w.logger.Error("Seeder: failed to list templates: %v", err)
		result.Status = StatusFailed
		w.observe(result)
		return result, err
	}
	result.Templates = len(templates)

	today := types.TruncateDay(w.now())
	for _, tpl := range templates {
		if ctx.Err() != nil {
			break
		}

		window := tpl.WindowDays
		if window <= 0 {
			window = w.cfg.WindowDays
		}

		resp, err := w.seed.Execute(ctx, &seed_availability.Request{
			EntityID:   tpl.EntityID,
			EntityKind: tpl.EntityKind,
			From:       today,
			To:         today.AddDate(0, 0, window-1),
			BaseSlots:  tpl.BaseSlots,
			Weekdays:   tpl.Weekdays,
		})
		if err != nil {
			result.Failed++
			if errors.Is(err, seed_availability.ErrEntityNotFound) || errors.Is(err, seed_availability.ErrEntityInactive) {
				w.logger.Warn("Seeder: template %s/%s skipped: %v", tpl.EntityKind, tpl.EntityID, err)
			} else {
				w.logger.Error("Seeder: template %s/%s failed: %v", tpl.EntityKind, tpl.EntityID, err)
			}
			continue
		}
		result.Created += len(resp.Created)
		result.Skipped += len(resp.Skipped)
	}

	switch {
	case ctx.Err() != nil:
		result.Status = StatusFailed
	case result.Failed == 0:
		result.Status = StatusOK
	case result.Failed < result.Templates:
		result.Status = StatusPartial
	default:
		result.Status = StatusFailed
	}

	w.observe(result)
	w.logger.Info("Seeder: run %s, templates=%d created=%d skipped=%d failed=%d",
		result.Status, result.Templates, result.Created, result.Skipped, result.Failed)
	return result, ctx.Err()
}

func (w *Worker) keepLock(ctx context.Context, lock *locker.Lock) {
	interval := w.cfg.LockTTL / 2
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.locker.Extend(ctx, lock, w.cfg.LockTTL); err != nil {
				w.logger.Warn("Seeder: failed to extend leader lock: %v", err)
			}
		}
	}
}

func (w *Worker) observe(r *Result) {
	if w.metrics != nil {
		w.metrics.ObserveSeederRun(r.Status, r.Created, r.Skipped)
	}
}
