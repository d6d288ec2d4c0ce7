// ABOUTME: Warmup worker keeps the search cache hot for the default journey
// ABOUTME: Periodically resolves upcoming departures so reader polls hit cached fares

package workers

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"farefeed-api/core/domain"
	"farefeed-api/core/fares"
	"farefeed-api/core/interfaces"
	"farefeed-api/core/schedule"
	"farefeed-api/core/stations"
)

// WarmupConfig holds configuration for the warmup worker
type WarmupConfig struct {
	// RefreshCron is when warmup runs, as a standard 5-field cron expression
	RefreshCron string

	// JourneyCron selects which departures to pre-resolve
	JourneyCron string

	FromCode string
	ToCode   string

	// Count is how many upcoming departures to resolve per run
	Count int
}

// DefaultWarmupConfig returns the default warmup configuration: refresh
// shortly before the weekday-morning departures it pre-resolves.
func DefaultWarmupConfig() WarmupConfig {
	return WarmupConfig{
		RefreshCron: "30 7 * * 1-5",
		JourneyCron: "0 8 * * 1-5",
		FromCode:    "BHM",
		ToCode:      "EUS",
		Count:       4,
	}
}

// WarmupWorker periodically resolves the configured journey so its search
// responses are cached before feed readers poll. Resolution runs through
// the same dispatcher as live requests; the transport cache does the rest.
type WarmupWorker struct {
	stations   *stations.Service
	dispatcher *fares.Dispatcher
	logger     interfaces.Logger
	config     WarmupConfig

	cron    *cron.Cron
	mu      sync.Mutex
	running bool
}

// NewWarmupWorker creates a new warmup worker
func NewWarmupWorker(stationSvc *stations.Service, dispatcher *fares.Dispatcher, logger interfaces.Logger, config WarmupConfig) *WarmupWorker {
	if config.Count <= 0 {
		config.Count = DefaultWarmupConfig().Count
	}

	return &WarmupWorker{
		stations:   stationSvc,
		dispatcher: dispatcher,
		logger:     logger,
		config:     config,
		cron:       cron.New(),
	}
}

// Start schedules the periodic warmup. It returns an error if the refresh
// expression does not parse.
func (w *WarmupWorker) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	if _, err := w.cron.AddFunc(w.config.RefreshCron, w.warmOnce); err != nil {
		return err
	}

	w.cron.Start()
	w.running = true

	w.logger.Info("Warmup worker started", map[string]interface{}{
		"refresh": w.config.RefreshCron,
		"journey": w.config.FromCode + ">" + w.config.ToCode,
	})
	return nil
}

// Stop stops the worker and waits for an in-flight warmup to finish.
func (w *WarmupWorker) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}

	<-w.cron.Stop().Done()
	w.running = false
	return nil
}

// warmOnce resolves the configured journey's next departures. Failures are
// logged and swallowed: warmup must never take the service down, and a live
// request will retry the same search anyway.
func (w *WarmupWorker) warmOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	fromID, err := w.stations.StationID(ctx, w.config.FromCode)
	if err != nil {
		w.logger.Warn("Warmup station lookup failed", map[string]interface{}{
			"code":  w.config.FromCode,
			"error": err.Error(),
		})
		return
	}
	toID, err := w.stations.StationID(ctx, w.config.ToCode)
	if err != nil {
		w.logger.Warn("Warmup station lookup failed", map[string]interface{}{
			"code":  w.config.ToCode,
			"error": err.Error(),
		})
		return
	}

	query := domain.Query{
		FromCode: w.config.FromCode,
		ToCode:   w.config.ToCode,
		FromID:   fromID,
		ToID:     toID,
		Schedule: domain.Schedule{
			Kind:     domain.ScheduleCron,
			CronExpr: w.config.JourneyCron,
			Count:    w.config.Count,
		},
	}

	instants, err := schedule.Expand(query.Schedule, time.Now())
	if err != nil {
		w.logger.Warn("Warmup schedule expansion failed", map[string]interface{}{
			"cron":  w.config.JourneyCron,
			"error": err.Error(),
		})
		return
	}

	if _, err := w.dispatcher.Resolve(ctx, query, instants); err != nil {
		w.logger.Warn("Warmup resolution failed", map[string]interface{}{
			"journey": query.Journey(),
			"error":   err.Error(),
		})
		return
	}

	w.logger.Info("Warmup run complete", map[string]interface{}{
		"journey":    query.Journey(),
		"candidates": len(instants),
	})
}
