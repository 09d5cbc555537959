package background

import (
	"context"
	"log"
	"sync"
	"time"

	"ordermart/internal/caching"
	"ordermart/internal/jobs"

	"github.com/go-co-op/gocron/v2"
)

// JobScheduler manages the recurring background jobs
type JobScheduler struct {
	scheduler      gocron.Scheduler
	stockAlertSvc  *jobs.StockAlertService
	cacheSvc       caching.CacheService
	stockThreshold int
	jobsByName     map[string]gocron.Job
	mu             sync.RWMutex
}

// NewJobScheduler creates a new job scheduler
func NewJobScheduler(stockAlertSvc *jobs.StockAlertService, cacheSvc caching.CacheService, stockThreshold int) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler:      scheduler,
		stockAlertSvc:  stockAlertSvc,
		cacheSvc:       cacheSvc,
		stockThreshold: stockThreshold,
		jobsByName:     make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// registerJobs registers all background jobs
func (js *JobScheduler) registerJobs() {
	// Low-stock sweep - every 30 minutes
	alertsJob, err := js.scheduler.NewJob(
		gocron.DurationJob(30*time.Minute),
		gocron.NewTask(js.runLowStockCheck),
		gocron.WithName("low-stock-alerts"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create low-stock alerts job: %v", err)
	} else {
		js.jobsByName["low-stock-alerts"] = alertsJob
	}

	// Full cache flush - daily, bounds staleness of cached reads
	cacheJob, err := js.scheduler.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(js.flushCache),
		gocron.WithName("cache-flush"),
	)
	if err != nil {
		log.Printf("Failed to create cache flush job: %v", err)
	} else {
		js.jobsByName["cache-flush"] = cacheJob
	}

	log.Printf("Registered %d background jobs", len(js.jobsByName))
}

func (js *JobScheduler) runLowStockCheck() {
	if err := js.stockAlertSvc.ScheduledLowStockCheck(context.Background(), js.stockThreshold); err != nil {
		log.Printf("Low stock check failed: %v", err)
	}
}

func (js *JobScheduler) flushCache() {
	if err := js.cacheSvc.InvalidateAll(context.Background()); err != nil {
		log.Printf("Cache flush failed: %v", err)
	}
}

// GetJobStatus returns the names of scheduled jobs
func (js *JobScheduler) GetJobStatus() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()

	names := make([]string, 0, len(js.jobsByName))
	for name := range js.jobsByName {
		names = append(names, name)
	}
	return names
}
