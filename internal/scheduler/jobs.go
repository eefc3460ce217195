package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"quickshow/pkg/logger"
)

var ErrNoHandler = errors.New("no handler registered for job kind")

// Handler runs a fired job. A returned error is logged; the job is not retried.
type Handler func(ctx context.Context, job Job) error

// JobConfig contains configuration for the timer poller
type JobConfig struct {
	PollInterval   time.Duration
	BatchSize      int
	HandlerTimeout time.Duration
}

// DefaultJobConfig returns default job configuration
func DefaultJobConfig() *JobConfig {
	return &JobConfig{
		PollInterval:   5 * time.Second,
		BatchSize:      50,
		HandlerTimeout: 30 * time.Second,
	}
}

// JobProcessor polls the store and dispatches due jobs by kind
type JobProcessor struct {
	store    Store
	config   *JobConfig
	handlers map[string]Handler
	mu       sync.RWMutex
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	now      func() time.Time
	log      *logger.Logger
}

// NewJobProcessor creates a new job processor. The caller's config is
// copied before defaults are applied.
func NewJobProcessor(store Store, cfg *JobConfig) *JobProcessor {
	defaults := DefaultJobConfig()
	config := defaults
	if cfg != nil {
		c := *cfg
		config = &c
	}
	if config.PollInterval <= 0 {
		config.PollInterval = defaults.PollInterval
	}
	if config.BatchSize <= 0 {
		config.BatchSize = defaults.BatchSize
	}
	if config.HandlerTimeout <= 0 {
		config.HandlerTimeout = defaults.HandlerTimeout
	}

	return &JobProcessor{
		store:    store,
		config:   config,
		handlers: make(map[string]Handler),
		done:     make(chan struct{}),
		now:      time.Now,
		log:      logger.GetDefault(),
	}
}

// Register binds a handler to a job kind. Registering twice replaces it.
func (jp *JobProcessor) Register(kind string, handler Handler) {
	jp.mu.Lock()
	defer jp.mu.Unlock()
	jp.handlers[kind] = handler
}

// Start runs the poll loop until Stop is called or ctx ends
func (jp *JobProcessor) Start(ctx context.Context) {
	jp.log.Info("Starting scheduler", "poll_interval", jp.config.PollInterval.String())

	jp.wg.Add(1)
	go func() {
		defer jp.wg.Done()
		jp.loop(ctx)
	}()
}

// Stop stops the poll loop and waits for in-flight jobs
func (jp *JobProcessor) Stop() {
	jp.stopOnce.Do(func() {
		close(jp.done)
	})
	jp.wg.Wait()
	jp.log.Info("Scheduler stopped")
}

func (jp *JobProcessor) loop(ctx context.Context) {
	ticker := time.NewTicker(jp.config.PollInterval)
	defer ticker.Stop()

	// Catch up on anything that came due while no runner was alive
	jp.tick(ctx)

	for {
		select {
		case <-ticker.C:
			jp.tick(ctx)
		case <-jp.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (jp *JobProcessor) tick(ctx context.Context) {
	fired, err := jp.RunDue(ctx)
	if err != nil {
		jp.log.ErrorWithContext(ctx, "scheduler poll failed", err, nil)
		return
	}
	if fired > 0 {
		jp.log.DebugContext(ctx, "Fired due jobs", "count", fired)
	}
}

// RunDue claims every job due now, batch by batch, and runs each one.
// It returns how many jobs were dispatched.
func (jp *JobProcessor) RunDue(ctx context.Context) (int, error) {
	fired := 0
	for {
		jobs, err := jp.store.Claim(ctx, jp.now(), jp.config.BatchSize)
		if err != nil {
			return fired, err
		}
		for _, job := range jobs {
			if err := jp.dispatch(ctx, job); err != nil {
				jp.log.ErrorWithContext(ctx, "scheduled job failed", err, map[string]interface{}{
					"job_id":   job.ID,
					"job_kind": job.Kind,
				})
			}
			fired++
		}
		if len(jobs) < jp.config.BatchSize {
			return fired, nil
		}
	}
}

func (jp *JobProcessor) dispatch(ctx context.Context, job Job) (err error) {
	jp.mu.RLock()
	handler, ok := jp.handlers[job.Kind]
	jp.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoHandler, job.Kind)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", job.ID, r)
		}
	}()

	jobCtx, cancel := context.WithTimeout(ctx, jp.config.HandlerTimeout)
	defer cancel()
	return handler(jobCtx, job)
}

// GetJobStatus returns the status of the poller
func (jp *JobProcessor) GetJobStatus(ctx context.Context) map[string]interface{} {
	status := map[string]interface{}{
		"poll_interval": jp.config.PollInterval.String(),
		"batch_size":    jp.config.BatchSize,
	}
	if pending, err := jp.store.Pending(ctx); err == nil {
		status["pending"] = pending
	}
	return status
}
