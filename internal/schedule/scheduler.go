// Package schedule runs configured purges on cron schedules using
// robfig/cron/v3. Each firing runs as a system request, so no invoker
// permission check applies; overlapping firings of one job are skipped.
package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/aatumaykin/bearobot/internal/config"
	"github.com/aatumaykin/bearobot/internal/constants"
	"github.com/aatumaykin/bearobot/internal/logger"
	"github.com/aatumaykin/bearobot/internal/purge"
)

// PurgeServiceInterface defines the purge operations needed by Scheduler
type PurgeServiceInterface interface {
	Run(ctx context.Context, req purge.Request, responder purge.Responder) (*purge.Result, error)
}

// ResponderFactory returns a responder posting into channelID.
type ResponderFactory func(channelID string) purge.Responder

// Job represents a scheduled purge
type Job struct {
	Name            string
	Schedule        string // cron expression, seconds field optional
	Request         purge.Request
	ReportChannelID string // empty: status is only logged
}

// JobsFromConfig converts [[schedules]] entries into jobs.
func JobsFromConfig(schedules []config.ScheduleConfig) []Job {
	jobs := make([]Job, 0, len(schedules))
	for _, sc := range schedules {
		jobs = append(jobs, Job{
			Name:     sc.Name,
			Schedule: sc.Schedule,
			Request: purge.Request{
				ChannelID:       sc.ChannelID,
				Pattern:         sc.Pattern,
				DurationMinutes: sc.DurationMinutes,
			},
			ReportChannelID: sc.ReportChannelID,
		})
	}
	return jobs
}

// Scheduler manages scheduled purge execution
type Scheduler struct {
	cron       *cron.Cron
	service    PurgeServiceInterface
	responders ResponderFactory
	logger     *logger.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	started bool
	mu      sync.RWMutex

	jobs    map[string]Job
	entries map[string]cron.EntryID
}

// NewScheduler creates a new scheduler. responders may be nil, in which
// case every job only logs its status.
func NewScheduler(service PurgeServiceInterface, responders ResponderFactory, log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.NewNop()
	}
	cl := cronLogger{logger: log}
	return &Scheduler{
		cron: cron.New(
			cron.WithParser(config.ScheduleParser),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		service:    service,
		responders: responders,
		logger:     log,
		jobs:       make(map[string]Job),
		entries:    make(map[string]cron.EntryID),
	}
}

// Start starts the cron scheduler
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("scheduler already started")
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	s.started = true
	s.cron.Start()

	s.logger.Info("purge scheduler started", logger.Field{Key: "jobs", Value: len(s.jobs)})
	return nil
}

// Stop cancels running purges and waits up to ShutdownTimeout for them.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return fmt.Errorf("scheduler not started")
	}
	s.started = false
	s.cancel()
	s.mu.Unlock()

	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("purge scheduler stopped")
		return nil
	case <-time.After(constants.ShutdownTimeout):
		return fmt.Errorf("timed out waiting for scheduled purges")
	}
}

// AddJob registers job. Names must be unique.
func (s *Scheduler) AddJob(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.Name]; exists {
		return fmt.Errorf("duplicate schedule name: %s", job.Name)
	}

	entryID, err := s.cron.AddFunc(job.Schedule, func() {
		s.executeJob(job)
	})
	if err != nil {
		return fmt.Errorf("invalid cron expression for %s: %w", job.Name, err)
	}

	s.jobs[job.Name] = job
	s.entries[job.Name] = entryID

	s.logger.Info("purge schedule added",
		logger.Field{Key: "name", Value: job.Name},
		logger.Field{Key: "schedule", Value: job.Schedule},
		logger.Field{Key: "channel_id", Value: job.Request.ChannelID},
		logger.Field{Key: "entry_id", Value: entryID})
	return nil
}

// ListJobs returns all scheduled jobs
func (s *Scheduler) ListJobs() []Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, job)
	}
	return jobs
}

// NextRun reports when the named job fires next.
func (s *Scheduler) NextRun(name string) (time.Time, bool) {
	s.mu.RLock()
	entryID, ok := s.entries[name]
	s.mu.RUnlock()
	if !ok {
		return time.Time{}, false
	}
	return s.cron.Entry(entryID).Next, true
}

// executeJob runs one firing of job.
func (s *Scheduler) executeJob(job Job) {
	s.mu.RLock()
	ctx := s.ctx
	s.mu.RUnlock()
	if ctx == nil || ctx.Err() != nil {
		return
	}

	log := s.logger.With(logger.Field{Key: "schedule", Value: job.Name})

	var responder purge.Responder = purge.NewLogStatus(log)
	if job.ReportChannelID != "" && s.responders != nil {
		responder = s.responders(job.ReportChannelID)
	}

	log.InfoCtx(ctx, "scheduled purge starting",
		logger.Field{Key: "channel_id", Value: job.Request.ChannelID},
		logger.Field{Key: "pattern", Value: job.Request.Pattern})

	result, err := s.service.Run(ctx, job.Request, responder)
	if err != nil {
		log.ErrorCtx(ctx, "scheduled purge failed", err,
			logger.Field{Key: "channel_id", Value: job.Request.ChannelID})
		return
	}

	log.InfoCtx(ctx, "scheduled purge finished",
		logger.Field{Key: "run_id", Value: result.RunID},
		logger.Field{Key: "outcome", Value: string(result.Outcome)},
		logger.Field{Key: "checked", Value: result.Scan.Checked},
		logger.Field{Key: "deleted", Value: result.Deletion.Deleted},
		logger.Field{Key: "failed", Value: result.Deletion.Failed})
}
