// Package purge implements regex purges of Discord channel history: it scans
// backward through recent messages, selects those whose content matches a
// pattern and deletes them while respecting bulk-delete age limits and rate
// limits. Transport is abstracted behind HistoryFetcher, Strategy and
// PermissionChecker so the pipeline runs without a live connection in tests.
package purge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aatumaykin/bearobot/internal/constants"
	"github.com/aatumaykin/bearobot/internal/logger"
	"github.com/aatumaykin/bearobot/internal/messages"
)

// PermissionChecker verifies the invoker may manage messages in a channel.
type PermissionChecker interface {
	CanManageMessages(ctx context.Context, userID, channelID string) (bool, error)
}

// Outcome is the final classification of a run.
type Outcome string

const (
	OutcomeNoMatches      Outcome = "no_matches"
	OutcomeSuccess        Outcome = "success"
	OutcomePartialFailure Outcome = "partial_failure"
	outcomeRejected       Outcome = "rejected"
	outcomeError          Outcome = "error"
)

// Result summarises a completed run.
type Result struct {
	RunID    string
	Plan     *Plan
	Scan     ScanStats
	Deletion DeletionStats
	Outcome  Outcome
	Elapsed  time.Duration
}

// Summary renders the final status text for r.
func (r *Result) Summary() string {
	if r.Outcome == OutcomeNoMatches {
		return messages.FormatNoMatches(r.Scan.Checked, r.Plan.Pattern)
	}
	return messages.FormatSummary(r.Deletion.Deleted, r.Deletion.Failed, r.Scan.Checked, r.Plan.Pattern, r.Plan.DurationMinutes)
}

// Service runs purge requests end to end.
type Service struct {
	validator Validator
	guard     PermissionChecker
	scanner   *Scanner
	executor  *Executor
	metrics   *Metrics
	logger    *logger.Logger
	now       func() time.Time
}

// ServiceConfig wires a Service. Guard may be nil when every request is
// system-initiated. Now defaults to time.Now.
type ServiceConfig struct {
	Validator Validator
	Guard     PermissionChecker
	Scanner   *Scanner
	Executor  *Executor
	Metrics   *Metrics
	Logger    *logger.Logger
	Now       func() time.Time
}

func NewService(cfg ServiceConfig) *Service {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNop()
	}
	return &Service{
		validator: cfg.Validator,
		guard:     cfg.Guard,
		scanner:   cfg.Scanner,
		executor:  cfg.Executor,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
		now:       cfg.Now,
	}
}

// Run executes req and reports through responder. Rejections come back as
// *ValidationError before anything is posted. After the acknowledgement,
// progress is best-effort and exactly one final summary edit is made unless
// the scan fails or ctx is cancelled.
func (s *Service) Run(ctx context.Context, req Request, responder Responder) (*Result, error) {
	started := s.now()
	result := &Result{RunID: uuid.NewString()}

	log := s.logger.With(
		logger.Field{Key: "run_id", Value: result.RunID},
		logger.Field{Key: "channel_id", Value: req.ChannelID},
		logger.Field{Key: "invoker_id", Value: req.InvokerID},
	)

	s.metrics.runStarted()
	defer s.metrics.runFinished()

	plan, err := s.authorize(ctx, req)
	if err != nil {
		outcome := outcomeError
		var ve *ValidationError
		if errors.As(err, &ve) {
			outcome = outcomeRejected
		}
		s.metrics.RecordRun(string(outcome), s.now().Sub(started))
		log.InfoCtx(ctx, "purge request rejected", logger.Field{Key: "reason", Value: err.Error()})
		return nil, err
	}
	result.Plan = plan

	log.InfoCtx(ctx, "purge started",
		logger.Field{Key: "pattern", Value: plan.Pattern},
		logger.Field{Key: "duration_minutes", Value: plan.DurationMinutes})

	status, err := responder.Reply(ctx, constants.MsgPurgeStarting)
	if err != nil {
		s.metrics.RecordRun(string(outcomeError), s.now().Sub(started))
		return nil, fmt.Errorf("failed to post purge acknowledgement: %w", err)
	}
	reporter := NewStatusReporter(status, log)

	if err := s.execute(ctx, plan, result, reporter); err != nil {
		s.metrics.RecordRun(string(outcomeError), s.now().Sub(started))
		log.ErrorCtx(ctx, "purge aborted", err,
			logger.Field{Key: "checked", Value: result.Scan.Checked},
			logger.Field{Key: "deleted", Value: result.Deletion.Deleted},
			logger.Field{Key: "failed", Value: result.Deletion.Failed})
		return result, err
	}

	result.Elapsed = s.now().Sub(started)
	s.metrics.RecordRun(string(result.Outcome), result.Elapsed)

	log.InfoCtx(ctx, "purge finished",
		logger.Field{Key: "outcome", Value: string(result.Outcome)},
		logger.Field{Key: "checked", Value: result.Scan.Checked},
		logger.Field{Key: "matched", Value: result.Scan.Matched},
		logger.Field{Key: "deleted", Value: result.Deletion.Deleted},
		logger.Field{Key: "failed", Value: result.Deletion.Failed},
		logger.Field{Key: "elapsed", Value: result.Elapsed.String()})

	if err := status.Edit(ctx, result.Summary()); err != nil {
		return result, fmt.Errorf("failed to post purge summary: %w", err)
	}

	return result, nil
}

// authorize validates duration and pattern first, so malformed requests are
// rejected without a network call, then checks the invoker's permission.
func (s *Service) authorize(ctx context.Context, req Request) (*Plan, error) {
	plan, err := s.validator.Validate(req)
	if err != nil {
		return nil, err
	}

	if req.InvokerID != "" {
		if s.guard == nil {
			return nil, errors.New("purge service has no permission checker")
		}
		allowed, err := s.guard.CanManageMessages(ctx, req.InvokerID, plan.ChannelID)
		if err != nil {
			return nil, fmt.Errorf("failed to check permissions: %w", err)
		}
		if !allowed {
			return nil, &ValidationError{Reason: constants.MsgMissingPermission, Err: ErrPermissionDenied}
		}
	}

	return plan, nil
}

// execute fills result with scan and deletion stats and sets its Outcome.
func (s *Service) execute(ctx context.Context, plan *Plan, result *Result, reporter Reporter) error {
	candidates, scanStats, err := s.scanner.Scan(ctx, plan, s.now(), reporter)
	result.Scan = scanStats
	s.metrics.RecordScan(scanStats)
	if err != nil {
		return err
	}

	if len(candidates) == 0 {
		result.Outcome = OutcomeNoMatches
		return nil
	}

	reporter.Deleting(ctx, len(candidates))

	deletion, err := s.executor.Execute(ctx, plan.ChannelID, candidates, s.now(), reporter)
	result.Deletion = deletion
	if err != nil {
		return err
	}

	if deletion.Failed > 0 {
		result.Outcome = OutcomePartialFailure
	} else {
		result.Outcome = OutcomeSuccess
	}
	return nil
}
