package purge

import (
	"context"

	"github.com/aatumaykin/bearobot/internal/channels"
	"github.com/aatumaykin/bearobot/internal/logger"
	"github.com/aatumaykin/bearobot/internal/messages"
)

// Reporter receives interim progress. Implementations must not fail the run:
// delivery is best-effort.
type Reporter interface {
	ScanProgress(ctx context.Context, stats ScanStats)
	Deleting(ctx context.Context, total int)
	DeleteProgress(ctx context.Context, done, total int)
}

// StatusMessage is the single editable message a run reports into.
type StatusMessage interface {
	Edit(ctx context.Context, content string) error
}

// Responder posts the acknowledgement that becomes the run's StatusMessage.
type Responder interface {
	Reply(ctx context.Context, content string) (StatusMessage, error)
}

// StatusReporter renders progress into a StatusMessage. Edit failures are
// logged and dropped.
type StatusReporter struct {
	status StatusMessage
	logger *logger.Logger
}

func NewStatusReporter(status StatusMessage, log *logger.Logger) *StatusReporter {
	if log == nil {
		log = logger.NewNop()
	}
	return &StatusReporter{status: status, logger: log}
}

func (r *StatusReporter) ScanProgress(ctx context.Context, stats ScanStats) {
	r.edit(ctx, messages.FormatScanProgress(stats.Checked, stats.Matched))
}

func (r *StatusReporter) Deleting(ctx context.Context, total int) {
	r.edit(ctx, messages.FormatDeleting(total))
}

func (r *StatusReporter) DeleteProgress(ctx context.Context, done, total int) {
	r.edit(ctx, messages.FormatDeleteProgress(done, total))
}

func (r *StatusReporter) edit(ctx context.Context, content string) {
	if err := r.status.Edit(ctx, content); err != nil {
		fields := append([]logger.Field{{Key: "content", Value: content}}, channels.LogFieldsOf(err)...)
		r.logger.WarnCtx(ctx, "failed to update purge status message",
			append(fields, logger.Field{Key: "error", Value: err})...)
	}
}

// LogReporter writes progress to the log. Used for scheduled runs that
// have no status channel.
type LogReporter struct {
	logger *logger.Logger
}

func NewLogReporter(log *logger.Logger) *LogReporter {
	if log == nil {
		log = logger.NewNop()
	}
	return &LogReporter{logger: log}
}

func (r *LogReporter) ScanProgress(ctx context.Context, stats ScanStats) {
	r.logger.InfoCtx(ctx, "purge scan progress",
		logger.Field{Key: "checked", Value: stats.Checked},
		logger.Field{Key: "matched", Value: stats.Matched})
}

func (r *LogReporter) Deleting(ctx context.Context, total int) {
	r.logger.InfoCtx(ctx, "purge deleting", logger.Field{Key: "candidates", Value: total})
}

func (r *LogReporter) DeleteProgress(ctx context.Context, done, total int) {
	r.logger.InfoCtx(ctx, "purge delete progress",
		logger.Field{Key: "done", Value: done},
		logger.Field{Key: "total", Value: total})
}

// LogStatus is a StatusMessage that logs every edit. It lets system runs
// share the Responder path with interactive ones.
type LogStatus struct {
	logger *logger.Logger
}

func NewLogStatus(log *logger.Logger) *LogStatus {
	if log == nil {
		log = logger.NewNop()
	}
	return &LogStatus{logger: log}
}

func (s *LogStatus) Reply(ctx context.Context, content string) (StatusMessage, error) {
	s.logger.InfoCtx(ctx, "purge status", logger.Field{Key: "content", Value: content})
	return s, nil
}

func (s *LogStatus) Edit(ctx context.Context, content string) error {
	s.logger.InfoCtx(ctx, "purge status", logger.Field{Key: "content", Value: content})
	return nil
}
