package purge

import (
	"context"
	"time"

	"github.com/disgoorg/snowflake/v2"

	"github.com/aatumaykin/bearobot/internal/channels"
	"github.com/aatumaykin/bearobot/internal/constants"
	"github.com/aatumaykin/bearobot/internal/logger"
)

// ThrottleKind selects the pause applied after a delete request.
type ThrottleKind int

const (
	ThrottleBulk ThrottleKind = iota
	ThrottleSingle
)

// Strategy performs delete requests against the platform and paces them.
// Throttle only fails when ctx is done.
type Strategy interface {
	DeleteBatch(ctx context.Context, channelID string, ids []snowflake.ID) error
	DeleteOne(ctx context.Context, channelID string, id snowflake.ID) error
	Throttle(ctx context.Context, kind ThrottleKind) error
}

// DeletionStats counts delete outcomes of a run.
type DeletionStats struct {
	Deleted int
	Failed  int
}

// Attempts is the number of messages processed so far.
func (s DeletionStats) Attempts() int {
	return s.Deleted + s.Failed
}

// Executor deletes candidates in two phases: bulk chunks for messages
// younger than 14 days, then one request per older message.
type Executor struct {
	strategy      Strategy
	batchSize     int
	progressEvery int
	metrics       *Metrics
	logger        *logger.Logger
}

// ExecutorConfig configures an Executor. Zero values fall back to defaults.
type ExecutorConfig struct {
	BatchSize     int
	ProgressEvery int
}

func NewExecutor(strategy Strategy, cfg ExecutorConfig, metrics *Metrics, log *logger.Logger) *Executor {
	if cfg.BatchSize <= 0 || cfg.BatchSize > constants.BulkDeleteLimit {
		cfg.BatchSize = constants.BulkDeleteLimit
	}
	if cfg.ProgressEvery <= 0 {
		cfg.ProgressEvery = constants.DefaultDeleteProgressEvery
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Executor{
		strategy:      strategy,
		batchSize:     cfg.BatchSize,
		progressEvery: cfg.ProgressEvery,
		metrics:       metrics,
		logger:        log,
	}
}

// Execute deletes every candidate once. Delete failures are counted, never
// retried and never abort the run. The returned error is non-nil only when
// ctx is cancelled, together with the counts reached so far.
func (e *Executor) Execute(ctx context.Context, channelID string, candidates []snowflake.ID, now time.Time, reporter Reporter) (DeletionStats, error) {
	var stats DeletionStats
	total := len(candidates)
	bulk, individual := Partition(candidates, now)

	e.logger.DebugCtx(ctx, "partitioned purge candidates",
		logger.Field{Key: "channel_id", Value: channelID},
		logger.Field{Key: "bulk", Value: len(bulk)},
		logger.Field{Key: "individual", Value: len(individual)})

	for start := 0; start < len(bulk); start += e.batchSize {
		end := min(start+e.batchSize, len(bulk))
		chunk := bulk[start:end]

		if err := e.strategy.DeleteBatch(ctx, channelID, chunk); err != nil {
			stats.Failed += len(chunk)
			e.metrics.RecordDeletion(BulkEligible, 0, len(chunk))
			e.logFailure(ctx, "bulk delete failed", err, channelID,
				logger.Field{Key: "chunk_size", Value: len(chunk)})
		} else {
			stats.Deleted += len(chunk)
			e.metrics.RecordDeletion(BulkEligible, len(chunk), 0)
		}

		if err := e.strategy.Throttle(ctx, ThrottleBulk); err != nil {
			return stats, err
		}
	}

	for _, id := range individual {
		if err := e.strategy.DeleteOne(ctx, channelID, id); err != nil {
			stats.Failed++
			e.metrics.RecordDeletion(IndividualOnly, 0, 1)
			e.logFailure(ctx, "message delete failed", err, channelID,
				logger.Field{Key: "message_id", Value: id.String()})
		} else {
			stats.Deleted++
			e.metrics.RecordDeletion(IndividualOnly, 1, 0)
		}

		if err := e.strategy.Throttle(ctx, ThrottleSingle); err != nil {
			return stats, err
		}

		if stats.Attempts()%e.progressEvery == 0 {
			reporter.DeleteProgress(ctx, stats.Attempts(), total)
		}
	}

	return stats, nil
}

func (e *Executor) logFailure(ctx context.Context, msg string, err error, channelID string, fields ...logger.Field) {
	fields = append(fields, logger.Field{Key: "channel_id", Value: channelID})
	fields = append(fields, channels.LogFieldsOf(err)...)
	e.logger.WarnCtx(ctx, msg, append(fields, logger.Field{Key: "error", Value: err})...)
}
