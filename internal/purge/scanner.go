package purge

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/snowflake/v2"

	"github.com/aatumaykin/bearobot/internal/constants"
	"github.com/aatumaykin/bearobot/internal/logger"
)

// Message is one history entry as seen by the scanner.
type Message struct {
	ID        snowflake.ID
	Content   string
	CreatedAt time.Time
}

// HistoryFetcher lists channel history newest-first. before == 0 means
// start from the newest message.
type HistoryFetcher interface {
	FetchBefore(ctx context.Context, channelID string, before snowflake.ID, limit int) ([]Message, error)
}

// ScanStats counts what a scan visited and selected.
type ScanStats struct {
	Checked int
	Matched int
}

// WithinWindow reports whether msg is not older than threshold.
func WithinWindow(msg Message, threshold time.Time) bool {
	return !msg.CreatedAt.Before(threshold)
}

// Scanner walks channel history backward and collects matching message IDs.
type Scanner struct {
	fetcher       HistoryFetcher
	pageSize      int
	progressEvery int
	logger        *logger.Logger
}

// ScannerConfig configures a Scanner. Zero values fall back to defaults.
type ScannerConfig struct {
	PageSize      int
	ProgressEvery int
}

func NewScanner(fetcher HistoryFetcher, cfg ScannerConfig, log *logger.Logger) *Scanner {
	if cfg.PageSize <= 0 || cfg.PageSize > constants.HistoryPageSize {
		cfg.PageSize = constants.HistoryPageSize
	}
	if cfg.ProgressEvery <= 0 {
		cfg.ProgressEvery = constants.DefaultScanProgressEvery
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Scanner{
		fetcher:       fetcher,
		pageSize:      cfg.PageSize,
		progressEvery: cfg.ProgressEvery,
		logger:        log,
	}
}

// Scan returns candidates newest-first. It stops at the first message older
// than plan.Threshold(now) or at an empty page. Checked counts every message
// visited, including the out-of-window one that ended the scan. A failed page
// fetch aborts the scan.
func (s *Scanner) Scan(ctx context.Context, plan *Plan, now time.Time, reporter Reporter) ([]snowflake.ID, ScanStats, error) {
	threshold := plan.Threshold(now)

	var (
		candidates []snowflake.ID
		stats      ScanStats
		cursor     snowflake.ID
		reportedAt int
		pages      int
	)

	for {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}

		page, err := s.fetcher.FetchBefore(ctx, plan.ChannelID, cursor, s.pageSize)
		if err != nil {
			return nil, stats, fmt.Errorf("failed to fetch messages before %s: %w", cursor, err)
		}
		pages++

		if len(page) == 0 {
			break
		}

		reachedThreshold := false
		for _, msg := range page {
			stats.Checked++
			if !WithinWindow(msg, threshold) {
				reachedThreshold = true
				break
			}
			if plan.Matcher.MatchString(msg.Content) {
				candidates = append(candidates, msg.ID)
				stats.Matched++
			}
			cursor = msg.ID
		}

		if reachedThreshold {
			break
		}

		if stats.Checked/s.progressEvery > reportedAt/s.progressEvery {
			reportedAt = stats.Checked
			reporter.ScanProgress(ctx, stats)
		}
	}

	s.logger.DebugCtx(ctx, "history scan finished",
		logger.Field{Key: "channel_id", Value: plan.ChannelID},
		logger.Field{Key: "pages", Value: pages},
		logger.Field{Key: "checked", Value: stats.Checked},
		logger.Field{Key: "matched", Value: stats.Matched})

	return candidates, stats, nil
}
