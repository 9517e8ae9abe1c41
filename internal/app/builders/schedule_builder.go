package builders

import (
	"context"
	"fmt"

	"github.com/aatumaykin/bearobot/internal/channels/discord"
	"github.com/aatumaykin/bearobot/internal/config"
	"github.com/aatumaykin/bearobot/internal/logger"
	"github.com/aatumaykin/bearobot/internal/purge"
	"github.com/aatumaykin/bearobot/internal/schedule"
)

type ScheduleBuilder struct {
	config *config.Config
	logger *logger.Logger
}

func NewScheduleBuilder(cfg *config.Config, log *logger.Logger) *ScheduleBuilder {
	return &ScheduleBuilder{
		config: cfg,
		logger: log,
	}
}

// BuildAndStart registers every configured schedule and starts the
// scheduler. It returns nil when no schedules are configured.
func (b *ScheduleBuilder) BuildAndStart(ctx context.Context, service schedule.PurgeServiceInterface, api discord.Session) (*schedule.Scheduler, error) {
	if len(b.config.Schedules) == 0 {
		return nil, nil
	}

	scheduler := schedule.NewScheduler(service, func(channelID string) purge.Responder {
		return discord.NewChannelResponder(api, channelID, nil)
	}, b.logger)

	for _, job := range schedule.JobsFromConfig(b.config.Schedules) {
		if err := scheduler.AddJob(job); err != nil {
			return nil, fmt.Errorf("failed to add schedule: %w", err)
		}
	}

	if err := scheduler.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start purge scheduler: %w", err)
	}
	return scheduler, nil
}
