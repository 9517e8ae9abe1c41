package builders

import (
	"github.com/aatumaykin/bearobot/internal/channels/discord"
	"github.com/aatumaykin/bearobot/internal/commands"
	"github.com/aatumaykin/bearobot/internal/config"
	"github.com/aatumaykin/bearobot/internal/constants"
	"github.com/aatumaykin/bearobot/internal/logger"
	"github.com/aatumaykin/bearobot/internal/purge"
)

type PurgeBuilder struct {
	config  *config.Config
	logger  *logger.Logger
	metrics *purge.Metrics
}

func NewPurgeBuilder(cfg *config.Config, log *logger.Logger, m *purge.Metrics) *PurgeBuilder {
	return &PurgeBuilder{
		config:  cfg,
		logger:  log,
		metrics: m,
	}
}

// BuildService wires the purge pipeline to the Discord REST API.
func (b *PurgeBuilder) BuildService(api discord.Session) *purge.Service {
	p := b.config.Purge

	scanner := purge.NewScanner(discord.NewHistory(api), purge.ScannerConfig{
		PageSize:      constants.HistoryPageSize,
		ProgressEvery: p.ScanProgressEvery,
	}, b.logger)

	executor := purge.NewExecutor(discord.NewPacer(api, p.BulkDelay(), p.SingleDelay()), purge.ExecutorConfig{
		BatchSize:     constants.BulkDeleteLimit,
		ProgressEvery: p.DeleteProgressEvery,
	}, b.metrics, b.logger)

	return purge.NewService(purge.ServiceConfig{
		Validator: purge.Validator{
			MaxDurationMinutes: p.MaxDurationMinutes,
			NormalizeContent:   p.NormalizeContent,
		},
		Guard:    discord.NewGuard(api),
		Scanner:  scanner,
		Executor: executor,
		Metrics:  b.metrics,
		Logger:   b.logger,
	})
}

// BuildHandler creates the command handler for service.
func (b *PurgeBuilder) BuildHandler(service commands.PurgeServiceInterface) *commands.Handler {
	return commands.NewHandler(
		service,
		b.config.Discord.CommandPrefix,
		b.config.Purge.DefaultDurationMinutes,
		b.logger,
	)
}
