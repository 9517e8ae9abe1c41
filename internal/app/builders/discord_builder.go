package builders

import (
	"fmt"

	"github.com/aatumaykin/bearobot/internal/channels/discord"
	"github.com/aatumaykin/bearobot/internal/config"
	"github.com/aatumaykin/bearobot/internal/logger"
)

type DiscordBuilder struct {
	config *config.Config
	logger *logger.Logger
}

func NewDiscordBuilder(cfg *config.Config, log *logger.Logger) *DiscordBuilder {
	return &DiscordBuilder{
		config: cfg,
		logger: log,
	}
}

// Build creates the connector and routes discordgo logging through the
// application logger. The gateway is opened later by Connector.Start.
func (b *DiscordBuilder) Build() (*discord.Connector, error) {
	logger.BridgeDiscordgo(b.logger)

	conn, err := discord.New(discord.ConnectorConfig{
		Discord:            b.config.Discord,
		MaxDurationMinutes: b.config.Purge.MaxDurationMinutes,
		LogLevel:           b.config.Logging.Level,
	}, b.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord connector: %w", err)
	}
	return conn, nil
}
