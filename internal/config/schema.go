// Package config provides configuration loading and validation for Bearobot.
// It reads a TOML file, applies defaults and expands environment variables.
//
// Configuration structure:
//   - [discord]: bot token, command prefix, slash command registration
//   - [purge]: duration bounds, pacing delays, progress cadence
//   - [logging]: level, format, output
//   - [metrics]: Prometheus endpoint
//   - [[schedules]]: recurring purges run by the bot itself
//
// Environment variables:
// Values can reference ${VAR} or ${VAR:default}.
// For example: token = "${DISCORD_TOKEN}"
package config

import "time"

// Config represents the main application configuration.
type Config struct {
	Discord   DiscordConfig    `toml:"discord"`
	Purge     PurgeConfig      `toml:"purge"`
	Logging   LoggingConfig    `toml:"logging"`
	Metrics   MetricsConfig    `toml:"metrics"`
	Schedules []ScheduleConfig `toml:"schedules"`
}

// DiscordConfig представляет конфигурацию подключения к Discord
type DiscordConfig struct {
	Token            string `toml:"token"`
	CommandPrefix    string `toml:"command_prefix"`
	GuildID          string `toml:"guild_id"`
	RegisterCommands *bool  `toml:"register_commands"`
}

// ShouldRegisterCommands reports whether slash commands are pushed on startup.
// Defaults to true when the key is absent.
func (c DiscordConfig) ShouldRegisterCommands() bool {
	return c.RegisterCommands == nil || *c.RegisterCommands
}

// PurgeConfig holds the tunables of the purge pipeline.
type PurgeConfig struct {
	DefaultDurationMinutes int  `toml:"default_duration_minutes"`
	MaxDurationMinutes     int  `toml:"max_duration_minutes"`
	NormalizeContent       bool `toml:"normalize_content"`
	BulkDelayMs            int  `toml:"bulk_delay_ms"`
	SingleDelayMs          int  `toml:"single_delay_ms"`
	ScanProgressEvery      int  `toml:"scan_progress_every"`
	DeleteProgressEvery    int  `toml:"delete_progress_every"`
}

// BulkDelay is the pause after each bulk-delete chunk.
func (c PurgeConfig) BulkDelay() time.Duration {
	return time.Duration(c.BulkDelayMs) * time.Millisecond
}

// SingleDelay is the pause after each individual delete.
func (c PurgeConfig) SingleDelay() time.Duration {
	return time.Duration(c.SingleDelayMs) * time.Millisecond
}

// LoggingConfig представляет конфигурацию логирования
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	Output string `toml:"output"`
}

// MetricsConfig controls the Prometheus HTTP endpoint.
type MetricsConfig struct {
	Enabled bool   `toml:"enabled"`
	Listen  string `toml:"listen"`
}

// ScheduleConfig describes a purge the bot runs on a cron schedule.
type ScheduleConfig struct {
	Name            string `toml:"name"`
	Schedule        string `toml:"schedule"`
	ChannelID       string `toml:"channel_id"`
	Pattern         string `toml:"pattern"`
	DurationMinutes int    `toml:"duration_minutes"`
	ReportChannelID string `toml:"report_channel_id"`
}
