package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/robfig/cron/v3"
	"github.com/wasilibs/go-re2"

	"github.com/aatumaykin/bearobot/internal/constants"
)

// Load загружает конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes TOML bytes, applies defaults and expands ${VAR} references.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)
	expandEnvVars(&cfg)

	return &cfg, nil
}

// Validate проверяет валидность конфигурации
func (c *Config) Validate() []error {
	var errs []error

	if c.Discord.Token == "" {
		errs = append(errs, fmt.Errorf("discord.token is required (set DISCORD_TOKEN)"))
	} else if err := validateDiscordToken(c.Discord.Token); err != nil {
		errs = append(errs, err)
	}

	if strings.TrimSpace(c.Discord.CommandPrefix) == "" {
		errs = append(errs, fmt.Errorf("discord.command_prefix cannot be empty"))
	}

	errs = append(errs, c.Purge.validate()...)

	if c.Logging.Level == "" {
		errs = append(errs, fmt.Errorf("logging.level is required"))
	} else {
		validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
		if !validLevels[strings.ToLower(c.Logging.Level)] {
			errs = append(errs, fmt.Errorf("invalid logging.level: %s (expected: debug, info, warn, error)", c.Logging.Level))
		}
	}

	if c.Logging.Format == "" {
		errs = append(errs, fmt.Errorf("logging.format is required"))
	} else {
		validFormats := map[string]bool{"json": true, "text": true}
		if !validFormats[strings.ToLower(c.Logging.Format)] {
			errs = append(errs, fmt.Errorf("invalid logging.format: %s (expected: json, text)", c.Logging.Format))
		}
	}

	if c.Logging.Output == "" {
		errs = append(errs, fmt.Errorf("logging.output is required"))
	}

	if c.Metrics.Enabled && c.Metrics.Listen == "" {
		errs = append(errs, fmt.Errorf("metrics.listen is required when metrics are enabled"))
	}

	names := make(map[string]bool, len(c.Schedules))
	for i, s := range c.Schedules {
		if s.Name != "" && names[s.Name] {
			errs = append(errs, fmt.Errorf("schedules[%d]: duplicate name %q", i, s.Name))
		}
		names[s.Name] = true
		errs = append(errs, s.validate(i, c.Purge.MaxDurationMinutes)...)
	}

	return errs
}

func (p PurgeConfig) validate() []error {
	var errs []error

	if p.MaxDurationMinutes < 1 || p.MaxDurationMinutes > constants.MaxPurgeDurationMinutes {
		errs = append(errs, fmt.Errorf("purge.max_duration_minutes must be between 1 and %d (got %d)",
			constants.MaxPurgeDurationMinutes, p.MaxDurationMinutes))
	}
	if p.DefaultDurationMinutes < 1 || p.DefaultDurationMinutes > p.MaxDurationMinutes {
		errs = append(errs, fmt.Errorf("purge.default_duration_minutes must be between 1 and purge.max_duration_minutes (got %d)",
			p.DefaultDurationMinutes))
	}
	if p.BulkDelayMs < 0 {
		errs = append(errs, fmt.Errorf("purge.bulk_delay_ms cannot be negative"))
	}
	if p.SingleDelayMs < 0 {
		errs = append(errs, fmt.Errorf("purge.single_delay_ms cannot be negative"))
	}
	if p.ScanProgressEvery < 1 {
		errs = append(errs, fmt.Errorf("purge.scan_progress_every must be >= 1"))
	}
	if p.DeleteProgressEvery < 1 {
		errs = append(errs, fmt.Errorf("purge.delete_progress_every must be >= 1"))
	}

	return errs
}

// ScheduleParser accepts five-field cron expressions with an optional
// leading seconds field, and descriptors such as @hourly.
var ScheduleParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (s ScheduleConfig) validate(i, maxDuration int) []error {
	var errs []error
	field := fmt.Sprintf("schedules[%d]", i)

	if s.Name == "" {
		errs = append(errs, fmt.Errorf("%s.name is required", field))
	}
	if s.Schedule == "" {
		errs = append(errs, fmt.Errorf("%s.schedule is required", field))
	} else if _, err := ScheduleParser.Parse(s.Schedule); err != nil {
		errs = append(errs, fmt.Errorf("%s.schedule is invalid: %w", field, err))
	}
	if !isSnowflake(s.ChannelID) {
		errs = append(errs, fmt.Errorf("%s.channel_id must be a numeric channel ID", field))
	}
	if s.ReportChannelID != "" && !isSnowflake(s.ReportChannelID) {
		errs = append(errs, fmt.Errorf("%s.report_channel_id must be a numeric channel ID", field))
	}
	if s.Pattern == "" {
		errs = append(errs, fmt.Errorf("%s.pattern is required", field))
	} else if _, err := re2.Compile(s.Pattern); err != nil {
		errs = append(errs, fmt.Errorf("%s.pattern is not a valid regular expression: %w", field, err))
	}
	if s.DurationMinutes < 1 || s.DurationMinutes > maxDuration {
		errs = append(errs, fmt.Errorf("%s.duration_minutes must be between 1 and %d (got %d)", field, maxDuration, s.DurationMinutes))
	}

	return errs
}

// validateDiscordToken checks the three dot-separated segments of a bot token.
func validateDiscordToken(token string) error {
	token = strings.TrimPrefix(token, "Bot ")
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return formatValidationError("discord.token", "invalid format (expected three dot-separated parts)", token)
	}
	for _, p := range parts {
		if p == "" {
			return formatValidationError("discord.token", "contains an empty segment", token)
		}
	}
	return nil
}

func isSnowflake(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// applyDefaults применяет значения по умолчанию
func applyDefaults(c *Config) {
	if c.Discord.CommandPrefix == "" {
		c.Discord.CommandPrefix = constants.DefaultCommandPrefix
	}

	if c.Purge.MaxDurationMinutes == 0 {
		c.Purge.MaxDurationMinutes = constants.MaxPurgeDurationMinutes
	}
	if c.Purge.DefaultDurationMinutes == 0 {
		c.Purge.DefaultDurationMinutes = constants.DefaultPurgeDurationMinutes
	}
	if c.Purge.BulkDelayMs == 0 {
		c.Purge.BulkDelayMs = constants.DefaultBulkDelayMs
	}
	if c.Purge.SingleDelayMs == 0 {
		c.Purge.SingleDelayMs = constants.DefaultSingleDelayMs
	}
	if c.Purge.ScanProgressEvery == 0 {
		c.Purge.ScanProgressEvery = constants.DefaultScanProgressEvery
	}
	if c.Purge.DeleteProgressEvery == 0 {
		c.Purge.DeleteProgressEvery = constants.DefaultDeleteProgressEvery
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}

	if c.Metrics.Listen == "" {
		c.Metrics.Listen = constants.DefaultMetricsListen
	}

	for i := range c.Schedules {
		if c.Schedules[i].DurationMinutes == 0 {
			c.Schedules[i].DurationMinutes = c.Purge.DefaultDurationMinutes
		}
	}
}

// expandEnvVars расширяет переменные окружения в конфигурации
func expandEnvVars(c *Config) {
	c.Discord.Token = expandEnv(c.Discord.Token)
	c.Discord.GuildID = expandEnv(c.Discord.GuildID)
	c.Logging.Output = expandEnv(c.Logging.Output)
	c.Metrics.Listen = expandEnv(c.Metrics.Listen)

	for i := range c.Schedules {
		c.Schedules[i].ChannelID = expandEnv(c.Schedules[i].ChannelID)
		c.Schedules[i].ReportChannelID = expandEnv(c.Schedules[i].ReportChannelID)
	}
}

// expandEnv расширяет переменную окружения формата ${VAR:default}
func expandEnv(s string) string {
	if !strings.HasPrefix(s, "${") {
		return s
	}

	end := strings.Index(s, "}")
	if end == -1 {
		return s
	}

	content := s[2:end]
	if key, defaultVal, ok := strings.Cut(content, ":"); ok {
		if val := os.Getenv(key); val != "" {
			return val
		}
		return defaultVal
	}

	return os.Getenv(content)
}
