package constants

import "time"

// DefaultConfigPath is used when no --config flag is given.
const DefaultConfigPath = "./config.toml"

// DefaultEnvPath is the dotenv file loaded before the config.
const DefaultEnvPath = "./.env"

// DefaultCommandPrefix is the prefix for text commands.
const DefaultCommandPrefix = ")"

// DefaultMetricsListen is the Prometheus listen address.
const DefaultMetricsListen = ":9090"

// MetricsNamespace prefixes every exported metric.
const MetricsNamespace = "bearobot"

// Purge window bounds in minutes. 10080 minutes is one week.
const (
	MinPurgeDurationMinutes     = 1
	MaxPurgeDurationMinutes     = 10080
	DefaultPurgeDurationMinutes = 60
)

// Pacing and progress cadence of a purge run.
const (
	DefaultBulkDelayMs         = 500
	DefaultSingleDelayMs       = 1000
	DefaultScanProgressEvery   = 500
	DefaultDeleteProgressEvery = 10
)

// Platform limits for message history and deletion.
const (
	HistoryPageSize  = 100
	BulkDeleteLimit  = 100
	BulkDeleteMaxAge = 14 * 24 * time.Hour
)

// RegisterCommandsMaxAttempts bounds retries of slash command registration.
const RegisterCommandsMaxAttempts = 3

// ShutdownTimeout bounds graceful shutdown of HTTP and gateway connections.
const ShutdownTimeout = 10 * time.Second
