// Package app provides the main application structure for Bearobot.
// It coordinates the Discord connector, the purge service, scheduled
// purges and the metrics endpoint.
package app

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aatumaykin/bearobot/internal/channels/discord"
	"github.com/aatumaykin/bearobot/internal/commands"
	"github.com/aatumaykin/bearobot/internal/config"
	"github.com/aatumaykin/bearobot/internal/logger"
	"github.com/aatumaykin/bearobot/internal/metrics"
	"github.com/aatumaykin/bearobot/internal/purge"
	"github.com/aatumaykin/bearobot/internal/schedule"
)

// App represents the main application structure.
// It holds references to all major components and manages their lifecycle.
type App struct {
	// Configuration and core services
	config *config.Config
	logger *logger.Logger

	// Metrics
	registry      *prometheus.Registry
	purgeMetrics  *purge.Metrics
	metricsServer *metrics.Server

	// Purge pipeline
	purgeService   *purge.Service
	commandHandler *commands.Handler

	// Channels
	discord *discord.Connector

	// Scheduled purges
	scheduler *schedule.Scheduler

	// Context management
	ctx    context.Context
	cancel context.CancelFunc

	// Thread-safety
	mu      sync.RWMutex
	started bool
}

// New creates a new App instance with the provided configuration and logger.
// Other components are initialized in Initialize().
func New(cfg *config.Config, log *logger.Logger) *App {
	return &App{
		config: cfg,
		logger: log,
	}
}

// Run starts the application and blocks until the context is cancelled,
// then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	if err := a.Initialize(ctx); err != nil {
		if shutdownErr := a.Shutdown(); shutdownErr != nil {
			a.logger.Error("Failed to clean up after initialization error", shutdownErr)
		}
		return err
	}

	a.logger.Info("Application is running")

	<-ctx.Done()

	return a.Shutdown()
}

// Registry returns the Prometheus registry the application records into.
func (a *App) Registry() *prometheus.Registry {
	return a.registry
}
