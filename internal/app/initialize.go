package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/aatumaykin/bearobot/internal/app/builders"
	"github.com/aatumaykin/bearobot/internal/constants"
	"github.com/aatumaykin/bearobot/internal/logger"
	"github.com/aatumaykin/bearobot/internal/metrics"
	"github.com/aatumaykin/bearobot/internal/purge"
)

// Initialize initializes all application components.
// It sets up metrics, the Discord connector, the purge service, the command
// handler and the scheduler, then opens the gateway.
func (a *App) Initialize(ctx context.Context) error {
	// 1. Create application context
	a.ctx, a.cancel = context.WithCancel(ctx)

	// Mark as started so Shutdown cleans up partially initialized state
	a.mu.Lock()
	a.started = true
	a.mu.Unlock()

	// 2. Metrics
	a.registry = newRegistry()
	a.purgeMetrics = purge.InitPrometheusMetrics(constants.MetricsNamespace, a.registry)

	// 3. Discord connector (gateway not opened yet)
	conn, err := builders.NewDiscordBuilder(a.config, a.logger).Build()
	if err != nil {
		return err
	}
	a.discord = conn

	// 4. Purge service and command handler
	purgeBuilder := builders.NewPurgeBuilder(a.config, a.logger, a.purgeMetrics)
	a.purgeService = purgeBuilder.BuildService(conn.API())
	a.commandHandler = purgeBuilder.BuildHandler(a.purgeService)
	conn.SetHandler(a.commandHandler)

	// 5. Metrics endpoint
	if a.config.Metrics.Enabled {
		a.metricsServer = metrics.NewServer(a.config.Metrics.Listen, a.registry, conn.Health, a.logger)
		if err := a.metricsServer.Start(); err != nil {
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
	}

	// 6. Open the gateway
	if err := conn.Start(a.ctx); err != nil {
		return fmt.Errorf("failed to start discord connector: %w", err)
	}

	// 7. Scheduled purges
	scheduler, err := builders.NewScheduleBuilder(a.config, a.logger).BuildAndStart(a.ctx, a.purgeService, conn.API())
	if err != nil {
		return err
	}
	a.scheduler = scheduler

	a.logger.Info("Application initialized",
		logger.Field{Key: "schedules", Value: len(a.config.Schedules)},
		logger.Field{Key: "metrics_enabled", Value: a.config.Metrics.Enabled})

	return nil
}

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}
