package app

import (
	"context"
	"errors"

	"github.com/aatumaykin/bearobot/internal/constants"
)

// Shutdown performs graceful shutdown of all components.
// It stops the application in the following order:
//  1. Cancels the application context, which aborts running purges
//  2. Stops the scheduler (if running)
//  3. Stops the Discord connector (if running)
//  4. Stops the metrics server (if running)
//
// The method is thread-safe and can be called from multiple goroutines.
func (a *App) Shutdown() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.started {
		return nil
	}

	a.cancel()

	var errs []error

	if a.scheduler != nil {
		if err := a.scheduler.Stop(); err != nil {
			a.logger.Error("Failed to stop purge scheduler", err)
			errs = append(errs, err)
		}
		a.scheduler = nil
	}

	if a.discord != nil {
		if err := a.discord.Stop(); err != nil {
			a.logger.Error("Failed to stop discord connector", err)
			errs = append(errs, err)
		}
		a.discord = nil
	}

	if a.metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()
		if err := a.metricsServer.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("Failed to stop metrics server", err)
			errs = append(errs, err)
		}
		a.metricsServer = nil
	}

	a.started = false
	a.logger.Info("Application shutdown complete")

	return errors.Join(errs...)
}
