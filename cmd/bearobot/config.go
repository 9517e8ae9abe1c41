package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aatumaykin/bearobot/internal/config"
	"github.com/aatumaykin/bearobot/internal/constants"
	"github.com/aatumaykin/bearobot/internal/logger"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Validate and manage Bearobot configuration.`,
}

// configValidateCmd represents the config validate command
var configValidateCmd = &cobra.Command{
	Use:   "validate [config-file]",
	Short: "Validate configuration file",
	Long:  `Validate the configuration file and check for errors.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		log, err := logger.New(logger.Config{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
			os.Exit(1)
		}

		configPath := constants.DefaultConfigPath
		if len(args) > 0 {
			configPath = args[0]
		}

		if errs := validateConfigFile(log, configPath); len(errs) > 0 {
			os.Exit(1)
		}
	},
}

// validateConfigFile loads and validates path, logging each problem.
func validateConfigFile(log *logger.Logger, path string) []error {
	log.Info("Validating configuration", logger.Field{Key: "path", Value: path})

	cfg, err := config.Load(path)
	if err != nil {
		log.Error("Failed to load config", err)
		return []error{err}
	}

	errs := cfg.Validate()
	if len(errs) > 0 {
		log.Error("Config validation failed", fmt.Errorf("%d errors", len(errs)))
		for _, e := range errs {
			log.Error("Validation error", e)
		}
		return errs
	}

	log.Info("Configuration is valid",
		logger.Field{Key: "schedules", Value: len(cfg.Schedules)},
		logger.Field{Key: "metrics_enabled", Value: cfg.Metrics.Enabled})
	return nil
}

func init() {
	configCmd.AddCommand(configValidateCmd)
}
