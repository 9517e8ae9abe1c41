package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aatumaykin/bearobot/internal/app"
	"github.com/aatumaykin/bearobot/internal/config"
	"github.com/aatumaykin/bearobot/internal/constants"
	"github.com/aatumaykin/bearobot/internal/logger"
	"github.com/aatumaykin/bearobot/internal/messages"
)

var (
	serveConfigPath string
	serveEnvPath    string
	serveLogLevel   string
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the bot (main command)",
	Long: `Start Bearobot with the specified configuration.
This connects to the Discord gateway, registers the /admin purge command,
starts configured schedules and handles graceful shutdown on SIGINT/SIGTERM.`,
	Run: serveHandler,
}

func serveHandler(cmd *cobra.Command, args []string) {
	cfg, err := loadServeConfig(serveEnvPath, serveConfigPath, serveLogLevel)
	if err != nil {
		var invalid validationFailure
		if errors.As(err, &invalid) {
			fmt.Print(invalid.Error())
		} else {
			fmt.Printf(constants.MsgConfigLoadError, err)
		}
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		fmt.Printf("❌ Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	log.Info("🚀 Starting Bearobot",
		logger.Field{Key: "version", Value: Version},
		logger.Field{Key: "git_commit", Value: GitCommit},
		logger.Field{Key: "config", Value: serveConfigPath},
		logger.Field{Key: "token", Value: config.MaskToken(cfg.Discord.Token)},
		logger.Field{Key: "guild_id", Value: cfg.Discord.GuildID},
		logger.Field{Key: "schedules", Value: len(cfg.Schedules)},
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.New(cfg, log).Run(ctx); err != nil {
		log.Error("Application stopped with error", err)
		os.Exit(1)
	}

	log.Info("👋 Bearobot stopped")
}

// validationFailure carries every problem found by Config.Validate.
type validationFailure []error

func (v validationFailure) Error() string {
	return messages.FormatConfigValidationErrors(v)
}

// loadServeConfig loads the dotenv file, the config file and applies the
// log level override before validating.
func loadServeConfig(envPath, configPath, logLevel string) (*config.Config, error) {
	if err := config.LoadEnvOptional(envPath); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", envPath, err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, validationFailure(errs)
	}
	return cfg, nil
}

func init() {
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", constants.DefaultConfigPath, "Path to configuration file")
	serveCmd.Flags().StringVarP(&serveEnvPath, "env", "e", constants.DefaultEnvPath, "Path to .env file (ignored if missing)")
	serveCmd.Flags().StringVarP(&serveLogLevel, "log-level", "l", "", "Override log level (debug, info, warn, error)")
}
