package main

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bearobot",
	Short: "Bearobot - Discord moderation bot",
	Long: `Bearobot removes recent Discord messages matching a regular expression.
Moderators run /admin purge (or the prefix form); purges can also run on a schedule.`,
	Version: Version,
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
}
