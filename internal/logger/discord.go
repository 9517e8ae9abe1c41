package logger

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// BridgeDiscordgo routes discordgo's package-level log output into l.
// discordgo only calls the hook for messages at or below Session.LogLevel.
func BridgeDiscordgo(l *Logger) {
	discordgo.Logger = func(msgL, caller int, format string, a ...interface{}) {
		logDiscordgo(l, msgL, caller, fmt.Sprintf(format, a...))
	}
}

// DiscordLogLevel maps a config level name to discordgo's numeric level.
func DiscordLogLevel(level string) int {
	switch lvl, _ := parseLevel(level); lvl.String() {
	case "DEBUG":
		return discordgo.LogDebug
	case "INFO":
		return discordgo.LogInformational
	case "WARN":
		return discordgo.LogWarning
	default:
		return discordgo.LogError
	}
}

func logDiscordgo(l *Logger, msgL, caller int, msg string) {
	fields := []Field{
		{Key: "component", Value: "discordgo"},
		{Key: "caller_depth", Value: caller},
	}
	switch msgL {
	case discordgo.LogError:
		l.Error("discordgo", fmt.Errorf("%s", msg), fields...)
	case discordgo.LogWarning:
		l.Warn(msg, fields...)
	case discordgo.LogInformational:
		l.Info(msg, fields...)
	default:
		l.Debug(msg, fields...)
	}
}
