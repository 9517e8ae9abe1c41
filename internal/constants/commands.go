package constants

// CommandAdmin is the parent slash command and prefix command group.
const CommandAdmin = "admin"

// CommandPurge is the purge subcommand of CommandAdmin.
const CommandPurge = "purge"

// Slash command option names for purge.
const (
	OptionPattern  = "pattern"
	OptionChannel  = "channel"
	OptionDuration = "duration_minutes"
)
