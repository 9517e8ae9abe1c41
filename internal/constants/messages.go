// Package constants contains configuration defaults and all user-facing texts.
package constants

// Purge status messages
const (
	// MsgPurgeStarting acknowledges an accepted purge request.
	MsgPurgeStarting = "Starting the purge..."

	// MsgScanProgress is edited into the status message while scanning.
	MsgScanProgress = "Scanning messages... Checked: %d, Found: %d"

	// MsgDeleting announces the deletion phase with the candidate count.
	MsgDeleting = "Deleting %d messages..."

	// MsgDeleteProgress reports individual deletion progress as done/total.
	MsgDeleteProgress = "Deleting messages... Progress: %d/%d"
)

// Purge summaries
const (
	MsgPurgeNoMatches      = "Purge completed! No messages matched the pattern."
	MsgPurgeSuccess        = "Purge completed successfully!"
	MsgPurgePartialFailure = "Purge completed with some failures!"

	MsgSummaryDeleted  = "**Deleted:** %d"
	MsgSummaryFailed   = "**Failed:** %d"
	MsgSummaryChecked  = "**Checked:** %d messages"
	MsgSummaryTotal    = "**Total checked:** %d"
	MsgSummaryPattern  = "**Pattern:** %s"
	MsgSummaryDuration = "**Duration:** %d minutes"
)

// Validation and error replies
const (
	MsgInvalidDuration   = "Duration must be between %d minute and 1 week (%d minutes)"
	MsgInvalidDurationTo = "Duration must be between %d minute and %d minutes"
	MsgInvalidPattern    = "Invalid regex pattern: %v"
	MsgMissingPermission = "You need the Manage Messages permission in that channel to purge it."
	MsgGenericError      = "An error occurred while processing your command."
	MsgPurgeUsage        = "Usage: `%sadmin purge <pattern> [#channel] [minutes]`"
	MsgInvalidChannel    = "Unknown channel reference: %s"
)

// Slash command descriptions
const (
	DescAdmin    = "Administrative commands"
	DescPurge    = "Delete recent messages matching a regex pattern"
	DescPattern  = "Regex pattern to match message content"
	DescChannel  = "Channel to purge (defaults to the current channel)"
	DescDuration = "How far back to look, in minutes (default 60, max 10080)"
)

// Config messages
const (
	MsgConfigLoadError       = "❌ Failed to load configuration: %v\n"
	MsgConfigValidationError = "❌ Configuration validation failed:\n"
	MsgConfigValidatePrefix  = "  - %v\n"
)
