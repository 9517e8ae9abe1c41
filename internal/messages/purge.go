// Package messages renders the texts shown to users in Discord.
package messages

import (
	"fmt"
	"strings"

	"github.com/aatumaykin/bearobot/internal/constants"
)

// FormatScanProgress renders the interim status shown while scanning history.
func FormatScanProgress(checked, matched int) string {
	return fmt.Sprintf(constants.MsgScanProgress, checked, matched)
}

// FormatDeleting announces how many candidates are about to be deleted.
func FormatDeleting(total int) string {
	return fmt.Sprintf(constants.MsgDeleting, total)
}

// FormatDeleteProgress renders done/total during individual deletion.
func FormatDeleteProgress(done, total int) string {
	return fmt.Sprintf(constants.MsgDeleteProgress, done, total)
}

// FormatNoMatches is the summary for a scan that selected nothing.
func FormatNoMatches(checked int, pattern string) string {
	builder := &strings.Builder{}
	builder.WriteString(constants.MsgPurgeNoMatches)
	writeLine(builder, constants.MsgSummaryChecked, checked)
	writeLine(builder, constants.MsgSummaryPattern, codeSpan(pattern))
	return builder.String()
}

// FormatSummary renders the final report of a purge that deleted something.
// The failure line and headline appear only when failed > 0.
func FormatSummary(deleted, failed, checked int, pattern string, durationMinutes int) string {
	builder := &strings.Builder{}

	if failed > 0 {
		builder.WriteString(constants.MsgPurgePartialFailure)
		writeLine(builder, constants.MsgSummaryDeleted, deleted)
		writeLine(builder, constants.MsgSummaryFailed, failed)
	} else {
		builder.WriteString(constants.MsgPurgeSuccess)
		writeLine(builder, constants.MsgSummaryDeleted, deleted)
	}

	writeLine(builder, constants.MsgSummaryTotal, checked)
	writeLine(builder, constants.MsgSummaryPattern, codeSpan(pattern))
	writeLine(builder, constants.MsgSummaryDuration, durationMinutes)

	return builder.String()
}

// FormatInvalidDuration is the reply for an out-of-range window.
func FormatInvalidDuration(maxMinutes int) string {
	if maxMinutes == constants.MaxPurgeDurationMinutes {
		return fmt.Sprintf(constants.MsgInvalidDuration, constants.MinPurgeDurationMinutes, maxMinutes)
	}
	return fmt.Sprintf(constants.MsgInvalidDurationTo, constants.MinPurgeDurationMinutes, maxMinutes)
}

// FormatInvalidPattern is the reply for a pattern that does not compile.
func FormatInvalidPattern(err error) string {
	return fmt.Sprintf(constants.MsgInvalidPattern, err)
}

// FormatUsage shows prefix-command syntax for the configured prefix.
func FormatUsage(prefix string) string {
	return fmt.Sprintf(constants.MsgPurgeUsage, prefix)
}

// FormatInvalidChannel is the reply for a channel argument that is neither
// a mention nor an id.
func FormatInvalidChannel(ref string) string {
	return fmt.Sprintf(constants.MsgInvalidChannel, ref)
}

// FormatConfigValidationErrors renders config errors for the CLI.
func FormatConfigValidationErrors(errs []error) string {
	builder := &strings.Builder{}
	builder.WriteString(constants.MsgConfigValidationError)
	for _, err := range errs {
		fmt.Fprintf(builder, constants.MsgConfigValidatePrefix, err)
	}
	return builder.String()
}

// codeSpan wraps s in an inline code span. The fence is one backtick longer
// than the longest backtick run in s, padded with spaces when s starts or
// ends with a backtick.
func codeSpan(s string) string {
	longest, run := 0, 0
	for _, r := range s {
		if r == '`' {
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}
	if longest == 0 {
		return "`" + s + "`"
	}

	fence := strings.Repeat("`", longest+1)
	if strings.HasPrefix(s, "`") || strings.HasSuffix(s, "`") {
		s = " " + s + " "
	}
	return fence + s + fence
}

func writeLine(b *strings.Builder, format string, arg any) {
	b.WriteByte('\n')
	fmt.Fprintf(b, format, arg)
}
