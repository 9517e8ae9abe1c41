package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/disgoorg/snowflake/v2"

	"github.com/aatumaykin/bearobot/internal/constants"
)

var (
	// ErrMissingPattern is returned when no pattern follows the command.
	ErrMissingPattern = errors.New("missing pattern")
	// ErrUnterminatedQuote is returned for a quoted pattern without a closing quote.
	ErrUnterminatedQuote = errors.New("unterminated quoted pattern")
	// ErrUnexpectedArgument is returned for trailing or malformed arguments.
	ErrUnexpectedArgument = errors.New("unexpected argument")
)

// ChannelRefError reports a channel argument that cannot be resolved.
type ChannelRefError struct {
	Ref string
}

func (e *ChannelRefError) Error() string {
	return fmt.Sprintf("unknown channel reference %q", e.Ref)
}

// ParsePurgeCommand strips "<prefix>admin purge" from content and returns
// the remaining argument text.
func ParsePurgeCommand(prefix, content string) (string, bool) {
	if prefix == "" {
		return "", false
	}
	rest, ok := strings.CutPrefix(strings.TrimSpace(content), prefix)
	if !ok {
		return "", false
	}

	group, rest := nextWord(rest)
	if !strings.EqualFold(group, constants.CommandAdmin) {
		return "", false
	}
	sub, rest := nextWord(rest)
	if !strings.EqualFold(sub, constants.CommandPurge) {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

// ParsePurgeArgs parses `<pattern> [#channel] [minutes]`. The pattern may be
// wrapped in double quotes or backticks to include spaces. The channel is a
// mention (<#id>) or a raw id; minutes is a decimal integer. Either optional
// argument may be omitted independently.
func ParsePurgeArgs(text string) (PurgeArgs, error) {
	var args PurgeArgs

	pattern, rest, err := parsePattern(strings.TrimSpace(text))
	if err != nil {
		return args, err
	}
	args.Pattern = pattern

	for _, token := range strings.Fields(rest) {
		switch {
		case args.ChannelID == "" && args.DurationMinutes == nil && isChannelToken(token):
			id, err := parseChannelRef(token)
			if err != nil {
				return args, err
			}
			args.ChannelID = id
		case args.DurationMinutes == nil && isInteger(token):
			minutes, err := strconv.Atoi(token)
			if err != nil {
				return args, fmt.Errorf("%w: %s", ErrUnexpectedArgument, token)
			}
			args.DurationMinutes = &minutes
		default:
			return args, fmt.Errorf("%w: %s", ErrUnexpectedArgument, token)
		}
	}

	return args, nil
}

func parsePattern(text string) (string, string, error) {
	if text == "" {
		return "", "", ErrMissingPattern
	}

	if quote := text[0]; quote == '"' || quote == '`' {
		end := strings.IndexByte(text[1:], quote)
		if end < 0 {
			return "", "", ErrUnterminatedQuote
		}
		return text[1 : end+1], text[end+2:], nil
	}

	pattern, rest := nextWord(text)
	return pattern, rest, nil
}

// isChannelToken reports whether token looks like a channel reference rather
// than a duration. Raw ids are told apart from minutes by their length.
func isChannelToken(token string) bool {
	if strings.HasPrefix(token, "<#") || strings.HasPrefix(token, "#") {
		return true
	}
	return len(token) >= 17 && isInteger(token) && !strings.HasPrefix(token, "-")
}

func parseChannelRef(token string) (string, error) {
	raw := token
	if strings.HasPrefix(token, "<#") {
		inner, ok := strings.CutSuffix(token[2:], ">")
		if !ok {
			return "", &ChannelRefError{Ref: token}
		}
		raw = inner
	}

	id, err := snowflake.Parse(raw)
	if err != nil || id == 0 {
		return "", &ChannelRefError{Ref: token}
	}
	return id.String(), nil
}

func isInteger(token string) bool {
	digits := strings.TrimPrefix(token, "-")
	if digits == "" {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func nextWord(text string) (string, string) {
	text = strings.TrimLeftFunc(text, unicode.IsSpace)
	if i := strings.IndexFunc(text, unicode.IsSpace); i >= 0 {
		return text[:i], text[i:]
	}
	return text, ""
}
