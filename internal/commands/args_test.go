package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePurgeCommand(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		content  string
		wantRest string
		wantOK   bool
	}{
		{name: "plain", prefix: ")", content: ")admin purge spam 30", wantRest: "spam 30", wantOK: true},
		{name: "case insensitive", prefix: ")", content: ")Admin PURGE spam", wantRest: "spam", wantOK: true},
		{name: "extra spaces", prefix: ")", content: "  )admin   purge   spam  ", wantRest: "spam", wantOK: true},
		{name: "no args", prefix: ")", content: ")admin purge", wantRest: "", wantOK: true},
		{name: "wrong prefix", prefix: ")", content: "!admin purge spam"},
		{name: "wrong group", prefix: ")", content: ")admins purge spam"},
		{name: "wrong subcommand", prefix: ")", content: ")admin purger spam"},
		{name: "multi-char prefix", prefix: "bb!", content: "bb!admin purge x", wantRest: "x", wantOK: true},
		{name: "empty prefix disabled", prefix: "", content: "admin purge x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rest, ok := ParsePurgeCommand(tt.prefix, tt.content)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantRest, rest)
		})
	}
}

func TestParsePurgeArgs(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantPattern string
		wantChannel string
		wantMinutes *int
	}{
		{name: "pattern only", input: "spam", wantPattern: "spam"},
		{name: "pattern and minutes", input: "spam 30", wantPattern: "spam", wantMinutes: intPtr(30)},
		{name: "mention", input: "spam <#123456789012345678>", wantPattern: "spam", wantChannel: "123456789012345678"},
		{name: "raw id and minutes", input: `^buy\s 123456789012345678 1440`, wantPattern: `^buy\s`, wantChannel: "123456789012345678", wantMinutes: intPtr(1440)},
		{name: "double quoted", input: `"free nitro" 5`, wantPattern: "free nitro", wantMinutes: intPtr(5)},
		{name: "backticked", input: "`a|b c`", wantPattern: "a|b c"},
		{name: "negative minutes kept for validation", input: "spam -5", wantPattern: "spam", wantMinutes: intPtr(-5)},
		{name: "empty quoted pattern", input: `""`, wantPattern: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, err := ParsePurgeArgs(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPattern, args.Pattern)
			assert.Equal(t, tt.wantChannel, args.ChannelID)
			assert.Equal(t, tt.wantMinutes, args.DurationMinutes)
		})
	}
}

func TestParsePurgeArgs_Errors(t *testing.T) {
	_, err := ParsePurgeArgs("")
	assert.ErrorIs(t, err, ErrMissingPattern)

	_, err = ParsePurgeArgs(`"unterminated 30`)
	assert.ErrorIs(t, err, ErrUnterminatedQuote)

	_, err = ParsePurgeArgs("spam 30 40")
	assert.ErrorIs(t, err, ErrUnexpectedArgument)

	_, err = ParsePurgeArgs("spam 30 <#123456789012345678>")
	assert.ErrorIs(t, err, ErrUnexpectedArgument, "channel must precede minutes")

	_, err = ParsePurgeArgs("spam soon")
	assert.ErrorIs(t, err, ErrUnexpectedArgument)

	_, err = ParsePurgeArgs("spam 99999999999999999999")
	var refErr *ChannelRefError
	assert.ErrorAs(t, err, &refErr, "ids that overflow uint64 are not channels")

	_, err = ParsePurgeArgs("spam <#abc>")
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, "<#abc>", refErr.Ref)
}
