package discord

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/aatumaykin/bearobot/internal/channels"
)

// Operation names used in error details and logs.
const (
	opListMessages     = "list_messages"
	opBulkDelete       = "bulk_delete"
	opDeleteMessage    = "delete_message"
	opPermissions      = "channel_permissions"
	opSendMessage      = "send_message"
	opEditMessage      = "edit_message"
	opRespond          = "interaction_respond"
	opFollowup         = "interaction_followup"
	opRegisterCommands = "register_commands"
)

// wrapError converts a discordgo REST failure into channels.DiscordErrorDetails.
// Non-REST errors (network, context) are wrapped with the operation name only.
func wrapError(op, channelID string, err error) error {
	if err == nil {
		return nil
	}

	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return fmt.Errorf("discord %s: %w", op, err)
	}

	details := &channels.DiscordErrorDetails{
		Operation: op,
		ChannelID: channelID,
		Timestamp: time.Now(),
		Err:       err,
	}
	if restErr.Response != nil {
		details.StatusCode = restErr.Response.StatusCode
		details.RetryAfterDur = parseRetryAfter(restErr.Response.Header.Get("Retry-After"))
	}
	if restErr.Message != nil {
		details.Code = restErr.Message.Code
		details.Description = restErr.Message.Message
	} else {
		details.Description = strings.TrimSpace(string(restErr.ResponseBody))
	}
	return details
}

// parseRetryAfter reads the Retry-After header, given in (fractional) seconds.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.ParseFloat(value, 64)
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}
