// Package commands turns Discord invocations of admin purge into purge
// requests and reports failures back to the invoker.
package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/aatumaykin/bearobot/internal/channels"
	"github.com/aatumaykin/bearobot/internal/constants"
	"github.com/aatumaykin/bearobot/internal/logger"
	"github.com/aatumaykin/bearobot/internal/messages"
	"github.com/aatumaykin/bearobot/internal/purge"
)

// PurgeServiceInterface defines the purge operations needed by Handler
type PurgeServiceInterface interface {
	Run(ctx context.Context, req purge.Request, responder purge.Responder) (*purge.Result, error)
}

// Invocation describes who issued a command and where.
type Invocation struct {
	GuildID   string
	ChannelID string
	InvokerID string
	Responder purge.Responder
}

// PurgeArgs are the user-supplied arguments of admin purge.
type PurgeArgs struct {
	Pattern string
	// ChannelID is empty when the invocation channel is targeted.
	ChannelID string
	// DurationMinutes is nil when omitted.
	DurationMinutes *int
}

// Handler handles purge commands.
type Handler struct {
	service         PurgeServiceInterface
	prefix          string
	defaultDuration int
	logger          *logger.Logger
}

// NewHandler creates a new command handler.
func NewHandler(service PurgeServiceInterface, prefix string, defaultDuration int, log *logger.Logger) *Handler {
	if defaultDuration <= 0 {
		defaultDuration = constants.DefaultPurgeDurationMinutes
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Handler{
		service:         service,
		prefix:          prefix,
		defaultDuration: defaultDuration,
		logger:          log,
	}
}

// Prefix returns the text prefix commands are recognised by.
func (h *Handler) Prefix() string {
	return h.prefix
}

// HandlePurge runs a purge for inv. Validation failures are answered with
// their reason, anything else with a generic error while the detail is logged.
func (h *Handler) HandlePurge(ctx context.Context, inv Invocation, args PurgeArgs) error {
	req := h.buildRequest(inv, args)

	h.logger.InfoCtx(ctx, "Purge command received",
		logger.Field{Key: "guild_id", Value: req.GuildID},
		logger.Field{Key: "channel_id", Value: req.ChannelID},
		logger.Field{Key: "invoker_id", Value: req.InvokerID},
		logger.Field{Key: "pattern", Value: req.Pattern},
		logger.Field{Key: "duration_minutes", Value: req.DurationMinutes})

	_, err := h.service.Run(ctx, req, inv.Responder)
	if err == nil {
		return nil
	}

	var validationErr *purge.ValidationError
	if errors.As(err, &validationErr) {
		h.logger.InfoCtx(ctx, "Purge rejected",
			logger.Field{Key: "channel_id", Value: req.ChannelID},
			logger.Field{Key: "invoker_id", Value: req.InvokerID},
			logger.Field{Key: "reason", Value: validationErr.Reason})
		return h.reply(ctx, inv, validationErr.Reason)
	}

	fields := append([]logger.Field{
		{Key: "channel_id", Value: req.ChannelID},
		{Key: "invoker_id", Value: req.InvokerID},
	}, channels.LogFieldsOf(err)...)
	h.logger.ErrorCtx(ctx, "Purge failed", err, fields...)

	if replyErr := h.reply(ctx, inv, constants.MsgGenericError); replyErr != nil {
		return fmt.Errorf("purge failed and error reply failed: %w (reply error: %v)", err, replyErr)
	}
	return fmt.Errorf("purge failed: %w", err)
}

// HandleMessage recognises a prefix purge command in content. It reports
// false when content is not addressed to the purge command.
func (h *Handler) HandleMessage(ctx context.Context, inv Invocation, content string) (bool, error) {
	rest, ok := ParsePurgeCommand(h.prefix, content)
	if !ok {
		return false, nil
	}

	args, err := ParsePurgeArgs(rest)
	if err != nil {
		h.logger.DebugCtx(ctx, "Invalid purge arguments",
			logger.Field{Key: "channel_id", Value: inv.ChannelID},
			logger.Field{Key: "error", Value: err.Error()})

		reply := messages.FormatUsage(h.prefix)
		var refErr *ChannelRefError
		if errors.As(err, &refErr) {
			reply = messages.FormatInvalidChannel(refErr.Ref)
		}
		return true, h.reply(ctx, inv, reply)
	}

	return true, h.HandlePurge(ctx, inv, args)
}

func (h *Handler) buildRequest(inv Invocation, args PurgeArgs) purge.Request {
	req := purge.Request{
		GuildID:         inv.GuildID,
		ChannelID:       args.ChannelID,
		InvokerID:       inv.InvokerID,
		Pattern:         args.Pattern,
		DurationMinutes: h.defaultDuration,
	}
	if req.ChannelID == "" {
		req.ChannelID = inv.ChannelID
	}
	if args.DurationMinutes != nil {
		req.DurationMinutes = *args.DurationMinutes
	}
	return req
}

func (h *Handler) reply(ctx context.Context, inv Invocation, content string) error {
	if _, err := inv.Responder.Reply(ctx, content); err != nil {
		h.logger.ErrorCtx(ctx, "Failed to send command reply", err,
			append([]logger.Field{{Key: "channel_id", Value: inv.ChannelID}}, channels.LogFieldsOf(err)...)...)
		return fmt.Errorf("failed to send command reply: %w", err)
	}
	return nil
}
