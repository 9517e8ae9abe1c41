package discord

import (
	"context"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/aatumaykin/bearobot/internal/purge"
)

// channelStatus edits a regular channel message with the bot token.
type channelStatus struct {
	session   Session
	channelID string
	messageID string
}

func (s *channelStatus) Edit(ctx context.Context, content string) error {
	_, err := s.session.ChannelMessageEdit(s.channelID, s.messageID, content, discordgo.WithContext(ctx))
	return wrapError(opEditMessage, s.channelID, err)
}

// interactionStatus edits the original interaction response through the
// webhook. Interaction tokens expire after 15 minutes.
type interactionStatus struct {
	session     Session
	interaction *discordgo.Interaction
}

func (s *interactionStatus) Edit(ctx context.Context, content string) error {
	_, err := s.session.InteractionResponseEdit(s.interaction, &discordgo.WebhookEdit{Content: &content}, discordgo.WithContext(ctx))
	return wrapError(opEditMessage, s.interaction.ChannelID, err)
}

// ChannelResponder posts replies into a channel, optionally as a reply to
// the triggering message.
type ChannelResponder struct {
	session   Session
	channelID string
	reference *discordgo.MessageReference
}

// NewChannelResponder returns a responder for channelID. reference may be nil.
func NewChannelResponder(session Session, channelID string, reference *discordgo.MessageReference) *ChannelResponder {
	return &ChannelResponder{session: session, channelID: channelID, reference: reference}
}

func (r *ChannelResponder) Reply(ctx context.Context, content string) (purge.StatusMessage, error) {
	msg, err := r.session.ChannelMessageSendComplex(r.channelID, &discordgo.MessageSend{
		Content:         content,
		Reference:       r.reference,
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return nil, wrapError(opSendMessage, r.channelID, err)
	}
	return &channelStatus{session: r.session, channelID: msg.ChannelID, messageID: msg.ID}, nil
}

// InteractionResponder answers a slash command. The first reply is the
// interaction response, later replies are followup messages.
type InteractionResponder struct {
	session     Session
	interaction *discordgo.Interaction

	mu    sync.Mutex
	acked bool
}

func NewInteractionResponder(session Session, interaction *discordgo.Interaction) *InteractionResponder {
	return &InteractionResponder{session: session, interaction: interaction}
}

func (r *InteractionResponder) Reply(ctx context.Context, content string) (purge.StatusMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.acked {
		msg, err := r.session.FollowupMessageCreate(r.interaction, true, &discordgo.WebhookParams{
			Content:         content,
			AllowedMentions: &discordgo.MessageAllowedMentions{},
		}, discordgo.WithContext(ctx))
		if err != nil {
			return nil, wrapError(opFollowup, r.interaction.ChannelID, err)
		}
		return &channelStatus{session: r.session, channelID: msg.ChannelID, messageID: msg.ID}, nil
	}

	err := r.session.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:         content,
			AllowedMentions: &discordgo.MessageAllowedMentions{},
		},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return nil, wrapError(opRespond, r.interaction.ChannelID, err)
	}
	r.acked = true

	// Bot-token edits outlive the interaction token, so prefer them when the
	// response message can be resolved.
	msg, err := r.session.InteractionResponse(r.interaction, discordgo.WithContext(ctx))
	if err != nil || msg == nil {
		return &interactionStatus{session: r.session, interaction: r.interaction}, nil
	}
	return &channelStatus{session: r.session, channelID: msg.ChannelID, messageID: msg.ID}, nil
}
