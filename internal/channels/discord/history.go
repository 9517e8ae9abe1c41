package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"

	"github.com/aatumaykin/bearobot/internal/purge"
)

// History pages channel messages through the REST API. A failed page is
// returned as is; the scan treats it as fatal.
type History struct {
	session Session
}

func NewHistory(session Session) *History {
	return &History{session: session}
}

// FetchBefore implements purge.HistoryFetcher.
func (h *History) FetchBefore(ctx context.Context, channelID string, before snowflake.ID, limit int) ([]purge.Message, error) {
	beforeID := ""
	if before != 0 {
		beforeID = before.String()
	}

	page, err := h.session.ChannelMessages(channelID, limit, beforeID, "", "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, wrapError(opListMessages, channelID, err)
	}

	msgs := make([]purge.Message, 0, len(page))
	for _, m := range page {
		id, err := snowflake.Parse(m.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid message id %q: %w", m.ID, err)
		}
		msgs = append(msgs, purge.Message{
			ID:        id,
			Content:   m.Content,
			CreatedAt: purge.TimestampOf(id),
		})
	}
	return msgs, nil
}
