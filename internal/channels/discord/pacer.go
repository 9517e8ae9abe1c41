package discord

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"

	"github.com/aatumaykin/bearobot/internal/purge"
)

// Pacer deletes messages and sleeps a fixed delay between calls.
type Pacer struct {
	session     Session
	bulkDelay   time.Duration
	singleDelay time.Duration
}

func NewPacer(session Session, bulkDelay, singleDelay time.Duration) *Pacer {
	return &Pacer{session: session, bulkDelay: bulkDelay, singleDelay: singleDelay}
}

// DeleteBatch implements purge.Strategy.
func (p *Pacer) DeleteBatch(ctx context.Context, channelID string, ids []snowflake.ID) error {
	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = id.String()
	}
	err := p.session.ChannelMessagesBulkDelete(channelID, strIDs, discordgo.WithContext(ctx))
	return wrapError(opBulkDelete, channelID, err)
}

// DeleteOne implements purge.Strategy.
func (p *Pacer) DeleteOne(ctx context.Context, channelID string, id snowflake.ID) error {
	err := p.session.ChannelMessageDelete(channelID, id.String(), discordgo.WithContext(ctx))
	return wrapError(opDeleteMessage, channelID, err)
}

// Throttle waits the delay configured for kind, or until ctx is done.
func (p *Pacer) Throttle(ctx context.Context, kind purge.ThrottleKind) error {
	delay := p.singleDelay
	if kind == purge.ThrottleBulk {
		delay = p.bulkDelay
	}
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
