package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// Guard checks MANAGE_MESSAGES on the target channel. Administrator
// implies every permission and is resolved by discordgo.
type Guard struct {
	session Session
}

func NewGuard(session Session) *Guard {
	return &Guard{session: session}
}

// CanManageMessages implements purge.PermissionChecker.
func (g *Guard) CanManageMessages(ctx context.Context, userID, channelID string) (bool, error) {
	perms, err := g.session.UserChannelPermissions(userID, channelID, discordgo.WithContext(ctx))
	if err != nil {
		return false, wrapError(opPermissions, channelID, err)
	}
	return perms&discordgo.PermissionManageMessages != 0, nil
}
