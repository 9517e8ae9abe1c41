package discord

import (
	"github.com/bwmarrin/discordgo"

	"github.com/aatumaykin/bearobot/internal/commands"
	"github.com/aatumaykin/bearobot/internal/constants"
)

// purgeCommand builds /admin purge. maxMinutes bounds duration_minutes.
func purgeCommand(maxMinutes int) *discordgo.ApplicationCommand {
	perms := int64(discordgo.PermissionManageMessages)
	dmAllowed := false
	minMinutes := float64(constants.MinPurgeDurationMinutes)

	return &discordgo.ApplicationCommand{
		Name:                     constants.CommandAdmin,
		Description:              constants.DescAdmin,
		DefaultMemberPermissions: &perms,
		DMPermission:             &dmAllowed,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        constants.CommandPurge,
				Description: constants.DescPurge,
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        constants.OptionPattern,
						Description: constants.DescPattern,
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionChannel,
						Name:        constants.OptionChannel,
						Description: constants.DescChannel,
						ChannelTypes: []discordgo.ChannelType{
							discordgo.ChannelTypeGuildText,
							discordgo.ChannelTypeGuildNews,
							discordgo.ChannelTypeGuildPublicThread,
							discordgo.ChannelTypeGuildPrivateThread,
							discordgo.ChannelTypeGuildVoice,
						},
					},
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        constants.OptionDuration,
						Description: constants.DescDuration,
						MinValue:    &minMinutes,
						MaxValue:    float64(maxMinutes),
					},
				},
			},
		},
	}
}

// purgeArgsFromOptions reads the purge subcommand options.
func purgeArgsFromOptions(options []*discordgo.ApplicationCommandInteractionDataOption) commands.PurgeArgs {
	var args commands.PurgeArgs
	for _, opt := range options {
		switch opt.Name {
		case constants.OptionPattern:
			args.Pattern = opt.StringValue()
		case constants.OptionChannel:
			if id, ok := opt.Value.(string); ok {
				args.ChannelID = id
			}
		case constants.OptionDuration:
			minutes := int(opt.IntValue())
			args.DurationMinutes = &minutes
		}
	}
	return args
}

// purgeSubcommand returns the options of /admin purge, or false for any
// other command.
func purgeSubcommand(data discordgo.ApplicationCommandInteractionData) ([]*discordgo.ApplicationCommandInteractionDataOption, bool) {
	if data.Name != constants.CommandAdmin || len(data.Options) == 0 {
		return nil, false
	}
	sub := data.Options[0]
	if sub.Type != discordgo.ApplicationCommandOptionSubCommand || sub.Name != constants.CommandPurge {
		return nil, false
	}
	return sub.Options, true
}
