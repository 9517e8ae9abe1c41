package discord

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/aatumaykin/bearobot/internal/channels"
	"github.com/aatumaykin/bearobot/internal/commands"
	"github.com/aatumaykin/bearobot/internal/config"
	"github.com/aatumaykin/bearobot/internal/constants"
	"github.com/aatumaykin/bearobot/internal/logger"
	"github.com/aatumaykin/bearobot/internal/retry"
	"github.com/aatumaykin/bearobot/internal/version"
)

// Intents requested on the gateway. Message content is privileged and must
// be enabled for the application to read prefix commands.
const Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentMessageContent

// CommandHandler receives purge invocations.
type CommandHandler interface {
	HandlePurge(ctx context.Context, inv commands.Invocation, args commands.PurgeArgs) error
	HandleMessage(ctx context.Context, inv commands.Invocation, content string) (bool, error)
}

// ConnectorConfig configures a Connector.
type ConnectorConfig struct {
	Discord            config.DiscordConfig
	MaxDurationMinutes int
	LogLevel           string
}

// Connector represents the Discord gateway connection
type Connector struct {
	cfg     ConnectorConfig
	logger  *logger.Logger
	session *discordgo.Session
	api     Session
	handler CommandHandler

	ctx      context.Context
	cancel   context.CancelFunc
	mu       sync.Mutex
	stopping bool
	inflight sync.WaitGroup

	registerOnce   sync.Once
	registerRetry  retry.Config
	removeHandlers []func()
}

// New creates a connector. The gateway is not opened until Start.
func New(cfg ConnectorConfig, log *logger.Logger) (*Connector, error) {
	if cfg.Discord.Token == "" {
		return nil, fmt.Errorf("discord token is required")
	}
	if cfg.MaxDurationMinutes <= 0 {
		cfg.MaxDurationMinutes = constants.MaxPurgeDurationMinutes
	}

	session, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	session.Identify.Intents = Intents
	session.UserAgent = version.UserAgent()
	session.LogLevel = logger.DiscordLogLevel(cfg.LogLevel)

	return &Connector{
		cfg:           cfg,
		logger:        log,
		session:       session,
		api:           session,
		registerRetry: retry.Config{MaxAttempts: constants.RegisterCommandsMaxAttempts},
	}, nil
}

// API exposes the REST surface used by the purge adapters.
func (c *Connector) API() Session {
	return c.api
}

// Health reports an error until the gateway has received READY, and again
// while it is reconnecting.
func (c *Connector) Health() error {
	c.session.RLock()
	ready := c.session.DataReady
	c.session.RUnlock()
	if !ready {
		return errors.New("discord gateway not ready")
	}
	return nil
}

// SetHandler sets the command handler. Must be called before Start.
func (c *Connector) SetHandler(h CommandHandler) {
	c.handler = h
}

// Start opens the gateway and begins dispatching commands.
func (c *Connector) Start(ctx context.Context) error {
	if c.handler == nil {
		return fmt.Errorf("command handler is not set")
	}

	c.logger.Info("starting discord connector",
		logger.Field{Key: "guild_id", Value: c.cfg.Discord.GuildID},
		logger.Field{Key: "command_prefix", Value: c.cfg.Discord.CommandPrefix})

	c.ctx, c.cancel = context.WithCancel(ctx)

	c.removeHandlers = append(c.removeHandlers,
		c.session.AddHandler(c.onReady),
		c.session.AddHandler(c.onInteractionCreate),
		c.session.AddHandler(c.onMessageCreate),
	)

	if err := c.session.Open(); err != nil {
		c.cancel()
		return fmt.Errorf("failed to open discord gateway: %w", err)
	}

	return nil
}

// Stop cancels running purges, waits for them up to ShutdownTimeout and
// closes the gateway.
func (c *Connector) Stop() error {
	c.logger.Info("stopping discord connector")

	c.beginStop()

	done := make(chan struct{})
	go func() {
		c.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(constants.ShutdownTimeout):
		c.logger.Warn("timed out waiting for running purges")
	}

	for _, remove := range c.removeHandlers {
		remove()
	}
	c.removeHandlers = nil

	if err := c.session.Close(); err != nil {
		return fmt.Errorf("failed to close discord gateway: %w", err)
	}

	c.logger.Info("discord connector stopped gracefully")
	return nil
}

// beginStop rejects new commands and cancels running ones. After it returns
// the in-flight counter only decreases.
func (c *Connector) beginStop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopping = true
	if c.cancel != nil {
		c.cancel()
	}
}

func (c *Connector) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	c.logger.Info("discord gateway ready",
		logger.Field{Key: "user_id", Value: r.User.ID},
		logger.Field{Key: "username", Value: r.User.Username},
		logger.Field{Key: "guilds", Value: len(r.Guilds)})

	if !c.cfg.Discord.ShouldRegisterCommands() {
		return
	}
	c.registerOnce.Do(func() {
		if err := c.registerCommands(r.User.ID); err != nil {
			c.logger.ErrorCtx(c.ctx, "failed to register slash commands", err, channels.LogFieldsOf(err)...)
		}
	})
}

// registerCommands overwrites the application's commands with /admin,
// retrying transient failures. A configured guild gets them immediately,
// global commands may take up to an hour to propagate.
func (c *Connector) registerCommands(appID string) error {
	cmds := []*discordgo.ApplicationCommand{purgeCommand(c.cfg.MaxDurationMinutes)}

	var created []*discordgo.ApplicationCommand
	err := retry.Do(c.ctx, c.registerRetry, c.logger, opRegisterCommands, func() error {
		var err error
		created, err = c.api.ApplicationCommandBulkOverwrite(appID, c.cfg.Discord.GuildID, cmds, discordgo.WithContext(c.ctx))
		return wrapError(opRegisterCommands, "", err)
	})
	if err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	c.logger.Info("slash commands registered",
		logger.Field{Key: "count", Value: len(created)},
		logger.Field{Key: "guild_id", Value: c.cfg.Discord.GuildID})
	return nil
}

func (c *Connector) onInteractionCreate(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	options, ok := purgeSubcommand(i.ApplicationCommandData())
	if !ok {
		return
	}

	// An empty invoker would be treated as a system run.
	invokerID := interactionUserID(i.Interaction)
	if invokerID == "" || i.GuildID == "" {
		return
	}

	inv := commands.Invocation{
		GuildID:   i.GuildID,
		ChannelID: i.ChannelID,
		InvokerID: invokerID,
		Responder: NewInteractionResponder(c.api, i.Interaction),
	}
	args := purgeArgsFromOptions(options)

	c.dispatch(inv, func(ctx context.Context) error {
		return c.handler.HandlePurge(ctx, inv, args)
	})
}

func (c *Connector) onMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}

	inv := commands.Invocation{
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		InvokerID: m.Author.ID,
		Responder: NewChannelResponder(c.api, m.ChannelID, m.Reference()),
	}

	c.dispatch(inv, func(ctx context.Context) error {
		_, err := c.handler.HandleMessage(ctx, inv, m.Content)
		return err
	})
}

// dispatch runs fn on the event goroutine discordgo started for it, tracking
// it so Stop can wait.
func (c *Connector) dispatch(inv commands.Invocation, fn func(ctx context.Context) error) {
	if !c.track() {
		return
	}
	defer c.inflight.Done()

	if err := fn(c.ctx); err != nil && !errors.Is(err, context.Canceled) {
		c.logger.DebugCtx(c.ctx, "command handling finished with error",
			logger.Field{Key: "channel_id", Value: inv.ChannelID},
			logger.Field{Key: "invoker_id", Value: inv.InvokerID},
			logger.Field{Key: "error", Value: err.Error()})
	}
}

// track adds a command to the in-flight group unless the connector is
// stopping. The check and Add share c.mu with beginStop, so Add never races
// with Stop's Wait.
func (c *Connector) track() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopping || c.ctx == nil || c.ctx.Err() != nil {
		return false
	}
	c.inflight.Add(1)
	return true
}

func interactionUserID(i *discordgo.Interaction) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
