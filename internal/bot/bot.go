package bot

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/noah-isme/buildbot/internal/dto"
	"github.com/noah-isme/buildbot/internal/middleware"
	"github.com/noah-isme/buildbot/internal/observability"
)

const fallbackReplyText = "something went wrong while running that command, please try again later."

// Invocation is a slash command invocation. Handlers must not retain it.
type Invocation struct {
	Command       string
	GuildID       string
	ChannelID     string
	UserID        string
	InteractionID string
	// Options holds the string form of every top-level option by name.
	Options map[string]string
}

// CommandHandler answers an invocation with exactly one reply.
type CommandHandler interface {
	Handle(ctx context.Context, inv Invocation) dto.Reply
}

// Command binds an application command definition to its handler.
type Command struct {
	Definition *discordgo.ApplicationCommand
	Handler    CommandHandler
}

// Options tunes interaction handling.
type Options struct {
	CommandTimeout time.Duration
}

type responder interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
}

// Bot owns the gateway session and dispatches slash commands to their handlers.
type Bot struct {
	session  *discordgo.Session
	commands map[string]Command
	timeout  time.Duration
	logger   zerolog.Logger
	ready    atomic.Bool
	removers []func()
}

// New wraps session. session may be nil when only definitions are needed.
func New(session *discordgo.Session, opts Options, logger zerolog.Logger) *Bot {
	timeout := opts.CommandTimeout
	if timeout <= 0 {
		timeout = 2500 * time.Millisecond
	}

	return &Bot{
		session:  session,
		commands: make(map[string]Command),
		timeout:  timeout,
		logger:   logger.With().Str("component", "bot").Logger(),
	}
}

// Register adds commands to the dispatch table, replacing any with the same name.
func (b *Bot) Register(commands ...Command) {
	for _, cmd := range commands {
		b.commands[cmd.Definition.Name] = cmd
	}
}

// Definitions lists the registered application commands sorted by name.
func (b *Bot) Definitions() []*discordgo.ApplicationCommand {
	defs := make([]*discordgo.ApplicationCommand, 0, len(b.commands))
	for _, cmd := range b.commands {
		defs = append(defs, cmd.Definition)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// SyncCommands overwrites the application's commands. An empty guildID registers them globally.
func (b *Bot) SyncCommands(appID, guildID string) error {
	if b.session == nil {
		return fmt.Errorf("bot has no discord session")
	}

	created, err := b.session.ApplicationCommandBulkOverwrite(appID, guildID, b.Definitions())
	if err != nil {
		return fmt.Errorf("failed to sync application commands: %w", err)
	}

	b.logger.Info().Int("count", len(created)).Str("guild_id", guildID).Msg("application commands synced")
	return nil
}

// Open connects to the gateway and starts dispatching interactions.
func (b *Bot) Open() error {
	if b.session == nil {
		return fmt.Errorf("bot has no discord session")
	}

	b.removers = append(b.removers,
		b.session.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
			b.ready.Store(true)
			b.logger.Info().Str("user", r.User.Username).Int("guilds", len(r.Guilds)).Msg("gateway ready")
		}),
		b.session.AddHandler(func(_ *discordgo.Session, _ *discordgo.Disconnect) {
			b.ready.Store(false)
			b.logger.Warn().Msg("gateway disconnected")
		}),
		b.session.AddHandler(func(_ *discordgo.Session, _ *discordgo.Resumed) {
			b.ready.Store(true)
		}),
		b.session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			if err := b.handleInteraction(context.Background(), s, i); err != nil {
				b.logger.Error().Err(err).Str("interaction_id", i.ID).Msg("failed to respond to interaction")
			}
		}),
	)

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open gateway: %w", err)
	}

	return nil
}

// Close disconnects from the gateway.
func (b *Bot) Close() error {
	for _, remove := range b.removers {
		remove()
	}
	b.removers = nil
	b.ready.Store(false)

	if b.session == nil {
		return nil
	}
	return b.session.Close()
}

// Ready reports whether the gateway session is connected.
func (b *Bot) Ready() bool {
	return b.ready.Load()
}

func (b *Bot) handleInteraction(ctx context.Context, r responder, i *discordgo.InteractionCreate) error {
	if i.Type != discordgo.InteractionApplicationCommand {
		return nil
	}

	inv := NewInvocation(i)
	cmd, ok := b.commands[inv.Command]
	if !ok {
		b.logger.Warn().Str("command", inv.Command).Msg("interaction for unknown command")
		return nil
	}

	start := time.Now()
	ctx = middleware.ContextWithCorrelation(ctx, inv.InteractionID)
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	reply := b.run(ctx, cmd, inv)

	observability.Commands().WithLabelValues(inv.Command, string(reply.Outcome)).Inc()
	defer func() {
		observability.CommandLatency().WithLabelValues(inv.Command).Observe(time.Since(start).Seconds())
	}()

	b.logger.Debug().
		Str("correlation_id", middleware.CorrelationIDFromContext(ctx)).
		Str("command", inv.Command).
		Str("outcome", string(reply.Outcome)).
		Msg("command handled")

	// The reply is sent even if the handler used up the timeout.
	return r.InteractionRespond(i.Interaction, ResponseFromReply(reply))
}

func (b *Bot) run(ctx context.Context, cmd Command, inv Invocation) (reply dto.Reply) {
	defer func() {
		if rec := recover(); rec != nil {
			b.logger.Error().
				Interface("panic", rec).
				Str("correlation_id", middleware.CorrelationIDFromContext(ctx)).
				Str("command", inv.Command).
				Msg("command handler panicked")
			reply = dto.TextReply(fallbackReplyText, dto.OutcomeError)
		}
	}()

	return cmd.Handler.Handle(ctx, inv)
}

// NewInvocation extracts the command name, caller and options from an application command interaction.
func NewInvocation(i *discordgo.InteractionCreate) Invocation {
	data := i.ApplicationCommandData()

	inv := Invocation{
		Command:       data.Name,
		GuildID:       i.GuildID,
		ChannelID:     i.ChannelID,
		InteractionID: i.ID,
		Options:       make(map[string]string, len(data.Options)),
	}

	switch {
	case i.Member != nil && i.Member.User != nil:
		inv.UserID = i.Member.User.ID
	case i.User != nil:
		inv.UserID = i.User.ID
	}

	for _, opt := range data.Options {
		if opt.Type == discordgo.ApplicationCommandOptionString {
			inv.Options[opt.Name] = opt.StringValue()
			continue
		}
		inv.Options[opt.Name] = fmt.Sprint(opt.Value)
	}

	return inv
}

// ResponseFromReply converts a reply into an immediate channel message response. Mentions never ping.
func ResponseFromReply(reply dto.Reply) *discordgo.InteractionResponse {
	data := &discordgo.InteractionResponseData{
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	}

	if reply.Embed != nil {
		data.Embeds = []*discordgo.MessageEmbed{{
			Title:       reply.Embed.Title,
			Description: reply.Embed.Description,
		}}
	} else {
		data.Content = reply.Content
	}

	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	}
}
