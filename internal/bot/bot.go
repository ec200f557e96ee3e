package bot

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
)

const commandTimeout = 45 * time.Second

// HandlerFunc answers a slash command or a component interaction. Errors
// are logged and shown to the caller as a generic error embed.
type HandlerFunc func(ctx context.Context, req *Request) (*Response, error)

type Command struct {
	Definition *discordgo.ApplicationCommand
	Handle     HandlerFunc
}

// Module is a set of commands and component handlers served by one bot.
type Module interface {
	Commands() []Command
	Components() map[string]HandlerFunc
}

type Bot struct {
	session    *discordgo.Session
	guildID    string
	log        *slog.Logger
	commands   map[string]Command
	order      []*discordgo.ApplicationCommand
	components map[string]HandlerFunc
}

func New(token, guildID string, log *slog.Logger, modules ...Module) (*Bot, error) {
	const op = "bot.New"

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("%s: error creating Discord session: %w", op, err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds

	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	b := &Bot{
		session:    session,
		guildID:    guildID,
		log:        log,
		commands:   make(map[string]Command),
		components: make(map[string]HandlerFunc),
	}
	for _, m := range modules {
		b.Register(m)
	}

	return b, nil
}

func (b *Bot) Register(m Module) {
	for _, cmd := range m.Commands() {
		b.commands[cmd.Definition.Name] = cmd
		b.order = append(b.order, cmd.Definition)
	}
	for prefix, h := range m.Components() {
		b.components[prefix] = h
	}
}

func (b *Bot) Start() error {
	const op = "bot.Start"

	b.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		b.log.Info("bot is online",
			slog.String("user", s.State.User.Username),
			slog.String("bot_id", s.State.User.ID))
	})
	b.session.AddHandler(b.handleInteraction)

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("%s: error opening Discord connection: %w", op, err)
	}

	if err := b.registerCommands(); err != nil {
		return fmt.Errorf("%s: error registering commands: %w", op, err)
	}

	return nil
}

func (b *Bot) Stop() error {
	return b.session.Close()
}

// Ready reports whether the gateway connection is up.
func (b *Bot) Ready() bool {
	return b.session.DataReady
}

// registerCommands registers to the configured guild, which is instant,
// or globally when no guild is set.
func (b *Bot) registerCommands() error {
	for _, cmd := range b.order {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.guildID, cmd)
		if err != nil {
			return fmt.Errorf("error creating command %s: %w", cmd.Name, err)
		}
		b.log.Debug("registered command",
			slog.String("command", cmd.Name),
			slog.String("guild_id", b.guildID))
	}

	return nil
}

// SendEmbed posts an embed to a channel outside of any interaction.
func (b *Bot) SendEmbed(channelID string, embed *discordgo.MessageEmbed) error {
	if _, err := b.session.ChannelMessageSendEmbed(channelID, embed); err != nil {
		return fmt.Errorf("bot.SendEmbed: %w", err)
	}
	return nil
}

func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		name := i.ApplicationCommandData().Name
		if cmd, ok := b.commands[name]; ok {
			b.dispatch(s, i, name, cmd.Handle)
		}
	case discordgo.InteractionMessageComponent:
		customID := i.MessageComponentData().CustomID
		for prefix, h := range b.components {
			if strings.HasPrefix(customID, prefix) {
				b.dispatch(s, i, prefix, h)
				return
			}
		}
	}
}

func (b *Bot) dispatch(s *discordgo.Session, i *discordgo.InteractionCreate, name string, h HandlerFunc) {
	const op = "bot.dispatch"

	req := newRequest(i)
	req.ID = uuid.NewString()
	req.Log = b.log.With(
		slog.String("request_id", req.ID),
		slog.String("command", name),
		slog.String("user_id", req.Caller.ID))

	defer func() {
		if r := recover(); r != nil {
			req.Log.Error("handler panicked",
				slog.String("operation", op),
				slog.Any("panic", r))
		}
	}()

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		req.Log.Error("failed to acknowledge interaction",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	resp, err := h(ctx, req)
	if err != nil {
		req.Log.Error("command failed",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		resp = errorResponse()
	}
	if resp == nil {
		resp = errorResponse()
	}

	if _, err := s.FollowupMessageCreate(i.Interaction, true, resp.webhookParams()); err != nil {
		req.Log.Error("failed to send followup",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		return
	}

	if resp.DirectMessage != nil {
		b.sendDirect(req, resp.DirectMessage)
	}

	req.Log.Debug("command handled", slog.String("operation", op))
}

// sendDirect is best effort; users may have DMs closed.
func (b *Bot) sendDirect(req *Request, embed *discordgo.MessageEmbed) {
	ch, err := b.session.UserChannelCreate(req.Caller.ID)
	if err == nil {
		_, err = b.session.ChannelMessageSendEmbed(ch.ID, embed)
	}
	if err != nil {
		req.Log.Warn("could not send direct message", slog.String("error", err.Error()))
	}
}
