// Package discord adapts the command core to the Discord gateway: it owns
// the session, translates interaction events into dispatches, and keeps the
// guild's slash commands in sync with the registry.
package discord

import (
	"context"
	"fmt"
	"log"
	"slices"

	"github.com/bwmarrin/discordgo"

	"modbot/internal/command"
	"modbot/internal/config"
	"modbot/internal/storage"
	"modbot/pkg/cmd"
)

// Bot is the Discord adapter. The registry it reads must be fully populated
// before Run opens the gateway connection.
type Bot struct {
	dg       *discordgo.Session
	cfg      *config.Config
	store    *storage.Storage
	registry *cmd.Registry
	disp     *cmd.Dispatcher
}

func NewBot(cfg *config.Config, store *storage.Storage, registry *cmd.Registry) *Bot {
	return &Bot{
		cfg:      cfg,
		store:    store,
		registry: registry,
		disp:     cmd.NewDispatcher(registry),
	}
}

// Run opens the gateway session and blocks until ctx is canceled.
func (b *Bot) Run(ctx context.Context) error {
	dg, err := discordgo.New("Bot " + b.cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	b.dg = dg

	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages
	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onGuildCreate)
	dg.AddHandler(b.onInteractionCreate)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer dg.Close()

	<-ctx.Done()
	log.Println("[INFO] Shutdown signal received. Cleaning up...")
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	botInfo, err := s.User("@me")
	if err != nil {
		log.Println("[WARN] Error retrieving bot user:", err)
		return
	}

	for _, g := range r.Guilds {
		if b.isGuildBlacklisted(g.ID) {
			b.leaveGuild(s, g.ID, g.Name)
			continue
		}
		if b.cfg.InitSlashCommands {
			if err := b.syncCommands(g.ID); err != nil {
				log.Printf("[ERR] Error syncing slash commands for guild %s: %v", g.ID, err)
			}
		} else {
			log.Println("[INFO] Slash command sync skipped")
		}
	}

	log.Printf("[INFO] ✅ Discord bot %v is running with %d commands.", botInfo.Username, len(b.registry.GetAll()))
}

func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	log.Printf("[INFO] Bot added to guild: %s (%s)", g.Guild.ID, g.Guild.Name)

	if b.isGuildBlacklisted(g.Guild.ID) {
		b.leaveGuild(s, g.Guild.ID, g.Guild.Name)
		return
	}
	if err := b.syncCommands(g.Guild.ID); err != nil {
		log.Printf("[ERR] Failed to sync commands for new guild %s: %v", g.Guild.ID, err)
	}
}

// onInteractionCreate translates one gateway interaction into a dispatch.
// Everything that is not an application command goes through as EventOther so
// the dispatcher's own filter decides to ignore it.
func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ev := cmd.Event{Kind: cmd.EventOther}

	if i.Type == discordgo.InteractionApplicationCommand {
		data := i.ApplicationCommandData()
		responder := newResponder(s, i)
		ev = cmd.Event{
			Kind:      cmd.EventCommand,
			Command:   data.Name,
			Responder: responder,
			Inv: &cmd.Invocation{
				Data: &command.Context{
					Session:   s,
					Event:     i,
					Storage:   b.store,
					Registry:  b.registry,
					Responder: responder,
					Options:   flattenOptions(data.Options),
				},
			},
		}
	}

	b.disp.Dispatch(context.Background(), ev)
}

func (b *Bot) isGuildBlacklisted(guildID string) bool {
	return slices.Contains(b.cfg.GuildBlacklist, guildID)
}

func (b *Bot) leaveGuild(s *discordgo.Session, guildID, name string) {
	log.Printf("[INFO] Leaving blacklisted guild: %s (%s)", guildID, name)
	if err := s.GuildLeave(guildID); err != nil {
		log.Printf("[ERR] Failed to leave guild %s: %v", guildID, err)
	}
}

// flattenOptions renders the interaction's named options as strings, which is
// all script modules and built-ins need.
func flattenOptions(opts []*discordgo.ApplicationCommandInteractionDataOption) map[string]string {
	if len(opts) == 0 {
		return nil
	}
	out := make(map[string]string, len(opts))
	for _, o := range opts {
		out[o.Name] = fmt.Sprint(o.Value)
	}
	return out
}

// appID returns the bot's application ID, fetching it from Discord when not
// cached in State yet.
func (b *Bot) appID() (string, error) {
	if id := b.dg.State.User.ID; id != "" {
		return id, nil
	}
	u, err := b.dg.User("@me")
	if err != nil {
		return "", fmt.Errorf("failed to fetch bot user: %w", err)
	}
	return u.ID, nil
}
