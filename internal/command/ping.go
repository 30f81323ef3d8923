package command

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"modbot/pkg/cmd"
)

type PingCommand struct{}

func (c *PingCommand) Name() string        { return "ping" }
func (c *PingCommand) Description() string { return "Check bot latency" }

func (c *PingCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *PingCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	in, ok := inv.Data.(*Context)
	if !ok {
		return fmt.Errorf("wrong invocation payload")
	}

	if in.Session == nil {
		return in.Responder.Reply("🏓 Pong!")
	}
	latency := in.Session.HeartbeatLatency().Milliseconds()
	return in.Responder.Reply(fmt.Sprintf("🏓 Pong! %dms", latency))
}
