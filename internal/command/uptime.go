package command

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"modbot/pkg/cmd"
)

type UptimeCommand struct{}

func (c *UptimeCommand) Name() string        { return "uptime" }
func (c *UptimeCommand) Description() string { return "Show how long the bot has been running" }

func (c *UptimeCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *UptimeCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	in, ok := inv.Data.(*Context)
	if !ok {
		return fmt.Errorf("wrong invocation payload")
	}

	up := time.Since(processStart).Round(time.Second)
	return in.Responder.Reply(fmt.Sprintf("⏱️ Up for %s", up))
}
