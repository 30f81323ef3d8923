package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"modbot/pkg/cmd"
)

// HelpCommand lists every registered command with its description, script
// modules and built-ins alike.
type HelpCommand struct{}

func (c *HelpCommand) Name() string        { return "help" }
func (c *HelpCommand) Description() string { return "List available commands" }

func (c *HelpCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *HelpCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	in, ok := inv.Data.(*Context)
	if !ok {
		return fmt.Errorf("wrong invocation payload")
	}
	if in.Registry == nil {
		return fmt.Errorf("no registry attached to invocation")
	}

	var sb strings.Builder
	sb.WriteString("**Available commands**\n")
	for _, entry := range in.Registry.GetAll() {
		fmt.Fprintf(&sb, "`/%s` - %s\n", entry.Name(), entry.Description())
	}
	return in.Responder.Reply(sb.String())
}
