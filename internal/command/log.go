package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"modbot/pkg/cmd"
)

// LogCommand shows the guild's recent command usage history.
type LogCommand struct{}

func (c *LogCommand) Name() string        { return "log" }
func (c *LogCommand) Description() string { return "Show recent command usage" }

func (c *LogCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *LogCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	in, ok := inv.Data.(*Context)
	if !ok {
		return fmt.Errorf("wrong invocation payload")
	}
	if in.Storage == nil || in.Event == nil {
		return fmt.Errorf("command history is not available here")
	}

	history, err := in.Storage.GetCommandsHistory(in.Event.GuildID)
	if err != nil {
		return fmt.Errorf("failed to read command history: %w", err)
	}
	if len(history) == 0 {
		return in.Responder.Reply("No commands recorded yet.")
	}

	var sb strings.Builder
	sb.WriteString("**Recent commands**\n")
	for _, rec := range history {
		fmt.Fprintf(&sb, "`%s` by %s in #%s at %s\n",
			rec.Command, rec.Username, rec.ChannelName, rec.Datetime.Format("2006-01-02 15:04"))
	}
	return in.Responder.Reply(sb.String())
}
