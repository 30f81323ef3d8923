package command

import (
	"context"
	"log"

	"modbot/pkg/cmd"
)

// WithCommandLogger records each invocation to the guild's command history
// before running the command. Logging failures are warnings, never a reason
// to block the command itself.
func WithCommandLogger() cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			if in, ok := inv.Data.(*Context); ok {
				if err := logUsage(in, c.Name()); err != nil {
					log.Println("[WARN] Failed to log command usage:", err)
				}
			}
			return c.Run(ctx, inv)
		})
	}
}

// logUsage resolves channel and guild names from session state and writes one
// history record. A nil storage or a non-interaction invocation is a no-op.
func logUsage(in *Context, commandName string) error {
	if in.Storage == nil || in.Session == nil || in.Event == nil {
		return nil
	}
	e := in.Event
	if e.Member == nil || e.Member.User == nil {
		return nil
	}

	channelName := ""
	if channel, err := in.Session.State.Channel(e.ChannelID); err == nil {
		channelName = channel.Name
	}
	guildName := ""
	if guild, err := in.Session.State.Guild(e.GuildID); err == nil {
		guildName = guild.Name
	}

	user := e.Member.User
	return in.Storage.SetCommand(e.GuildID, e.ChannelID, channelName, guildName, user.ID, user.Username, commandName)
}
