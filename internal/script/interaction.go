package script

import (
	"fmt"

	"github.com/dop251/goja"

	"modbot/internal/command"
	"modbot/pkg/cmd"
)

var errNoResponseChannel = fmt.Errorf("no response channel attached to this invocation")

// interactionValue maps the invocation onto the object the script's execute
// function receives: reply/deferReply/followUp bound to the event's response
// channel, plus the identifying event fields. Go errors returned from the
// bound functions surface in the script as thrown exceptions.
func (c *Command) interactionValue(inv *cmd.Invocation) goja.Value {
	var in *command.Context
	if inv != nil {
		in, _ = inv.Data.(*command.Context)
	}
	if in == nil {
		in = &command.Context{}
	}

	obj := c.rt.NewObject()
	_ = obj.Set("commandName", c.name)

	if e := in.Event; e != nil {
		_ = obj.Set("guildId", e.GuildID)
		_ = obj.Set("channelId", e.ChannelID)
		user := c.rt.NewObject()
		if e.Member != nil && e.Member.User != nil {
			_ = user.Set("id", e.Member.User.ID)
			_ = user.Set("username", e.Member.User.Username)
		} else if e.User != nil {
			_ = user.Set("id", e.User.ID)
			_ = user.Set("username", e.User.Username)
		}
		_ = obj.Set("user", user)
	}

	if inv != nil && len(inv.Args) > 0 {
		items := make([]interface{}, len(inv.Args))
		for i, a := range inv.Args {
			items[i] = a
		}
		_ = obj.Set("args", c.rt.NewArray(items...))
	}
	if in.Options != nil {
		_ = obj.Set("options", in.Options)
	}

	r := in.Responder
	_ = obj.Set("reply", func(content string) error {
		if r == nil {
			return errNoResponseChannel
		}
		return r.Reply(content)
	})
	_ = obj.Set("followUp", func(content string) error {
		if r == nil {
			return errNoResponseChannel
		}
		return r.FollowUp(content)
	})
	_ = obj.Set("deferReply", func() error {
		d, ok := r.(cmd.Deferrer)
		if !ok {
			return fmt.Errorf("deferring is not supported on this response channel")
		}
		return d.Defer()
	})

	return obj
}
