// Package command holds the built-in Go commands and the invocation payload
// shared by the Discord and CLI adapters. Script modules live on disk and are
// loaded separately; built-ins are registered through the Builtins source.
package command

import (
	"time"

	"github.com/bwmarrin/discordgo"

	"modbot/internal/storage"
	"modbot/pkg/cmd"
)

// Context is the payload adapters place in Invocation.Data. Fields are filled
// as far as the adapter can: the CLI leaves Session and Event nil, and
// commands must cope with that.
type Context struct {
	Session   *discordgo.Session
	Event     *discordgo.InteractionCreate
	Storage   *storage.Storage
	Registry  *cmd.Registry
	Responder cmd.Responder

	// Options carries the interaction's named options flattened to strings.
	Options map[string]string
}

// SlashProvider is implemented by commands that carry a full slash command
// definition. Commands without it get one synthesized from Name/Description.
type SlashProvider interface {
	SlashDefinition() *discordgo.ApplicationCommand
}

// processStart anchors the uptime command; close enough to process start for
// a status line.
var processStart = time.Now()
