package discord

import (
	"context"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modbot/pkg/cmd"
)

type plainCommand struct {
	name string
	desc string
}

func (c *plainCommand) Name() string        { return c.name }
func (c *plainCommand) Description() string { return c.desc }

func (c *plainCommand) Run(ctx context.Context, inv *cmd.Invocation) error { return nil }

func TestHashCommandIsDeterministic(t *testing.T) {
	def := &discordgo.ApplicationCommand{
		Name:        "ping",
		Description: "Check bot latency",
		Type:        discordgo.ChatApplicationCommand,
		Options: []*discordgo.ApplicationCommandOption{
			{Name: "verbose", Description: "More detail", Type: discordgo.ApplicationCommandOptionBoolean},
		},
	}

	assert.Equal(t, hashCommand(def), hashCommand(def))

	changed := *def
	changed.Description = "Something else"
	assert.NotEqual(t, hashCommand(def), hashCommand(&changed))
}

func TestDefinitionForSynthesizesFromIdentity(t *testing.T) {
	c := &plainCommand{name: "greet", desc: "Say hello"}

	def := definitionFor(c)
	require.NotNil(t, def)
	assert.Equal(t, "greet", def.Name)
	assert.Equal(t, "Say hello", def.Description)
	assert.Equal(t, discordgo.ChatApplicationCommand, def.Type)
}

func TestDefinitionForUnwrapsMiddleware(t *testing.T) {
	inner := &slashCommand{plainCommand{name: "fancy", desc: "Has a real definition"}}
	wrapped := cmd.Apply(inner, func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, c.Run)
	})

	def := definitionFor(wrapped)
	require.NotNil(t, def)
	assert.Equal(t, "fancy", def.Name)
	assert.Len(t, def.Options, 1)
}

type slashCommand struct {
	plainCommand
}

func (c *slashCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.name,
		Description: c.desc,
		Options: []*discordgo.ApplicationCommandOption{
			{Name: "who", Description: "Target", Type: discordgo.ApplicationCommandOptionString},
		},
	}
}

func TestFlattenOptions(t *testing.T) {
	opts := []*discordgo.ApplicationCommandInteractionDataOption{
		{Name: "who", Type: discordgo.ApplicationCommandOptionString, Value: "alice"},
		{Name: "count", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(3)},
	}

	flat := flattenOptions(opts)
	assert.Equal(t, "alice", flat["who"])
	assert.Equal(t, "3", flat["count"])

	assert.Nil(t, flattenOptions(nil))
}
