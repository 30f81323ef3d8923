package command

import (
	"context"

	"modbot/pkg/cmd"
)

// Builtins is the embedded registration source: Go-native commands that ship
// with the bot, wrapped with the usage-logging middleware. It never produces
// load errors.
func Builtins() cmd.Source {
	return builtinSource{}
}

type builtinSource struct{}

func (builtinSource) List(ctx context.Context) ([]cmd.Command, []cmd.LoadError) {
	defs := []cmd.Command{
		&PingCommand{},
		&HelpCommand{},
		&UptimeCommand{},
		&LogCommand{},
	}
	for i, c := range defs {
		defs[i] = cmd.Apply(c, WithCommandLogger())
	}
	return defs, nil
}
