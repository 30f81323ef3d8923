// cmd/cli/main.go
//
// CLI adapter: runs one command by name through the same registry and
// dispatcher as the Discord adapter, with stdout as the response channel.
// Handy for smoke-testing script modules without a gateway connection.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"modbot/internal/command"
	"modbot/internal/script"
	"modbot/pkg/cmd"
)

type stdoutResponder struct {
	state cmd.ResponseState
}

func (r *stdoutResponder) State() cmd.ResponseState { return r.state }

func (r *stdoutResponder) Reply(content string) error {
	fmt.Println(content)
	r.state = cmd.StateReplied
	return nil
}

func (r *stdoutResponder) FollowUp(content string) error {
	fmt.Println(content)
	return nil
}

func (r *stdoutResponder) Defer() error {
	r.state = cmd.StateDeferred
	return nil
}

func main() {
	commandsPath := flag.String("commands", "commands", "path to the command modules directory")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [-commands dir] <command> [args...]\n", os.Args[0])
		os.Exit(2)
	}

	ctx := context.Background()
	reg := cmd.NewRegistry()
	cmd.Populate(ctx, reg,
		script.NewDirSource(*commandsPath),
		command.Builtins(),
	)

	responder := &stdoutResponder{}
	disp := cmd.NewDispatcher(reg)
	disp.Dispatch(ctx, cmd.Event{
		Kind:      cmd.EventCommand,
		Command:   flag.Arg(0),
		Responder: responder,
		Inv: &cmd.Invocation{
			Args: flag.Args()[1:],
			Data: &command.Context{Registry: reg, Responder: responder},
		},
	})

	if responder.State() == cmd.StateUnanswered {
		log.Printf("[WARN] Command %q produced no output", flag.Arg(0))
	}
}
