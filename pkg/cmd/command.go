// Package cmd provides a transport-agnostic command core: a command is
// something with a name, description, and Run(ctx, invocation). How commands
// are discovered (script modules on disk, built-in registration), registered,
// and dispatched (Discord slash, CLI) is defined by sources and adapters
// built on top of this package.
package cmd

import "context"

// Invocation carries the minimal input any command runner can pass: arguments
// and an opaque payload. Adapters set Data to their own context (e.g. a
// Discord session + event, or CLI flags).
type Invocation struct {
	Args []string
	Data interface{}
}

// Command is the universal contract: identity plus execution. A command is
// immutable once constructed; transport-specific registration and richer
// definitions stay in adapters and optional provider interfaces.
type Command interface {
	Name() string
	Description() string
	Run(ctx context.Context, inv *Invocation) error
}
