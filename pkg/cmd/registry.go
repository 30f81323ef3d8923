package cmd

import (
	"log"
	"sort"
)

// WarnFunc receives diagnostic warnings from the registry and from command
// sources. Defaults to log.Printf.
type WarnFunc func(format string, args ...interface{})

// Registry stores commands by name. It is populated once during startup and
// treated as read-only afterwards, so dispatchers may consult it from any
// number of in-flight events without locking. Construct it in main and hand
// it to the adapters that need it; there is no package-level default.
type Registry struct {
	commands map[string]Command
	warn     WarnFunc
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Command), warn: log.Printf}
}

// OnWarn replaces the warning sink. Used by tests to observe collisions.
func (r *Registry) OnWarn(f WarnFunc) {
	if f != nil {
		r.warn = f
	}
}

// Register adds a command under its name. Two modules claiming the same name
// is a latent bug the registry surfaces rather than hides: the later
// registration wins, and a warning names the collision.
func (r *Registry) Register(c Command) {
	name := c.Name()
	if _, exists := r.commands[name]; exists {
		r.warn("[WARN] Command %q registered twice; overwriting previous definition", name)
	}
	r.commands[name] = c
}

// Get returns the command with the given name.
func (r *Registry) Get(name string) (Command, bool) {
	c, ok := r.commands[name]
	return c, ok
}

// GetAll returns all registered commands, sorted by name.
func (r *Registry) GetAll() []Command {
	list := make([]Command, 0, len(r.commands))
	for _, c := range r.commands {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name() < list[j].Name()
	})
	return list
}
