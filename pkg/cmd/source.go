package cmd

import (
	"context"
	"fmt"
)

// LoadError describes one candidate module that failed to load or did not
// satisfy the module shape contract. A LoadError never aborts a load; it is
// reported as a warning and loading continues with the next candidate.
type LoadError struct {
	Path string
	Err  error
}

func (e LoadError) Error() string { return fmt.Sprintf("%s: %v", e.Path, e.Err) }

func (e LoadError) Unwrap() error { return e.Err }

// Source yields command definitions from somewhere: a directory of script
// modules, built-in Go commands, remote config. List returns every accepted
// definition plus one LoadError per rejected candidate.
type Source interface {
	List(ctx context.Context) ([]Command, []LoadError)
}

// Populate runs each source in order and registers everything it accepts,
// emitting one warning per rejected candidate through the registry's warning
// sink. It returns the number of registered commands. Populate must complete
// before dispatch begins; afterwards the registry is read-only.
func Populate(ctx context.Context, reg *Registry, sources ...Source) int {
	total := 0
	for _, src := range sources {
		defs, errs := src.List(ctx)
		for _, e := range errs {
			reg.warn("[WARN] Skipping command module %s: %v", e.Path, e.Err)
		}
		for _, c := range defs {
			reg.Register(c)
			total++
		}
	}
	return total
}
