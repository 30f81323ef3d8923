package script

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dop251/goja"

	"modbot/pkg/cmd"
)

// Command is one loaded script module. Each module owns its own goja runtime;
// a runtime is not safe for concurrent use, so Run serializes executions with
// a mutex. Identity is immutable after load.
type Command struct {
	name        string
	description string
	category    string

	mu      sync.Mutex
	rt      *goja.Runtime
	execute goja.Callable
}

// loadModule evaluates one module file and validates the shape contract: a
// data descriptor with non-empty name and description, and an execute
// function.
func loadModule(path, category string) (*Command, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	rt := goja.New()
	module := rt.NewObject()
	exports := rt.NewObject()
	if err := module.Set("exports", exports); err != nil {
		return nil, err
	}
	if err := rt.Set("module", module); err != nil {
		return nil, err
	}
	if err := rt.Set("exports", exports); err != nil {
		return nil, err
	}

	if _, err := rt.RunScript(filepath.Base(path), string(src)); err != nil {
		return nil, fmt.Errorf("script error: %w", err)
	}

	exported := module.Get("exports")
	if exported == nil || goja.IsUndefined(exported) || goja.IsNull(exported) {
		return nil, fmt.Errorf("module exports nothing")
	}
	root := exported.ToObject(rt)

	data := root.Get("data")
	execVal := root.Get("execute")
	if isMissing(data) || isMissing(execVal) {
		return nil, fmt.Errorf(`missing a required "data" or "execute" property`)
	}
	execute, ok := goja.AssertFunction(execVal)
	if !ok {
		return nil, fmt.Errorf(`"execute" is not a function`)
	}

	dataObj := data.ToObject(rt)
	name := stringProp(dataObj, "name")
	description := stringProp(dataObj, "description")
	if name == "" || description == "" {
		return nil, fmt.Errorf(`"data" must carry non-empty "name" and "description" strings`)
	}

	return &Command{
		name:        name,
		description: description,
		category:    category,
		rt:          rt,
		execute:     execute,
	}, nil
}

func isMissing(v goja.Value) bool {
	return v == nil || goja.IsUndefined(v) || goja.IsNull(v)
}

func stringProp(o *goja.Object, key string) string {
	v := o.Get(key)
	if isMissing(v) {
		return ""
	}
	s, _ := v.Export().(string)
	return s
}

func (c *Command) Name() string { return c.name }

func (c *Command) Description() string { return c.description }

// Category is the subdirectory the module was loaded from, or "" in a flat
// layout.
func (c *Command) Category() string { return c.category }

// Run executes the module's execute function with a JS view of the
// invocation. A thrown value or rejected promise surfaces as the returned
// error. There is no event loop, so a promise still pending after the job
// queue drains can never settle and counts as a failure too.
func (c *Command) Run(ctx context.Context, inv *cmd.Invocation) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, err := c.execute(goja.Undefined(), c.interactionValue(inv))
	if err != nil {
		return fmt.Errorf("execute: %w", err)
	}

	if v == nil {
		return nil
	}
	if p, ok := v.Export().(*goja.Promise); ok {
		switch p.State() {
		case goja.PromiseStateRejected:
			return fmt.Errorf("execute rejected: %s", p.Result().String())
		case goja.PromiseStatePending:
			return fmt.Errorf("execute returned a promise that never settled")
		}
	}
	return nil
}
