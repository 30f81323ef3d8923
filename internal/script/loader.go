// Package script loads JavaScript command modules from disk. A module file
// assigns module.exports an object with a data descriptor and an execute
// function:
//
//	module.exports = {
//	    data: { name: "ping", description: "Replies with Pong!" },
//	    async execute(interaction) {
//	        await interaction.reply("Pong!");
//	    },
//	};
//
// The shape is validated once at load time; a candidate missing either
// property is rejected with a warning and loading continues. A malformed
// module never aborts startup.
package script

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"modbot/pkg/cmd"
)

const moduleExt = ".js"

// DirSource discovers command modules under a root directory. Modules either
// sit directly in the root (flat layout) or inside exactly one level of
// category subdirectories; the presence of any subdirectory switches the
// whole tree to the categorized convention, and the two are not combined.
type DirSource struct {
	Root string
}

func NewDirSource(root string) *DirSource {
	return &DirSource{Root: root}
}

// List implements cmd.Source.
func (s *DirSource) List(ctx context.Context) (defs []cmd.Command, errs []cmd.LoadError) {
	entries, err := os.ReadDir(s.Root)
	if err != nil {
		return nil, []cmd.LoadError{{Path: s.Root, Err: err}}
	}

	categorized := false
	for _, entry := range entries {
		if entry.IsDir() {
			categorized = true
			break
		}
	}

	load := func(path, category string) {
		if ctx.Err() != nil {
			return
		}
		c, err := loadModule(path, category)
		if err != nil {
			errs = append(errs, cmd.LoadError{Path: path, Err: err})
			return
		}
		defs = append(defs, c)
	}

	for _, entry := range entries {
		path := filepath.Join(s.Root, entry.Name())

		if entry.IsDir() {
			sub, err := os.ReadDir(path)
			if err != nil {
				errs = append(errs, cmd.LoadError{Path: path, Err: err})
				continue
			}
			for _, f := range sub {
				if f.IsDir() || !strings.HasSuffix(f.Name(), moduleExt) {
					continue
				}
				load(filepath.Join(path, f.Name()), entry.Name())
			}
			continue
		}

		if !strings.HasSuffix(entry.Name(), moduleExt) {
			continue
		}
		if categorized {
			// Mixing loose modules with category folders is unsupported.
			errs = append(errs, cmd.LoadError{
				Path: path,
				Err:  fmt.Errorf("module file outside a category directory in a categorized layout"),
			})
			continue
		}
		load(path, "")
	}

	return defs, errs
}
