// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"io/fs"
	"os"
	"slices"

	"github.com/invowk/modvis/internal/config"
	"github.com/invowk/modvis/internal/issue"
	"github.com/invowk/modvis/internal/watch"
	"github.com/invowk/modvis/pkg/cratefile"
	"github.com/invowk/modvis/pkg/modtree"
)

// loadCompiled loads and builds the declaration file at path.
func loadCompiled(path string) (*cratefile.Compiled, error) {
	ws, err := cratefile.Load(path)
	if err != nil {
		return nil, declarationError("load declaration file", path, err)
	}
	compiled, err := cratefile.Build(ws)
	if err != nil {
		return nil, declarationError("build declaration file", path, err)
	}
	return compiled, nil
}

func declarationError(operation, path string, err error) error {
	ctx := issue.NewErrorContext().
		WithOperation(operation).
		WithResource(path)
	if errors.Is(err, fs.ErrNotExist) {
		ctx.WithSuggestion("Run 'modvis example > restaurant.cue' for a starting point")
	}
	return ctx.Wrap(err).BuildError()
}

// namespaceArg finds the namespace named by an absolute path such as
// restaurant::front_of_house. An empty path selects the root of the first crate.
func namespaceArg(world *modtree.World, path string) (modtree.NodeID, error) {
	if path == "" {
		crates := world.Crates()
		if len(crates) == 0 {
			return modtree.NoNode, errors.New("declaration file has no crates")
		}
		return crates[0], nil
	}

	id, ok := world.Lookup(path)
	if !ok {
		return modtree.NoNode, issue.NewErrorContext().
			WithOperation("find namespace").
			WithResource(path).
			WithSuggestion("Namespaces are written as absolute paths starting with the crate name, e.g. restaurant::front_of_house").
			WithSuggestion("Run 'modvis tree FILE' to list the declared namespaces").
			Wrap(errors.New("no such declaration")).
			BuildError()
	}
	if kind := world.Kind(id); kind != modtree.KindNamespace {
		return modtree.NoNode, issue.NewErrorContext().
			WithOperation("find namespace").
			WithResource(path).
			WithSuggestion("References can only be written inside a crate or module").
			Wrap(errors.New(kind.String() + " is not a namespace")).
			BuildError()
	}
	return id, nil
}

// collectFiles expands check arguments into declaration files. Directories
// are searched with the configured watch patterns; files are kept as given.
func collectFiles(args []string, cfg *config.Config) ([]string, error) {
	if len(args) == 0 {
		args = []string{"."}
	}

	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, declarationError("load declaration file", arg, err)
		}
		if !info.IsDir() {
			if !slices.Contains(files, arg) {
				files = append(files, arg)
			}
			continue
		}
		found, err := watch.Expand(arg, config.Strings(cfg.Watch.Patterns), config.Strings(cfg.Watch.Ignore))
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			if !slices.Contains(files, f) {
				files = append(files, f)
			}
		}
	}

	if len(files) == 0 {
		return nil, issue.NewErrorContext().
			WithOperation("find declaration files").
			WithResource(args[0]).
			WithSuggestion("Pass a .cue, .json, .toml or .yaml file, or adjust watch.patterns in the configuration").
			Wrap(errors.New("no declaration files found")).
			BuildError()
	}
	return files, nil
}
