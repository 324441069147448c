// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/cobra"

	"github.com/invowk/modvis/pkg/cratefile"
	"github.com/invowk/modvis/pkg/modtree"
)

type treeFlagValues struct {
	crate   string
	imports bool
}

func newTreeCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	flags := &treeFlagValues{}

	treeCmd := &cobra.Command{
		Use:   "tree FILE",
		Short: "Show the declaration tree with visibility markers",
		Long: `Show the declaration tree with visibility markers.

Public declarations are prefixed with pub; private ones are dimmed.
--imports adds each namespace's use declarations.`,
		Example: `  modvis tree restaurant.cue
  modvis tree restaurant.cue --crate std --imports`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.newSession(cmd.Context(), rootFlags); err != nil {
				return err
			}
			compiled, err := loadCompiled(args[0])
			if err != nil {
				return err
			}

			roots := compiled.World.Crates()
			if flags.crate != "" {
				root, ok := compiled.World.Crate(modtree.Name(flags.crate))
				if !ok {
					return fmt.Errorf("crate %q is not declared in %s", flags.crate, args[0])
				}
				roots = []modtree.NodeID{root}
			}
			for i, root := range roots {
				if i > 0 {
					fmt.Fprintln(app.stdout)
				}
				fmt.Fprintln(app.stdout, buildTree(compiled, root, flags.imports).String())
			}
			return nil
		},
	}

	treeCmd.Flags().StringVar(&flags.crate, "crate", "", "only show this crate")
	treeCmd.Flags().BoolVar(&flags.imports, "imports", false, "list use declarations under their namespace")

	return treeCmd
}

// buildTree renders the subtree rooted at id.
func buildTree(compiled *cratefile.Compiled, id modtree.NodeID, withImports bool) *tree.Tree {
	w := compiled.World
	t := tree.Root(nodeLabel(w, id)).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(treeEnumeratorStyle)
	if w.IsRoot(id) {
		t.RootStyle(treeRootStyle)
	}

	for _, child := range w.Children(id) {
		if len(w.Children(child)) == 0 {
			t.Child(nodeLabel(w, child))
			continue
		}
		t.Child(buildTree(compiled, child, withImports))
	}

	if withImports && w.Kind(id) == modtree.KindNamespace {
		for _, site := range compiled.Imports {
			if site.Import.In == id {
				t.Child(CmdStyle.Render(useLabel(site)))
			}
		}
	}
	return t
}

var kindKeywords = map[modtree.Kind]string{
	modtree.KindNamespace: "mod",
	modtree.KindFunction:  "fn",
	modtree.KindStruct:    "struct",
	modtree.KindEnum:      "enum",
}

func nodeLabel(w *modtree.World, id modtree.NodeID) string {
	name := string(w.Name(id))
	if w.IsRoot(id) {
		return "crate " + name
	}

	label := name
	if kw, ok := kindKeywords[w.Kind(id)]; ok {
		label = kw + " " + name
	}
	switch {
	case w.Kind(id) == modtree.KindVariant:
		return label
	case w.Visibility(id) == modtree.VisPublic:
		return "pub " + label
	default:
		return privateStyle.Render(label)
	}
}

func useLabel(site cratefile.ImportSite) string {
	imp := site.Import
	label := "use " + imp.Path
	if imp.Public {
		label = "pub " + label
	}
	if imp.Alias != "" {
		label += " as " + string(imp.Alias)
	}
	return label
}
