// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/invowk/modvis/internal/config"
	"github.com/invowk/modvis/internal/restaurant"
)

// shopCUE declares a single reference that reaches a private function and
// does not say so, so checking it reports one mismatch.
const shopCUE = `crates: [{
	name: "shop"
	root: {
		modules: [{name: "back", functions: [{name: "cook"}]}]
		refs: [{path: "back::cook"}]
	}
}]
`

type staticConfig struct {
	cfg *config.Config
	err error
}

func (s staticConfig) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	if s.err != nil {
		return nil, s.err
	}
	cfg := *s.cfg
	return &cfg, nil
}

// runCLI runs the root command with args against cfg (defaults when nil)
// and returns what it wrote.
func runCLI(t *testing.T, cfg *config.Config, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	var out, errOut bytes.Buffer
	app := NewApp(Dependencies{
		Config: staticConfig{cfg: cfg},
		Stdout: &out,
		Stderr: &errOut,
	})
	root := newRootCommand(app)
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SilenceErrors = true
	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

// writeFile writes content to name inside dir and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// restaurantFile writes the embedded restaurant example to a temp dir.
func restaurantFile(t *testing.T) string {
	t.Helper()
	return writeFile(t, t.TempDir(), restaurant.FileName, string(restaurant.Source()))
}
