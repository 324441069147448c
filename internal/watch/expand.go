// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
)

// Expand lists the files under dir that match at least one pattern and no
// ignore pattern (built-in ignores included), sorted. Returned paths are
// joined onto dir.
func Expand(dir string, patterns, ignore []string) ([]string, error) {
	if err := ValidatePatterns(patterns, "watch"); err != nil {
		return nil, err
	}
	if err := ValidatePatterns(ignore, "ignore"); err != nil {
		return nil, err
	}
	if len(patterns) == 0 {
		patterns = []string{"**"}
	}
	ignores := slices.Concat(defaultIgnores, ignore)

	fsys := os.DirFS(dir)
	seen := make(map[string]bool)
	var out []string
	for _, pat := range patterns {
		matches, err := doublestar.Glob(fsys, pat, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("watch: expand %q in %s: %w", pat, dir, err)
		}
		for _, m := range matches {
			if seen[m] || matchAny(ignores, m) {
				continue
			}
			seen[m] = true
			out = append(out, filepath.Join(dir, filepath.FromSlash(m)))
		}
	}
	slices.Sort(out)
	return out, nil
}
