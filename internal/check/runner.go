// SPDX-License-Identifier: MPL-2.0

package check

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/invowk/modvis/pkg/cratefile"
	"github.com/invowk/modvis/pkg/resolve"
)

// Runner checks declaration files.
type Runner struct {
	logger *log.Logger
}

// NewRunner returns a Runner that logs through logger. A nil logger
// discards all output.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{logger: logger}
}

// RunFile loads, builds and checks the declaration file at path.
func (r *Runner) RunFile(ctx context.Context, path string) (*Report, error) {
	ws, err := cratefile.Load(path)
	if err != nil {
		return nil, err
	}
	compiled, err := cratefile.Build(ws)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r.Run(ctx, path, compiled)
}

// Run checks every import and reference site of compiled. It stops with
// the context's error if ctx is cancelled between sites.
func (r *Runner) Run(ctx context.Context, name string, compiled *cratefile.Compiled) (*Report, error) {
	start := time.Now()
	logger := r.logger.With("file", name)

	report := &Report{Name: name}
	for _, w := range compiled.Warnings {
		report.Warnings = append(report.Warnings, w.Error())
		logger.Warn("declaration warning", "detail", w.Error())
	}

	checker := compiled.Checker()
	world := checker.World()

	for _, li := range checker.Imports() {
		site := compiled.Imports[li.Index]
		res := ImportResult{
			Location: site.Location,
			Key:      li.Key,
			Scope:    world.PathOf(li.Import.In),
			Path:     li.Import.Path,
			Alias:    string(li.Import.Alias),
			Public:   li.Import.Public,
			Glob:     li.Glob,
			Expect:   site.Expect,
			Outcome:  Classify(li.Err),
			Note:     site.Note,
			Err:      li.Err,
		}
		if li.Err == nil {
			res.Target = li.Target.Path
		} else {
			res.Error = li.Err.Error()
		}
		logger.Debug("import linked", "import", li.Key, "outcome", res.Outcome)
		report.Imports = append(report.Imports, res)
	}

	for _, site := range compiled.Sites {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res := r.runSite(checker, site)
		if res.Matched() {
			logger.Debug("site checked", "site", res.Location, "outcome", res.Outcome)
		} else {
			logger.Warn("unexpected outcome", "site", res.Location, "expect", res.Expect, "outcome", res.Outcome)
		}
		report.Sites = append(report.Sites, res)
	}

	report.Duration = time.Since(start)
	sum := report.Summary()
	logger.Info("check finished", "sites", sum.Sites, "imports", sum.Imports, "mismatches", sum.Mismatches)
	return report, nil
}

func (r *Runner) runSite(checker *resolve.Checker, site cratefile.Site) SiteResult {
	ref := site.Ref
	res := SiteResult{
		Location: site.Location,
		Origin:   checker.World().PathOf(site.Origin),
		Path:     ref.Path,
		Expect:   ref.Expect.OrDefault(),
		Note:     ref.Note,
	}

	var (
		target resolve.Target
		err    error
	)
	switch {
	case ref.IsConstruct():
		res.Kind = KindConstruct
		res.Path = fmt.Sprintf("%s { %s }", ref.Path, strings.Join(ref.Construct, ", "))
		target, err = checker.CheckConstruct(site.Origin, ref.Path, ref.Construct)
	case ref.IsFieldAccess():
		res.Kind = KindField
		res.Path = ref.Path + "." + ref.Field
		target, err = checker.CheckFieldAccess(site.Origin, ref.Path, ref.Field)
	default:
		res.Kind = KindPath
		target, err = checker.Resolve(site.Origin, ref.Path)
	}

	res.Outcome = Classify(err)
	res.Err = err
	if err != nil {
		res.Error = err.Error()
	} else {
		res.Target = target.Path
		res.Via = target.Via
	}
	return res
}
