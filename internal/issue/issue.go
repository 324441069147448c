// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"io/fs"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"

	"github.com/invowk/modvis/pkg/cratefile"
	"github.com/invowk/modvis/pkg/cueutil"
	"github.com/invowk/modvis/pkg/resolve"
)

type Id int

const (
	FileNotFoundId Id = iota + 1
	FileParseErrorId
	ConfigLoadFailedId
	PathNotFoundId
	AccessDeniedId
	NameConflictId
	ImportCycleId
	MissingFieldsId
	InvalidPathId
	CheckMismatchId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	name     string      // name accepted by `modvis explain`
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

// Name is the short name of the issue, matching the check outcome it
// explains where there is one.
func (i *Issue) Name() string {
	return i.name
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also:\n"
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "](" + string(link) + ")\n"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "](" + string(link) + ")\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	rustBookModules = HttpLink("https://doc.rust-lang.org/book/ch07-00-managing-growing-projects-with-packages-crates-and-modules.html")
	rustRefUse      = HttpLink("https://doc.rust-lang.org/reference/items/use-declarations.html")
	rustRefVis      = HttpLink("https://doc.rust-lang.org/reference/visibility-and-privacy.html")

	fileNotFoundIssue = &Issue{
		id:   FileNotFoundId,
		name: "file_not_found",
		mdMsg: `
# Declaration file not found!

modvis could not open the declaration file you passed.

## Things you can try:
- Check the path and the file extension (.cue, .json, .toml, .yaml or .yml)
- Print a working example and start from it:
~~~
$ modvis example > restaurant.cue
$ modvis check restaurant.cue
~~~`,
	}

	fileParseErrorIssue = &Issue{
		id:   FileParseErrorId,
		name: "invalid_file",
		mdMsg: `
# The declaration file is not valid!

Every format is checked against the same #Workspace schema, so a TOML or YAML
file fails for the same reasons a CUE file would.

## Common mistakes:
- A name that is a path keyword (crate, self, super) or not an identifier
- An ` + "`expect`" + ` value outside ok, not_found, access_denied, conflict,
  missing_fields, cycle and invalid
- ` + "`construct`" + ` and ` + "`field`" + ` on the same ref
- An ` + "`as`" + ` rename on a brace group (rename the members instead)

## Things you can try:
~~~
$ modvis example --format yaml
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id:   ConfigLoadFailedId,
		name: "config",
		mdMsg: `
# Failed to load configuration!

There was an error loading your modvis configuration.

## Things you can try:
- Show where modvis looks for its configuration:
~~~
$ modvis config path
~~~

- Write a fresh default configuration:
~~~
$ modvis config init
~~~

- Environment variables such as MODVIS_LOG_LEVEL override the file.`,
	}

	pathNotFoundIssue = &Issue{
		id:   PathNotFoundId,
		name: "not_found",
		mdMsg: `
# Path not found

A segment of the path names nothing in the namespace it was looked up in.
Lookup checks, in order, the namespace's own declarations, its explicit
imports and its glob imports. A bare first segment may also name a crate.

## Things you can try:
- List what a namespace can see:
~~~
$ modvis scope restaurant.cue restaurant::back_of_house
~~~
- Use ` + "`super::`" + ` to step out of the current module
- Remember that ` + "`super`" + ` at a crate root has nowhere to go`,
		docLinks: []HttpLink{rustBookModules},
	}

	accessDeniedIssue = &Issue{
		id:   AccessDeniedId,
		name: "access_denied",
		mdMsg: `
# Access denied

The path reaches a private item. A private item is visible only from the
module that declares it and from that module's descendants. Struct fields
and methods belong to the module that declares the struct; enum variants
are as visible as their enum.

An import that is not ` + "`pub`" + ` can be used only inside its own module.

## Things you can try:
- Mark the item ` + "`pub`" + `
- Re-export it from a public module with a ` + "`pub`" + ` use
- Reach a private field through a public constructor:
~~~
back_of_house::Breakfast::summer("Rye")
~~~`,
		docLinks: []HttpLink{rustRefVis},
	}

	nameConflictIssue = &Issue{
		id:   NameConflictId,
		name: "conflict",
		mdMsg: `
# Name conflict

Two bindings claim the same name in one namespace.

- An import that collides with a declaration or an earlier import is
  rejected when it is declared.
- A name provided by several glob imports is an error only when it is
  used. Declarations and explicit imports shadow glob imports.

## Things you can try:
- Rename one import:
~~~
use std::io::Result as IoResult
~~~
- Import the parent module and qualify the name (` + "`io::Result`" + `)`,
		docLinks: []HttpLink{rustRefUse},
	}

	importCycleIssue = &Issue{
		id:   ImportCycleId,
		name: "cycle",
		mdMsg: `
# Import cycle

Linking an import needed the import itself, directly or through other
imports. Every import in the cycle is rejected and binds nothing.

## Things you can try:
- Import the item from where it is declared rather than through another alias
- List the imports in link order:
~~~
$ modvis imports restaurant.cue
~~~`,
		docLinks: []HttpLink{rustRefUse},
	}

	missingFieldsIssue = &Issue{
		id:   MissingFieldsId,
		name: "missing_fields",
		mdMsg: `
# Missing fields

A struct literal must name every field of the struct. When some fields are
private, code outside the owning module cannot write the literal at all and
has to call a public constructor.`,
		docLinks: []HttpLink{rustBookModules},
	}

	invalidPathIssue = &Issue{
		id:   InvalidPathId,
		name: "invalid",
		mdMsg: `
# Invalid path

The path is malformed or cannot be used where it was written.

## Common causes:
- ` + "`crate`" + ` or ` + "`self`" + ` after the first segment, or ` + "`super`" + ` after a name
- A glob (` + "`::*`" + `) outside an import, or a renamed glob
- A glob import of a struct (import a module or an enum instead)
- A field access or struct literal on something that is not a struct`,
		docLinks: []HttpLink{rustRefUse},
	}

	checkMismatchIssue = &Issue{
		id:   CheckMismatchId,
		name: "mismatch",
		mdMsg: `
# Unexpected outcome

A reference site or import produced an outcome other than its ` + "`expect`" + `
value. Either the declarations changed or the expectation is wrong.

## Things you can try:
- Re-run with details for every site:
~~~
$ modvis check --verbose restaurant.cue
~~~
- Explain the outcome you got:
~~~
$ modvis explain access_denied
~~~`,
	}

	ordered = []*Issue{
		fileNotFoundIssue,
		fileParseErrorIssue,
		configLoadFailedIssue,
		pathNotFoundIssue,
		accessDeniedIssue,
		nameConflictIssue,
		importCycleIssue,
		missingFieldsIssue,
		invalidPathIssue,
		checkMismatchIssue,
	}
)

// Values returns every issue in ID order.
func Values() []*Issue {
	return slices.Clone(ordered)
}

func Get(id Id) *Issue {
	i := slices.IndexFunc(ordered, func(is *Issue) bool { return is.id == id })
	if i < 0 {
		return nil
	}
	return ordered[i]
}

// Lookup returns the issue with the given name.
func Lookup(name string) (*Issue, bool) {
	i := slices.IndexFunc(ordered, func(is *Issue) bool { return is.name == name })
	if i < 0 {
		return nil, false
	}
	return ordered[i], true
}

// Names lists the names accepted by Lookup, sorted.
func Names() []string {
	names := make([]string, 0, len(ordered))
	for _, is := range ordered {
		names = append(names, is.name)
	}
	slices.Sort(names)
	return names
}

// For returns the issue that explains err, or nil when none does.
func For(err error) *Issue {
	var (
		denied    *resolve.AccessDeniedError
		notFound  *resolve.PathNotFoundError
		conflict  *resolve.NameConflictError
		cycle     *resolve.ImportCycleError
		missing   *resolve.MissingFieldsError
		invalid   *resolve.InvalidPathError
		fileErr   *cueutil.FileError
		valErrs   cratefile.ValidationErrors
		formatErr *cratefile.UnsupportedFormatError
	)
	switch {
	case errors.As(err, &denied):
		return accessDeniedIssue
	case errors.As(err, &cycle):
		return importCycleIssue
	case errors.As(err, &conflict):
		return nameConflictIssue
	case errors.As(err, &missing):
		return missingFieldsIssue
	case errors.As(err, &notFound):
		return pathNotFoundIssue
	case errors.As(err, &invalid):
		return invalidPathIssue
	case errors.As(err, &fileErr), errors.As(err, &valErrs), errors.As(err, &formatErr):
		return fileParseErrorIssue
	case errors.Is(err, fs.ErrNotExist):
		return fileNotFoundIssue
	}
	return nil
}
