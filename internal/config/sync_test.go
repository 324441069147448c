// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// cueFields returns the regular fields of a CUE definition, mapped to
// whether they are optional. Fields pinned to _|_ only forbid a name and
// are skipped.
func cueFields(t *testing.T, def cue.Value) map[string]bool {
	t.Helper()

	iter, err := def.Fields(cue.Definitions(false), cue.Optional(true))
	if err != nil {
		t.Fatalf("failed to iterate CUE fields: %v", err)
	}
	fields := make(map[string]bool)
	for iter.Next() {
		sel := iter.Selector()
		if sel.LabelType().IsHidden() || sel.IsDefinition() {
			continue
		}
		if v := iter.Value(); v.Kind() == cue.BottomKind && v.Err() != nil &&
			strings.Contains(v.Err().Error(), "explicit error (_|_ literal)") {
			continue
		}
		fields[strings.TrimSuffix(sel.String(), "?")] = iter.IsOptional()
	}
	return fields
}

// jsonFields returns the JSON names of the exported fields of a struct,
// mapped to whether they carry omitempty.
func jsonFields(t *testing.T, typ reflect.Type) map[string]bool {
	t.Helper()

	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		t.Fatalf("expected struct type, got %s", typ.Kind())
	}
	fields := make(map[string]bool)
	for i := range typ.NumField() {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		name, opts, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		fields[name] = slices.Contains(strings.Split(opts, ","), "omitempty")
	}
	return fields
}

func compileSchema(t *testing.T) cue.Value {
	t.Helper()

	schema := cuecontext.New().CompileString(configSchema)
	if err := schema.Err(); err != nil {
		t.Fatalf("failed to compile CUE schema: %v", err)
	}
	return schema
}

func TestSchemaSync(t *testing.T) {
	schema := compileSchema(t)

	tests := []struct {
		def string
		typ reflect.Type
	}{
		{"#Config", reflect.TypeFor[Config]()},
		{"#LogConfig", reflect.TypeFor[LogConfig]()},
		{"#UIConfig", reflect.TypeFor[UIConfig]()},
		{"#CheckConfig", reflect.TypeFor[CheckConfig]()},
		{"#WatchConfig", reflect.TypeFor[WatchConfig]()},
	}
	for _, tt := range tests {
		t.Run(tt.def, func(t *testing.T) {
			def := schema.LookupPath(cue.ParsePath(tt.def))
			if err := def.Err(); err != nil {
				t.Fatalf("failed to look up %s: %v", tt.def, err)
			}
			schemaFields, goFields := cueFields(t, def), jsonFields(t, tt.typ)
			for name, optional := range schemaFields {
				omitempty, ok := goFields[name]
				switch {
				case !ok:
					t.Errorf("%s: schema field %q has no JSON tag", tt.typ.Name(), name)
				case optional && !omitempty:
					t.Logf("%s: optional field %q lacks omitempty", tt.typ.Name(), name)
				}
			}
			for name := range goFields {
				if _, ok := schemaFields[name]; !ok {
					t.Errorf("%s: JSON tag %q is not in the schema", tt.typ.Name(), name)
				}
			}
		})
	}
}

// validateCUE unifies data with #Config and validates it.
func validateCUE(t *testing.T, data string) error {
	t.Helper()

	schema := compileSchema(t)
	user := schema.Context().CompileString(data)
	if err := user.Err(); err != nil {
		return fmt.Errorf("CUE compile error: %w", err)
	}
	unified := schema.LookupPath(cue.ParsePath("#Config")).Unify(user)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("CUE validation error: %w", err)
	}
	return nil
}

func TestSchemaConstraints(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{"empty", ``, false},
		{"log level", `log: level: "debug"`, false},
		{"unknown log level", `log: level: "trace"`, true},
		{"color scheme", `ui: color_scheme: "light"`, false},
		{"unknown color scheme", `ui: color_scheme: "blue"`, true},
		{"json format", `check: format: "json"`, false},
		{"unknown format", `check: format: "xml"`, true},
		{"fail on mismatch not bool", `check: fail_on_mismatch: "yes"`, true},
		{"patterns", `watch: patterns: ["**/*.cue"]`, false},
		{"blank pattern", `watch: patterns: ["  "]`, true},
		{"debounce", `watch: debounce: "1.5s"`, false},
		{"compound debounce", `watch: debounce: "1m30s"`, false},
		{"debounce without unit", `watch: debounce: "300"`, true},
		{"debounce as number", `watch: debounce: 300`, true},
		{"unknown top-level field", `editor: "vim"`, true},
		{"unknown nested field", `ui: interactive: true`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateCUE(t, tt.data)
			if tt.wantErr && err == nil {
				t.Errorf("validateCUE(%q) = nil, want error", tt.data)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("validateCUE(%q) = %v, want nil", tt.data, err)
			}
		})
	}
}

func TestGenerateCUEMatchesSchema(t *testing.T) {
	if err := validateCUE(t, GenerateCUE(DefaultConfig())); err != nil {
		t.Errorf("GenerateCUE(DefaultConfig()) does not validate: %v", err)
	}
}
