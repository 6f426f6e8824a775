package yaml

import (
	"reflect"
	"strings"

	"golang.org/x/xerrors"
)

// StructTagName is the tag keyword Unmarshal/Decode read struct field
// names and options from.
const StructTagName = "yaml"

// StructField is the decode-relevant metadata parsed out of one struct
// field's `yaml:"..."` tag: the wire name it binds against and whether
// its mapping should be flattened into the parent (spec's decode path
// never serializes, so the encode-only flow/anchor/alias/omitempty
// switches some yaml tag grammars also recognize are not modeled
// here).
type StructField struct {
	FieldName  string
	RenderName string
	IsInline   bool
}

func structField(field reflect.StructField) *StructField {
	tag := field.Tag.Get(StructTagName)
	name := strings.ToLower(field.Name)
	options := strings.Split(tag, ",")
	if options[0] != "" {
		name = options[0]
	}
	sf := &StructField{FieldName: field.Name, RenderName: name}
	for _, opt := range options[1:] {
		if opt == "inline" {
			sf.IsInline = true
		}
	}
	return sf
}

func isIgnoredStructField(field reflect.StructField) bool {
	if field.PkgPath != "" && !field.Anonymous {
		return true
	}
	return field.Tag.Get(StructTagName) == "-"
}

// StructFieldMap indexes a struct type's decode-eligible fields by their
// Go field name.
type StructFieldMap map[string]*StructField

// byRenderName returns the field (if any) whose render name matches
// name case-sensitively, falling back to a case-insensitive match
// (spec's struct-decode supplement: YAML keys are commonly snake/kebab
// while Go fields are CamelCase, so an exact miss still gets a second,
// looser pass rather than failing outright).
func (m StructFieldMap) byRenderName(name string) *StructField {
	for _, f := range m {
		if f.RenderName == name {
			return f
		}
	}
	for _, f := range m {
		if strings.EqualFold(f.RenderName, name) {
			return f
		}
	}
	return nil
}

func structFieldMap(structType reflect.Type) (StructFieldMap, error) {
	out := StructFieldMap{}
	seen := map[string]struct{}{}
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if isIgnoredStructField(field) {
			continue
		}
		sf := structField(field)
		if _, exists := seen[sf.RenderName]; exists {
			return nil, xerrors.Errorf("duplicated struct field name %s", sf.RenderName)
		}
		seen[sf.RenderName] = struct{}{}
		out[sf.FieldName] = sf
	}
	return out, nil
}
