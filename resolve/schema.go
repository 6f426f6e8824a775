// Package resolve implements the supplemental YAML 1.1 core-schema
// scalar resolution table referenced by SPEC_FULL.md's domain-stack
// expansion: the additional boolean/null spellings (`yes`/`no`/`on`/
// `off`/`y`/`n`) that YAML 1.1 recognizes but the 1.2 core schema (and
// hence token.New's default classification) does not. Grounded on
// `yaml-go-yaml`/`WillAbides-yaml`'s yaml.v2-style resolve tables, which
// both carry this exact spelling set for compatibility with PyYAML-era
// documents.
package resolve

import "strings"

// Schema selects which core-schema spelling table composeScalar
// consults for plain scalars that don't match the always-on 1.2 table.
type Schema int

const (
	Schema12 Schema = iota
	Schema11
)

var yaml11Bool = map[string]bool{
	"y": true, "Y": true, "yes": true, "Yes": true, "YES": true,
	"n": false, "N": false, "no": false, "No": false, "NO": false,
	"on": true, "On": true, "ON": true,
	"off": false, "Off": false, "OFF": false,
}

// Bool11 reports whether raw is a YAML-1.1-only boolean spelling and, if
// so, its value.
func Bool11(raw string) (value bool, ok bool) {
	v, ok := yaml11Bool[raw]
	return v, ok
}

// Null11 reports whether raw is a YAML-1.1 empty-scalar null spelling.
// (1.1 treats a completely empty plain scalar the same as 1.2 does; this
// exists so callers have one place to extend with legacy spellings.)
func Null11(raw string) bool {
	return strings.TrimSpace(raw) == ""
}
