package yaml_test

import (
	"testing"

	yaml "github.com/fyparse/fyparse"
)

// FuzzUnmarshal exercises the full scan/build/resolve/compose/decode
// pipeline end to end: a malformed document should surface as an error,
// never a panic.
func FuzzUnmarshal(f *testing.F) {
	seeds := []string{
		"a: 1\n",
		"- 1\n- 2\n",
		"a: &x 1\nb: *x\n",
		"a:\n  <<: *missing\n",
		"{a: [1, 2], b: {c: 3}}\n",
		"---\na: 1\n...\n---\nb: 2\n",
		"a: \"unterminated\n",
		"\t- bad indent\n",
	}
	for _, s := range seeds {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, src string) {
		var v interface{}
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("Unmarshal(%q) panicked: %v", src, r)
			}
		}()
		_ = yaml.Unmarshal([]byte(src), &v)
	})
}
