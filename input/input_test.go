package input_test

import (
	"testing"

	"github.com/fyparse/fyparse/input"
)

func TestOpenJSONModeAuto(t *testing.T) {
	in := input.Open("doc.json", []byte(`{"a":1}`), false, input.JSONAuto)
	if !in.IsJSON() {
		t.Fatal("expected .json extension to force JSON mode under auto")
	}
	in2 := input.Open("doc.yaml", []byte("a: 1"), false, input.JSONAuto)
	if in2.IsJSON() {
		t.Fatal("expected .yaml extension to stay out of JSON mode under auto")
	}
}

func TestReaderPeekAdvance(t *testing.T) {
	in := input.Open("mem", []byte("ab\ncd"), false, input.JSONOff)
	r, err := input.NewReader(in)
	if err != nil {
		t.Fatal(err)
	}
	c, ok := r.PeekChar(0)
	if !ok || c != 'a' {
		t.Fatalf("PeekChar(0) = %q, %v", c, ok)
	}
	// Peek must not consume.
	c, ok = r.PeekChar(0)
	if !ok || c != 'a' {
		t.Fatalf("second PeekChar(0) = %q, %v", c, ok)
	}
	r.Advance(3) // "ab\n"
	pos := r.CurrentPosition()
	if pos.Line != 2 || pos.Column != 1 {
		t.Fatalf("after advancing past newline: line=%d column=%d", pos.Line, pos.Column)
	}
}

func TestReaderResetIsIdempotent(t *testing.T) {
	in := input.Open("mem", []byte("abc"), false, input.JSONOff)
	r, _ := input.NewReader(in)
	r.Advance(2)
	first := *r.CurrentPosition()
	r.Reset()
	r.Advance(2)
	second := *r.CurrentPosition()
	if first != second {
		t.Fatalf("reset did not reproduce identical position: %+v vs %+v", first, second)
	}
}

func TestMalformedUTF8(t *testing.T) {
	in := input.Open("mem", []byte{0xff, 0xfe}, false, input.JSONOff)
	if _, err := in.Runes(); err == nil {
		t.Fatal("expected malformed UTF-8 error")
	}
}

func TestBOMConsumed(t *testing.T) {
	buf := append([]byte{0xEF, 0xBB, 0xBF}, []byte("a: 1")...)
	in := input.Open("mem", buf, false, input.JSONOff)
	runes, err := in.Runes()
	if err != nil {
		t.Fatal(err)
	}
	if len(runes) == 0 || runes[0] != 'a' {
		t.Fatalf("expected BOM stripped, first rune = %q", runes[0])
	}
}
