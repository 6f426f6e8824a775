package token_test

import (
	"testing"

	"github.com/fyparse/fyparse/token"
)

func TestTokenLinking(t *testing.T) {
	pos := &token.Position{}
	var tokens token.Tokens
	tokens.Add(
		token.SequenceEntry("-", pos),
		token.MappingKey(pos),
		token.MappingValue(pos),
		token.CollectEntry(",", pos),
		token.SequenceStart("[", pos),
		token.SequenceEnd("]", pos),
		token.MappingStart("{", pos),
		token.MappingEnd("}", pos),
		token.Comment("#", "#", pos),
		token.Anchor("&", pos),
		token.Alias("*", pos),
		token.Tag("!!str", "!!str", pos),
		token.Literal("|", "|", pos),
		token.Folded(">", ">", pos),
		token.SingleQuote("a", "'a'", pos),
		token.DoubleQuote("a", `"a"`, pos),
		token.String("", "", pos),
		token.MergeKey(pos),
		token.DocumentHeader(pos),
		token.DocumentEnd(pos),
	)
	if len(tokens) != 20 {
		t.Fatalf("unexpected token count: %d", len(tokens))
	}
	for i := 1; i < len(tokens); i++ {
		if tokens[i].Prev != tokens[i-1] {
			t.Fatalf("token %d: broken Prev link", i)
		}
		if tokens[i-1].Next != tokens[i] {
			t.Fatalf("token %d: broken Next link", i-1)
		}
	}
}

func TestNewScalarClassification(t *testing.T) {
	pos := &token.Position{}
	tests := []struct {
		value    string
		jsonMode bool
		want     token.Type
	}{
		{"null", false, token.NullType},
		{"~", false, token.NullType},
		{"~", true, token.StringType}, // JSON mode rejects YAML-only spellings
		{"true", false, token.BoolType},
		{"true", true, token.BoolType},
		{"-.inf", false, token.InfinityType},
		{"-.inf", true, token.StringType},
		{"1", false, token.IntegerType},
		{"1", true, token.IntegerType},
		{"+1", true, token.StringType}, // open question: JSON rejects leading '+'
		{"+1", false, token.IntegerType},
		{"1.5", false, token.FloatType},
		{"hello", false, token.StringType},
	}
	for _, tt := range tests {
		got := token.New(tt.value, tt.value, pos, tt.jsonMode).Type
		if got != tt.want {
			t.Errorf("New(%q, json=%v) = %s, want %s", tt.value, tt.jsonMode, got, tt.want)
		}
	}
}

func TestIsBuiltinTag(t *testing.T) {
	if !token.IsBuiltinTag("!!str") {
		t.Error("!!str should be a builtin tag")
	}
	if token.IsBuiltinTag("!!custom") {
		t.Error("!!custom should not be a builtin tag")
	}
}
