package yaml_test

import (
	"strings"
	"testing"

	yaml "github.com/fyparse/fyparse"
)

func TestDecodeErrorRequiresPointer(t *testing.T) {
	var v int
	err := yaml.Unmarshal([]byte("1\n"), v)
	if err == nil {
		t.Fatal("expected an error")
	}
	if err.Error() == "" {
		t.Fatal("expected a non-empty error message")
	}
}

func TestDecodeErrorMentionsPath(t *testing.T) {
	var v struct {
		Count int `yaml:"count"`
	}
	err := yaml.Unmarshal([]byte("count: not-a-number\n"), &v)
	if err == nil {
		t.Fatal("expected a decode error")
	}
	de, ok := err.(*yaml.DecodeError)
	if !ok {
		t.Fatalf("expected *yaml.DecodeError, got %T", err)
	}
	if de.Path != "$.count" {
		t.Fatalf("expected path $.count, got %q", de.Path)
	}
	if !strings.Contains(de.Error(), "$.count") {
		t.Fatalf("expected rendered error to include the path, got: %v", de.Error())
	}
}
