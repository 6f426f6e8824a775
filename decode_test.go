package yaml_test

import (
	"strings"
	"testing"

	yaml "github.com/fyparse/fyparse"
)

func TestDecodeCaseInsensitiveFieldMatch(t *testing.T) {
	var v struct {
		UserName string `yaml:"username"`
	}
	if err := yaml.Unmarshal([]byte("Username: bob\n"), &v); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if v.UserName != "bob" {
		t.Fatalf("expected case-insensitive fallback match, got %+v", v)
	}
}

func TestDecodeInlineStruct(t *testing.T) {
	type Base struct {
		ID int `yaml:"id"`
	}
	var v struct {
		Base `yaml:",inline"`
		Name string `yaml:"name"`
	}
	if err := yaml.Unmarshal([]byte("id: 7\nname: x\n"), &v); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if v.ID != 7 || v.Name != "x" {
		t.Fatalf("unexpected inline result: %+v", v)
	}
}

func TestDecodeDisallowUnknownFields(t *testing.T) {
	var v struct {
		Name string `yaml:"name"`
	}
	err := yaml.Unmarshal([]byte("name: a\nextra: b\n"), &v, yaml.DisallowUnknownFields(true))
	if err == nil {
		t.Fatal("expected an unknown-field error")
	}
	if !strings.Contains(err.Error(), "extra") {
		t.Fatalf("expected error to name the unknown field, got: %v", err)
	}
}

func TestDecodeUnknownFieldsAllowedByDefault(t *testing.T) {
	var v struct {
		Name string `yaml:"name"`
	}
	if err := yaml.Unmarshal([]byte("name: a\nextra: b\n"), &v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Name != "a" {
		t.Fatalf("unexpected result: %+v", v)
	}
}

func TestDecodeTypeMismatchReportsPath(t *testing.T) {
	var v struct {
		Servers []struct {
			Port int `yaml:"port"`
		} `yaml:"servers"`
	}
	err := yaml.Unmarshal([]byte("servers:\n  - port: not-a-number\n"), &v)
	if err == nil {
		t.Fatal("expected a type-mismatch error")
	}
	if !strings.Contains(err.Error(), "servers[0].port") {
		t.Fatalf("expected the error path to name servers[0].port, got: %v", err)
	}
}

type hexAddress [4]byte

func (a *hexAddress) UnmarshalYAML(b []byte) error {
	copy(a[:], b)
	return nil
}

func TestDecodeBytesUnmarshaler(t *testing.T) {
	var v struct {
		Addr hexAddress `yaml:"addr"`
	}
	if err := yaml.Unmarshal([]byte("addr: 1234\n"), &v); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if string(v.Addr[:]) != "1234" {
		t.Fatalf("unexpected addr: %v", v.Addr)
	}
}
