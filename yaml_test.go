package yaml_test

import (
	"testing"

	yaml "github.com/fyparse/fyparse"
)

func TestUnmarshalPrimitives(t *testing.T) {
	var v struct {
		Name    string  `yaml:"name"`
		Age     int     `yaml:"age"`
		Score   float64 `yaml:"score"`
		Enabled bool    `yaml:"enabled"`
	}
	src := "name: gopher\nage: 11\nscore: 9.5\nenabled: true\n"
	if err := yaml.Unmarshal([]byte(src), &v); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if v.Name != "gopher" || v.Age != 11 || v.Score != 9.5 || !v.Enabled {
		t.Fatalf("unexpected result: %+v", v)
	}
}

func TestUnmarshalNestedAndSlice(t *testing.T) {
	type Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	}
	var v struct {
		Servers []Server `yaml:"servers"`
	}
	src := "servers:\n  - host: a\n    port: 1\n  - host: b\n    port: 2\n"
	if err := yaml.Unmarshal([]byte(src), &v); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(v.Servers) != 2 || v.Servers[0].Host != "a" || v.Servers[1].Port != 2 {
		t.Fatalf("unexpected result: %+v", v)
	}
}

func TestUnmarshalMap(t *testing.T) {
	var m map[string]int
	if err := yaml.Unmarshal([]byte("a: 1\nb: 2\n"), &m); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if m["a"] != 1 || m["b"] != 2 {
		t.Fatalf("unexpected map: %+v", m)
	}
}

func TestUnmarshalInterface(t *testing.T) {
	var v interface{}
	if err := yaml.Unmarshal([]byte("- 1\n- two\n- true\n"), &v); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	seq, ok := v.([]interface{})
	if !ok || len(seq) != 3 {
		t.Fatalf("unexpected interface result: %#v", v)
	}
}

func TestUnmarshalAliasAndMerge(t *testing.T) {
	src := "defaults: &d\n  timeout: 30\nserver:\n  <<: *d\n  host: x\n"
	var v struct {
		Server struct {
			Host    string `yaml:"host"`
			Timeout int    `yaml:"timeout"`
		} `yaml:"server"`
	}
	if err := yaml.Unmarshal([]byte(src), &v); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if v.Server.Host != "x" || v.Server.Timeout != 30 {
		t.Fatalf("merge key not expanded: %+v", v.Server)
	}
}

func TestUnmarshalRequiresPointer(t *testing.T) {
	var v int
	err := yaml.Unmarshal([]byte("1\n"), v)
	if err == nil {
		t.Fatal("expected an error decoding into a non-pointer")
	}
}

func TestUnmarshalBareDocumentOnlyRejectsMarkers(t *testing.T) {
	err := yaml.Unmarshal([]byte("---\na: 1\n"), &map[string]int{}, yaml.WithBareDocumentOnly(true))
	if err == nil {
		t.Fatal("expected BareDocumentOnly to reject an explicit document marker")
	}
}
