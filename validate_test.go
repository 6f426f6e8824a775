package yaml_test

import (
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"

	yaml "github.com/fyparse/fyparse"
)

type person struct {
	Name string `yaml:"name" validate:"required"`
	Age  int    `yaml:"age" validate:"gte=0,lt=120"`
}

func TestDecodeWithValidator(t *testing.T) {
	src := "- name: john\n  age: 20\n- name: tom\n  age: -1\n"
	var v []*person
	err := yaml.Unmarshal([]byte(src), &v, yaml.Validator(validator.New()))
	if err == nil {
		t.Fatal("expected a validation error for the negative age")
	}
	if !strings.Contains(err.Error(), "Age") {
		t.Fatalf("expected the validator error to name the Age field, got: %v", err)
	}
}

func TestDecodeWithValidatorPassing(t *testing.T) {
	src := "name: john\nage: 20\n"
	var v person
	if err := yaml.Unmarshal([]byte(src), &v, yaml.Validator(validator.New())); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}
