package value_test

import (
	"reflect"
	"testing"

	"github.com/fyparse/fyparse/value"
)

func TestShortStringRoundTrip(t *testing.T) {
	v := value.String("short")
	if v.Str() != "short" {
		t.Fatalf("Str() = %q", v.Str())
	}
}

func TestLongStringRoundTrip(t *testing.T) {
	long := "this string is definitely longer than seven bytes"
	v := value.String(long)
	if v.Str() != long {
		t.Fatalf("Str() = %q", v.Str())
	}
}

func TestMappingGet(t *testing.T) {
	m := value.Mapping(
		value.Pair{Key: value.String("a"), Value: value.Int(1)},
		value.Pair{Key: value.String("b"), Value: value.Int(2)},
	)
	got, ok := m.Get("a")
	if !ok || got.Int() != 1 {
		t.Fatalf("Get(a) = %v, %v", got, ok)
	}
	if _, ok := m.Get("missing"); ok {
		t.Fatal("expected missing key to report ok=false")
	}
}

func TestAsGo(t *testing.T) {
	v := value.Mapping(
		value.Pair{Key: value.String("name"), Value: value.String("alice")},
		value.Pair{Key: value.String("tags"), Value: value.Sequence(value.Int(1), value.Int(2))},
	)
	got := v.AsGo()
	want := map[string]interface{}{
		"name": "alice",
		"tags": []interface{}{int64(1), int64(2)},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("AsGo() = %#v, want %#v", got, want)
	}
}

func TestNullIsZeroValue(t *testing.T) {
	var v value.Value
	if !v.IsNull() {
		t.Fatal("expected zero Value to be null")
	}
}
