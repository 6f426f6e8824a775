// Package yaml is the public decode surface: Unmarshal/Decoder read a
// YAML or JSON document and bind it onto a Go value via reflection,
// walking value.Value (the generic tagged value produced by compose)
// into interface{}/struct/map/slice targets, rather than walking
// ast.Node directly, since composition is its own pipeline stage ahead
// of struct binding.
//
// Marshal/Encode are not part of this surface: emitter/serializer
// formatting is an explicit non-goal, so there is nothing here that
// writes YAML back out.
package yaml

import (
	"fmt"
	"io"
	"reflect"

	"github.com/fyparse/fyparse/arena"
	"github.com/fyparse/fyparse/builder"
	"github.com/fyparse/fyparse/compose"
	"github.com/fyparse/fyparse/diag"
	"github.com/fyparse/fyparse/errors"
	"github.com/fyparse/fyparse/input"
	"github.com/fyparse/fyparse/resolver"
	"github.com/fyparse/fyparse/scanner"
	"github.com/fyparse/fyparse/value"
)

// StructValidator is satisfied by go-playground/validator/v10's
// *validator.Validate (and anything matching its Struct method), run
// against every decoded struct value when configured via Validator.
type StructValidator interface {
	Struct(interface{}) error
}

// BytesUnmarshaler is implemented by types that want the raw scalar
// text of the YAML node they're decoded from, bypassing the generic
// reflect-binding path (spec's struct-decode supplement to component
// 4.6/4.7's composer/consumer split).
type BytesUnmarshaler interface {
	UnmarshalYAML([]byte) error
}

// InterfaceUnmarshaler is implemented by types that want to drive their
// own decode by calling back into the decoder for nested values (the fn
// argument behaves like Decoder.Decode against the node's own value).
type InterfaceUnmarshaler interface {
	UnmarshalYAML(func(interface{}) error) error
}

// Decoder reads and decodes a single YAML/JSON document from a byte
// source.
type Decoder struct {
	cfg   Config
	alloc arena.Allocator
	sink  diag.Sink
}

// NewDecoder returns a Decoder configured by opts; defaultConfig()
// (auto JSON detection, resolution enabled, streamed diagnostics to
// stderr) is the starting point each Option adjusts.
func NewDecoder(opts ...Option) *Decoder {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	alloc := arena.Allocator(arena.NewPool())
	if cfg.DisableRecycling {
		alloc = arena.NewEager()
	}
	return &Decoder{cfg: cfg, alloc: alloc, sink: diagSink(cfg)}
}

// Diagnostics returns the reports collected so far, when the Decoder
// was built with WithCollectDiag(true); it returns nil otherwise.
func (d *Decoder) Diagnostics() []*diag.Report {
	if ms, ok := d.sink.(*diag.MemorySink); ok {
		return ms.Reports()
	}
	return nil
}

func (d *Decoder) report(level diag.Level, module diag.Module, name string, format string, args ...interface{}) {
	d.sink.Report(diag.New(level, module, name, diag.Mark{}, diag.Mark{}, format, args...))
}

// readAll slurps r through the Decoder's configured allocator: a tag is
// opened for this read, one 4096-byte chunk is Alloc'd under it and
// reused for every Read (each read's bytes are appended to the result),
// and the tag is released once the full buffer has been copied out, so DisableRecycling's
// eager-allocation policy (spec §6 DISABLE_RECYCLING) governs the
// decoder's own input buffering even though the scanner beneath it
// still manages its own token storage independently.
func (d *Decoder) readAll(r io.Reader, name string) ([]byte, error) {
	tag := d.alloc.NewTag()
	defer d.alloc.Release(tag)
	var out []byte
	chunk := d.alloc.Alloc(tag, 4096)
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			out = append(out, chunk[:n]...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			d.report(diag.LevelError, diag.ModuleSystem, name, "read: %s", err)
			return nil, fmt.Errorf("yaml: read %s: %w", name, err)
		}
	}
	return out, nil
}

// Decode reads all of r and stores its first document in v, which must
// be a non-nil pointer.
func (d *Decoder) Decode(r io.Reader, v interface{}) error {
	buf, err := d.readAll(r, "stream")
	return d.decodeBytes(buf, err, "stream", v)
}

// DecodeBytes decodes src directly, without an io.Reader round-trip.
func (d *Decoder) DecodeBytes(src []byte, v interface{}) error {
	return d.decodeBytes(src, nil, "mem", v)
}

func (d *Decoder) decodeBytes(src []byte, readErr error, name string, v interface{}) error {
	if readErr != nil {
		return readErr
	}
	val, err := d.composeOne(src, name)
	if err != nil {
		return err
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return errors.ErrDecodeRequiredPointerType
	}
	if err := d.decodeValue(val, rv.Elem(), "$"); err != nil {
		return err
	}
	return d.validate(rv.Elem())
}

// composeOne runs the full pipeline (scan -> build -> resolve ->
// compose) over src and returns the first document's composed value.
func (d *Decoder) composeOne(src []byte, name string) (value.Value, error) {
	in := input.Open(name, src, false, d.cfg.JSON)
	rd, err := input.NewReader(in)
	if err != nil {
		d.report(diag.LevelError, diag.ModuleAtom, name, "open: %s", err)
		return value.Value{}, fmt.Errorf("yaml: %w", err)
	}
	toks, err := scanner.New(rd, in.IsJSON(), d.cfg.Tab, d.cfg.TabWidth).Scan()
	if err != nil {
		d.report(diag.LevelError, diag.ModuleScanner, name, "scan: %s", err)
		return value.Value{}, fmt.Errorf("yaml: %w", err)
	}
	docs, err := builder.Build(toks)
	if err != nil {
		d.report(diag.LevelError, diag.ModuleBuilder, name, "build: %s", err)
		return value.Value{}, fmt.Errorf("yaml: %w", err)
	}
	if len(docs) == 0 {
		return value.Null(), nil
	}
	doc := docs[0]
	if d.cfg.BareDocumentOnly && (doc.ExplicitStart || doc.ExplicitEnd || len(doc.TagDirectives) > 2) {
		return value.Value{}, fmt.Errorf("yaml: document markers/directives present with BareDocumentOnly set")
	}

	var res *resolver.Resolver
	if d.cfg.ResolveDocument {
		res = resolver.New(resolver.WithMaxAliasDepth(d.cfg.MaxAliasDepth))
		if err := res.Resolve(doc); err != nil {
			d.report(diag.LevelError, diag.ModuleTree, name, "resolve: %s", err)
			return value.Value{}, fmt.Errorf("yaml: %w", err)
		}
	}

	var composeOpts []compose.Option
	if schema, ok := d.cfg.YAMLVersion.schema(); ok {
		composeOpts = append(composeOpts, compose.WithSchema(schema))
	}
	val, err := compose.New(res, composeOpts...).Compose(doc)
	if err != nil {
		d.report(diag.LevelError, diag.ModuleTree, name, "compose: %s", err)
		return value.Value{}, fmt.Errorf("yaml: %w", err)
	}
	return val, nil
}

func (d *Decoder) validate(rv reflect.Value) error {
	if d.cfg.Validator == nil {
		return nil
	}
	return validateRecursive(d.cfg.Validator, rv)
}

// validateRecursive runs the configured validator against every struct
// value reachable from rv, since a single top-level Validator.Struct
// call only checks the outermost struct's own tags.
func validateRecursive(v StructValidator, rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return validateRecursive(v, rv.Elem())
	case reflect.Struct:
		if err := v.Struct(rv.Interface()); err != nil {
			return err
		}
		for i := 0; i < rv.NumField(); i++ {
			if rv.Type().Field(i).PkgPath != "" {
				continue
			}
			if err := validateRecursive(v, rv.Field(i)); err != nil {
				return err
			}
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if err := validateRecursive(v, rv.Index(i)); err != nil {
				return err
			}
		}
	case reflect.Map:
		for _, k := range rv.MapKeys() {
			if err := validateRecursive(v, rv.MapIndex(k)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Unmarshal decodes a single YAML (or JSON, auto-detected) document in
// data into v.
func Unmarshal(data []byte, v interface{}, opts ...Option) error {
	return NewDecoder(opts...).DecodeBytes(data, v)
}
