package yaml

import (
	"io"
	"os"

	"github.com/fyparse/fyparse/diag"
	"github.com/fyparse/fyparse/input"
	"github.com/fyparse/fyparse/resolve"
	"github.com/fyparse/fyparse/resolver"
)

// Config holds a Decoder's knobs, one field per entry of the
// configuration table (input mode, tab handling, comment/directive
// strictness, resolution, allocator policy, diagnostics). Every Option
// starts from defaultConfig(): the zero Config plus ResolveDocument
// enabled, MaxAliasDepth at resolver.DefaultMaxAliasDepth, and Diag set
// to os.Stderr.
type Config struct {
	JSON     input.JSONMode
	Tab      input.TabPolicy
	TabWidth int

	// BareDocumentOnly rejects `---`/`...` markers and %directives,
	// matching the configuration table's "reject directives and doc
	// markers" knob.
	BareDocumentOnly bool

	// ResolveDocument controls whether the resolver (anchor/alias
	// validation, merge-key expansion) runs before composing. Turning
	// it off only makes sense for documents with no aliases/merge
	// keys to resolve, since Compose errors on any alias it hits with
	// no resolver configured.
	ResolveDocument bool

	// YAMLVersion forces the core-schema scalar table regardless of
	// what the document's own `%YAML` directive (or its absence)
	// implies. The zero value, YAMLVersionAuto, leaves Compose's own
	// per-document switch (1.1 documents get Schema11) in charge.
	YAMLVersion YAMLVersionMode

	MaxAliasDepth int

	// DisableRecycling routes the decoder's input-buffering through an
	// eager, non-pooled allocator (arena.Eager) instead of the default
	// tag-scoped arena.Pool, so a leak detector sees each read buffer's
	// true lifetime.
	DisableRecycling bool

	// CollectDiag captures pipeline diagnostics (scan/build/resolve/
	// compose/decode stage failures) into an in-memory diag.MemorySink
	// instead of streaming them to Diag.
	CollectDiag bool
	Diag        io.Writer

	// DisallowUnknownFields makes decoding into a struct an error if
	// the source mapping has a key with no matching field.
	DisallowUnknownFields bool

	Validator StructValidator
}

// Option configures a Decoder.
type Option func(*Config)

func WithJSON(mode input.JSONMode) Option { return func(c *Config) { c.JSON = mode } }

func WithTab(policy input.TabPolicy, width int) Option {
	return func(c *Config) { c.Tab = policy; c.TabWidth = width }
}

func WithBareDocumentOnly(enabled bool) Option {
	return func(c *Config) { c.BareDocumentOnly = enabled }
}

func WithResolveDocument(enabled bool) Option {
	return func(c *Config) { c.ResolveDocument = enabled }
}

// YAMLVersionMode selects the `YAML=1.1|1.2` configuration knob (spec
// §6 EXPANSION): Auto defers to each document's own declared/implied
// version, while Force11/Force12 pin every document in the stream to
// one core-schema scalar table regardless of its `%YAML` directive.
type YAMLVersionMode int

const (
	YAMLVersionAuto YAMLVersionMode = iota
	YAMLVersionForce11
	YAMLVersionForce12
)

func (m YAMLVersionMode) schema() (resolve.Schema, bool) {
	switch m {
	case YAMLVersionForce11:
		return resolve.Schema11, true
	case YAMLVersionForce12:
		return resolve.Schema12, true
	default:
		return 0, false
	}
}

func WithYAMLVersion(m YAMLVersionMode) Option { return func(c *Config) { c.YAMLVersion = m } }

func WithMaxAliasDepth(n int) Option { return func(c *Config) { c.MaxAliasDepth = n } }

func WithDisableRecycling(enabled bool) Option {
	return func(c *Config) { c.DisableRecycling = enabled }
}

// WithCollectDiag switches diagnostics from streaming to w (default
// os.Stderr when w is nil) into an in-memory sink retrievable via
// Decoder.Diagnostics.
func WithCollectDiag(enabled bool) Option { return func(c *Config) { c.CollectDiag = enabled } }

func WithDiagWriter(w io.Writer) Option { return func(c *Config) { c.Diag = w } }

func DisallowUnknownFields(enabled bool) Option {
	return func(c *Config) { c.DisallowUnknownFields = enabled }
}

// Validator registers a struct-tag validator (e.g. go-playground/
// validator/v10's *validator.Validate) run against every decoded struct
// value.
func Validator(v StructValidator) Option { return func(c *Config) { c.Validator = v } }

func defaultConfig() Config {
	return Config{
		ResolveDocument: true,
		MaxAliasDepth:   resolver.DefaultMaxAliasDepth,
		Diag:            os.Stderr,
	}
}

func diagSink(cfg Config) diag.Sink {
	if cfg.CollectDiag {
		return diag.NewMemorySink()
	}
	if cfg.Diag == nil || cfg.Diag == os.Stderr {
		return diag.NewStderrSink()
	}
	return diag.NewStreamSink(cfg.Diag, false)
}
