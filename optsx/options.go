package optsx

import "errors"

// ProtocolVersion selects the OData dialect the protocol renderer targets.
type ProtocolVersion string

const (
	V2 ProtocolVersion = "v2"
	V4 ProtocolVersion = "v4"
)

// ODataFormat selects the v4 identifier style.
type ODataFormat string

const (
	Flat       ODataFormat = "flat"
	Structured ODataFormat = "structured"
)

// NamingMode selects identifier flattening and quoting, per spec.md §6
// "Identifier policy": plain flattens dots to underscores and uppercases,
// quoted preserves case and quotes, hdbcds additionally inserts "::"
// between namespace and top-level name.
type NamingMode string

const (
	Plain  NamingMode = "plain"
	Quoted NamingMode = "quoted"
	HDBCDS NamingMode = "hdbcds"
)

// Dialect selects the SQL dialect the SQL renderer targets.
type Dialect string

const (
	Hana       Dialect = "hana"
	SQLite     Dialect = "sqlite"
	PlainSQL   Dialect = "plain"
)

// Src selects monolithic vs. per-object SQL output.
type Src string

const (
	SrcSQL Src = "sql"
	SrcHDI Src = "hdi"
)

// ChangeMode selects how the differ realizes a dropped or narrowed column.
type ChangeMode string

const (
	ChangeAlter ChangeMode = "alter"
	ChangeDrop  ChangeMode = "drop"
)

// Options is the validated bundle of compile-time toggles. The zero value
// is not valid; build one with New/Apply and the With* constructors below.
type Options struct {
	Version     ProtocolVersion
	ODataFormat ODataFormat

	ODataContainment     bool
	ODataForeignKeys     bool
	ODataProxies         bool
	ODataXServiceRefs    bool
	ODataV2PartialConstr bool

	SQLMapping NamingMode
	Dialect    Dialect
	Src        Src

	SQLChangeMode       ChangeMode
	DefaultStringLength int

	TestMode bool

	// Pass 0 toggles, see spec.md §4.1.
	IncludePartial    bool
	IncludeBeta       bool
	IncludeDeprecated bool
}

// Option configures an Options bundle.
type Option func(*Options) error

// WithVersion selects the protocol dialect.
func WithVersion(v ProtocolVersion) Option {
	return func(o *Options) error {
		switch v {
		case V2, V4:
			o.Version = v
			return nil
		default:
			return NewConfigError("version", v, "must be v2 or v4")
		}
	}
}

// WithODataFormat selects the v4 identifier style.
func WithODataFormat(f ODataFormat) Option {
	return func(o *Options) error {
		switch f {
		case Flat, Structured:
			o.ODataFormat = f
			return nil
		default:
			return NewConfigError("odataFormat", f, "must be flat or structured")
		}
	}
}

// WithODataContainment toggles auto-marking compositions as contained.
func WithODataContainment(b bool) Option {
	return func(o *Options) error { o.ODataContainment = b; return nil }
}

// WithODataForeignKeys toggles rendering foreign-key columns in structured v4.
func WithODataForeignKeys(b bool) Option {
	return func(o *Options) error { o.ODataForeignKeys = b; return nil }
}

// WithODataProxies toggles generating proxy entity types for out-of-service targets.
func WithODataProxies(b bool) Option {
	return func(o *Options) error { o.ODataProxies = b; return nil }
}

// WithODataXServiceRefs toggles emitting cross-service schema references.
func WithODataXServiceRefs(b bool) Option {
	return func(o *Options) error { o.ODataXServiceRefs = b; return nil }
}

// WithODataV2PartialConstr toggles allowing partial referential constraints in v2.
func WithODataV2PartialConstr(b bool) Option {
	return func(o *Options) error { o.ODataV2PartialConstr = b; return nil }
}

// WithSQLMapping selects identifier flattening and quoting (also accepted
// under the "names" key at the external boundary).
func WithSQLMapping(m NamingMode) Option {
	return func(o *Options) error {
		switch m {
		case Plain, Quoted, HDBCDS:
			o.SQLMapping = m
			return nil
		default:
			return NewConfigError("sqlMapping", m, "must be plain, quoted, or hdbcds")
		}
	}
}

// WithDialect selects the SQL dialect.
func WithDialect(d Dialect) Option {
	return func(o *Options) error {
		switch d {
		case Hana, SQLite, PlainSQL:
			o.Dialect = d
			return nil
		default:
			return NewConfigError("dialect", d, "must be hana, sqlite, or plain")
		}
	}
}

// WithSrc selects monolithic vs. per-object SQL output.
func WithSrc(s Src) Option {
	return func(o *Options) error {
		switch s {
		case SrcSQL, SrcHDI:
			o.Src = s
			return nil
		default:
			return NewConfigError("src", s, "must be sql or hdi")
		}
	}
}

// WithSQLChangeMode selects how the differ realizes changes.
func WithSQLChangeMode(m ChangeMode) Option {
	return func(o *Options) error {
		switch m {
		case ChangeAlter, ChangeDrop:
			o.SQLChangeMode = m
			return nil
		default:
			return NewConfigError("sqlChangeMode", m, "must be alter or drop")
		}
	}
}

// WithDefaultStringLength sets the fallback length for unsized string types.
func WithDefaultStringLength(n int) Option {
	return func(o *Options) error {
		if n <= 0 {
			return NewConfigError("defaultStringLength", n, "must be a positive integer")
		}
		o.DefaultStringLength = n
		return nil
	}
}

// WithTestMode toggles sorted, version-stripped output.
func WithTestMode(b bool) Option {
	return func(o *Options) error { o.TestMode = b; return nil }
}

// WithPartial, WithBeta and WithDeprecated control pass 0's inclusion of
// definitions annotated @cds.partial, @cds.beta or @deprecated.
func WithPartial(b bool) Option    { return func(o *Options) error { o.IncludePartial = b; return nil } }
func WithBeta(b bool) Option       { return func(o *Options) error { o.IncludeBeta = b; return nil } }
func WithDeprecated(b bool) Option { return func(o *Options) error { o.IncludeDeprecated = b; return nil } }

// defaults matches the documented external-boundary defaults: v4,
// structured, plain naming, the "plain" SQL dialect, monolithic sql
// output, alter-mode diffing, and a 5000-character default string length.
func defaults() Options {
	return Options{
		Version:             V4,
		ODataFormat:         Structured,
		SQLMapping:          Plain,
		Dialect:             PlainSQL,
		Src:                 SrcSQL,
		SQLChangeMode:       ChangeAlter,
		DefaultStringLength: 5000,
	}
}

// Apply applies options to o, returning the first error encountered.
func (o *Options) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects every error via errors.Join.
func (o *Options) ApplyAll(opts ...Option) error {
	var joined []error
	for _, opt := range opts {
		if err := opt(o); err != nil {
			joined = append(joined, err)
		}
	}
	return errors.Join(joined...)
}

// New builds an Options bundle starting from the documented defaults and
// layering the given options on top.
func New(opts ...Option) (*Options, error) {
	o := defaults()
	if err := o.Apply(opts...); err != nil {
		return nil, err
	}
	return &o, nil
}

// MustNew is New, panicking on error; reserved for tests and wiring code
// that constructs options from compile-time-known literals.
func MustNew(opts ...Option) *Options {
	o, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return o
}
