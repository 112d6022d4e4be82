package model

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// builtinScalarTypes lists the namespaced builtin scalar type names; any
// other "type" value on a definition/element is a reference to a
// user-defined named type rather than an inline scalar-plus-facets.
var builtinScalarTypes = map[string]bool{
	"cds.UUID": true, "cds.Boolean": true, "cds.Integer": true, "cds.Integer64": true,
	"cds.Decimal": true, "cds.DecimalFloat": true, "cds.Double": true,
	"cds.Date": true, "cds.Time": true, "cds.DateTime": true, "cds.Timestamp": true,
	"cds.String": true, "cds.LargeString": true, "cds.Binary": true, "cds.LargeBinary": true,
	"cds.hana.SMALLINT": true, "cds.hana.TINYINT": true, "cds.hana.REAL": true,
	"cds.hana.CHAR": true, "cds.hana.NCHAR": true, "cds.hana.VARCHAR": true,
	"cds.hana.ST_POINT": true, "cds.hana.ST_GEOMETRY": true, "cds.hana.BINARY": true,
}

func isBuiltinScalarType(t string) bool {
	return builtinScalarTypes[t] || strings.HasPrefix(t, "cds.")
}

// wireStore is the top-level JSON shape from spec.md §6: "a recursive,
// dictionary-based representation; top-level keys definitions,
// extensions, vocabularies, i18n, requires, meta, $version."
type wireStore struct {
	Definitions  map[string]json.RawMessage `json:"definitions"`
	Extensions   map[string]any             `json:"extensions,omitempty"`
	Vocabularies map[string]any             `json:"vocabularies,omitempty"`
	I18n         map[string]any             `json:"i18n,omitempty"`
	Requires     []string                   `json:"requires,omitempty"`
	Meta         map[string]any             `json:"meta,omitempty"`
	Version      string                     `json:"$version,omitempty"`
}

// DecodeStore parses a normalized input model from r. Unknown top-level
// definition properties are accepted silently beyond the "unknown
// property" info the real parser boundary would emit - this module never
// treats them as errors (§6).
func DecodeStore(r io.Reader) (*Store, error) {
	var w wireStore
	dec := json.NewDecoder(r)
	if err := dec.Decode(&w); err != nil {
		return nil, fmt.Errorf("model: decode store: %w", err)
	}
	s := New()
	s.Extensions, s.Vocabularies, s.I18n = w.Extensions, w.Vocabularies, w.I18n
	s.Requires, s.Meta, s.Version = w.Requires, w.Meta, w.Version
	for name, raw := range w.Definitions {
		d, err := decodeDefinition(name, raw)
		if err != nil {
			return nil, fmt.Errorf("model: definition %q: %w", name, err)
		}
		s.Put(d)
	}
	return s, nil
}

// Encode writes the store back out in the wire shape. Used by testMode
// snapshotting and by tooling that wants to persist an enriched model.
func (s *Store) Encode(w io.Writer) error {
	defs := make(map[string]json.RawMessage, s.Len())
	for _, name := range s.Names() {
		raw, err := encodeDefinition(s.definitions[name])
		if err != nil {
			return fmt.Errorf("model: definition %q: %w", name, err)
		}
		defs[name] = raw
	}
	out := wireStore{
		Definitions:  defs,
		Extensions:   s.Extensions,
		Vocabularies: s.Vocabularies,
		I18n:         s.I18n,
		Requires:     s.Requires,
		Meta:         s.Meta,
		Version:      s.Version,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

type wireDefinition struct {
	Kind        Kind              `json:"kind"`
	Doc         string            `json:"doc,omitempty"`
	Annotations json.RawMessage   `json:"-"`
	Elements    []json.RawMessage `json:"elements,omitempty"`
	Type        string            `json:"type,omitempty"`
	Length      int               `json:"length,omitempty"`
	Precision   int               `json:"precision,omitempty"`
	Scale       int               `json:"scale,omitempty"`
	SRID        int               `json:"srid,omitempty"`
	Includes    []string          `json:"includes,omitempty"`
	Query       json.RawMessage   `json:"query,omitempty"`
	Params      []wireParam       `json:"params,omitempty"`
	Returns     *ScalarType       `json:"returns,omitempty"`
}

type wireParam struct {
	Name      string `json:"name"`
	Type      string `json:"type,omitempty"`
	Length    int    `json:"length,omitempty"`
	Precision int    `json:"precision,omitempty"`
	Scale     int    `json:"scale,omitempty"`
}

func decodeDefinition(name string, raw json.RawMessage) (*Definition, error) {
	// Two-pass decode: one pass for the typed scalar fields via
	// wireDefinition, a second, separate pass for annotations (any "@..."
	// prefixed top-level key), matching the flat-annotation convention a
	// CSN-like wire format uses.
	var w wireDefinition
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, err
	}
	var flat map[string]json.RawMessage
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, err
	}
	d := &Definition{
		Name:       name,
		Kind:       w.Kind,
		Doc:        w.Doc,
		IncludesOf: w.Includes,
	}
	d.IsStruct = len(w.Elements) > 0
	if !d.IsStruct && w.Type != "" {
		d.Base = &ScalarType{Base: w.Type, Length: w.Length, Precision: w.Precision, Scale: w.Scale, SRID: w.SRID}
	}
	for _, raw := range w.Elements {
		el, err := decodeElement(raw)
		if err != nil {
			return nil, err
		}
		d.AddElement(el)
	}
	if len(w.Query) > 0 {
		q, err := decodeQuery(w.Query)
		if err != nil {
			return nil, err
		}
		d.Query = q
	}
	for _, p := range w.Params {
		d.Params = append(d.Params, &Param{Name: p.Name, Type: &ScalarType{Base: p.Type, Length: p.Length, Precision: p.Precision, Scale: p.Scale}})
	}
	d.Returns = w.Returns
	ann := NewAnnotations()
	keys := make([]string, 0)
	for k := range flat {
		if len(k) > 0 && k[0] == '@' {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		v, err := decodeAnnotationValue(flat[k])
		if err != nil {
			return nil, err
		}
		ann.Set(k, v)
	}
	d.Annotations = ann
	return d, nil
}

type wireElement struct {
	Name     string            `json:"name"`
	Type     string            `json:"type,omitempty"`
	Length   int               `json:"length,omitempty"`
	Precision int              `json:"precision,omitempty"`
	Scale    int               `json:"scale,omitempty"`
	SRID     int               `json:"srid,omitempty"`
	Items    json.RawMessage   `json:"items,omitempty"`
	Elements []json.RawMessage `json:"elements,omitempty"`
	Key      bool              `json:"key,omitempty"`
	NotNull  bool              `json:"notNull,omitempty"`
	Virtual  bool              `json:"virtual,omitempty"`
	Masked   bool              `json:"masked,omitempty"`
	Unique   bool              `json:"unique,omitempty"`
	Default  json.RawMessage   `json:"default,omitempty"`
	Doc      string            `json:"doc,omitempty"`
	Target   string            `json:"target,omitempty"`
	On       json.RawMessage   `json:"on,omitempty"`
	Keys     []wireFKRef       `json:"keys,omitempty"`
	Composition bool           `json:"composition,omitempty"`
	Cardinality *Cardinality   `json:"cardinality,omitempty"`
}

type wireFKRef struct {
	Path []string `json:"$generatedFieldName,omitempty"`
	Ref  []string `json:"ref"`
}

func decodeElement(raw json.RawMessage) (*Element, error) {
	var w wireElement
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, err
	}
	el := &Element{
		Name: w.Name, Key: w.Key, NotNull: w.NotNull,
		Virtual: w.Virtual, Masked: w.Masked, Unique: w.Unique, Doc: w.Doc,
	}
	switch {
	case w.Target != "":
		// association/composition; handled below.
	case len(w.Elements) > 0:
		// anonymous nested struct; populated below.
	case len(w.Items) > 0:
		// array-of; populated below.
	case w.Type != "" && isBuiltinScalarType(w.Type):
		el.Base = &ScalarType{Base: w.Type, Length: w.Length, Precision: w.Precision, Scale: w.Scale, SRID: w.SRID}
	case w.Type != "":
		el.Type = w.Type
	}
	if len(w.Items) > 0 {
		inner, err := decodeElement(w.Items)
		if err != nil {
			return nil, err
		}
		el.Items = inner
	}
	for _, raw := range w.Elements {
		child, err := decodeElement(raw)
		if err != nil {
			return nil, err
		}
		el.Elements = append(el.Elements, child)
	}
	if len(w.Default) > 0 {
		dflt, err := decodeExpr(w.Default)
		if err != nil {
			return nil, err
		}
		el.Default = dflt
	}
	if w.Target != "" {
		assoc := &Association{Target: w.Target, Composition: w.Composition, DeclaredType: w.Type}
		if len(w.On) > 0 {
			on, err := decodeExpr(w.On)
			if err != nil {
				return nil, err
			}
			assoc.On = on
		}
		for _, k := range w.Keys {
			assoc.Keys = append(assoc.Keys, &ForeignKeyRef{Path: k.Path, Ref: k.Ref})
		}
		if w.Cardinality != nil {
			assoc.Cardinality = *w.Cardinality
		}
		el.Assoc = assoc
		el.Base = nil
	}
	el.Annotations = NewAnnotations()
	return el, nil
}

func decodeQuery(raw json.RawMessage) (*Query, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, err
	}
	if _, ok := probe["SET"]; ok {
		var w struct {
			SET struct {
				Op   string            `json:"op"`
				All  bool              `json:"all"`
				Args []json.RawMessage `json:"args"`
			} `json:"SET"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		q := &Query{Kind: QuerySet, Op: w.SET.Op, All: w.SET.All}
		for _, a := range w.SET.Args {
			sub, err := decodeQuery(a)
			if err != nil {
				return nil, err
			}
			q.Args = append(q.Args, sub)
		}
		return q, nil
	}
	var w struct {
		SELECT struct {
			From      json.RawMessage   `json:"from"`
			Where     json.RawMessage   `json:"where,omitempty"`
			GroupBy   []json.RawMessage `json:"groupBy,omitempty"`
			Having    json.RawMessage   `json:"having,omitempty"`
			OrderBy   []json.RawMessage `json:"orderBy,omitempty"`
			Limit     *int              `json:"limit,omitempty"`
			Offset    *int              `json:"offset,omitempty"`
			Columns   []json.RawMessage `json:"columns,omitempty"`
			Distinct  bool              `json:"distinct,omitempty"`
			Excluding []string          `json:"excluding,omitempty"`
		} `json:"SELECT"`
	}
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, err
	}
	q := &Query{Kind: QuerySelect, Limit: w.SELECT.Limit, Offset: w.SELECT.Offset, Distinct: w.SELECT.Distinct, Excluding: w.SELECT.Excluding}
	if len(w.SELECT.From) > 0 {
		src, err := decodeSource(w.SELECT.From)
		if err != nil {
			return nil, err
		}
		q.From = src
	}
	if len(w.SELECT.Where) > 0 {
		e, err := decodeExpr(w.SELECT.Where)
		if err != nil {
			return nil, err
		}
		q.Where = &e
	}
	if len(w.SELECT.Having) > 0 {
		e, err := decodeExpr(w.SELECT.Having)
		if err != nil {
			return nil, err
		}
		q.Having = &e
	}
	for _, c := range w.SELECT.Columns {
		col, err := decodeColumn(c)
		if err != nil {
			return nil, err
		}
		q.Columns = append(q.Columns, col)
	}
	for _, g := range w.SELECT.GroupBy {
		e, err := decodeExpr(g)
		if err != nil {
			return nil, err
		}
		q.GroupBy = append(q.GroupBy, e)
	}
	for _, o := range w.SELECT.OrderBy {
		ord, err := decodeOrderExpr(o)
		if err != nil {
			return nil, err
		}
		q.OrderBy = append(q.OrderBy, ord)
	}
	return q, nil
}

func decodeOrderExpr(raw json.RawMessage) (OrderExpr, error) {
	var w struct {
		Sort string `json:"sort,omitempty"`
	}
	if err := json.Unmarshal(raw, &w); err != nil {
		return OrderExpr{}, err
	}
	e, err := decodeExpr(raw)
	if err != nil {
		return OrderExpr{}, err
	}
	return OrderExpr{Expr: e, Desc: w.Sort == "desc"}, nil
}

func decodeColumn(raw json.RawMessage) (Column, error) {
	var w struct {
		As  string `json:"as,omitempty"`
		Key bool   `json:"key,omitempty"`
	}
	if err := json.Unmarshal(raw, &w); err != nil {
		return Column{}, err
	}
	e, err := decodeExpr(raw)
	if err != nil {
		return Column{}, err
	}
	return Column{Expr: e, Alias: w.As, Key: w.Key}, nil
}

func decodeSource(raw json.RawMessage) (*Source, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, err
	}
	if _, ok := probe["SELECT"]; ok {
		q, err := decodeQuery(raw)
		if err != nil {
			return nil, err
		}
		return &Source{SubQuery: q}, nil
	}
	if j, ok := probe["join"]; ok {
		var w struct {
			Join string            `json:"join"`
			Args []json.RawMessage `json:"args"`
			On   json.RawMessage   `json:"on"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		_ = j
		src := &Source{Join: w.Join}
		for _, a := range w.Args {
			s, err := decodeSource(a)
			if err != nil {
				return nil, err
			}
			src.JoinArgs = append(src.JoinArgs, s)
		}
		if len(w.On) > 0 {
			e, err := decodeExpr(w.On)
			if err != nil {
				return nil, err
			}
			src.On = &e
		}
		return src, nil
	}
	var w struct {
		Ref   string `json:"ref"`
		As    string `json:"as,omitempty"`
	}
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, err
	}
	return &Source{Ref: w.Ref, Alias: w.As}, nil
}

func decodeExpr(raw json.RawMessage) (Expr, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err == nil {
		switch {
		case has(probe, "val"):
			var w struct {
				Val     any    `json:"val"`
				Literal string `json:"literal,omitempty"`
			}
			if err := json.Unmarshal(raw, &w); err != nil {
				return Expr{}, err
			}
			return Expr{Kind: ExprLiteral, Val: w.Val, Literal: w.Literal}, nil
		case has(probe, "ref"):
			var w struct {
				Ref    []json.RawMessage `json:"ref"`
				Param  bool              `json:"param,omitempty"`
				Global bool              `json:"global,omitempty"`
			}
			if err := json.Unmarshal(raw, &w); err != nil {
				return Expr{}, err
			}
			steps := make([]PathStep, 0, len(w.Ref))
			for _, r := range w.Ref {
				var s string
				if err := json.Unmarshal(r, &s); err == nil {
					steps = append(steps, PathStep{Name: s})
					continue
				}
				var full struct {
					ID    string                     `json:"id"`
					Args  map[string]json.RawMessage `json:"args,omitempty"`
					Where json.RawMessage            `json:"where,omitempty"`
				}
				if err := json.Unmarshal(r, &full); err != nil {
					return Expr{}, err
				}
				step := PathStep{Name: full.ID}
				if len(full.Args) > 0 {
					step.Args = make(map[string]Expr, len(full.Args))
					for k, v := range full.Args {
						e, err := decodeExpr(v)
						if err != nil {
							return Expr{}, err
						}
						step.Args[k] = e
					}
				}
				if len(full.Where) > 0 {
					e, err := decodeExpr(full.Where)
					if err != nil {
						return Expr{}, err
					}
					step.Where = &e
				}
				steps = append(steps, step)
			}
			return Expr{Kind: ExprRef, Ref: steps, IsParam: w.Param, IsGlobal: w.Global}, nil
		case has(probe, "func"):
			var w struct {
				Func string            `json:"func"`
				Args []json.RawMessage `json:"args,omitempty"`
			}
			if err := json.Unmarshal(raw, &w); err != nil {
				return Expr{}, err
			}
			args := make([]Expr, 0, len(w.Args))
			for _, a := range w.Args {
				e, err := decodeExpr(a)
				if err != nil {
					return Expr{}, err
				}
				args = append(args, e)
			}
			return Expr{Kind: ExprFunc, Func: w.Func, Args: args}, nil
		case has(probe, "#"):
			var w struct {
				Symbol string `json:"#"`
			}
			if err := json.Unmarshal(raw, &w); err != nil {
				return Expr{}, err
			}
			return Expr{Kind: ExprEnum, Symbol: w.Symbol}, nil
		case has(probe, "xpr"):
			var w struct {
				Xpr []json.RawMessage `json:"xpr"`
			}
			if err := json.Unmarshal(raw, &w); err != nil {
				return Expr{}, err
			}
			return decodeXprSeq(w.Xpr)
		case has(probe, "list"):
			var w struct {
				List []json.RawMessage `json:"list"`
			}
			if err := json.Unmarshal(raw, &w); err != nil {
				return Expr{}, err
			}
			items := make([]Expr, 0, len(w.List))
			for _, a := range w.List {
				e, err := decodeExpr(a)
				if err != nil {
					return Expr{}, err
				}
				items = append(items, e)
			}
			return Expr{Kind: ExprList, List: items}, nil
		case has(probe, "cast"):
			var w struct {
				Cast *ScalarType     `json:"cast"`
				Of   json.RawMessage `json:"of,omitempty"`
			}
			if err := json.Unmarshal(raw, &w); err != nil {
				return Expr{}, err
			}
			ex := Expr{Kind: ExprCast, CastTo: w.Cast}
			if len(w.Of) > 0 {
				of, err := decodeExpr(w.Of)
				if err != nil {
					return Expr{}, err
				}
				ex.CastOf = &of
			}
			return ex, nil
		}
	}
	return Expr{}, fmt.Errorf("unrecognized expression shape: %s", string(raw))
}

// decodeXprSeq decodes an `xpr` sequence, which alternates operand JSON
// values and bare-string operator tokens.
func decodeXprSeq(items []json.RawMessage) (Expr, error) {
	var operands []Expr
	pending := ""
	for _, raw := range items {
		var tok string
		if err := json.Unmarshal(raw, &tok); err == nil {
			if pending != "" {
				pending += " "
			}
			pending += tok
			continue
		}
		e, err := decodeExpr(raw)
		if err != nil {
			return Expr{}, err
		}
		e.Token = pending
		pending = ""
		operands = append(operands, e)
	}
	return Expr{Kind: ExprXpr, Xpr: operands}, nil
}

func has(m map[string]json.RawMessage, k string) bool {
	_, ok := m[k]
	return ok
}

func encodeDefinition(d *Definition) (json.RawMessage, error) {
	m := map[string]any{"kind": d.Kind}
	if d.Doc != "" {
		m["doc"] = d.Doc
	}
	if d.Base != nil {
		m["type"] = d.Base.Base
		if d.Base.Length != 0 {
			m["length"] = d.Base.Length
		}
		if d.Base.Precision != 0 {
			m["precision"] = d.Base.Precision
		}
		if d.Base.Scale != 0 {
			m["scale"] = d.Base.Scale
		}
	}
	if len(d.Elements) > 0 {
		m["elements"] = d.Elements
	}
	if len(d.IncludesOf) > 0 {
		m["includes"] = d.IncludesOf
	}
	for _, k := range d.Annotations.SortedKeys() {
		v, _ := d.Annotations.Get(k)
		m[k] = v.plain()
	}
	return json.Marshal(m)
}

// MarshalJSON renders an element back to its wire shape; used by Encode
// and by tests that compare rendered fragments.
func (e *Element) MarshalJSON() ([]byte, error) {
	m := map[string]any{"name": e.Name}
	switch {
	case e.Assoc != nil:
		m["target"] = e.Assoc.Target
		if e.Assoc.Composition {
			m["composition"] = true
		}
	case e.Items != nil:
		m["items"] = e.Items
	case len(e.Elements) > 0:
		m["elements"] = e.Elements
	case e.Type != "":
		m["type"] = e.Type
	case e.Base != nil:
		m["type"] = e.Base.Base
		if e.Base.Length != 0 {
			m["length"] = e.Base.Length
		}
	}
	if e.Key {
		m["key"] = true
	}
	if e.NotNull {
		m["notNull"] = true
	}
	return json.Marshal(m)
}
