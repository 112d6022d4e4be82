package model

// Element is one member of a structural definition (entity/type/aspect).
// It is itself a small tagged union: scalar, items-wrapper (array-of),
// named-type reference, nested anonymous struct, or association.
type Element struct {
	Name string `json:"name"`

	// scalar + facets, mutually exclusive with Type/Items/Elements.
	Base *ScalarType `json:"base,omitempty"`
	// reference to a named type definition.
	Type string `json:"type,omitempty"`
	// items wraps an array-of element; Items itself may carry any of
	// Base/Type/Elements/Assoc (but never another Items: the spec treats
	// chained array-of as a dialect violation).
	Items *Element `json:"items,omitempty"`
	// anonymous nested struct.
	Elements []*Element `json:"elements,omitempty"`

	Key      bool `json:"key,omitempty"`
	NotNull  bool `json:"notNull,omitempty"`
	Virtual  bool `json:"virtual,omitempty"`
	Masked   bool `json:"masked,omitempty"`
	Unique   bool `json:"unique,omitempty"`
	Default  Expr `json:"default,omitempty"`

	Annotations Annotations `json:"-"`
	Doc         string      `json:"doc,omitempty"`

	Assoc *Association `json:"assoc,omitempty"`

	// ---- derived ----
	Parent             string // _parent, fully-qualified name of the owning definition
	GeneratedFieldName string // $generatedFieldName, for foreign-key entries after flattening
	IsToContainer      bool   // _isToContainer
	Hidden             bool   // @cds.api.ignore installed by pass 10
	NoPartner          bool   // $noPartner
}

// IsAssoc reports whether this element is an association/composition.
func (e *Element) IsAssoc() bool { return e.Assoc != nil }

// IsArray reports whether this element is an array-of (items-wrapped).
func (e *Element) IsArray() bool { return e.Items != nil }

// IsAnonymousStruct reports whether this element has inline nested elements
// rather than referencing a named type.
func (e *Element) IsAnonymousStruct() bool { return len(e.Elements) > 0 }

// IsScalar reports whether this element resolves directly to a scalar base
// type without indirection through a named type, array, or struct.
func (e *Element) IsScalar() bool {
	return e.Base != nil && e.Type == "" && e.Items == nil && len(e.Elements) == 0 && e.Assoc == nil
}

// Cardinality is the {srcMin, srcMax, min, max} tuple of an association.
// A bound of -1 denotes "many".
type Cardinality struct {
	SrcMin int
	SrcMax int
	Min    int
	Max    int
}

const Many = -1

// IsToMany reports whether the target-side upper bound is "many".
func (c Cardinality) IsToMany() bool { return c.Max == Many }

// IsFromMany reports whether the source-side upper bound is "many".
func (c Cardinality) IsFromMany() bool { return c.SrcMax == Many }

// Association holds the association/composition-specific attributes of an
// element. Exactly one of On/Keys carries independent meaning at any time;
// per the invariant in spec.md §3, when both are set the association was
// downgraded from managed to unmanaged and Keys is fallback-only.
type Association struct {
	Target      string
	Composition bool
	On          Expr
	Keys        []*ForeignKeyRef
	Cardinality Cardinality

	// DeclaredType is the raw wire "type" string the parser boundary saw
	// on this element ("cds.Association", "Association", "cds.Composition"
	// or "Composition"), kept only so the resolver can flag the short-form
	// spelling; never consulted to decide whether an element is an
	// association (that is Target != "" alone).
	DeclaredType string

	// ---- derived ----
	ResolvedTarget string  // _target, resolved fully-qualified name (same as Target once pass 5 has run)
	Constraints    *Constraints
	SelfReferences []string // _selfReferences: names of backlink associations that are pure backlinks of this one
	Origins        []string // _origins: partner path recorded for pass 9 backlink resolution
	Contained      bool     // @odata.contained
	OriginalTarget string   // _originalTarget: set by pass 7 when this association was redirected to a parameter companion
	NoPartner      bool     // $noPartner: ambiguous backlink partner resolution
}

// ForeignKeyRef is one entry of a managed association's foreign-key vector.
type ForeignKeyRef struct {
	// Source-side path (relative to the association's element), e.g. ["author_id"].
	Path []string
	// Target-side key this path realizes, e.g. ["ID"].
	Ref []string
	// Generated flattened field name, installed during structure init.
	GeneratedFieldName string
}

// Constraints is the public contract of the constraint engine (component C):
// the final, renderable referential-constraint set for one association.
type Constraints struct {
	Candidates []ConstraintCandidate // seeded by pass 9, pruned by pass 11
	Final      []ConstraintCandidate // surviving, renderable constraints
	Partial    bool                  // true if Final is a strict subset of the full principal-key coverage
}

// ConstraintCandidate is one (dependent, principal) column-path pair plus
// the referential-action metadata the SQL/DDL renderers need.
type ConstraintCandidate struct {
	DependentPath []string
	PrincipalPath []string
	OnUpdate      string
	OnDelete      string
	Enforced      bool
	Validated     bool
	Identifier    string
}
