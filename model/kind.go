package model

// Kind tags the variant a Definition carries, mirroring the tagged
// union described for the central `definitions` dictionary.
type Kind string

const (
	KindEntity     Kind = "entity"
	KindType       Kind = "type"
	KindAspect     Kind = "aspect"
	KindService    Kind = "service"
	KindContext    Kind = "context"
	KindNamespace  Kind = "namespace"
	KindAction     Kind = "action"
	KindFunction   Kind = "function"
	KindEvent      Kind = "event"
	KindAnnotation Kind = "annotation"
)

// IsScopeContainer reports whether a definition of this kind only groups
// other definitions and is never itself persisted or rendered as a type.
func (k Kind) IsScopeContainer() bool {
	switch k {
	case KindService, KindContext, KindNamespace:
		return true
	default:
		return false
	}
}

// IsStructural reports whether a definition of this kind carries an
// element mapping (entity, type, aspect) as opposed to a scalar/operation
// shape.
func (k Kind) IsStructural() bool {
	switch k {
	case KindEntity, KindType, KindAspect:
		return true
	default:
		return false
	}
}

// IsOperation reports whether a definition of this kind carries a params
// mapping and an optional return type.
func (k Kind) IsOperation() bool {
	return k == KindAction || k == KindFunction
}

// Position is a source location, carried through for diagnostics only.
type Position struct {
	File string `json:"file,omitempty"`
	Line int    `json:"line,omitempty"`
	Col  int    `json:"col,omitempty"`
}

// Definition is one entry of the definitions dictionary. All kinds share
// the fields below; kind-specific data lives in the pointer fields that
// are non-nil only for the matching Kind.
type Definition struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`

	Doc         string      `json:"doc,omitempty"`
	Annotations Annotations `json:"-"`
	Pos         *Position   `json:"pos,omitempty"`

	// Structural kinds (entity, type, aspect).
	Elements    []*Element `json:"elements,omitempty"`
	elementIdx  map[string]int
	IsStruct    bool        `json:"isStruct,omitempty"` // false => scalar base type
	Base        *ScalarType `json:"base,omitempty"`     // scalar base + facets, when !IsStruct
	IncludesOf  []string    `json:"includes,omitempty"`

	// entity-only
	Query           *Query            `json:"query,omitempty"`
	Params          []*Param          `json:"params,omitempty"`
	TechnicalConfig map[string]string `json:"technicalConfig,omitempty"`
	Actions         []*Definition     `json:"actions,omitempty"` // bound action/function defs

	// action/function
	Returns *ScalarType `json:"returns,omitempty"`

	// ---- derived (installed by preprocess, never round-tripped) ----

	MySchemaName      string              // $mySchemaName
	HasEntitySet      bool                // $hasEntitySet
	IsProxy           bool                // synthesized by pass 13
	ProxyTarget       string              // the definition this proxy exposes
	ContainerEntities []string            // _containerEntity
	OriginalTarget    string              // _originalTarget, set by pass 7 redirection
	Sources           map[string][]string // $sources: "parent.element" -> []dependent names
	Keys              []string            // $keys, ordered primary-key element names
	EdmKeyPaths       [][]string          // $edmKeyPaths, flattened key reference paths
	EdmTgtPaths       [][]string          // $edmTgtPaths
	EdmNPBs           []NavPropBinding    // $edmNPBs
	XServiceRef       *SchemaRef          // set when this schema was converted to a cross-service reference
	CachedProxy       map[string]string   // $cachedProxy: "target|service" -> proxy name, store-level, mirrored per schema root
}

// SchemaRef is the {Uri, Namespace} reference object pass 12 installs in
// place of a sub-schema's contents.
type SchemaRef struct {
	Uri       string `json:"Uri"`
	Namespace string `json:"Namespace"`
}

// NavPropBinding is a {Path, Target} navigation-property binding (pass 16).
type NavPropBinding struct {
	Path   string
	Target string
}

// Param is an operation (action/function) or parameterized-entity parameter.
type Param struct {
	Name        string
	Type        *ScalarType
	Annotations Annotations
}

// ScalarType is a scalar base type plus its facets.
type ScalarType struct {
	Base      string `json:"type"`
	Length    int    `json:"length,omitempty"`
	Precision int    `json:"precision,omitempty"`
	Scale     int    `json:"scale,omitempty"`
	SRID      int    `json:"srid,omitempty"`
}

// ElementByName looks up a direct (non-nested) element by name, building
// and caching an index lazily.
func (d *Definition) ElementByName(name string) (*Element, bool) {
	if d == nil {
		return nil, false
	}
	if d.elementIdx == nil {
		d.elementIdx = make(map[string]int, len(d.Elements))
		for i, e := range d.Elements {
			d.elementIdx[e.Name] = i
		}
	}
	i, ok := d.elementIdx[name]
	if !ok {
		return nil, false
	}
	return d.Elements[i], true
}

// invalidateElementIndex must be called by anything that mutates
// d.Elements in place (append/remove/reorder).
func (d *Definition) invalidateElementIndex() {
	d.elementIdx = nil
}

// AddElement appends an element and keeps the name index coherent.
func (d *Definition) AddElement(e *Element) {
	d.Elements = append(d.Elements, e)
	d.invalidateElementIndex()
}

// RemoveElement deletes the named element, if present.
func (d *Definition) RemoveElement(name string) {
	for i, e := range d.Elements {
		if e.Name == name {
			d.Elements = append(d.Elements[:i], d.Elements[i+1:]...)
			d.invalidateElementIndex()
			return
		}
	}
}

// IsPersisted reports whether this definition kind is ever realized as a
// table/view in a database backend.
func (d *Definition) IsPersisted() bool {
	return d.Kind == KindEntity
}

// IsView reports whether the entity has a backing query (a projection).
func (d *Definition) IsView() bool {
	return d.Kind == KindEntity && d.Query != nil
}

// HasParams reports whether this entity was declared with parameters
// (before pass 7 splits it into a companion Parameters entity).
func (d *Definition) HasParams() bool {
	return len(d.Params) > 0
}
