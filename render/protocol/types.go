package protocol

// Edm is the root of one service's rendered object tree.
type Edm struct {
	Schema *Schema
}

// Schema is one service's namespace: its structural types, its container
// of addressable sets, and any bound operations.
type Schema struct {
	Namespace string
	Alias     string

	EntityTypes  []*EntityType
	ComplexTypes []*ComplexType
	Actions      []*Operation
	Functions    []*Operation

	Container *EntityContainer

	// XServiceRef is set instead of the fields above when spec.md §4.1
	// pass 12 converted this schema into a cross-service reference; the
	// renderer emits a <Reference>/"$Reference" pointer rather than a
	// full schema body.
	XServiceRef *SchemaRef

	// AnnotationGroups carries out-of-line @Capabilities.*Restrictions
	// and similar target-qualified annotation groups (pass 6 rewrites
	// some of these to point at a container's navigation property).
	AnnotationGroups []*AnnotationGroup
}

// SchemaRef mirrors model.SchemaRef, duplicated here so this package does
// not need to reach back into model for a single two-field struct used
// only at render time.
type SchemaRef struct {
	Uri       string
	Namespace string
}

// Property is one structural member of an EntityType/ComplexType.
type Property struct {
	Name        string
	Type        string // Edm.* primitive, a ComplexType name, or "Collection(...)"
	Nullable    bool
	MaxLength   int
	Precision   int
	Scale       int
	SRID        int
	Description string
}

// NavigationProperty is one association/composition exposed as a v4
// navigation property.
type NavigationProperty struct {
	Name           string
	Type           string // target EntityType name, Collection(...)-wrapped for to-many
	Nullable       bool
	Partner        string
	ContainsTarget bool
	Navigable      bool
}

// EntityType is one persisted or structural entity, v2/v4 EntityType node.
type EntityType struct {
	Name                string
	BaseType            string
	Abstract            bool
	Keys                []string // $edmKeyPaths, slash-joined
	Properties          []*Property
	NavigationProperties []*NavigationProperty
}

// ComplexType is one non-entity structural type.
type ComplexType struct {
	Name       string
	Properties []*Property
}

// EntityContainer groups the addressable sets and singletons of a schema.
type EntityContainer struct {
	Name       string
	EntitySets []*EntitySet
	Singletons []*Singleton
}

// NavigationPropertyBinding is a {Path, Target} pair (component K pass 16).
type NavigationPropertyBinding struct {
	Path   string
	Target string // qualified (schema.Name) when the target lives in another schema
}

// EntitySet is one collection-valued addressable endpoint.
type EntitySet struct {
	Name                       string
	EntityType                string // qualified Namespace.Name
	NavigationPropertyBindings []NavigationPropertyBinding
}

// Singleton is one single-valued addressable endpoint (v4 only).
type Singleton struct {
	Name                       string
	EntityType                 string
	NavigationPropertyBindings []NavigationPropertyBinding
}

// Operation is a bound or unbound action/function.
type Operation struct {
	Name       string
	IsFunction bool
	IsBound    bool
	Parameters []*Property
	ReturnType string
}

// AnnotationGroup carries a Target path plus its {Term -> value} pairs,
// the out-of-line annotation shape spec.md §4.1 pass 6 produces when a
// @Capabilities.*Restrictions annotation migrates from a removed entity
// set to the container's navigation-property-binding restrictions.
type AnnotationGroup struct {
	Target      string
	Annotations map[string]string
}
