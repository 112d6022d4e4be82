// Package protocol implements the protocol-schema renderer (component O):
// lowering a preprocessed model.Store into an EDM object tree
// (Edm -> Schema -> EntityType/ComplexType/EntityContainer ->
// EntitySet/Singleton/NavigationPropertyBinding/Action/Function/
// Annotations) and emitting it as v2/v4 XML and v4 JSON.
//
// The object tree is built once per target service and walked twice: once
// by the XML writer, once by the JSON writer (v4 only) — spec.md §4.5's
// "a single node can render differently per format" is realized here as
// two independent render passes over the same *Schema rather than one
// struct carrying XML and JSON struct tags, because the attribute split
// between the two formats (e.g. Edm.Boolean as the XML string "true" vs.
// the JSON literal true) is deep enough that a shared tag scheme would
// need as much per-field format-branching as two plain functions do.
package protocol
