// Package model implements the in-memory representation of a normalized
// data-definition-language model: the definitions store, its elements,
// queries and expressions, and the annotation maps attached to each.
//
// A Store is populated once, by a parser/resolver external to this module,
// then mutated in place by a single preprocessing target
// (see package preprocess), and is read-only afterward while renderers
// (see package render/...) walk it to produce text artifacts.
//
// All cross-definition links (association targets, parents, partner
// associations) are represented as fully-qualified name strings rather
// than pointers, so that a Store can be serialized, diffed and compared
// by value without dealing with reference cycles.
package model
