// Package resolver implements symbolic path resolution against a
// model.Store: walking a `ref: [...]` expression path (or an
// association's `target`) to the definitions and elements it denotes,
// and classifying the scope a path resolves into ($self, a bound
// parameter, an absolute global name, or a path relative to the
// enclosing definition).
package resolver
