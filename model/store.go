package model

import (
	"fmt"
	"sort"
)

// Store is the central, in-memory definitions dictionary. It is created
// empty, populated by an external parser/resolver, mutated once by a
// chosen preprocessing target, and read-only thereafter.
type Store struct {
	definitions map[string]*Definition

	// Extensions, Vocabularies, I18n and Requires are carried through
	// verbatim from the input model (§6); the core never inspects them.
	Extensions   map[string]any `json:"extensions,omitempty"`
	Vocabularies map[string]any `json:"vocabularies,omitempty"`
	I18n         map[string]any `json:"i18n,omitempty"`
	Requires     []string       `json:"requires,omitempty"`
	Meta         map[string]any `json:"meta,omitempty"`
	Version      string         `json:"$version,omitempty"`

	// cachedProxy mirrors the CachedProxy dictionary in spec.md §4.1 pass
	// 13, keyed by "target|surroundingService" -> proxy fully-qualified
	// name. It is Store-level because a proxy can be requested while
	// processing any association, not just one owned by a single
	// definition.
	cachedProxy map[string]string
}

// New creates an empty store.
func New() *Store {
	return &Store{
		definitions: make(map[string]*Definition),
		cachedProxy: make(map[string]string),
	}
}

// Get returns the definition for a fully-qualified name.
func (s *Store) Get(name string) (*Definition, bool) {
	d, ok := s.definitions[name]
	return d, ok
}

// MustGet panics if name is not defined; reserved for invariants the
// preprocessor itself established and is relying on later (an internal
// error per spec.md §7 taxonomy, not a user-facing one).
func (s *Store) MustGet(name string) *Definition {
	d, ok := s.definitions[name]
	if !ok {
		panic(fmt.Sprintf("model: invariant violated: %q not found in store", name))
	}
	return d
}

// Put installs or overwrites a definition.
func (s *Store) Put(d *Definition) {
	if s.definitions == nil {
		s.definitions = make(map[string]*Definition)
	}
	s.definitions[d.Name] = d
}

// DeletePrefixed removes a definition and everything prefixed by it (used by
// pass 12, cross-service reference conversion, to drop a sub-schema's
// contents) and returns the removed names, sorted.
func (s *Store) DeletePrefixed(prefix string) []string {
	var removed []string
	for name := range s.definitions {
		if name == prefix || hasSchemaPrefix(name, prefix) {
			removed = append(removed, name)
		}
	}
	for _, name := range removed {
		delete(s.definitions, name)
	}
	sort.Strings(removed)
	return removed
}

func hasSchemaPrefix(name, prefix string) bool {
	return len(name) > len(prefix) && name[:len(prefix)] == prefix && name[len(prefix)] == '.'
}

// Rename moves a definition from old to new, updating its Name field in
// place. It does not touch any other definition's references to old; the
// caller (preprocess passes 2 and 7) is responsible for rewriting those.
func (s *Store) Rename(old, new string) bool {
	d, ok := s.definitions[old]
	if !ok {
		return false
	}
	delete(s.definitions, old)
	d.Name = new
	d.invalidateElementIndex()
	s.definitions[new] = d
	return true
}

// Has reports whether name is defined.
func (s *Store) Has(name string) bool {
	_, ok := s.definitions[name]
	return ok
}

// Names returns every fully-qualified name, sorted - the deterministic
// walk order spec.md §5 requires "when the output is being diffed in
// tests".
func (s *Store) Names() []string {
	out := make([]string, 0, len(s.definitions))
	for name := range s.definitions {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of definitions.
func (s *Store) Len() int { return len(s.definitions) }

// All returns every definition, sorted by name.
func (s *Store) All() []*Definition {
	names := s.Names()
	out := make([]*Definition, len(names))
	for i, n := range names {
		out[i] = s.definitions[n]
	}
	return out
}

// OfKind returns every definition of the given kind, sorted by name.
func (s *Store) OfKind(k Kind) []*Definition {
	var out []*Definition
	for _, d := range s.All() {
		if d.Kind == k {
			out = append(out, d)
		}
	}
	return out
}

// CachedProxy looks up a previously created proxy for (target, service).
func (s *Store) CachedProxy(target, service string) (string, bool) {
	name, ok := s.cachedProxy[target+"|"+service]
	return name, ok
}

// SetCachedProxy records a proxy created for (target, service).
func (s *Store) SetCachedProxy(target, service, proxyName string) {
	if s.cachedProxy == nil {
		s.cachedProxy = make(map[string]string)
	}
	s.cachedProxy[target+"|"+service] = proxyName
}

// Clone produces a deep-enough independent copy for the differ (component
// Δ), which operates on two fully preprocessed stores and must not let
// mutation of one affect the other. Clone is a structural copy of
// definitions and their direct element lists; expression trees are
// treated as immutable after preprocessing and are shared by reference,
// which is safe because neither the differ nor any renderer mutates them.
func (s *Store) Clone() *Store {
	out := New()
	out.Extensions = s.Extensions
	out.Vocabularies = s.Vocabularies
	out.I18n = s.I18n
	out.Requires = s.Requires
	out.Meta = s.Meta
	out.Version = s.Version
	for name, d := range s.definitions {
		cp := *d
		cp.Elements = append([]*Element(nil), d.Elements...)
		cp.invalidateElementIndex()
		out.definitions[name] = &cp
	}
	for k, v := range s.cachedProxy {
		out.cachedProxy[k] = v
	}
	return out
}
