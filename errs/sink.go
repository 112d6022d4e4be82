package errs

import (
	"fmt"
	"sort"
)

// Sink accumulates diagnostics across an entire compile, deduplicating by
// (code, path) the way a merged annotation dictionary resolves repeats:
// last write for a given key wins, but first-seen order is kept for
// stable reporting.
type Sink struct {
	order []string // "code|path" in first-seen order
	byKey map[string]*Diagnostic
}

// NewSink creates an empty sink.
func NewSink() *Sink {
	return &Sink{byKey: make(map[string]*Diagnostic)}
}

// Add appends a diagnostic, overwriting any prior diagnostic with the same
// (code, path) pair while preserving its original position in Diagnostics.
func (s *Sink) Add(d Diagnostic) {
	key := d.Code + "|" + d.Path
	if _, ok := s.byKey[key]; !ok {
		s.order = append(s.order, key)
	}
	cp := d
	s.byKey[key] = &cp
}

// Info, Warning and Error are shorthand constructors matching the
// severities a pass reports most often.
func (s *Sink) Info(cat Category, code, path, msg string) {
	s.Add(Diagnostic{Severity: SeverityInfo, Category: cat, Code: code, Path: path, Message: msg})
}

func (s *Sink) Warning(cat Category, code, path, msg string) {
	s.Add(Diagnostic{Severity: SeverityWarning, Category: cat, Code: code, Path: path, Message: msg})
}

func (s *Sink) Error(cat Category, code, path, msg string) {
	s.Add(Diagnostic{Severity: SeverityError, Category: cat, Code: code, Path: path, Message: msg})
}

// Fatalf records an Internal/SeverityFatal diagnostic, for invariants the
// preprocessor itself established ("constraint seeding invoked without a
// seeded constraint record").
func (s *Sink) Fatalf(path, msg string, args ...any) {
	s.Add(Diagnostic{Severity: SeverityFatal, Category: Internal, Code: "internal", Path: path, Message: fmt.Sprintf(msg, args...)})
}

// Diagnostics returns every recorded diagnostic in first-seen order.
func (s *Sink) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, *s.byKey[k])
	}
	return out
}

// Sorted returns diagnostics ordered by (path, code), for deterministic,
// diffable reporting independent of pass-execution order.
func (s *Sink) Sorted() []Diagnostic {
	out := s.Diagnostics()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Code < out[j].Code
	})
	return out
}

// Len reports how many distinct (code, path) diagnostics are recorded.
func (s *Sink) Len() int { return len(s.order) }

// HasErrors reports whether any SeverityError or SeverityFatal diagnostic
// was recorded - renderers consult this and refuse to emit if true, while
// still letting info/warning diagnostics pass through untouched.
func (s *Sink) HasErrors() bool {
	for _, k := range s.order {
		if s.byKey[k].Severity >= SeverityError {
			return true
		}
	}
	return false
}

// Fatal reports whether any SeverityFatal diagnostic was recorded; a
// fatal diagnostic stops a compile before the next pass runs.
func (s *Sink) Fatal() bool {
	for _, k := range s.order {
		if s.byKey[k].Severity == SeverityFatal {
			return true
		}
	}
	return false
}

// Merge folds another sink's diagnostics into s, used when a pass runs a
// sub-walk (e.g. the constraint engine) with its own scratch sink.
func (s *Sink) Merge(other *Sink) {
	if other == nil {
		return
	}
	for _, d := range other.Diagnostics() {
		s.Add(d)
	}
}
