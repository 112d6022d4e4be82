package preprocess

import (
	"log/slog"
	"time"

	"github.com/csnlower/csnlower/errs"
	"github.com/csnlower/csnlower/model"
	"github.com/csnlower/csnlower/optsx"
)

type pass struct {
	name string
	fn   func(*Context)
}

// passes is the ordered pipeline, one entry per pass described in
// SPEC_FULL.md §4.1 (0 through 18). Order matters: later passes assume
// earlier ones already ran (pass 5's ResolvedTarget, pass 9's seeded
// constraint candidates, and so on).
var passes = []pass{
	{"inclusion-filter", passInclusionFilter},         // 0
	{"discover-services", passDiscoverServices},       // 1
	{"normalize-dotted-names", passNormalizeDottedNames}, // 2
	{"expand-base-types", passExpandBaseTypes},        // 3
	{"attach-names", passAttachNames},                 // 4
	{"link-associations", passLinkAssociations},       // 5
	{"containment", passContainment},                  // 6
	{"split-params", passSplitParams},                 // 7
	{"check-identifiers", passCheckIdentifiers},       // 8
	{"seed-backlinks", passSeedBacklinks},              // 9
	{"flatten-structured", passFlattenStructured},     // 10
	{"derive-constraints", passDeriveConstraints},     // 11
	{"convert-xservice", passConvertXService},         // 12
	{"synthesize-proxies", passSynthesizeProxies},     // 13
	{"entity-sets", passEntitySets},                    // 14
	{"nav-target-paths", passNavTargetPaths},          // 15
	{"nav-property-bindings", passNavPropertyBindings}, // 16
	{"key-paths", passKeyPaths},                        // 17
	{"finalize", passFinalize},                         // 18
}

// Run executes the full enrichment pipeline against store in place and
// returns the same store plus the diagnostic sink accumulated along the
// way. The store is unusable by any renderer if the sink's Fatal() is true.
//
// Every pass boundary is logged at slog.LevelDebug via slog.Default()
// (name, duration, diagnostics recorded so far) so a caller that raises
// its logger's level or attaches a handler gets pass-by-pass visibility
// for free, without Run taking a logger parameter of its own.
func Run(store *model.Store, opts *optsx.Options) (*model.Store, *errs.Sink) {
	ctx := newContext(store, opts)
	for _, p := range passes {
		start := time.Now()
		p.fn(ctx)
		slog.Debug("preprocess pass complete",
			"pass", p.name,
			"duration", time.Since(start),
			"diagnostics", ctx.Sink.Len(),
		)
		if ctx.Sink.Fatal() {
			slog.Error("preprocess stopped on a fatal diagnostic", "pass", p.name)
			break
		}
	}
	return ctx.Store, ctx.Sink
}

// ownerPrefix returns the longest service/context name that is a dotted
// prefix of name, or "" if none matches. services must be sorted longest
// name first (as ctx.Services is after pass 1), so the first match found is
// the longest-prefix match spec.md §4.1 pass 1 and §9 describe.
func ownerPrefix(services []*model.Definition, name string) string {
	for _, s := range services {
		if len(name) > len(s.Name) && name[:len(s.Name)] == s.Name && name[len(s.Name)] == '.' {
			return s.Name
		}
	}
	return ""
}

func localName(fq string, services []*model.Definition) string {
	if p := ownerPrefix(services, fq); p != "" {
		return fq[len(p)+1:]
	}
	return fq
}

func appendUnique(list []string, s string) []string {
	for _, x := range list {
		if x == s {
			return list
		}
	}
	return append(list, s)
}

