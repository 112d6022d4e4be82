package csnlower

import (
	"strings"

	"github.com/csnlower/csnlower/differ"
	"github.com/csnlower/csnlower/errs"
	"github.com/csnlower/csnlower/model"
	"github.com/csnlower/csnlower/naming"
	"github.com/csnlower/csnlower/optsx"
	"github.com/csnlower/csnlower/preprocess"
	"github.com/csnlower/csnlower/render/ddl"
	"github.com/csnlower/csnlower/render/protocol"
	"github.com/csnlower/csnlower/render/sqlrender"
)

// Compile runs the full 19-pass preprocessing pipeline (preprocess.Run)
// against store and returns the preprocessed result alongside the
// accumulated diagnostic sink. The returned store is ready for any of
// RenderProtocol, RenderSQL, RenderDDL, or as one side of Diff.
func Compile(store *model.Store, opts *optsx.Options) (*model.Store, *errs.Sink) {
	return preprocess.Run(store, opts)
}

// policyFor builds the naming.Policy implied by opts, the one piece of
// shared configuration every text renderer except render/protocol needs.
func policyFor(opts *optsx.Options) *naming.Policy {
	return naming.NewPolicy(opts.SQLMapping, opts.Dialect)
}

// RenderProtocol runs component O over a preprocessed store, producing
// one ".xml" entry per service (plus a ".json" entry per service when
// opts.Version is v4), per spec.md §4.5 and §6.
func RenderProtocol(store *model.Store, opts *optsx.Options, sink *errs.Sink) (map[string]string, error) {
	return protocol.Render(store, opts, sink)
}

// RenderDDL runs component D over a preprocessed store, producing one
// ".hdbcds" entry per top-level artifact plus one ".hdbconstraint" entry
// per finalized referential constraint, per spec.md §4.4 and §6.
func RenderDDL(store *model.Store, opts *optsx.Options, sink *errs.Sink) (map[string]string, error) {
	return ddl.Render(store, opts, policyFor(opts), sink)
}

// RenderSQL runs component S over a preprocessed store. When opts.Src is
// SrcSQL the result is a single "sql" entry holding every CREATE
// statement; when it is SrcHDI the monolithic text is split into
// per-object-kind entries ("hdbtable"/"hdbview") without introducing a
// second code path through render/sqlrender for statement grouping.
func RenderSQL(store *model.Store, opts *optsx.Options, sink *errs.Sink) (map[string]string, error) {
	pol := policyFor(opts)
	sql, err := sqlrender.Render(store, opts, pol, sink)
	if err != nil {
		return nil, err
	}
	if opts.Src == optsx.SrcSQL {
		return map[string]string{"sql": sql}, nil
	}
	return splitBySrcHDI(sql), nil
}

func splitBySrcHDI(sql string) map[string]string {
	out := map[string]string{}
	var tables, views strings.Builder
	for _, stmt := range strings.Split(sql, ";\n") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		switch {
		case strings.HasPrefix(stmt, "CREATE TABLE"):
			tables.WriteString(stmt)
			tables.WriteString(";\n")
		case strings.HasPrefix(stmt, "CREATE VIEW"):
			views.WriteString(stmt)
			views.WriteString(";\n")
		}
	}
	if tables.Len() > 0 {
		out["hdbtable"] = tables.String()
	}
	if views.Len() > 0 {
		out["hdbview"] = views.String()
	}
	return out
}

// Diff compares two preprocessed stores and returns the structured
// migration plan (component Δ), per spec.md §4.6.
func Diff(before, after *model.Store) *differ.Plan {
	return differ.Diff(before, after)
}

// RenderMigration turns a Diff plan into dialect-specific ALTER TABLE
// text, the rendering half of component Δ's contract.
func RenderMigration(plan *differ.Plan, opts *optsx.Options, sink *errs.Sink) (string, error) {
	return sqlrender.Migrate(plan, opts, policyFor(opts), sink)
}
