// Package preprocess implements the single ordered enrichment pipeline that
// turns a freshly parsed model.Store into the fully resolved, renderable
// form every render/... package and the differ consume. It never runs more
// than once per Store and never re-enters a pass.
//
// Passes run strictly in the order they are registered in Run; a pass that
// records a fatal diagnostic stops the pipeline before the next one starts.
// Everything else accumulates in the shared errs.Sink and lets later passes
// keep going, per the propagation rule described for the error taxonomy.
package preprocess
