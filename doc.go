// Package csnlower wires the preprocessing pipeline (component P and its
// satellite components R, N, C, X, K) and the four text renderers
// (render/ddl, render/sqlrender, render/protocol, and differ's
// migration plan) into the single external entry point described in
// spec.md §6: accept an input model, a validated option bundle, and
// return the accumulated diagnostics alongside whichever outputs were
// requested.
//
// Parsing DDL source text and loading option files are out of scope here
// (spec.md §1); callers reach this package already holding a decoded
// model.Store (model.DecodeStore) and a validated optsx.Options
// (optsx.New). cmd/csnlowerctl is the thin CLI shim that does that
// loading and then calls into this package.
package csnlower
