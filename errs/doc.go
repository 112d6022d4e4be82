// Package errs implements the diagnostic taxonomy and accumulation sink
// described for error handling: every pass and renderer appends typed
// diagnostics to a Sink instead of failing outright on non-fatal
// conditions, so downstream passes keep running and the caller gets the
// full set of problems in one compile.
package errs
