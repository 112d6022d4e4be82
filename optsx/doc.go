// Package optsx implements the validated functional-options bundle
// consumed by the top-level Compile/Diff entry points: protocol version,
// naming/identifier mode, SQL dialect and the handful of boolean toggles
// that change preprocessor and renderer behavior.
package optsx
