// Package naming implements the identifier policy described in spec.md
// §6 ("Identifier policy. All quoting is driven by a (mode, dialect)
// pair.") and the identifier-spec check of preprocessor pass 8: quoting,
// dotted-name flattening, reserved-word detection, and the
// pluralization helpers used when a protocol-schema entity set or
// navigation property needs a default display name.
package naming
