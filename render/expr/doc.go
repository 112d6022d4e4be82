// Package expr implements the single shared expression and query renderer
// (component E) every dialect-specific renderer (DDL, SQL, protocol)
// builds its literal/on-condition/view-query text on top of. A renderer
// never walks model.Expr itself; it configures a Dialect and calls
// Renderer.Expr/Renderer.Query.
package expr
