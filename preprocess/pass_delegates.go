package preprocess

import (
	"github.com/csnlower/csnlower/constraint"
	"github.com/csnlower/csnlower/keypath"
	"github.com/csnlower/csnlower/proxy"
)

// passDeriveConstraints is pass 11: hand off to the constraint engine
// (component C), which turns every association's seeded candidates (pass
// 9) or on-condition equalities into the final, renderable constraint set.
func passDeriveConstraints(ctx *Context) {
	constraint.Derive(ctx.Store, ctx.Opts, ctx.Naming, ctx.Sink)
}

// passSynthesizeProxies is pass 13: hand off to the proxy package
// (component X), which creates key-only proxy entities for associations
// that cross a service boundary, gated by odataProxies.
func passSynthesizeProxies(ctx *Context) {
	if !ctx.Opts.ODataProxies {
		return
	}
	proxy.Synthesize(ctx.Store, ctx.Services, ctx.Sink)
}

// passNavTargetPaths is pass 15: hand off to the keypath package
// (component K) to collect every association-element path reachable from
// each entity, the raw material for navigation-property bindings.
func passNavTargetPaths(ctx *Context) {
	keypath.TargetPaths(ctx.Store)
}

// passNavPropertyBindings is pass 16: resolve each target path to the
// entity it lands in and record the {path, target} binding pair.
func passNavPropertyBindings(ctx *Context) {
	keypath.NavPropBindings(ctx.Store)
}

// passKeyPaths is pass 17: record each entity's own flattened, renderable
// primary-key reference paths for the protocol renderer's EntityType Key
// clause.
func passKeyPaths(ctx *Context) {
	keypath.KeyPaths(ctx.Store, ctx.Sink)
}
