package preprocess

// passInclusionFilter is pass 0: drop definitions annotated @cds.partial,
// @cds.beta or @deprecated unless the corresponding option opted them back
// in. A dropped scope container takes everything it contains with it.
func passInclusionFilter(ctx *Context) {
	store := ctx.Store
	var drop []string
	for _, d := range store.All() {
		switch {
		case !ctx.Opts.IncludePartial && d.Annotations.Has("@cds.partial"):
			drop = append(drop, d.Name)
		case !ctx.Opts.IncludeBeta && d.Annotations.Has("@cds.beta"):
			drop = append(drop, d.Name)
		case !ctx.Opts.IncludeDeprecated && d.Annotations.Has("@deprecated"):
			drop = append(drop, d.Name)
		}
	}
	for _, name := range drop {
		if _, ok := store.Get(name); ok {
			store.DeletePrefixed(name)
		}
	}
}
