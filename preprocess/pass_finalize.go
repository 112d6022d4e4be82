package preprocess

import "github.com/csnlower/csnlower/model"

// passEntitySets is pass 14: record each entity's ordered primary-key names
// and decide whether it gets its own OData entity set, versus being
// reachable only through a container's navigation (compositions) or a
// proxy's parent.
func passEntitySets(ctx *Context) {
	for _, d := range ctx.Store.OfKind(model.KindEntity) {
		d.Keys = nil
		for _, e := range d.Elements {
			if e.Key {
				d.Keys = append(d.Keys, e.Name)
			}
		}
		d.HasEntitySet = !d.IsProxy &&
			len(d.ContainerEntities) == 0 &&
			!d.Annotations.Has("@cds.api.ignore") &&
			!d.Annotations.Has("@odata.api.ignore")
	}
}

// passFinalize is pass 18: a last structural sanity sweep before the store
// is handed to renderers. Any element that ended up carrying more than one
// mutually-exclusive shape variant after every earlier pass ran is an
// internal invariant violation, not a user-facing modeling mistake.
func passFinalize(ctx *Context) {
	for _, d := range ctx.Store.All() {
		checkElementSanity(ctx, d.Elements, d.Name)
	}
}

func checkElementSanity(ctx *Context, els []*model.Element, path string) {
	for _, e := range els {
		shapes := 0
		if e.Base != nil {
			shapes++
		}
		if e.Type != "" {
			shapes++
		}
		if e.Items != nil {
			shapes++
		}
		if len(e.Elements) > 0 {
			shapes++
		}
		if e.Assoc != nil {
			shapes++
		}
		if shapes > 1 {
			ctx.Sink.Fatalf(path+"."+e.Name, "element carries more than one shape variant after preprocessing")
		}
		if e.Items != nil {
			checkElementSanity(ctx, []*model.Element{e.Items}, path+"."+e.Name)
		}
		if len(e.Elements) > 0 {
			checkElementSanity(ctx, e.Elements, path+"."+e.Name)
		}
	}
}
