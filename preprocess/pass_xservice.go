package preprocess

import (
	"fmt"

	"github.com/csnlower/csnlower/errs"
	"github.com/csnlower/csnlower/model"
)

// passConvertXService is pass 12: a service declared @cds.external is
// replaced by a schema reference ({Uri, Namespace}) and everything it
// contains is dropped from the store. Gated by odataXServiceRefs: when the
// option is off, external services are rendered in full like any other.
func passConvertXService(ctx *Context) {
	if !ctx.Opts.ODataXServiceRefs {
		return
	}
	store := ctx.Store
	for _, svc := range ctx.Services {
		if !svc.Annotations.Has("@cds.external") {
			continue
		}
		uri, _ := svc.Annotations.Get("@cds.external")
		svc.XServiceRef = &model.SchemaRef{Uri: uri.String, Namespace: svc.Name}
		removed := store.DeletePrefixed(svc.Name) // also removes svc.Name itself
		store.Put(svc)                            // restore the stub carrying the schema reference
		ctx.Sink.Info(errs.Structural, "xservice-ref", svc.Name,
			fmt.Sprintf("converted external service into a schema reference, dropping %d contained definitions", len(removed)-1))
	}
}
