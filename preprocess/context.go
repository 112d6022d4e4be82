package preprocess

import (
	"github.com/csnlower/csnlower/errs"
	"github.com/csnlower/csnlower/model"
	"github.com/csnlower/csnlower/naming"
	"github.com/csnlower/csnlower/optsx"
)

// Context carries the state shared by every pass: the store being mutated
// in place, the validated options, the diagnostic sink, the naming policy
// derived from those options, and a few values passes downstream depend on
// that earlier passes computed (the discovered service list, the resolved
// foreign-key-rendering flag).
type Context struct {
	Store  *model.Store
	Opts   *optsx.Options
	Sink   *errs.Sink
	Naming *naming.Policy

	// RenderForeignKeys mirrors spec.md §6: true automatically for the flat
	// v4 format, otherwise whatever the odataForeignKeys option says.
	RenderForeignKeys bool

	// Services is every service definition, longest name first, the order
	// pass 1 install for every later longest-dotted-prefix lookup.
	Services []*model.Definition
}

func newContext(store *model.Store, opts *optsx.Options) *Context {
	return &Context{
		Store:  store,
		Opts:   opts,
		Sink:   errs.NewSink(),
		Naming: naming.NewPolicy(opts.SQLMapping, opts.Dialect),
		RenderForeignKeys: opts.ODataForeignKeys ||
			(opts.Version == optsx.V4 && opts.ODataFormat == optsx.Flat),
	}
}
