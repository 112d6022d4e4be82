package preprocess

import (
	"sort"

	"github.com/csnlower/csnlower/model"
)

// passDiscoverServices is pass 1: gather every service definition and sort
// it longest-name-first, so every later longest-dotted-prefix lookup (which
// service, if any, owns a given fully-qualified name) finds the most
// specific match first.
func passDiscoverServices(ctx *Context) {
	var services []*model.Definition
	for _, d := range ctx.Store.All() {
		if d.Kind == model.KindService {
			services = append(services, d)
		}
	}
	sort.Slice(services, func(i, j int) bool { return len(services[i].Name) > len(services[j].Name) })
	ctx.Services = services
}
