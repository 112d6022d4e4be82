package proxy

import (
	"fmt"
	"strings"

	"github.com/csnlower/csnlower/errs"
	"github.com/csnlower/csnlower/model"
)

// Synthesize walks every association owned by a definition inside one of
// services and, for each one whose resolved target lives outside that
// service, redirects it to a cached or newly created key-only proxy
// entity. A name collision with an existing definition disables the
// association's navigation entirely rather than risk an ambiguous proxy.
func Synthesize(store *model.Store, services []*model.Definition, sink *errs.Sink) {
	for _, svc := range services {
		for _, d := range definitionsIn(store, svc.Name) {
			synthesizeForDef(store, svc, d, sink)
		}
	}
}

func definitionsIn(store *model.Store, svcName string) []*model.Definition {
	var out []*model.Definition
	for _, d := range store.All() {
		if strings.HasPrefix(d.Name, svcName+".") {
			out = append(out, d)
		}
	}
	return out
}

func synthesizeForDef(store *model.Store, svc, owner *model.Definition, sink *errs.Sink) {
	for _, e := range owner.Elements {
		if e.Assoc == nil || e.Assoc.ResolvedTarget == "" {
			continue
		}
		target, ok := store.Get(e.Assoc.ResolvedTarget)
		if !ok || strings.HasPrefix(target.Name, svc.Name+".") {
			continue
		}
		if cached, ok := store.CachedProxy(target.Name, svc.Name); ok {
			e.Assoc.Target, e.Assoc.ResolvedTarget = cached, cached
			continue
		}
		proxyName := svc.Name + "." + lastSegment(target.Name)
		if store.Has(proxyName) {
			sink.Warning(errs.Duplicate, "proxy-name-collision", owner.Name+"."+e.Name,
				fmt.Sprintf("synthesized proxy name %q collides with an existing definition; disabling this navigation", proxyName))
			e.Assoc = nil
			continue
		}
		proxyDef := &model.Definition{Name: proxyName, Kind: model.KindEntity, IsStruct: true, IsProxy: true, ProxyTarget: target.Name}
		for _, k := range target.Elements {
			if k.Key {
				proxyDef.AddElement(&model.Element{Name: k.Name, Base: k.Base, Key: true})
			}
		}
		store.Put(proxyDef)
		store.SetCachedProxy(target.Name, svc.Name, proxyName)
		e.Assoc.Target, e.Assoc.ResolvedTarget = proxyName, proxyName
	}
}

func lastSegment(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}
