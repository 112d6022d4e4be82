package proxy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csnlower/csnlower/errs"
	"github.com/csnlower/csnlower/model"
	"github.com/csnlower/csnlower/proxy"
)

func twoServiceStore() (*model.Store, []*model.Definition) {
	s := model.New()
	svcA := &model.Definition{Name: "a", Kind: model.KindService}
	svcB := &model.Definition{Name: "b", Kind: model.KindService}
	s.Put(svcA)
	s.Put(svcB)

	target := &model.Definition{Name: "b.Target", Kind: model.KindEntity, IsStruct: true}
	target.AddElement(&model.Element{Name: "ID", Base: &model.ScalarType{Base: "cds.UUID"}, Key: true})
	s.Put(target)

	owner := &model.Definition{Name: "a.Owner", Kind: model.KindEntity, IsStruct: true}
	owner.AddElement(&model.Element{
		Name:  "ref",
		Assoc: &model.Association{Target: "b.Target", ResolvedTarget: "b.Target"},
	})
	s.Put(owner)

	return s, []*model.Definition{svcB, svcA}
}

func TestSynthesizeCreatesKeyOnlyProxy(t *testing.T) {
	s, services := twoServiceStore()
	sink := errs.NewSink()

	proxy.Synthesize(s, services, sink)

	owner, _ := s.Get("a.Owner")
	el, _ := owner.ElementByName("ref")
	assert.Equal(t, "a.Target", el.Assoc.ResolvedTarget)

	proxyDef, ok := s.Get("a.Target")
	require.True(t, ok)
	assert.True(t, proxyDef.IsProxy)
	assert.Equal(t, "b.Target", proxyDef.ProxyTarget)
	require.Len(t, proxyDef.Elements, 1)
	assert.Equal(t, "ID", proxyDef.Elements[0].Name)

	cached, ok := s.CachedProxy("b.Target", "a")
	require.True(t, ok)
	assert.Equal(t, "a.Target", cached)
}

func TestSynthesizeReusesCachedProxy(t *testing.T) {
	s, services := twoServiceStore()
	owner2 := &model.Definition{Name: "a.Owner2", Kind: model.KindEntity, IsStruct: true}
	owner2.AddElement(&model.Element{
		Name:  "ref",
		Assoc: &model.Association{Target: "b.Target", ResolvedTarget: "b.Target"},
	})
	s.Put(owner2)

	sink := errs.NewSink()
	proxy.Synthesize(s, services, sink)

	o1, _ := s.Get("a.Owner")
	o2, _ := s.Get("a.Owner2")
	e1, _ := o1.ElementByName("ref")
	e2, _ := o2.ElementByName("ref")
	assert.Equal(t, e1.Assoc.ResolvedTarget, e2.Assoc.ResolvedTarget)
}
