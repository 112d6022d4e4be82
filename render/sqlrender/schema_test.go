package sqlrender_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csnlower/csnlower/errs"
	"github.com/csnlower/csnlower/model"
	"github.com/csnlower/csnlower/naming"
	"github.com/csnlower/csnlower/optsx"
	"github.com/csnlower/csnlower/render/sqlrender"
)

// namedStructStore builds an entity `x: T` where T is a separately
// declared structured type `{ a: Integer; b: { b1: String(42); } }`, the
// shape spec.md §8 scenario 6 describes.
func namedStructStore() *model.Store {
	s := model.New()

	addrType := &model.Definition{Name: "my.Addr", Kind: model.KindType, IsStruct: true}
	addrType.AddElement(&model.Element{Name: "a", Base: &model.ScalarType{Base: "cds.Integer"}})
	addrType.AddElement(&model.Element{Name: "b", Elements: []*model.Element{
		{Name: "b1", Base: &model.ScalarType{Base: "cds.String", Length: 42}},
	}})
	s.Put(addrType)

	e := &model.Definition{Name: "my.Thing", Kind: model.KindEntity, IsStruct: true}
	e.AddElement(&model.Element{Name: "ID", Base: &model.ScalarType{Base: "cds.UUID"}, Key: true})
	e.AddElement(&model.Element{Name: "x", Type: "my.Addr"})
	s.Put(e)

	return s
}

func TestBuildSchemaFlattensNamedStructuredTypeReference(t *testing.T) {
	s := namedStructStore()
	pol := naming.NewPolicy(optsx.Plain, optsx.SQLite)

	sch := sqlrender.BuildSchema(s, pol)
	require.Len(t, sch.Tables, 1)

	var names []string
	for _, c := range sch.Tables[0].Columns {
		names = append(names, c.Name)
	}
	assert.Contains(t, names, "X_A")
	assert.Contains(t, names, "X_B_B1")
}

func TestBuildSchemaPropagatesKeyThroughNamedStructuredType(t *testing.T) {
	s := namedStructStore()
	thing, _ := s.Get("my.Thing")
	x, _ := thing.ElementByName("x")
	x.Key = true
	pol := naming.NewPolicy(optsx.Plain, optsx.SQLite)

	sch := sqlrender.BuildSchema(s, pol)
	require.Len(t, sch.Tables, 1)
	require.NotNil(t, sch.Tables[0].PrimaryKey)

	var pkNames []string
	for _, p := range sch.Tables[0].PrimaryKey.Parts {
		pkNames = append(pkNames, p.C.Name)
	}
	assert.Contains(t, pkNames, "ID")
	assert.Contains(t, pkNames, "X_A")
	assert.Contains(t, pkNames, "X_B_B1")
}

func TestBuildSchemaDoesNotMutateTheSharedNamedType(t *testing.T) {
	s := model.New()
	addrType := &model.Definition{Name: "my.Addr", Kind: model.KindType, IsStruct: true}
	addrType.AddElement(&model.Element{Name: "a", Base: &model.ScalarType{Base: "cds.Integer"}})
	s.Put(addrType)

	one := &model.Definition{Name: "my.One", Kind: model.KindEntity, IsStruct: true}
	one.AddElement(&model.Element{Name: "ID", Base: &model.ScalarType{Base: "cds.UUID"}, Key: true})
	one.AddElement(&model.Element{Name: "x", Type: "my.Addr", Key: true})
	s.Put(one)

	two := &model.Definition{Name: "my.Two", Kind: model.KindEntity, IsStruct: true}
	two.AddElement(&model.Element{Name: "ID", Base: &model.ScalarType{Base: "cds.UUID"}, Key: true})
	two.AddElement(&model.Element{Name: "x", Type: "my.Addr"})
	s.Put(two)

	pol := naming.NewPolicy(optsx.Plain, optsx.SQLite)
	sqlrender.BuildSchema(s, pol)

	addrType, _ = s.Get("my.Addr")
	a, ok := addrType.ElementByName("a")
	require.True(t, ok)
	assert.False(t, a.Key, "flattening one element's reference to a shared type must not mark the type's own element as a key")
}

func TestRenderSQLHasFlattenedColumnsForNamedStructuredTypeEntity(t *testing.T) {
	s := namedStructStore()
	opts := optsx.MustNew(optsx.WithDialect(optsx.SQLite))
	pol := naming.NewPolicy(optsx.Plain, optsx.SQLite)
	sink := errs.NewSink()

	ddl, err := sqlrender.Render(s, opts, pol, sink)
	require.NoError(t, err)
	assert.Contains(t, ddl, "X_A")
	assert.Contains(t, ddl, "X_B_B1")
}
