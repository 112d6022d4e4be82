package preprocess_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csnlower/csnlower/model"
	"github.com/csnlower/csnlower/optsx"
	"github.com/csnlower/csnlower/preprocess"
)

func bookshopStore() *model.Store {
	s := model.New()

	svc := &model.Definition{Name: "CatalogService", Kind: model.KindService}
	s.Put(svc)

	author := &model.Definition{Name: "CatalogService.Author", Kind: model.KindEntity, IsStruct: true}
	author.AddElement(&model.Element{Name: "ID", Base: &model.ScalarType{Base: "cds.UUID"}, Key: true})
	author.AddElement(&model.Element{Name: "name", Base: &model.ScalarType{Base: "cds.String", Length: 111}})
	s.Put(author)

	book := &model.Definition{Name: "CatalogService.Book", Kind: model.KindEntity, IsStruct: true}
	book.AddElement(&model.Element{Name: "ID", Base: &model.ScalarType{Base: "cds.UUID"}, Key: true})
	book.AddElement(&model.Element{
		Name: "author",
		Assoc: &model.Association{
			Target: "CatalogService.Author",
			Keys:   []*model.ForeignKeyRef{{Path: []string{"ID"}, Ref: []string{"ID"}}},
		},
	})
	s.Put(book)

	return s
}

func TestRunResolvesAssociationsAndConstraints(t *testing.T) {
	s := bookshopStore()
	opts := optsx.MustNew()

	out, sink := preprocess.Run(s, opts)
	require.False(t, sink.Fatal())

	book, ok := out.Get("CatalogService.Book")
	require.True(t, ok)
	el, ok := book.ElementByName("author")
	require.True(t, ok)
	assert.Equal(t, "CatalogService.Author", el.Assoc.ResolvedTarget)
	require.NotNil(t, el.Assoc.Constraints)
	require.Len(t, el.Assoc.Constraints.Final, 1)

	author, _ := out.Get("CatalogService.Author")
	assert.Equal(t, "CatalogService", author.MySchemaName)
	assert.True(t, author.HasEntitySet)
	assert.Equal(t, []string{"ID"}, author.Keys)
}

func TestRunDropsPartialDefinitionsByDefault(t *testing.T) {
	s := bookshopStore()
	draft := &model.Definition{Name: "CatalogService.Draft", Kind: model.KindEntity, IsStruct: true}
	draft.Annotations = model.NewAnnotations()
	draft.Annotations.Set("@cds.partial", model.BoolAnnotation(true))
	s.Put(draft)

	out, sink := preprocess.Run(s, optsx.MustNew())
	require.False(t, sink.Fatal())
	_, ok := out.Get("CatalogService.Draft")
	assert.False(t, ok)
}

func TestRunSplitsParameterizedEntity(t *testing.T) {
	s := model.New()
	svc := &model.Definition{Name: "S", Kind: model.KindService}
	s.Put(svc)
	e := &model.Definition{Name: "S.Report", Kind: model.KindEntity, IsStruct: true}
	e.Params = []*model.Param{{Name: "year", Type: &model.ScalarType{Base: "cds.Integer"}}}
	e.AddElement(&model.Element{Name: "total", Base: &model.ScalarType{Base: "cds.Decimal"}})
	s.Put(e)

	out, sink := preprocess.Run(s, optsx.MustNew())
	require.False(t, sink.Fatal())

	_, ok := out.Get("S.ReportType")
	assert.True(t, ok)
	params, ok := out.Get("S.ReportParameters")
	require.True(t, ok)
	_, ok = params.ElementByName("year")
	assert.True(t, ok)
	_, ok = params.ElementByName("Set")
	assert.True(t, ok)
}
