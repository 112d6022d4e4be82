package differ_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csnlower/csnlower/differ"
	"github.com/csnlower/csnlower/model"
)

func entityStore(nameLength int, extraCol bool) *model.Store {
	s := model.New()
	book := &model.Definition{Name: "my.Book", Kind: model.KindEntity, IsStruct: true}
	book.AddElement(&model.Element{Name: "ID", Base: &model.ScalarType{Base: "cds.UUID"}, Key: true})
	book.AddElement(&model.Element{Name: "title", Base: &model.ScalarType{Base: "cds.String", Length: nameLength}})
	if extraCol {
		book.AddElement(&model.Element{Name: "isbn", Base: &model.ScalarType{Base: "cds.String", Length: 13}})
	}
	s.Put(book)
	return s
}

func TestDiffIdempotent(t *testing.T) {
	s := entityStore(111, true)
	plan := differ.Diff(s, s)
	assert.True(t, plan.IsEmpty())
}

func TestDiffDetectsAddedColumn(t *testing.T) {
	before := entityStore(111, false)
	after := entityStore(111, true)

	plan := differ.Diff(before, after)
	require.Len(t, plan.Entities, 1)
	ec := plan.Entities[0]
	assert.Equal(t, differ.Modified, ec.Kind)
	require.Len(t, ec.Elements, 1)
	assert.Equal(t, "isbn", ec.Elements[0].Name)
	assert.Equal(t, differ.Added, ec.Elements[0].Kind)
}

func TestDiffDetectsLossyShrink(t *testing.T) {
	before := entityStore(111, false)
	after := entityStore(42, false)

	plan := differ.Diff(before, after)
	require.Len(t, plan.Entities, 1)
	require.Len(t, plan.Entities[0].Elements, 1)
	change := plan.Entities[0].Elements[0]
	assert.Equal(t, "title", change.Name)
	assert.True(t, change.Lossy)
}

func TestDiffDetectsAddedAndDroppedEntities(t *testing.T) {
	before := model.New()
	author := &model.Definition{Name: "my.Author", Kind: model.KindEntity, IsStruct: true}
	author.AddElement(&model.Element{Name: "ID", Base: &model.ScalarType{Base: "cds.UUID"}, Key: true})
	before.Put(author)

	after := entityStore(111, false)

	plan := differ.Diff(before, after)
	require.Len(t, plan.Entities, 2)

	byName := map[string]differ.EntityChange{}
	for _, ec := range plan.Entities {
		byName[ec.Name] = ec
	}
	assert.Equal(t, differ.Dropped, byName["my.Author"].Kind)
	assert.Equal(t, differ.Added, byName["my.Book"].Kind)
}

func TestDiffIgnoresViewsAndProxies(t *testing.T) {
	before := model.New()
	view := &model.Definition{Name: "my.BookView", Kind: model.KindEntity, IsStruct: true, Query: &model.Query{Kind: model.QuerySelect}}
	before.Put(view)
	proxy := &model.Definition{Name: "my.AuthorProxy", Kind: model.KindEntity, IsStruct: true, IsProxy: true}
	before.Put(proxy)

	after := model.New()

	plan := differ.Diff(before, after)
	assert.True(t, plan.IsEmpty())
}
