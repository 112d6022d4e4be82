package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csnlower/csnlower/errs"
	"github.com/csnlower/csnlower/model"
	"github.com/csnlower/csnlower/resolver"
)

func bookAuthorStore() *model.Store {
	s := model.New()
	author := &model.Definition{Name: "my.Author", Kind: model.KindEntity, IsStruct: true}
	author.AddElement(&model.Element{Name: "ID", Base: &model.ScalarType{Base: "cds.UUID"}, Key: true})
	author.AddElement(&model.Element{Name: "name", Base: &model.ScalarType{Base: "cds.String"}})

	book := &model.Definition{Name: "my.Book", Kind: model.KindEntity, IsStruct: true}
	book.AddElement(&model.Element{Name: "ID", Base: &model.ScalarType{Base: "cds.UUID"}, Key: true})
	book.AddElement(&model.Element{
		Name: "author",
		Assoc: &model.Association{Target: "my.Author", ResolvedTarget: "my.Author", DeclaredType: "cds.Association"},
	})

	s.Put(author)
	s.Put(book)
	return s
}

func TestResolveRelativePathThroughAssociation(t *testing.T) {
	s := bookAuthorStore()
	book, _ := s.Get("my.Book")

	ref := model.Expr{Kind: model.ExprRef, Ref: []model.PathStep{{Name: "author"}, {Name: "name"}}}
	res, err := resolver.Resolve(s, book, ref)
	require.NoError(t, err)

	assert.Equal(t, resolver.ScopeRelative, res.Scope)
	require.Len(t, res.Links, 2)
	assert.True(t, res.Links[0].IsAssoc)
	assert.Equal(t, "my.Author", res.Links[0].Definition.Name)
	require.NotNil(t, res.Final)
	assert.Equal(t, "name", res.Final.Name)
}

func TestResolveSelf(t *testing.T) {
	s := bookAuthorStore()
	book, _ := s.Get("my.Book")

	ref := model.Expr{Kind: model.ExprRef, Ref: []model.PathStep{{Name: "$self"}, {Name: "ID"}}}
	res, err := resolver.Resolve(s, book, ref)
	require.NoError(t, err)
	assert.Equal(t, resolver.ScopeSelf, res.Scope)
	require.NotNil(t, res.Final)
	assert.Equal(t, "ID", res.Final.Name)
}

func TestResolveGlobal(t *testing.T) {
	s := bookAuthorStore()
	book, _ := s.Get("my.Book")

	ref := model.Expr{Kind: model.ExprRef, IsGlobal: true, Ref: []model.PathStep{{Name: "my"}, {Name: "Author"}, {Name: "name"}}}
	res, err := resolver.Resolve(s, book, ref)
	require.NoError(t, err)
	assert.Equal(t, resolver.ScopeGlobal, res.Scope)
	require.NotNil(t, res.Final)
	assert.Equal(t, "name", res.Final.Name)
}

func TestResolveUnknownElement(t *testing.T) {
	s := bookAuthorStore()
	book, _ := s.Get("my.Book")

	ref := model.Expr{Kind: model.ExprRef, Ref: []model.PathStep{{Name: "nope"}}}
	_, err := resolver.Resolve(s, book, ref)
	assert.Error(t, err)
}

func TestCheckAssociationSpellingFlagsShortForm(t *testing.T) {
	sink := errs.NewSink()
	el := &model.Element{Name: "author", Assoc: &model.Association{Target: "my.Author", DeclaredType: "Association"}}

	resolver.CheckAssociationSpelling(sink, "my.Book.author", el)

	require.Equal(t, 1, sink.Len())
	assert.Equal(t, errs.SeverityInfo, sink.Diagnostics()[0].Severity)
}

func TestCheckAssociationSpellingAcceptsLongForm(t *testing.T) {
	sink := errs.NewSink()
	el := &model.Element{Name: "author", Assoc: &model.Association{Target: "my.Author", DeclaredType: "cds.Association"}}

	resolver.CheckAssociationSpelling(sink, "my.Book.author", el)

	assert.Equal(t, 0, sink.Len())
}

func TestIsAssocType(t *testing.T) {
	assert.True(t, resolver.IsAssocType("cds.Association"))
	assert.True(t, resolver.IsAssocType("Composition"))
	assert.False(t, resolver.IsAssocType("cds.String"))
}
