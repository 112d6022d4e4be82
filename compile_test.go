package csnlower_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	csnlower "github.com/csnlower/csnlower"
	"github.com/csnlower/csnlower/errs"
	"github.com/csnlower/csnlower/model"
	"github.com/csnlower/csnlower/optsx"
)

func bookStore() *model.Store {
	s := model.New()
	book := &model.Definition{Name: "my.Book", Kind: model.KindEntity, IsStruct: true}
	book.AddElement(&model.Element{Name: "ID", Base: &model.ScalarType{Base: "cds.UUID"}, Key: true})
	book.AddElement(&model.Element{Name: "title", Base: &model.ScalarType{Base: "cds.String", Length: 111}})
	view := &model.Definition{
		Name: "my.BookView", Kind: model.KindEntity, IsStruct: true,
		Query: &model.Query{Kind: model.QuerySelect, From: &model.Source{Ref: "my.Book"}},
	}
	s.Put(book)
	s.Put(view)
	return s
}

func TestRenderSQLMonolithicSrc(t *testing.T) {
	opts := optsx.MustNew(optsx.WithSrc(optsx.SrcSQL))
	sink := errs.NewSink()

	out, err := csnlower.RenderSQL(bookStore(), opts, sink)
	require.NoError(t, err)
	require.Contains(t, out, "sql")
	assert.Contains(t, out["sql"], "CREATE TABLE")
}

func TestRenderSQLSplitsHDISrc(t *testing.T) {
	opts := optsx.MustNew(optsx.WithSrc(optsx.SrcHDI))
	sink := errs.NewSink()

	out, err := csnlower.RenderSQL(bookStore(), opts, sink)
	require.NoError(t, err)
	assert.Contains(t, out["hdbtable"], "CREATE TABLE")
	assert.Contains(t, out["hdbview"], "CREATE VIEW")
}

func TestDiffAndRenderMigrationWiring(t *testing.T) {
	before := bookStore()
	after := model.New()
	book := &model.Definition{Name: "my.Book", Kind: model.KindEntity, IsStruct: true}
	book.AddElement(&model.Element{Name: "ID", Base: &model.ScalarType{Base: "cds.UUID"}, Key: true})
	book.AddElement(&model.Element{Name: "isbn", Base: &model.ScalarType{Base: "cds.String", Length: 13}})
	after.Put(book)

	plan := csnlower.Diff(before, after)
	require.False(t, plan.IsEmpty())

	opts := optsx.MustNew(optsx.WithDialect(optsx.SQLite))
	sink := errs.NewSink()
	sql, err := csnlower.RenderMigration(plan, opts, sink)
	require.NoError(t, err)
	assert.Contains(t, sql, "ADD COLUMN")
	assert.Contains(t, sql, "DROP COLUMN")
}
