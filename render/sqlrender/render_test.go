package sqlrender_test

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/csnlower/csnlower/errs"
	"github.com/csnlower/csnlower/model"
	"github.com/csnlower/csnlower/naming"
	"github.com/csnlower/csnlower/optsx"
	"github.com/csnlower/csnlower/render/sqlrender"
)

func bookAuthorStore() *model.Store {
	s := model.New()

	author := &model.Definition{Name: "my.Author", Kind: model.KindEntity, IsStruct: true}
	author.AddElement(&model.Element{Name: "ID", Base: &model.ScalarType{Base: "cds.UUID"}, Key: true})
	author.AddElement(&model.Element{Name: "name", Base: &model.ScalarType{Base: "cds.String", Length: 111}})
	s.Put(author)

	book := &model.Definition{Name: "my.Book", Kind: model.KindEntity, IsStruct: true}
	book.AddElement(&model.Element{Name: "ID", Base: &model.ScalarType{Base: "cds.UUID"}, Key: true})
	book.AddElement(&model.Element{Name: "title", Base: &model.ScalarType{Base: "cds.String", Length: 111}})
	authorEl := &model.Element{
		Name: "author",
		Assoc: &model.Association{
			Target: "my.Author", ResolvedTarget: "my.Author",
			Keys: []*model.ForeignKeyRef{{Path: []string{"ID"}, Ref: []string{"ID"}}},
			Constraints: &model.Constraints{Final: []model.ConstraintCandidate{
				{DependentPath: []string{"author", "ID"}, PrincipalPath: []string{"ID"}, Identifier: "BOOK_AUTHOR_ID_FK"},
			}},
		},
	}
	book.AddElement(authorEl)
	s.Put(book)

	return s
}

func TestRenderSQLiteDDLIsAccepted(t *testing.T) {
	s := bookAuthorStore()
	opts := optsx.MustNew(optsx.WithDialect(optsx.SQLite))
	pol := naming.NewPolicy(optsx.Plain, optsx.SQLite)
	sink := errs.NewSink()

	ddl, err := sqlrender.Render(s, opts, pol, sink)
	require.NoError(t, err)
	assert.Contains(t, ddl, "CREATE TABLE")
	assert.Contains(t, ddl, "MY_AUTHOR")
	assert.Contains(t, ddl, "MY_BOOK")

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(ddl)
	assert.NoError(t, err, "rendered DDL must be valid SQLite syntax:\n%s", ddl)
}

func TestRenderRefusesWhenSinkHasErrors(t *testing.T) {
	s := bookAuthorStore()
	opts := optsx.MustNew()
	pol := naming.NewPolicy(optsx.Plain, optsx.PlainSQL)
	sink := errs.NewSink()
	sink.Error(errs.DialectViolation, "bogus", "my.Book", "injected failure")

	_, err := sqlrender.Render(s, opts, pol, sink)
	assert.Error(t, err)
}

func TestRenderHanaDialectUsesNVARCHARTypes(t *testing.T) {
	s := bookAuthorStore()
	opts := optsx.MustNew(optsx.WithDialect(optsx.Hana))
	pol := naming.NewPolicy(optsx.Quoted, optsx.Hana)
	sink := errs.NewSink()

	ddl, err := sqlrender.Render(s, opts, pol, sink)
	require.NoError(t, err)
	assert.Contains(t, ddl, "NVARCHAR")
	assert.Contains(t, ddl, "FOREIGN KEY")
}
