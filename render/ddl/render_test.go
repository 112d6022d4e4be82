package ddl_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csnlower/csnlower/errs"
	"github.com/csnlower/csnlower/model"
	"github.com/csnlower/csnlower/naming"
	"github.com/csnlower/csnlower/optsx"
	"github.com/csnlower/csnlower/render/ddl"
)

func bookAuthorStore() *model.Store {
	s := model.New()

	author := &model.Definition{Name: "my.Author", Kind: model.KindEntity, IsStruct: true, MySchemaName: "my"}
	author.AddElement(&model.Element{Name: "ID", Base: &model.ScalarType{Base: "cds.UUID"}, Key: true})
	author.AddElement(&model.Element{Name: "name", Base: &model.ScalarType{Base: "cds.String", Length: 111}})
	s.Put(author)

	book := &model.Definition{Name: "my.Other.Book", Kind: model.KindEntity, IsStruct: true, MySchemaName: "my.Other"}
	book.AddElement(&model.Element{Name: "ID", Base: &model.ScalarType{Base: "cds.UUID"}, Key: true})
	book.AddElement(&model.Element{Name: "title", Base: &model.ScalarType{Base: "cds.String", Length: 111}})
	book.AddElement(&model.Element{
		Name: "author",
		Assoc: &model.Association{
			Target: "my.Author", ResolvedTarget: "my.Author",
			Keys: []*model.ForeignKeyRef{{Path: []string{"ID"}, Ref: []string{"ID"}}},
			Constraints: &model.Constraints{Final: []model.ConstraintCandidate{
				{DependentPath: []string{"author", "ID"}, PrincipalPath: []string{"ID"}, Identifier: "BOOK_AUTHOR_ID_FK"},
			}},
		},
	})
	s.Put(book)

	return s
}

func TestRenderGroupsByArtifactAndAliasesCrossSchemaTargets(t *testing.T) {
	s := bookAuthorStore()
	opts := optsx.MustNew()
	pol := naming.NewPolicy(optsx.HDBCDS, optsx.Hana)
	sink := errs.NewSink()

	out, err := ddl.Render(s, opts, pol, sink)
	require.NoError(t, err)

	myFile, ok := out["my.hdbcds"]
	require.True(t, ok)
	assert.Contains(t, myFile, "entity Author")

	otherFile, ok := out["my.Other.hdbcds"]
	require.True(t, ok)
	assert.Contains(t, otherFile, "using my.Author as Author;")
	assert.Contains(t, otherFile, "entity Book")
	assert.Contains(t, otherFile, "Association to Author")

	_, hasConstraint := out["my.Other::Book.BOOK_AUTHOR_ID_FK.hdbconstraint"]
	assert.True(t, hasConstraint, "expected one constraint file, got keys %v", keys(out))
}

func TestRenderRefusesWhenSinkHasErrors(t *testing.T) {
	s := bookAuthorStore()
	opts := optsx.MustNew()
	pol := naming.NewPolicy(optsx.Plain, optsx.PlainSQL)
	sink := errs.NewSink()
	sink.Error(errs.DialectViolation, "bogus", "my.Other.Book", "injected failure")

	_, err := ddl.Render(s, opts, pol, sink)
	assert.Error(t, err)
}

func TestRenderReportsDuplicatePersistenceNames(t *testing.T) {
	s := model.New()
	a := &model.Definition{Name: "my.a.Book", Kind: model.KindEntity, IsStruct: true, MySchemaName: "my"}
	a.AddElement(&model.Element{Name: "ID", Base: &model.ScalarType{Base: "cds.UUID"}, Key: true})
	b := &model.Definition{Name: "my.a_Book", Kind: model.KindEntity, IsStruct: true, MySchemaName: "my"}
	b.AddElement(&model.Element{Name: "ID", Base: &model.ScalarType{Base: "cds.UUID"}, Key: true})
	s.Put(a)
	s.Put(b)

	opts := optsx.MustNew()
	pol := naming.NewPolicy(optsx.Plain, optsx.PlainSQL)
	sink := errs.NewSink()

	_, err := ddl.Render(s, opts, pol, sink)
	assert.Error(t, err)
	assert.True(t, sink.HasErrors())
}

func TestRenderCarriesThroughAUUIDLiteralDefaultUnchanged(t *testing.T) {
	fixedID := uuid.NewString()

	s := model.New()
	tenant := &model.Definition{Name: "my.Tenant", Kind: model.KindEntity, IsStruct: true, MySchemaName: "my"}
	tenant.AddElement(&model.Element{Name: "ID", Base: &model.ScalarType{Base: "cds.UUID"}, Key: true})
	tenant.AddElement(&model.Element{
		Name:    "defaultOwner",
		Base:    &model.ScalarType{Base: "cds.UUID"},
		Default: model.Expr{Kind: model.ExprLiteral, Literal: "string", Val: fixedID},
	})
	s.Put(tenant)

	opts := optsx.MustNew()
	pol := naming.NewPolicy(optsx.Plain, optsx.PlainSQL)
	sink := errs.NewSink()

	out, err := ddl.Render(s, opts, pol, sink)
	require.NoError(t, err)
	assert.Contains(t, out["my.hdbcds"], "default '"+fixedID+"'")
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
