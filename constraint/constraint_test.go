package constraint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csnlower/csnlower/constraint"
	"github.com/csnlower/csnlower/errs"
	"github.com/csnlower/csnlower/model"
	"github.com/csnlower/csnlower/naming"
	"github.com/csnlower/csnlower/optsx"
)

func bookAuthorStore() *model.Store {
	s := model.New()
	author := &model.Definition{Name: "my.Author", Kind: model.KindEntity, IsStruct: true}
	author.AddElement(&model.Element{Name: "ID", Base: &model.ScalarType{Base: "cds.UUID"}, Key: true})
	s.Put(author)

	book := &model.Definition{Name: "my.Book", Kind: model.KindEntity, IsStruct: true}
	book.AddElement(&model.Element{Name: "ID", Base: &model.ScalarType{Base: "cds.UUID"}, Key: true})
	book.AddElement(&model.Element{
		Name: "author",
		Assoc: &model.Association{
			Target: "my.Author", ResolvedTarget: "my.Author",
			Keys: []*model.ForeignKeyRef{{Path: []string{"ID"}, Ref: []string{"ID"}}},
		},
	})
	s.Put(book)
	return s
}

func TestDeriveManagedAssociationFinalizesCandidates(t *testing.T) {
	s := bookAuthorStore()
	book, _ := s.Get("my.Book")
	el, _ := book.ElementByName("author")
	el.Assoc.Constraints = &model.Constraints{Candidates: []model.ConstraintCandidate{
		{DependentPath: []string{"author", "ID"}, PrincipalPath: []string{"ID"}},
	}}

	opts := optsx.MustNew()
	pol := naming.NewPolicy(optsx.Plain, optsx.PlainSQL)
	sink := errs.NewSink()

	constraint.Derive(s, opts, pol, sink)

	require.Len(t, el.Assoc.Constraints.Final, 1)
	assert.False(t, el.Assoc.Constraints.Partial)
	assert.Equal(t, 0, sink.Len())
}

func TestDeriveUnmanagedBacklinkFindsSelfEquality(t *testing.T) {
	s := bookAuthorStore()
	author, _ := s.Get("my.Author")
	author.AddElement(&model.Element{
		Name: "books",
		Assoc: &model.Association{
			Target: "my.Book", ResolvedTarget: "my.Book",
			Cardinality: model.Cardinality{Max: model.Many},
			On: model.Expr{Kind: model.ExprXpr, Xpr: []model.Expr{
				{Kind: model.ExprRef, Ref: []model.PathStep{{Name: "books"}, {Name: "author"}, {Name: "ID"}}},
				{Kind: model.ExprRef, Token: "=", Ref: []model.PathStep{{Name: "$self"}, {Name: "ID"}}},
			}},
		},
	})

	opts := optsx.MustNew()
	pol := naming.NewPolicy(optsx.Plain, optsx.PlainSQL)
	sink := errs.NewSink()

	constraint.Derive(s, opts, pol, sink)

	el, _ := author.ElementByName("books")
	require.NotNil(t, el.Assoc.Constraints)
	require.Len(t, el.Assoc.Constraints.Final, 1)
	assert.Equal(t, []string{"ID"}, el.Assoc.Constraints.Final[0].PrincipalPath)
}

func TestDerivePartialConstraintDroppedInV2WithoutOption(t *testing.T) {
	s := model.New()
	target := &model.Definition{Name: "my.Target", Kind: model.KindEntity, IsStruct: true}
	target.AddElement(&model.Element{Name: "A", Key: true})
	target.AddElement(&model.Element{Name: "B", Key: true})
	s.Put(target)

	owner := &model.Definition{Name: "my.Owner", Kind: model.KindEntity, IsStruct: true}
	owner.AddElement(&model.Element{
		Name: "ref",
		Assoc: &model.Association{
			Target: "my.Target", ResolvedTarget: "my.Target",
			Keys: []*model.ForeignKeyRef{{Path: []string{"a"}, Ref: []string{"A"}}},
		},
	})
	s.Put(owner)

	el, _ := owner.ElementByName("ref")
	el.Assoc.Constraints = &model.Constraints{Candidates: []model.ConstraintCandidate{
		{DependentPath: []string{"ref", "a"}, PrincipalPath: []string{"A"}},
	}}

	opts := optsx.MustNew(optsx.WithVersion(optsx.V2), optsx.WithODataV2PartialConstr(false))
	pol := naming.NewPolicy(optsx.Plain, optsx.PlainSQL)
	sink := errs.NewSink()

	constraint.Derive(s, opts, pol, sink)

	assert.Empty(t, el.Assoc.Constraints.Final)
	assert.False(t, el.Assoc.Constraints.Partial)
	assert.Equal(t, 1, sink.Len())
}
