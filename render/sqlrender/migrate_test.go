package sqlrender_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csnlower/csnlower/differ"
	"github.com/csnlower/csnlower/errs"
	"github.com/csnlower/csnlower/model"
	"github.com/csnlower/csnlower/naming"
	"github.com/csnlower/csnlower/optsx"
	"github.com/csnlower/csnlower/render/sqlrender"
)

func TestMigrateEmitsAlterStatements(t *testing.T) {
	before := model.New()
	b := &model.Definition{Name: "my.Book", Kind: model.KindEntity, IsStruct: true}
	b.AddElement(&model.Element{Name: "ID", Base: &model.ScalarType{Base: "cds.UUID"}, Key: true})
	b.AddElement(&model.Element{Name: "title", Base: &model.ScalarType{Base: "cds.String", Length: 111}})
	before.Put(b)

	after := model.New()
	a := &model.Definition{Name: "my.Book", Kind: model.KindEntity, IsStruct: true}
	a.AddElement(&model.Element{Name: "ID", Base: &model.ScalarType{Base: "cds.UUID"}, Key: true})
	a.AddElement(&model.Element{Name: "isbn", Base: &model.ScalarType{Base: "cds.String", Length: 13}})
	after.Put(a)

	plan := differ.Diff(before, after)
	opts := optsx.MustNew(optsx.WithDialect(optsx.SQLite), optsx.WithSQLChangeMode(optsx.ChangeAlter))
	pol := naming.NewPolicy(optsx.Plain, optsx.SQLite)
	sink := errs.NewSink()

	sql, err := sqlrender.Migrate(plan, opts, pol, sink)
	require.NoError(t, err)
	assert.Contains(t, sql, "ADD COLUMN ISBN")
	assert.Contains(t, sql, "DROP COLUMN TITLE")
}

func TestMigrateDropModeSplitsLossyChangeIntoDropAdd(t *testing.T) {
	before := model.New()
	b := &model.Definition{Name: "my.Book", Kind: model.KindEntity, IsStruct: true}
	b.AddElement(&model.Element{Name: "title", Base: &model.ScalarType{Base: "cds.String", Length: 111}})
	before.Put(b)

	after := model.New()
	a := &model.Definition{Name: "my.Book", Kind: model.KindEntity, IsStruct: true}
	a.AddElement(&model.Element{Name: "title", Base: &model.ScalarType{Base: "cds.String", Length: 10}})
	after.Put(a)

	plan := differ.Diff(before, after)
	opts := optsx.MustNew(optsx.WithDialect(optsx.SQLite), optsx.WithSQLChangeMode(optsx.ChangeDrop))
	pol := naming.NewPolicy(optsx.Plain, optsx.SQLite)
	sink := errs.NewSink()

	sql, err := sqlrender.Migrate(plan, opts, pol, sink)
	require.NoError(t, err)
	assert.Contains(t, sql, "DROP COLUMN TITLE")
	assert.Contains(t, sql, "ADD COLUMN TITLE")
}
