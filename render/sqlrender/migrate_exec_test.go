package sqlrender_test

import (
	"strings"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/csnlower/csnlower/differ"
	"github.com/csnlower/csnlower/errs"
	"github.com/csnlower/csnlower/model"
	"github.com/csnlower/csnlower/naming"
	"github.com/csnlower/csnlower/optsx"
	"github.com/csnlower/csnlower/render/sqlrender"
)

// TestMigrateStatementsExecuteInEmittedOrder drives the ALTER statements
// sqlrender.Migrate produces through a mocked driver, asserting they run
// in the exact order emitted (sqlmock fails a call that doesn't match its
// next expectation) rather than merely asserting on substrings of the
// rendered text.
func TestMigrateStatementsExecuteInEmittedOrder(t *testing.T) {
	before := model.New()
	b := &model.Definition{Name: "my.Book", Kind: model.KindEntity, IsStruct: true}
	b.AddElement(&model.Element{Name: "title", Base: &model.ScalarType{Base: "cds.String", Length: 111}})
	before.Put(b)

	after := model.New()
	a := &model.Definition{Name: "my.Book", Kind: model.KindEntity, IsStruct: true}
	a.AddElement(&model.Element{Name: "title", Base: &model.ScalarType{Base: "cds.String", Length: 111}})
	a.AddElement(&model.Element{Name: "isbn", Base: &model.ScalarType{Base: "cds.String", Length: 13}})
	after.Put(a)

	plan := differ.Diff(before, after)
	opts := optsx.MustNew(optsx.WithDialect(optsx.SQLite))
	pol := naming.NewPolicy(optsx.Plain, optsx.SQLite)
	sink := errs.NewSink()

	migration, err := sqlrender.Migrate(plan, opts, pol, sink)
	require.NoError(t, err)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	stmts := splitStatements(migration)
	require.NotEmpty(t, stmts)
	for range stmts {
		mock.ExpectExec(".*").WillReturnResult(sqlmock.NewResult(0, 0))
	}
	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func splitStatements(sql string) []string {
	var out []string
	for _, stmt := range strings.Split(sql, ";\n") {
		stmt = strings.TrimSpace(stmt)
		if stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
