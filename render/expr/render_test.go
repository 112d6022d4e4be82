package expr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/csnlower/csnlower/model"
	"github.com/csnlower/csnlower/render/expr"
)

func TestRenderLiteralAndRef(t *testing.T) {
	r := expr.New(expr.Plain{})
	assert.Equal(t, "'it''s'", r.Expr(model.Expr{Kind: model.ExprLiteral, Literal: "string", Val: "it's"}))
	assert.Equal(t, "a.b", r.Expr(model.Expr{Kind: model.ExprRef, Ref: []model.PathStep{{Name: "a"}, {Name: "b"}}}))
}

func TestRenderXprParenthesizesNestedBinary(t *testing.T) {
	r := expr.New(expr.Plain{})
	inner := model.Expr{Kind: model.ExprXpr, Xpr: []model.Expr{
		{Kind: model.ExprRef, Ref: []model.PathStep{{Name: "a"}}},
		{Kind: model.ExprRef, Token: "=", Ref: []model.PathStep{{Name: "b"}}},
	}}
	outer := model.Expr{Kind: model.ExprXpr, Xpr: []model.Expr{
		inner,
		{Kind: model.ExprRef, Token: "or", Ref: []model.PathStep{{Name: "c"}}},
	}}
	assert.Equal(t, "(a = b) or c", r.Expr(outer))
}

func TestRenderFuncCall(t *testing.T) {
	r := expr.New(expr.Plain{})
	e := model.Expr{Kind: model.ExprFunc, Func: "COALESCE", Args: []model.Expr{
		{Kind: model.ExprRef, Ref: []model.PathStep{{Name: "x"}}},
		{Kind: model.ExprLiteral, Literal: "number", Val: 0},
	}}
	assert.Equal(t, "COALESCE(x, 0)", r.Expr(e))
}

func TestRenderSelectQuery(t *testing.T) {
	r := expr.New(expr.Plain{})
	q := &model.Query{
		Kind: model.QuerySelect,
		Columns: []model.Column{
			{Expr: model.Expr{Kind: model.ExprRef, Ref: []model.PathStep{{Name: "ID"}}}},
		},
		From: &model.Source{Ref: "my.Book"},
		Where: &model.Expr{Kind: model.ExprXpr, Xpr: []model.Expr{
			{Kind: model.ExprRef, Ref: []model.PathStep{{Name: "ID"}}},
			{Kind: model.ExprLiteral, Token: ">", Literal: "number", Val: 0},
		}},
	}
	assert.Equal(t, "SELECT ID FROM my.Book WHERE ID > 0", r.Query(q))
}

func TestFoldWrapsAtWidth(t *testing.T) {
	lines := expr.Fold("a b c d e f g", 5)
	assert.Greater(t, len(lines), 1)
	for _, l := range lines {
		assert.LessOrEqual(t, len(l), 5+2) // allow the last word to slightly overflow a tight width
	}
}
