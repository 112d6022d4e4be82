package expr

import (
	"strconv"
	"strings"

	"github.com/csnlower/csnlower/model"
)

// Query renders a view's SELECT/SET tree to text, used by the DDL renderer
// for native view definitions and by the SQL renderer for its CREATE VIEW
// statements.
func (r *Renderer) Query(q *model.Query) string {
	if q == nil {
		return ""
	}
	if q.Kind == model.QuerySet {
		return r.set(q)
	}
	return r.selectStmt(q)
}

func (r *Renderer) set(q *model.Query) string {
	parts := make([]string, len(q.Args))
	for i, a := range q.Args {
		parts[i] = "(" + r.Query(a) + ")"
	}
	op := strings.ToUpper(q.Op)
	if q.All {
		op += " ALL"
	}
	return strings.Join(parts, " "+op+" ")
}

func (r *Renderer) selectStmt(q *model.Query) string {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	if q.Distinct {
		sb.WriteString("DISTINCT ")
	}
	sb.WriteString(r.columns(q.Columns))
	if q.From != nil {
		sb.WriteString(" FROM ")
		sb.WriteString(r.source(q.From))
	}
	if q.Where != nil {
		sb.WriteString(" WHERE ")
		sb.WriteString(r.node(*q.Where))
	}
	if len(q.GroupBy) > 0 {
		sb.WriteString(" GROUP BY ")
		sb.WriteString(r.exprList(q.GroupBy))
	}
	if q.Having != nil {
		sb.WriteString(" HAVING ")
		sb.WriteString(r.node(*q.Having))
	}
	if len(q.OrderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(r.orderBy(q.OrderBy))
	}
	if q.Limit != nil {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(*q.Limit))
	}
	if q.Offset != nil {
		sb.WriteString(" OFFSET ")
		sb.WriteString(strconv.Itoa(*q.Offset))
	}
	return sb.String()
}

func (r *Renderer) columns(cols []model.Column) string {
	if len(cols) == 0 {
		return "*"
	}
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = r.node(c.Expr)
		if c.Alias != "" {
			parts[i] += " AS " + r.Dialect.QuoteIdent(c.Alias)
		}
	}
	return strings.Join(parts, ", ")
}

func (r *Renderer) exprList(exprs []model.Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = r.node(e)
	}
	return strings.Join(parts, ", ")
}

func (r *Renderer) orderBy(items []model.OrderExpr) string {
	parts := make([]string, len(items))
	for i, o := range items {
		s := r.node(o.Expr)
		if o.Desc {
			s += " DESC"
		}
		parts[i] = s
	}
	return strings.Join(parts, ", ")
}

func (r *Renderer) source(s *model.Source) string {
	if s == nil {
		return ""
	}
	switch {
	case s.IsJoin():
		parts := make([]string, len(s.JoinArgs))
		for i, j := range s.JoinArgs {
			parts[i] = r.source(j)
		}
		joined := strings.Join(parts, " "+strings.ToUpper(s.Join)+" JOIN ")
		if s.On != nil {
			joined += " ON " + r.node(*s.On)
		}
		return joined
	case s.IsSubQuery():
		sub := "(" + r.Query(s.SubQuery) + ")"
		if s.Alias != "" {
			sub += " AS " + r.Dialect.QuoteIdent(s.Alias)
		}
		return sub
	default:
		ref := r.Dialect.QuoteIdent(s.Ref)
		if s.Alias != "" {
			ref += " AS " + r.Dialect.QuoteIdent(s.Alias)
		}
		return ref
	}
}
