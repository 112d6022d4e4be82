package expr

import (
	"fmt"
	"strings"

	"github.com/csnlower/csnlower/model"
)

// Renderer turns model.Expr/model.Query trees into dialect text. It is the
// single traversal spec.md §9 requires renderers to share; nothing else in
// this module walks an expression tree to produce output.
type Renderer struct {
	Dialect Dialect
}

// New builds a Renderer for the given dialect capability set.
func New(d Dialect) *Renderer { return &Renderer{Dialect: d} }

// Expr renders one expression node.
func (r *Renderer) Expr(e model.Expr) string { return r.node(e) }

func (r *Renderer) parenthesized(e model.Expr) string {
	s := r.node(e)
	if e.ContainsBinaryOp() {
		return "(" + s + ")"
	}
	return s
}

func (r *Renderer) node(e model.Expr) string {
	switch e.Kind {
	case model.ExprNone:
		return ""
	case model.ExprLiteral:
		return r.literal(e)
	case model.ExprRef:
		return r.ref(e)
	case model.ExprFunc:
		return r.funcCall(e)
	case model.ExprEnum:
		return "#" + e.Symbol
	case model.ExprXpr:
		return r.xpr(e)
	case model.ExprList:
		return r.list(e)
	case model.ExprCast:
		return r.cast(e)
	default:
		return ""
	}
}

func (r *Renderer) literal(e model.Expr) string {
	switch e.Literal {
	case "null":
		return "NULL"
	case "string", "date", "time", "timestamp", "binary":
		return "'" + strings.ReplaceAll(fmt.Sprint(e.Val), "'", "''") + "'"
	case "boolean":
		if b, _ := e.Val.(bool); b {
			return "TRUE"
		}
		return "FALSE"
	default:
		return fmt.Sprint(e.Val)
	}
}

func (r *Renderer) ref(e model.Expr) string {
	if len(e.Ref) == 1 && strings.HasPrefix(e.Ref[0].Name, "$") {
		if mv, ok := r.Dialect.MagicVar(e.Ref[0].Name); ok {
			return mv
		}
	}
	parts := make([]string, len(e.Ref))
	for i, step := range e.Ref {
		parts[i] = r.Dialect.QuoteIdent(step.Name)
	}
	return strings.Join(parts, ".")
}

func (r *Renderer) funcCall(e model.Expr) string {
	args := make([]string, len(e.Args))
	for i := range e.Args {
		args[i] = r.parenthesized(e.Args[i])
	}
	return r.Dialect.MapFunc(e.Func) + "(" + strings.Join(args, ", ") + ")"
}

func (r *Renderer) xpr(e model.Expr) string {
	var sb strings.Builder
	for i, part := range e.Xpr {
		if i > 0 && part.Token != "" {
			sb.WriteByte(' ')
			sb.WriteString(part.Token)
			sb.WriteByte(' ')
		}
		sb.WriteString(r.parenthesized(part))
	}
	return sb.String()
}

func (r *Renderer) list(e model.Expr) string {
	items := make([]string, len(e.List))
	for i := range e.List {
		items[i] = r.node(e.List[i])
	}
	return "(" + strings.Join(items, ", ") + ")"
}

func (r *Renderer) cast(e model.Expr) string {
	var of string
	if e.CastOf != nil {
		of = r.parenthesized(*e.CastOf)
	}
	return "CAST(" + of + " AS " + r.Dialect.MapType(e.CastTo) + ")"
}

// Fold greedily wraps s into lines of at most width characters, breaking
// only at spaces — the 77-character line-folding rule the DDL/SQL
// renderers apply to long on-conditions and default-value expressions.
func Fold(s string, width int) []string {
	if width <= 0 || len(s) <= width {
		return []string{s}
	}
	words := strings.Fields(s)
	var lines []string
	var cur strings.Builder
	for _, w := range words {
		if cur.Len() > 0 && cur.Len()+1+len(w) > width {
			lines = append(lines, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(w)
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}
