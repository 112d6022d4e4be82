package model

// Expr is the expression tree sum type described in spec.md §3. The zero
// value (ExprKind == "") denotes "no expression" and is used as the
// sentinel for absent defaults/on-conditions so that Expr can be embedded
// by value.
type Expr struct {
	Kind ExprKind

	// Literal
	Val     any
	Literal string // literal kind: "string","number","boolean","date","time","timestamp","binary","null"

	// Ref (path)
	Ref      []PathStep
	IsParam  bool
	IsGlobal bool

	// FuncCall
	Func string
	Args []Expr

	// EnumSym
	Symbol string

	// Mixed (xpr): an interleaved sequence of operands and infix tokens.
	Xpr []Expr

	// ListExpr
	List []Expr

	// Cast
	CastTo *ScalarType
	CastOf *Expr

	// infix token immediately preceding this node in its parent's Xpr/List,
	// empty for the first operand. Populated by the parser boundary; the
	// core never synthesizes operators out of thin air.
	Token string
}

// ExprKind tags the Expr variant.
type ExprKind string

const (
	ExprNone    ExprKind = ""
	ExprLiteral ExprKind = "val"
	ExprRef     ExprKind = "ref"
	ExprFunc    ExprKind = "func"
	ExprEnum    ExprKind = "#"
	ExprXpr     ExprKind = "xpr"
	ExprList    ExprKind = "list"
	ExprCast    ExprKind = "cast"
)

// IsZero reports whether e carries no expression at all.
func (e Expr) IsZero() bool { return e.Kind == ExprNone }

// PathStep is one hop of a ref path. Steps may carry view-parameter args,
// a filter (Where) and a cardinality on that filter, per spec.md §3.
type PathStep struct {
	Name        string
	Args        map[string]Expr
	Where       *Expr
	Cardinality *Cardinality
}

// PathStrings returns the bare dotted names of a ref path, ignoring args
// and filters - the form most resolution and naming code needs.
func PathStrings(steps []PathStep) []string {
	out := make([]string, len(steps))
	for i, s := range steps {
		out[i] = s.Name
	}
	return out
}

// IsSelfRef reports whether a ref expression is exactly `$self`.
func (e Expr) IsSelfRef() bool {
	return e.Kind == ExprRef && len(e.Ref) == 1 && e.Ref[0].Name == "$self"
}

// Visitor receives callbacks while Walk traverses an expression tree.
// Enter is called pre-order; returning false skips the node's children.
// Leave is called post-order for every node Enter accepted.
type Visitor struct {
	Enter func(path []int, e *Expr) bool
	Leave func(path []int, e *Expr)
}

// Walk performs a read-only-capable pre/post-order traversal of an
// expression tree. Callers that need to mutate nodes do so via the *Expr
// pointers handed to Enter/Leave; Walk itself never mutates. The
// constraint package and render/expr traverse expressions with their own
// loops and do not call Walk.
func Walk(e *Expr, v Visitor) {
	walk(nil, e, v)
}

func walk(path []int, e *Expr, v Visitor) {
	if e == nil {
		return
	}
	if v.Enter != nil && !v.Enter(path, e) {
		return
	}
	switch e.Kind {
	case ExprFunc:
		for i := range e.Args {
			walk(append(append([]int{}, path...), i), &e.Args[i], v)
		}
	case ExprXpr:
		for i := range e.Xpr {
			walk(append(append([]int{}, path...), i), &e.Xpr[i], v)
		}
	case ExprList:
		for i := range e.List {
			walk(append(append([]int{}, path...), i), &e.List[i], v)
		}
	case ExprCast:
		if e.CastOf != nil {
			walk(append(append([]int{}, path...), 0), e.CastOf, v)
		}
	case ExprRef:
		for i := range e.Ref {
			for k, a := range e.Ref[i].Args {
				ac := a
				walk(path, &ac, v)
				e.Ref[i].Args[k] = ac
			}
			if e.Ref[i].Where != nil {
				walk(path, e.Ref[i].Where, v)
			}
		}
	}
	if v.Leave != nil {
		v.Leave(path, e)
	}
}

// ContainsBinaryOp reports whether e is an Xpr node carrying more than one
// operand, i.e. renders with an infix operator and therefore needs
// parenthesizing when nested - the rule used by the expression renderer
// (component E) and, read-only, by pass 9's on-condition parser to decide
// whether a node is a bare equality comparison.
func (e Expr) ContainsBinaryOp() bool {
	return e.Kind == ExprXpr && len(e.Xpr) > 1
}
