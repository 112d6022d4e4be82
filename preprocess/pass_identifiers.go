package preprocess

import (
	"errors"

	"github.com/csnlower/csnlower/errs"
	"github.com/csnlower/csnlower/model"
	"github.com/csnlower/csnlower/naming"
)

// passCheckIdentifiers is pass 8: every definition's local name (the part
// after its owning service/context prefix) and every element name must
// satisfy the identifier spec (letter/underscore start, at most 127
// trailing legal characters). Violations are recorded, not corrected: the
// renderer refuses to emit once the sink carries an error.
func passCheckIdentifiers(ctx *Context) {
	for _, d := range ctx.Store.All() {
		if d.Kind.IsScopeContainer() {
			continue
		}
		addIdentifierDiagnostic(ctx.Sink, d.Name, naming.CheckIdentifier(localName(d.Name, ctx.Services)))
		checkElementIdentifiers(ctx, d.Elements, d.Name)
	}
}

func checkElementIdentifiers(ctx *Context, els []*model.Element, path string) {
	for _, e := range els {
		addIdentifierDiagnostic(ctx.Sink, path+"."+e.Name, naming.CheckIdentifier(e.Name))
		if e.Items != nil {
			checkElementIdentifiers(ctx, []*model.Element{e.Items}, path)
		}
		if len(e.Elements) > 0 {
			checkElementIdentifiers(ctx, e.Elements, path+"."+e.Name)
		}
	}
}

func addIdentifierDiagnostic(sink *errs.Sink, path string, err error) {
	if err == nil {
		return
	}
	var diag *errs.Diagnostic
	if errors.As(err, &diag) {
		cp := *diag
		cp.Path = path
		sink.Add(cp)
	}
}
