package passes

import (
	"github.com/secondlife/tailslide/ast"
	"github.com/secondlife/tailslide/diag"
)

// ValidateGlobals walks the globals in declaration order and verifies
// each initializer is a constant expression. Strict mode accepts literals,
// negated literals, coordinate and list literals built from those, and
// built-in constants; relaxed mode additionally accepts references to
// previously declared globals and any initializer that value propagation
// folded to a constant, matching the newer runtime.
func ValidateGlobals(root *ast.Node, log *diag.Logger, strict bool) {
	declared := make(map[*ast.Symbol]bool)
	for _, g := range root.Child(0).Children() {
		if g.SubType() != ast.SubGlobalVariable {
			continue
		}
		sym := g.Child(0).Symbol()
		if init := g.Child(1); init != nil {
			if !constantInitializer(init, declared, strict) {
				log.Report(init.Loc(), diag.ErrGlobalInitNotConstant)
			}
		}
		if sym != nil {
			declared[sym] = true
		}
	}
	root.Context().MarkCompleted(ast.PassGlobals)
}

func constantInitializer(expr *ast.Node, declared map[*ast.Symbol]bool, strict bool) bool {
	switch expr.SubType() {
	case ast.SubConstantExpression:
		return true
	case ast.SubUnaryExpression:
		return expr.Operator() == ast.OpNeg &&
			constantInitializer(expr.Child(0), declared, strict)
	case ast.SubVectorExpression, ast.SubQuaternionExpression, ast.SubListExpression:
		for _, c := range expr.Children() {
			if !constantInitializer(c, declared, strict) {
				return false
			}
		}
		return true
	case ast.SubTypecastExpression:
		// Synthetic promotion casts wrap literal components.
		return constantInitializer(expr.Child(0), declared, strict)
	case ast.SubLValueExpression:
		if expr.Child(1) != nil {
			return false
		}
		sym := expr.Child(0).Symbol()
		if sym == nil {
			// Already reported as undeclared; don't pile on.
			return true
		}
		if sym.Builtin {
			return true
		}
		return !strict && declared[sym]
	}
	if !strict && expr.ConstantValue() != nil {
		return true
	}
	return false
}
