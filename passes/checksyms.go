package passes

import (
	"github.com/secondlife/tailslide/ast"
	"github.com/secondlife/tailslide/diag"
)

// CheckSymbols warns about user variables and parameters that are never
// referenced. It relies on the counters from the reference-data pass.
func CheckSymbols(root *ast.Node, log *diag.Logger) {
	for _, obj := range root.Context().Alloc.Tracked() {
		sym, ok := obj.(*ast.Symbol)
		if !ok || sym.Builtin || sym.References > 0 {
			continue
		}
		switch sym.Kind {
		case ast.SymVariable:
			log.Report(sym.Loc, diag.WarnUnusedVariable, sym.Name)
		case ast.SymParameter:
			log.Report(sym.Loc, diag.WarnUnusedParameter, sym.Name)
		}
	}
}
