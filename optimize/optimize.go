// Package optimize mutates an analyzed script in place: constant-
// expression simplification followed by pruning of unused locals, globals
// and functions. Pruning is iterated to a fixed point because removing a
// function can strand the globals it mentioned.
package optimize

import (
	"github.com/secondlife/tailslide/ast"
	"github.com/secondlife/tailslide/passes"
)

// Options selects which optimizations run. The zero value runs nothing.
type Options struct {
	FoldConstants        bool
	PruneUnusedLocals    bool
	PruneUnusedGlobals   bool
	PruneUnusedFunctions bool
}

// Optimize runs the enabled passes in their fixed order. It is a
// programmer error to call it before symbol collection and type
// determination have completed.
func Optimize(root *ast.Node, opts Options) {
	ctx := root.Context()
	if !ctx.Completed(ast.PassSymbols | ast.PassTypes) {
		panic("optimize: script has not completed symbol collection and type determination")
	}

	if opts.FoldConstants {
		if !ctx.Completed(ast.PassValues) {
			passes.PropagateValues(root, nil)
		}
		ast.Walk(&simplifier{alloc: ctx.Alloc}, root)
		ctx.InvalidateReferences()
	}

	for {
		changed := false
		if opts.PruneUnusedLocals {
			ensureReferenceData(root)
			if pruneLocals(root) {
				ctx.InvalidateReferences()
				changed = true
			}
		}
		if opts.PruneUnusedGlobals {
			ensureReferenceData(root)
			if pruneGlobals(root) {
				ctx.InvalidateReferences()
				changed = true
			}
		}
		if opts.PruneUnusedFunctions {
			ensureReferenceData(root)
			if pruneFunctions(root) {
				ctx.InvalidateReferences()
				changed = true
			}
		}
		if !changed {
			return
		}
	}
}

func ensureReferenceData(root *ast.Node) {
	if !root.Context().Completed(ast.PassReferences) {
		passes.RecalculateReferenceData(root)
	}
}
