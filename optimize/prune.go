package optimize

import (
	"github.com/secondlife/tailslide/ast"
)

// pruneLocals removes declarations of never-referenced locals. A
// declaration whose initializer has side effects keeps the initializer
// as an expression statement. Bodies with unstructured jumps are left
// alone; the declaration might be skipped or repeated in ways the
// reference counts don't see.
func pruneLocals(root *ast.Node) bool {
	changed := false
	eachCallable(root, func(fn *ast.Node) {
		sym := fn.Child(0).Symbol()
		if sym == nil || sym.HasUnstructuredJumps {
			return
		}
		for _, decl := range collectUnusedDeclarations(fn.Child(2)) {
			removeDeclaration(root.Context().Alloc, decl)
			changed = true
		}
	})
	return changed
}

func collectUnusedDeclarations(body *ast.Node) []*ast.Node {
	var out []*ast.Node
	var walk func(n *ast.Node)
	walk = func(n *ast.Node) {
		if n.SubType() == ast.SubDeclaration {
			if sym := n.Child(0).Symbol(); sym != nil && sym.References == 0 {
				out = append(out, n)
			}
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(body)
	return out
}

func removeDeclaration(alloc *ast.Allocator, decl *ast.Node) {
	init := decl.Child(1)
	if init != nil && hasSideEffects(init) {
		ast.RemoveNode(init)
		stmt := alloc.NewExpressionStatement(init)
		stmt.SetLoc(decl.Loc())
		ast.ReplaceNode(decl, stmt)
		return
	}
	// A declaration may be the sole body of an if/while arm rather than
	// a block member; swap in an empty statement there instead of
	// leaving a hole.
	if decl.Parent().SubType() == ast.SubCompoundStatement {
		ast.RemoveNode(decl)
		return
	}
	nop := alloc.NewNopStatement()
	nop.SetLoc(decl.Loc())
	ast.ReplaceNode(decl, nop)
}

// pruneGlobals drops never-referenced global variables. Global
// initializers are constant expressions, so there is nothing to keep.
func pruneGlobals(root *ast.Node) bool {
	storage := root.Child(0)
	changed := false
	for i := 0; i < storage.NumChildren(); {
		g := storage.Child(i)
		if g.SubType() == ast.SubGlobalVariable {
			if sym := g.Child(0).Symbol(); sym != nil && sym.References == 0 {
				if init := g.Child(1); init == nil || !hasSideEffects(init) {
					ast.RemoveNode(g)
					changed = true
					continue
				}
			}
		}
		i++
	}
	return changed
}

// pruneFunctions removes user functions unreachable from any event
// handler. Reachability over the call graph removes mutually recursive
// islands as one set.
func pruneFunctions(root *ast.Node) bool {
	storage := root.Child(0)

	callees := make(map[*ast.Symbol][]*ast.Symbol)
	for _, g := range storage.Children() {
		if g.SubType() == ast.SubGlobalFunction {
			if sym := g.Child(0).Symbol(); sym != nil {
				callees[sym] = calledFunctions(g.Child(2))
			}
		}
	}

	reachable := make(map[*ast.Symbol]bool)
	var mark func(syms []*ast.Symbol)
	mark = func(syms []*ast.Symbol) {
		for _, sym := range syms {
			if sym == nil || sym.Builtin || reachable[sym] {
				continue
			}
			reachable[sym] = true
			mark(callees[sym])
		}
	}
	for _, s := range root.Child(1).Children() {
		for _, h := range s.Children()[1:] {
			mark(calledFunctions(h.Child(2)))
		}
	}

	changed := false
	for i := 0; i < storage.NumChildren(); {
		g := storage.Child(i)
		if g.SubType() == ast.SubGlobalFunction {
			if sym := g.Child(0).Symbol(); sym != nil && !reachable[sym] {
				ast.RemoveNode(g)
				changed = true
				continue
			}
		}
		i++
	}
	return changed
}

func calledFunctions(body *ast.Node) []*ast.Symbol {
	var out []*ast.Symbol
	var walk func(n *ast.Node)
	walk = func(n *ast.Node) {
		if n.SubType() == ast.SubFunctionExpression {
			if sym := n.Child(0).Symbol(); sym != nil && !sym.Builtin {
				out = append(out, sym)
			}
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(body)
	return out
}

func hasSideEffects(expr *ast.Node) bool {
	found := false
	var walk func(n *ast.Node)
	walk = func(n *ast.Node) {
		switch n.SubType() {
		case ast.SubFunctionExpression:
			found = true
		case ast.SubBinaryExpression:
			if n.Operator().IsAssignment() {
				found = true
			}
		case ast.SubUnaryExpression:
			if n.Operator().IsMutating() {
				found = true
			}
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(expr)
	return found
}

func eachCallable(root *ast.Node, fn func(*ast.Node)) {
	for _, g := range root.Child(0).Children() {
		if g.SubType() == ast.SubGlobalFunction {
			fn(g)
		}
	}
	for _, s := range root.Child(1).Children() {
		for _, h := range s.Children()[1:] {
			fn(h)
		}
	}
}
