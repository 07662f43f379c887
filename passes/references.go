package passes

import (
	"github.com/secondlife/tailslide/ast"
)

// RecalculateReferenceData rebuilds every symbol's reference and
// assignment counts and the per-function structural-jump flags. Pruners
// invalidate and re-run it between passes.
func RecalculateReferenceData(root *ast.Node) {
	ctx := root.Context()
	for _, obj := range ctx.Alloc.Tracked() {
		if sym, ok := obj.(*ast.Symbol); ok {
			sym.ResetReferenceData()
		}
	}

	rc := &refCounter{}
	ast.Walk(rc, root)

	for _, g := range root.Child(0).Children() {
		if g.SubType() == ast.SubGlobalFunction {
			analyzeJumps(g)
		}
	}
	for _, s := range root.Child(1).Children() {
		for _, h := range s.Children()[1:] {
			analyzeJumps(h)
		}
	}

	ctx.MarkCompleted(ast.PassReferences)
}

type refCounter struct{}

func (rc *refCounter) Visit(n *ast.Node) bool {
	switch n.SubType() {
	case ast.SubIdentifier:
		if sym := n.Symbol(); sym != nil && !n.Declaring() {
			sym.References++
		}
	case ast.SubBinaryExpression:
		if n.Operator().IsAssignment() {
			countAssignment(n.Child(0))
		}
	case ast.SubUnaryExpression:
		if n.Operator().IsMutating() {
			countAssignment(n.Child(0))
		}
	}
	return true
}

func countAssignment(lhs *ast.Node) {
	if lhs == nil || lhs.SubType() != ast.SubLValueExpression {
		return
	}
	if sym := lhs.Child(0).Symbol(); sym != nil {
		sym.Assignments++
	}
}

// analyzeJumps classifies every jump in a callable's body and writes the
// HasJumps / HasUnstructuredJumps flags to its symbol. A jump is
// structural when it stays forward and lands either inside its nearest
// enclosing loop or directly after it in the loop's own block (a break);
// everything else - backward jumps, jumps with no enclosing loop, and
// escapes past more than one level - is unstructured.
func analyzeJumps(fn *ast.Node) {
	sym := fn.Child(0).Symbol()
	if sym == nil {
		return
	}
	body := fn.Child(2)

	index := make(map[*ast.Node]int)
	counter := 0
	var number func(n *ast.Node)
	number = func(n *ast.Node) {
		index[n] = counter
		counter++
		for _, c := range n.Children() {
			number(c)
		}
	}
	number(body)

	labels := make(map[*ast.Symbol]*ast.Node)
	var jumps []*ast.Node
	var collect func(n *ast.Node)
	collect = func(n *ast.Node) {
		switch n.SubType() {
		case ast.SubLabel:
			if ls := n.Child(0).Symbol(); ls != nil {
				labels[ls] = n
			}
		case ast.SubJumpStatement:
			jumps = append(jumps, n)
		}
		for _, c := range n.Children() {
			collect(c)
		}
	}
	collect(body)

	for _, jump := range jumps {
		sym.HasJumps = true
		target := labels[jump.Child(0).Symbol()]
		if target == nil {
			sym.HasUnstructuredJumps = true
			continue
		}
		if !structuralJump(jump, target, index) {
			sym.HasUnstructuredJumps = true
		}
	}
}

func structuralJump(jump, target *ast.Node, index map[*ast.Node]int) bool {
	loop := enclosingLoop(jump)
	if loop == nil {
		return false
	}
	if index[target] < index[jump] {
		return false
	}
	if isAncestor(loop, target) {
		return true
	}
	// A forward jump to a label directly following the loop in the
	// loop's own block is a break.
	return target.Parent() == loop.Parent() && target.Slot() == loop.Slot()+1
}

func enclosingLoop(n *ast.Node) *ast.Node {
	for p := n.Parent(); p != nil; p = p.Parent() {
		switch p.SubType() {
		case ast.SubForStatement, ast.SubWhileStatement, ast.SubDoStatement:
			return p
		case ast.SubGlobalFunction, ast.SubEventHandler:
			return nil
		}
	}
	return nil
}

func isAncestor(ancestor, n *ast.Node) bool {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p == ancestor {
			return true
		}
	}
	return false
}
