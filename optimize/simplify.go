package optimize

import (
	"github.com/secondlife/tailslide/ast"
)

// simplifier rewrites expressions whose constant value is already cached
// into constant-expression wrappers, and splices out redundant same-type
// casts. It works post-order so replacements never strand the traversal:
// by the time Depart runs, the children have been walked, and the parent
// re-reads its child slot on the next step.
type simplifier struct {
	alloc *ast.Allocator
}

func (s *simplifier) Visit(n *ast.Node) bool { return true }

func (s *simplifier) Depart(n *ast.Node) {
	if n.Type() != ast.NodeExpression || n.Parent() == nil {
		return
	}

	if n.SubType() == ast.SubTypecastExpression {
		child := n.Child(0)
		if child != nil && n.DeclType() == child.IType() {
			ast.RemoveNode(child)
			ast.ReplaceNode(n, child)
			return
		}
	}

	if n.SubType() == ast.SubConstantExpression {
		return
	}
	cv := n.ConstantValue()
	if cv == nil {
		return
	}
	// Assignments and increments still have to run even when their
	// value is known.
	if n.SubType() == ast.SubBinaryExpression && n.Operator().IsAssignment() {
		return
	}
	if n.SubType() == ast.SubUnaryExpression && n.Operator().IsMutating() {
		return
	}
	// Never fold the target of a mutation out from under it.
	if n.SubType() == ast.SubLValueExpression && n.Slot() == 0 {
		p := n.Parent()
		if (p.SubType() == ast.SubBinaryExpression && p.Operator().IsAssignment()) ||
			(p.SubType() == ast.SubUnaryExpression && p.Operator().IsMutating()) {
			return
		}
	}

	replacement := s.alloc.NewConstantExpression(s.alloc.CopyConstant(cv))
	replacement.SetLoc(n.Loc())
	replacement.Child(0).SetLoc(n.Loc())
	ast.ReplaceNode(n, replacement)
}
