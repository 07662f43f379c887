package passes

import (
	"github.com/secondlife/tailslide/ast"
	"github.com/secondlife/tailslide/diag"
	"github.com/secondlife/tailslide/operations"
)

// PropagateValues computes the constant-value cache bottom-up: literals,
// built-in constant references, and every expression whose operands
// already have cached constants. The tree is not mutated; the optimizer's
// simplifier does the replacing.
func PropagateValues(root *ast.Node, log *diag.Logger) {
	vp := &valuePropagator{eval: operations.NewEvaluator(root.Context().Alloc)}
	ast.Walk(vp, root)
	root.Context().MarkCompleted(ast.PassValues)
}

type valuePropagator struct {
	eval *operations.Evaluator
}

func (vp *valuePropagator) Visit(n *ast.Node) bool { return true }

func (vp *valuePropagator) Depart(n *ast.Node) {
	if n.Type() == ast.NodeConstant {
		n.SetConstantValue(n)
		return
	}
	if n.Type() != ast.NodeExpression {
		switch n.SubType() {
		case ast.SubDeclaration, ast.SubGlobalVariable:
			// Pin the folded initializer on never-assigned variables so
			// later references propagate through them.
			sym := n.Child(0).Symbol()
			init := n.Child(1)
			if sym != nil && init != nil && sym.Assignments == 0 {
				sym.Default = init.ConstantValue()
			}
		}
		return
	}

	switch n.SubType() {
	case ast.SubConstantExpression:
		n.SetConstantValue(n.Child(0).ConstantValue())
	case ast.SubParenthesisExpression:
		n.SetConstantValue(n.Child(0).ConstantValue())
	case ast.SubLValueExpression:
		vp.lvalue(n)
	case ast.SubBinaryExpression:
		op := n.Operator()
		if op.IsAssignment() {
			return
		}
		lhs := n.Child(0).ConstantValue()
		rhs := n.Child(1).ConstantValue()
		if lhs != nil && rhs != nil {
			n.SetConstantValue(vp.eval.BinaryOp(op, lhs, rhs, n.Loc()))
		}
	case ast.SubUnaryExpression:
		op := n.Operator()
		if op.IsMutating() {
			return
		}
		if operand := n.Child(0).ConstantValue(); operand != nil {
			n.SetConstantValue(vp.eval.UnaryOp(op, operand, n.Loc()))
		}
	case ast.SubTypecastExpression:
		if operand := n.Child(0).ConstantValue(); operand != nil {
			n.SetConstantValue(vp.eval.Cast(n.DeclType(), operand, n.Loc()))
		}
	case ast.SubVectorExpression:
		if vals, ok := vp.floatComponents(n, 3); ok {
			vec := n.Context().Alloc.NewVectorConstant(vals[0], vals[1], vals[2])
			vec.SetLoc(n.Loc())
			n.SetConstantValue(vec)
		}
	case ast.SubQuaternionExpression:
		if vals, ok := vp.floatComponents(n, 4); ok {
			q := n.Context().Alloc.NewQuaternionConstant(vals[0], vals[1], vals[2], vals[3])
			q.SetLoc(n.Loc())
			n.SetConstantValue(q)
		}
	case ast.SubListExpression:
		vp.listExpr(n)
	}
}

func (vp *valuePropagator) lvalue(n *ast.Node) {
	ident := n.Child(0)
	sym := ident.Symbol()
	if sym == nil || sym.Default == nil {
		return
	}
	// Only values that can never change at runtime propagate: built-in
	// constants, and user variables whose folded initializer is pinned
	// and which are never assigned afterwards.
	if !sym.Builtin && sym.Assignments > 0 {
		return
	}
	if member := n.Child(1); member != nil {
		n.SetConstantValue(vp.eval.Member(sym.Default, member.Name(), n.Loc()))
		return
	}
	n.SetConstantValue(sym.Default)
}

// floatComponents gathers the cached float values of a coordinate
// literal. Type determination already normalized integer components with
// synthetic casts, so anything non-float means "not constant yet".
func (vp *valuePropagator) floatComponents(n *ast.Node, count int) ([4]float32, bool) {
	var out [4]float32
	if n.NumChildren() != count {
		return out, false
	}
	for i := 0; i < count; i++ {
		cv := n.Child(i).ConstantValue()
		if cv == nil || cv.SubType() != ast.SubFloatConstant {
			return out, false
		}
		out[i] = cv.FloatValue()
	}
	return out, true
}

func (vp *valuePropagator) listExpr(n *ast.Node) {
	alloc := n.Context().Alloc
	elements := make([]*ast.Node, 0, n.NumChildren())
	for _, el := range n.Children() {
		cv := el.ConstantValue()
		if cv == nil || cv.SubType() == ast.SubListConstant {
			return
		}
		elements = append(elements, alloc.CopyConstant(cv))
	}
	list := alloc.NewListConstant(elements...)
	list.SetLoc(n.Loc())
	n.SetConstantValue(list)
}
