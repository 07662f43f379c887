package passes

import (
	"github.com/secondlife/tailslide/ast"
	"github.com/secondlife/tailslide/diag"
)

// DetermineTypes runs the bottom-up type determination pass. Nodes that
// fail a rule get the error sentinel type, which downstream rules accept
// silently so one mistake doesn't cascade.
func DetermineTypes(root *ast.Node, log *diag.Logger) {
	tc := &typeChecker{alloc: root.Context().Alloc, log: log}
	ast.Walk(tc, root)
	root.Context().MarkCompleted(ast.PassTypes)
}

type typeChecker struct {
	alloc *ast.Allocator
	log   *diag.Logger
}

func (tc *typeChecker) Visit(n *ast.Node) bool { return true }

func (tc *typeChecker) Depart(n *ast.Node) {
	switch n.SubType() {
	case ast.SubIdentifier:
		if sym := n.Symbol(); sym != nil {
			n.SetIType(sym.Type)
		} else if n.DeclType() != ast.TypeError {
			n.SetIType(n.DeclType())
		}
	case ast.SubConstantExpression:
		n.SetIType(n.Child(0).IType())
	case ast.SubParenthesisExpression:
		n.SetIType(n.Child(0).IType())
	case ast.SubLValueExpression:
		tc.lvalue(n)
	case ast.SubBinaryExpression:
		tc.binary(n)
	case ast.SubUnaryExpression:
		tc.unary(n)
	case ast.SubTypecastExpression:
		tc.typecast(n)
	case ast.SubVectorExpression:
		tc.coordinate(n, ast.TypeVector)
	case ast.SubQuaternionExpression:
		tc.coordinate(n, ast.TypeRotation)
	case ast.SubListExpression:
		tc.list(n)
	case ast.SubFunctionExpression:
		tc.call(n)
	case ast.SubDeclaration, ast.SubGlobalVariable:
		tc.declaration(n)
	}
}

func (tc *typeChecker) lvalue(n *ast.Node) {
	ident := n.Child(0)
	sym := ident.Symbol()
	if sym == nil {
		n.SetIType(ast.TypeError)
		return
	}
	member := n.Child(1)
	if member == nil {
		n.SetIType(sym.Type)
		return
	}
	switch sym.Type {
	case ast.TypeVector:
		switch member.Name() {
		case "x", "y", "z":
			n.SetIType(ast.TypeFloat)
		default:
			tc.log.Report(member.Loc(), diag.ErrInvalidMember, ident.Name(), member.Name())
			n.SetIType(ast.TypeError)
		}
	case ast.TypeRotation:
		switch member.Name() {
		case "x", "y", "z", "s":
			n.SetIType(ast.TypeFloat)
		default:
			tc.log.Report(member.Loc(), diag.ErrInvalidMember, ident.Name(), member.Name())
			n.SetIType(ast.TypeError)
		}
	case ast.TypeError:
		n.SetIType(ast.TypeError)
	default:
		tc.log.Report(member.Loc(), diag.ErrMemberNotCoordinate, ident.Name(), member.Name())
		n.SetIType(ast.TypeError)
	}
	member.SetIType(n.IType())
}

// promote wraps the i'th child in a synthetic float typecast. Used for
// integer operands of mixed arithmetic and integer coordinate
// components.
func (tc *typeChecker) promote(n *ast.Node, i int) {
	child := n.Child(i)
	cast := tc.alloc.NewTypecastExpression(ast.TypeFloat, nil)
	cast.SetLoc(child.Loc())
	cast.SetIType(ast.TypeFloat)
	ast.ReplaceNode(child, cast)
	cast.PushChild(child)
}

func (tc *typeChecker) binary(n *ast.Node) {
	op := n.Operator()
	lhs, rhs := n.Child(0), n.Child(1)
	lt, rt := lhs.IType(), rhs.IType()

	if lt == ast.TypeError || rt == ast.TypeError {
		n.SetIType(ast.TypeError)
		return
	}

	if op.IsAssignment() {
		tc.assignment(n, lhs, rhs, lt, rt)
		return
	}

	result, ok := binaryResult(op, lt, rt)
	if !ok {
		tc.log.Report(n.Loc(), diag.ErrInvalidOperator, lt, op, rt)
		n.SetIType(ast.TypeError)
		return
	}

	// Mixed integer/float arithmetic promotes the narrower operand with
	// a synthetic cast so the folder and the emitters see float on both
	// sides.
	if isArithmetic(op) {
		if lt == ast.TypeInteger && rt == ast.TypeFloat {
			tc.promote(n, 0)
		} else if lt == ast.TypeFloat && rt == ast.TypeInteger {
			tc.promote(n, 1)
		}
	}
	n.SetIType(result)
}

func (tc *typeChecker) assignment(n, lhs, rhs *ast.Node, lt, rt ast.Type) {
	op := n.Operator()
	if member := lhs.Child(1); member != nil {
		// Coordinate member assignment takes float or integer only.
		if rt != ast.TypeFloat && rt != ast.TypeInteger {
			base := lhs.Child(0)
			baseType := ast.TypeVector
			if sym := base.Symbol(); sym != nil {
				baseType = sym.Type
			}
			tc.log.Report(n.Loc(), diag.ErrMemberAssignedWrong, baseType, rt)
			n.SetIType(ast.TypeError)
			return
		}
		n.SetIType(ast.TypeFloat)
		return
	}

	if op == ast.OpAssign {
		if !ast.CoercibleTo(rt, lt) {
			name := lhs.Child(0).Name()
			tc.log.Report(n.Loc(), diag.ErrAssignedWrongType, lt, name, rt)
			n.SetIType(ast.TypeError)
			return
		}
		n.SetIType(lt)
		return
	}

	base := compoundBase(op)
	result, ok := binaryResult(base, lt, rt)
	if !ok || !ast.CoercibleTo(result, lt) {
		// `list += x` appends and stays a list even though the plain
		// operator would type as list on either side.
		if !(lt == ast.TypeList && op == ast.OpAddAssign) {
			tc.log.Report(n.Loc(), diag.ErrInvalidOperator, lt, op, rt)
			n.SetIType(ast.TypeError)
			return
		}
	}
	n.SetIType(lt)
}

func compoundBase(op ast.Operator) ast.Operator {
	switch op {
	case ast.OpAddAssign:
		return ast.OpAdd
	case ast.OpSubAssign:
		return ast.OpSub
	case ast.OpMulAssign:
		return ast.OpMul
	case ast.OpDivAssign:
		return ast.OpDiv
	case ast.OpModAssign:
		return ast.OpMod
	}
	return op
}

func isArithmetic(op ast.Operator) bool {
	switch op {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv:
		return true
	}
	return false
}

func bothNumeric(lt, rt ast.Type) bool {
	return (lt == ast.TypeInteger || lt == ast.TypeFloat) &&
		(rt == ast.TypeInteger || rt == ast.TypeFloat)
}

// binaryResult is the operator type table.
func binaryResult(op ast.Operator, lt, rt ast.Type) (ast.Type, bool) {
	switch op {
	case ast.OpAdd:
		switch {
		case lt == ast.TypeInteger && rt == ast.TypeInteger:
			return ast.TypeInteger, true
		case bothNumeric(lt, rt):
			return ast.TypeFloat, true
		case lt == ast.TypeString && rt == ast.TypeString:
			return ast.TypeString, true
		case lt == ast.TypeList || rt == ast.TypeList:
			if lt == ast.TypeVoid || rt == ast.TypeVoid {
				return ast.TypeError, false
			}
			return ast.TypeList, true
		case lt == ast.TypeVector && rt == ast.TypeVector:
			return ast.TypeVector, true
		case lt == ast.TypeRotation && rt == ast.TypeRotation:
			return ast.TypeRotation, true
		}
	case ast.OpSub:
		switch {
		case lt == ast.TypeInteger && rt == ast.TypeInteger:
			return ast.TypeInteger, true
		case bothNumeric(lt, rt):
			return ast.TypeFloat, true
		case lt == ast.TypeVector && rt == ast.TypeVector:
			return ast.TypeVector, true
		case lt == ast.TypeRotation && rt == ast.TypeRotation:
			return ast.TypeRotation, true
		}
	case ast.OpMul:
		switch {
		case lt == ast.TypeInteger && rt == ast.TypeInteger:
			return ast.TypeInteger, true
		case bothNumeric(lt, rt):
			return ast.TypeFloat, true
		case lt == ast.TypeVector && rt == ast.TypeVector:
			return ast.TypeFloat, true
		case lt == ast.TypeVector && (rt == ast.TypeFloat || rt == ast.TypeInteger):
			return ast.TypeVector, true
		case lt == ast.TypeVector && rt == ast.TypeRotation:
			return ast.TypeVector, true
		case lt == ast.TypeRotation && rt == ast.TypeRotation:
			return ast.TypeRotation, true
		}
	case ast.OpDiv:
		switch {
		case lt == ast.TypeInteger && rt == ast.TypeInteger:
			return ast.TypeInteger, true
		case bothNumeric(lt, rt):
			return ast.TypeFloat, true
		case lt == ast.TypeVector && (rt == ast.TypeFloat || rt == ast.TypeInteger):
			return ast.TypeVector, true
		case lt == ast.TypeVector && rt == ast.TypeRotation:
			return ast.TypeVector, true
		case lt == ast.TypeRotation && rt == ast.TypeRotation:
			return ast.TypeRotation, true
		}
	case ast.OpMod:
		switch {
		case lt == ast.TypeInteger && rt == ast.TypeInteger:
			return ast.TypeInteger, true
		case lt == ast.TypeVector && rt == ast.TypeVector:
			return ast.TypeVector, true
		}
	case ast.OpEq, ast.OpNeq:
		switch {
		case lt == rt && lt != ast.TypeVoid:
			return ast.TypeInteger, true
		case bothNumeric(lt, rt):
			return ast.TypeInteger, true
		case (lt == ast.TypeString && rt == ast.TypeKey) || (lt == ast.TypeKey && rt == ast.TypeString):
			return ast.TypeInteger, true
		}
	case ast.OpLt, ast.OpLeq, ast.OpGt, ast.OpGeq:
		if bothNumeric(lt, rt) {
			return ast.TypeInteger, true
		}
	case ast.OpAnd, ast.OpOr, ast.OpBitAnd, ast.OpBitOr, ast.OpBitXor,
		ast.OpShiftLeft, ast.OpShiftRight:
		if lt == ast.TypeInteger && rt == ast.TypeInteger {
			return ast.TypeInteger, true
		}
	}
	return ast.TypeError, false
}

func (tc *typeChecker) unary(n *ast.Node) {
	op := n.Operator()
	operand := n.Child(0)
	ot := operand.IType()
	if ot == ast.TypeError {
		n.SetIType(ast.TypeError)
		return
	}
	switch op {
	case ast.OpNeg:
		switch ot {
		case ast.TypeInteger, ast.TypeFloat, ast.TypeVector, ast.TypeRotation:
			n.SetIType(ot)
			return
		}
	case ast.OpNot, ast.OpBitNot:
		if ot == ast.TypeInteger {
			n.SetIType(ast.TypeInteger)
			return
		}
	case ast.OpPreIncr, ast.OpPreDecr, ast.OpPostIncr, ast.OpPostDecr:
		if ot == ast.TypeInteger || ot == ast.TypeFloat {
			n.SetIType(ot)
			return
		}
	}
	tc.log.Report(n.Loc(), diag.ErrInvalidOperator, ast.TypeVoid, op, ot)
	n.SetIType(ast.TypeError)
}

func (tc *typeChecker) typecast(n *ast.Node) {
	from := n.Child(0).IType()
	to := n.DeclType()
	if !ast.CastableTo(from, to) {
		tc.log.Report(n.Loc(), diag.ErrInvalidCast, from, to)
		n.SetIType(ast.TypeError)
		return
	}
	n.SetIType(to)
}

func (tc *typeChecker) coordinate(n *ast.Node, typ ast.Type) {
	for i := 0; i < n.NumChildren(); i++ {
		child := n.Child(i)
		switch child.IType() {
		case ast.TypeFloat, ast.TypeError:
		case ast.TypeInteger:
			tc.promote(n, i)
		default:
			tc.log.Report(child.Loc(), diag.ErrMemberAssignedWrong, typ, child.IType())
		}
	}
	n.SetIType(typ)
}

func (tc *typeChecker) list(n *ast.Node) {
	for _, el := range n.Children() {
		switch el.IType() {
		case ast.TypeList:
			tc.log.Report(el.Loc(), diag.ErrNestedList)
		case ast.TypeVoid:
			tc.log.Report(el.Loc(), diag.ErrNullListElement)
		}
	}
	n.SetIType(ast.TypeList)
}

func (tc *typeChecker) call(n *ast.Node) {
	ident := n.Child(0)
	sym := ident.Symbol()
	if sym == nil {
		n.SetIType(ast.TypeError)
		return
	}
	args := n.Children()[1:]
	if len(args) > len(sym.Params) {
		tc.log.Report(n.Loc(), diag.ErrTooManyArguments, sym.Name)
		n.SetIType(ast.TypeError)
		return
	}
	if len(args) < len(sym.Params) {
		tc.log.Report(n.Loc(), diag.ErrTooFewArguments, sym.Name)
		n.SetIType(ast.TypeError)
		return
	}
	for i, arg := range args {
		want := sym.Params[i]
		if !ast.CoercibleTo(arg.IType(), want.Type) {
			tc.log.Report(arg.Loc(), diag.ErrArgumentTypeMismatch,
				arg.IType(), i+1, sym.Name, want.Type, want.Name)
		}
	}
	n.SetIType(sym.Type)
}

func (tc *typeChecker) declaration(n *ast.Node) {
	init := n.Child(1)
	if init == nil {
		return
	}
	it := init.IType()
	if it == ast.TypeError {
		return
	}
	if !ast.CoercibleTo(it, n.DeclType()) {
		tc.log.Report(n.Loc(), diag.ErrAssignedWrongType,
			n.DeclType(), n.Child(0).Name(), it)
	}
}
