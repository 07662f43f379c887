package passes

import (
	"github.com/secondlife/tailslide/ast"
	"github.com/secondlife/tailslide/diag"
	"github.com/secondlife/tailslide/operations"
)

// FinalCheck runs the whole-body checks that need types and constant
// values in place: return-path completeness, return-type agreement,
// state-change legality, handler presence, constant lvalues and the
// condition warnings.
func FinalCheck(root *ast.Node, log *diag.Logger) {
	fc := &finalChecker{log: log}

	for _, g := range root.Child(0).Children() {
		if g.SubType() == ast.SubGlobalFunction {
			fc.checkCallable(g, false)
		}
	}
	for _, s := range root.Child(1).Children() {
		if s.NumChildren() <= 1 {
			log.Report(s.Loc(), diag.ErrStateWithoutHandlers)
		}
		for _, h := range s.Children()[1:] {
			fc.checkCallable(h, true)
		}
	}

	root.Context().MarkCompleted(ast.PassFinal)
}

type finalChecker struct {
	log     *diag.Logger
	inEvent bool
	returns ast.Type
}

func (fc *finalChecker) checkCallable(fn *ast.Node, isEvent bool) {
	fc.inEvent = isEvent
	fc.returns = fn.DeclType()
	body := fn.Child(2)
	ast.Walk(fc, body)
	if !isEvent && fc.returns != ast.TypeVoid && !returnsOnAllPaths(body) {
		fc.log.Report(fn.Loc(), diag.ErrNotAllPathsReturn)
	}
}

func (fc *finalChecker) Visit(n *ast.Node) bool {
	switch n.SubType() {
	case ast.SubReturnStatement:
		fc.checkReturn(n)
	case ast.SubStateStatement:
		if !fc.inEvent {
			fc.log.Report(n.Loc(), diag.ErrFunctionChangesState)
		}
	case ast.SubIfStatement:
		fc.checkCondition(n.Child(0))
		if n.Child(1).SubType() == ast.SubNopStatement {
			fc.log.Report(n.Loc(), diag.WarnEmptyIfBody)
		}
	case ast.SubWhileStatement, ast.SubDoStatement:
		cond := n.Child(0)
		if n.SubType() == ast.SubDoStatement {
			cond = n.Child(1)
		}
		fc.checkCondition(cond)
	case ast.SubBinaryExpression:
		if n.Operator().IsAssignment() {
			fc.checkMutation(n.Child(0))
		}
	case ast.SubUnaryExpression:
		if n.Operator().IsMutating() {
			fc.checkMutation(n.Child(0))
		}
	}
	return true
}

func (fc *finalChecker) checkReturn(n *ast.Node) {
	expr := n.Child(0)
	if fc.inEvent {
		if expr != nil {
			fc.log.Report(n.Loc(), diag.ErrEventReturnsValue)
		}
		return
	}
	if expr == nil {
		return
	}
	if fc.returns == ast.TypeVoid {
		fc.log.Report(n.Loc(), diag.ErrReturnValueFromVoid)
		return
	}
	if expr.IType() != ast.TypeError && !ast.CoercibleTo(expr.IType(), fc.returns) {
		fc.log.Report(n.Loc(), diag.ErrReturnWrongType, expr.IType(), fc.returns)
	}
}

func (fc *finalChecker) checkCondition(cond *ast.Node) {
	if cond == nil {
		return
	}
	if cond.SubType() == ast.SubBinaryExpression && cond.Operator() == ast.OpAssign {
		fc.log.Report(cond.Loc(), diag.WarnAssignmentInCondition)
	}
	if cv := cond.ConstantValue(); cv != nil {
		if val, ok := operations.Truth(cv); ok {
			if val {
				fc.log.Report(cond.Loc(), diag.WarnConditionAlwaysTrue)
			} else {
				fc.log.Report(cond.Loc(), diag.WarnConditionAlwaysFalse)
			}
		}
	}
}

func (fc *finalChecker) checkMutation(lhs *ast.Node) {
	if lhs == nil || lhs.SubType() != ast.SubLValueExpression {
		return
	}
	if sym := lhs.Child(0).Symbol(); sym != nil && sym.Builtin {
		fc.log.Report(lhs.Loc(), diag.ErrConstantAssignment, sym.Name)
	}
}

// returnsOnAllPaths is a conservative reachability check: loops are
// assumed skippable except do-while, jumps don't count as exits.
func returnsOnAllPaths(stmt *ast.Node) bool {
	if stmt == nil {
		return false
	}
	switch stmt.SubType() {
	case ast.SubReturnStatement:
		return true
	case ast.SubCompoundStatement:
		for _, child := range stmt.Children() {
			if returnsOnAllPaths(child) {
				return true
			}
		}
		return false
	case ast.SubIfStatement:
		return stmt.Child(2) != nil &&
			returnsOnAllPaths(stmt.Child(1)) && returnsOnAllPaths(stmt.Child(2))
	case ast.SubDoStatement:
		return returnsOnAllPaths(stmt.Child(0))
	}
	return false
}
