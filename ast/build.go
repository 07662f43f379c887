package ast

// Constructors for the structured node shapes. Child layout is part of
// each shape's contract and is what the passes and formatters index into.

// NewScript builds the root node: child 0 is the global storage, child 1
// the state storage.
func (a *Allocator) NewScript(globals, states *Node) *Node {
	return a.NewNode(NodeScript, SubScript, globals, states)
}

func (a *Allocator) NewGlobalStorage() *Node {
	return a.NewNode(NodeGlobalStorage, SubGlobalStorage)
}

func (a *Allocator) NewStateStorage() *Node {
	return a.NewNode(NodeStateStorage, SubStateStorage)
}

// NewIdentifier builds an identifier occurrence.
func (a *Allocator) NewIdentifier(name string, loc Loc) *Node {
	n := a.NewNode(NodeIdentifier, SubIdentifier)
	n.name = name
	n.loc = loc
	return n
}

// NewGlobalVariable declares a script global: child 0 is the identifier,
// child 1 the optional initializer expression.
func (a *Allocator) NewGlobalVariable(typ Type, ident, initializer *Node) *Node {
	n := a.NewNode(NodeGlobalVariable, SubGlobalVariable, ident, initializer)
	n.declType = typ
	ident.declaring = true
	return n
}

// NewGlobalFunction declares a user function: child 0 identifier, child 1
// parameter list, child 2 body.
func (a *Allocator) NewGlobalFunction(returns Type, ident, params, body *Node) *Node {
	n := a.NewNode(NodeGlobalFunction, SubGlobalFunction, ident, params, body)
	n.declType = returns
	ident.declaring = true
	return n
}

// NewFunctionDec builds a parameter list; children are declaring
// identifiers each carrying its declared type.
func (a *Allocator) NewFunctionDec(sub NodeSubType, params ...*Node) *Node {
	n := a.NewNode(NodeFunctionDec, sub, params...)
	for _, p := range params {
		p.declaring = true
	}
	return n
}

// NewParamIdentifier builds one typed parameter identifier.
func (a *Allocator) NewParamIdentifier(typ Type, name string, loc Loc) *Node {
	n := a.NewIdentifier(name, loc)
	n.declType = typ
	return n
}

// NewState builds a state block: child 0 identifier, remaining children
// event handlers.
func (a *Allocator) NewState(ident *Node, handlers ...*Node) *Node {
	children := append([]*Node{ident}, handlers...)
	n := a.NewNode(NodeState, SubState, children...)
	ident.declaring = true
	return n
}

// NewEventHandler builds one handler: child 0 identifier, child 1
// parameter list, child 2 body.
func (a *Allocator) NewEventHandler(ident, params, body *Node) *Node {
	n := a.NewNode(NodeEventHandler, SubEventHandler, ident, params, body)
	ident.declaring = true
	return n
}

// Statement constructors.

func (a *Allocator) NewCompoundStatement(stmts ...*Node) *Node {
	return a.NewNode(NodeStatement, SubCompoundStatement, stmts...)
}

func (a *Allocator) NewExpressionStatement(expr *Node) *Node {
	return a.NewNode(NodeStatement, SubExpressionStatement, expr)
}

// NewDeclaration declares a local: child 0 identifier, child 1 optional
// initializer.
func (a *Allocator) NewDeclaration(typ Type, ident, initializer *Node) *Node {
	n := a.NewNode(NodeStatement, SubDeclaration, ident, initializer)
	n.declType = typ
	ident.declaring = true
	return n
}

// NewIfStatement: child 0 condition, child 1 then-branch, child 2
// optional else-branch.
func (a *Allocator) NewIfStatement(cond, then, els *Node) *Node {
	return a.NewNode(NodeStatement, SubIfStatement, cond, then, els)
}

// NewForStatement: child 0 init list, child 1 optional condition, child 2
// update list, child 3 body.
func (a *Allocator) NewForStatement(init, cond, update, body *Node) *Node {
	return a.NewNode(NodeStatement, SubForStatement, init, cond, update, body)
}

func (a *Allocator) NewForExpressionList(exprs ...*Node) *Node {
	return a.NewNode(NodeStatement, SubForExpressionList, exprs...)
}

func (a *Allocator) NewWhileStatement(cond, body *Node) *Node {
	return a.NewNode(NodeStatement, SubWhileStatement, cond, body)
}

func (a *Allocator) NewDoStatement(body, cond *Node) *Node {
	return a.NewNode(NodeStatement, SubDoStatement, body, cond)
}

func (a *Allocator) NewJumpStatement(target *Node) *Node {
	return a.NewNode(NodeStatement, SubJumpStatement, target)
}

func (a *Allocator) NewLabel(ident *Node) *Node {
	n := a.NewNode(NodeStatement, SubLabel, ident)
	ident.declaring = true
	return n
}

func (a *Allocator) NewReturnStatement(expr *Node) *Node {
	return a.NewNode(NodeStatement, SubReturnStatement, expr)
}

func (a *Allocator) NewStateStatement(target *Node) *Node {
	return a.NewNode(NodeStatement, SubStateStatement, target)
}

func (a *Allocator) NewNopStatement() *Node {
	return a.NewNode(NodeStatement, SubNopStatement)
}

// Expression constructors.

func (a *Allocator) NewBinaryExpression(op Operator, lhs, rhs *Node) *Node {
	n := a.NewNode(NodeExpression, SubBinaryExpression, lhs, rhs)
	n.op = op
	return n
}

func (a *Allocator) NewUnaryExpression(op Operator, operand *Node) *Node {
	n := a.NewNode(NodeExpression, SubUnaryExpression, operand)
	n.op = op
	return n
}

func (a *Allocator) NewTypecastExpression(to Type, expr *Node) *Node {
	n := a.NewNode(NodeExpression, SubTypecastExpression, expr)
	n.declType = to
	return n
}

func (a *Allocator) NewVectorExpression(x, y, z *Node) *Node {
	return a.NewNode(NodeExpression, SubVectorExpression, x, y, z)
}

func (a *Allocator) NewQuaternionExpression(x, y, z, s *Node) *Node {
	return a.NewNode(NodeExpression, SubQuaternionExpression, x, y, z, s)
}

func (a *Allocator) NewListExpression(elements ...*Node) *Node {
	return a.NewNode(NodeExpression, SubListExpression, elements...)
}

// NewLValueExpression: child 0 identifier, child 1 optional member
// identifier (vector/rotation component access).
func (a *Allocator) NewLValueExpression(ident, member *Node) *Node {
	return a.NewNode(NodeExpression, SubLValueExpression, ident, member)
}

// NewFunctionExpression: child 0 identifier, remaining children the
// arguments.
func (a *Allocator) NewFunctionExpression(ident *Node, args ...*Node) *Node {
	children := append([]*Node{ident}, args...)
	return a.NewNode(NodeExpression, SubFunctionExpression, children...)
}

func (a *Allocator) NewParenthesisExpression(expr *Node) *Node {
	return a.NewNode(NodeExpression, SubParenthesisExpression, expr)
}

// NewConstantExpression wraps a constant node as an expression; folding
// replaces folded expressions with this shape.
func (a *Allocator) NewConstantExpression(c *Node) *Node {
	n := a.NewNode(NodeExpression, SubConstantExpression, c)
	n.itype = c.IType()
	n.constVal = c
	return n
}
