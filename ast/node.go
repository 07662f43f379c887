package ast

// NodeType is the coarse discriminator of an AST node.
type NodeType int

const (
	NodeScript NodeType = iota
	NodeGlobalStorage
	NodeStateStorage
	NodeGlobalVariable
	NodeGlobalFunction
	NodeState
	NodeEventHandler
	NodeFunctionDec
	NodeIdentifier
	NodeStatement
	NodeExpression
	NodeConstant
)

// NodeSubType is the fine discriminator; it selects visitor hooks and the
// per-subtype payload interpretation.
type NodeSubType int

const (
	SubNone NodeSubType = iota

	SubScript
	SubGlobalStorage
	SubStateStorage
	SubGlobalVariable
	SubGlobalFunction
	SubState
	SubEventHandler
	SubFunctionDec
	SubEventDec
	SubIdentifier

	// Statements.
	SubCompoundStatement
	SubExpressionStatement
	SubDeclaration
	SubIfStatement
	SubForStatement
	SubForExpressionList
	SubWhileStatement
	SubDoStatement
	SubJumpStatement
	SubLabel
	SubReturnStatement
	SubStateStatement
	SubNopStatement

	// Expressions.
	SubBinaryExpression
	SubUnaryExpression
	SubTypecastExpression
	SubVectorExpression
	SubQuaternionExpression
	SubListExpression
	SubLValueExpression
	SubFunctionExpression
	SubParenthesisExpression
	SubConstantExpression

	// Constants.
	SubIntegerConstant
	SubFloatConstant
	SubStringConstant
	SubKeyConstant
	SubVectorConstant
	SubQuaternionConstant
	SubListConstant
)

var subTypeNames = map[NodeSubType]string{
	SubScript:                "script",
	SubGlobalStorage:         "global storage",
	SubStateStorage:          "state storage",
	SubGlobalVariable:        "global variable",
	SubGlobalFunction:        "global function",
	SubState:                 "state",
	SubEventHandler:          "event handler",
	SubFunctionDec:           "function parameters",
	SubEventDec:              "event parameters",
	SubIdentifier:            "identifier",
	SubCompoundStatement:     "compound statement",
	SubExpressionStatement:   "expression statement",
	SubDeclaration:           "declaration",
	SubIfStatement:           "if statement",
	SubForStatement:          "for statement",
	SubForExpressionList:     "for expression list",
	SubWhileStatement:        "while statement",
	SubDoStatement:           "do statement",
	SubJumpStatement:         "jump statement",
	SubLabel:                 "label",
	SubReturnStatement:       "return statement",
	SubStateStatement:        "state change",
	SubNopStatement:          "empty statement",
	SubBinaryExpression:      "binary expression",
	SubUnaryExpression:       "unary expression",
	SubTypecastExpression:    "typecast expression",
	SubVectorExpression:      "vector expression",
	SubQuaternionExpression:  "rotation expression",
	SubListExpression:        "list expression",
	SubLValueExpression:      "lvalue expression",
	SubFunctionExpression:    "function call",
	SubParenthesisExpression: "parenthesis expression",
	SubConstantExpression:    "constant expression",
	SubIntegerConstant:       "integer constant",
	SubFloatConstant:         "float constant",
	SubStringConstant:        "string constant",
	SubKeyConstant:           "key constant",
	SubVectorConstant:        "vector constant",
	SubQuaternionConstant:    "rotation constant",
	SubListConstant:          "list constant",
}

func (s NodeSubType) String() string {
	if name, ok := subTypeNames[s]; ok {
		return name
	}
	return "node"
}

// Node is the wide tagged-variant AST record. The (NodeType, NodeSubType)
// pair discriminates the payload; parent/children/slot keep the tree
// doubly linked. A node appears as the child of exactly one parent at any
// time; a detached node has a nil parent and slot -1.
type Node struct {
	ctx      *Context
	typ      NodeType
	sub      NodeSubType
	loc      Loc
	parent   *Node
	children []*Node
	slot     int

	itype    Type  // inferred value type
	declType Type  // declared type (declarations, typecasts, function returns)
	constVal *Node // cached constant value, always a NodeConstant

	sym       *Symbol // bound symbol for identifier occurrences
	declaring bool    // identifier introduces its symbol rather than using it

	name string   // identifier name
	op   Operator // unary/binary operator

	// Constant payloads.
	ival int32
	fval float32
	sval string
	vval [3]float32
	qval [4]float32
}

// NewNode allocates a node in the arena with the given discriminators and
// appends the given children.
func (a *Allocator) NewNode(typ NodeType, sub NodeSubType, children ...*Node) *Node {
	n := &Node{ctx: a.ctx, typ: typ, sub: sub, slot: -1}
	a.track(n)
	for _, child := range children {
		if child != nil {
			n.PushChild(child)
		}
	}
	return n
}

func (n *Node) Context() *Context    { return n.ctx }
func (n *Node) Type() NodeType       { return n.typ }
func (n *Node) SubType() NodeSubType { return n.sub }
func (n *Node) Loc() Loc             { return n.loc }
func (n *Node) SetLoc(loc Loc)       { n.loc = loc }

func (n *Node) Parent() *Node { return n.parent }
func (n *Node) Slot() int     { return n.slot }

// Children returns the live child slice; callers that mutate the tree
// while iterating must re-fetch it.
func (n *Node) Children() []*Node { return n.children }
func (n *Node) NumChildren() int  { return len(n.children) }

// Child returns the i'th child, or nil when out of range. Optional
// children (else branches, initializers) read naturally through this.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

func (n *Node) IType() Type           { return n.itype }
func (n *Node) SetIType(t Type)       { n.itype = t }
func (n *Node) DeclType() Type        { return n.declType }
func (n *Node) SetDeclType(t Type)    { n.declType = t }
func (n *Node) Operator() Operator    { return n.op }
func (n *Node) SetOperator(op Operator) { n.op = op }

func (n *Node) Name() string        { return n.name }
func (n *Node) SetName(name string) { n.name = name }

func (n *Node) Symbol() *Symbol       { return n.sym }
func (n *Node) SetSymbol(sym *Symbol) { n.sym = sym }

// Declaring reports whether this identifier node introduces its symbol
// (declaration site) rather than referencing it.
func (n *Node) Declaring() bool        { return n.declaring }
func (n *Node) SetDeclaring(dec bool)  { n.declaring = dec }

// ConstantValue returns the cached constant produced by value propagation,
// or nil when the node has no compile-time value.
func (n *Node) ConstantValue() *Node { return n.constVal }

// SetConstantValue caches a constant for this node. The constant must be
// a NodeConstant owned by the same arena.
func (n *Node) SetConstantValue(c *Node) {
	if c != nil && c.typ != NodeConstant {
		panic("ast: constant value cache must hold a constant node")
	}
	n.constVal = c
}

// PushChild appends child and takes ownership of its tree position.
func (n *Node) PushChild(child *Node) {
	if child == nil {
		return
	}
	if child.parent != nil {
		panic("ast: node is already attached to a parent")
	}
	child.parent = n
	child.slot = len(n.children)
	n.children = append(n.children, child)
}

// ReplaceNode splices repl into old's slot. old becomes detached (nil
// parent, slot -1) but stays allocated in the arena. Visitors holding
// pointers taken before the replacement must re-fetch children from the
// parent afterwards.
func ReplaceNode(old, repl *Node) {
	if old.parent == nil {
		panic("ast: replacing a node that has no parent")
	}
	if repl.parent != nil {
		panic("ast: replacement node is already attached")
	}
	parent, slot := old.parent, old.slot
	parent.children[slot] = repl
	repl.parent = parent
	repl.slot = slot
	old.parent = nil
	old.slot = -1
}

// RemoveNode detaches n from its parent and closes the gap, renumbering
// the slots of the children that follow. The detached node stays in the
// arena.
func RemoveNode(n *Node) {
	parent := n.parent
	if parent == nil {
		panic("ast: removing a node that has no parent")
	}
	slot := n.slot
	parent.children = append(parent.children[:slot], parent.children[slot+1:]...)
	for i := slot; i < len(parent.children); i++ {
		parent.children[i].slot = i
	}
	n.parent = nil
	n.slot = -1
}
