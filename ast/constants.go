package ast

import "math"

// Constant node constructors. Every constant is a NodeConstant owned by
// the arena; list constants own their element constants as children.

func (a *Allocator) NewIntegerConstant(v int32) *Node {
	n := a.NewNode(NodeConstant, SubIntegerConstant)
	n.ival = v
	n.itype = TypeInteger
	return n
}

func (a *Allocator) NewFloatConstant(v float32) *Node {
	n := a.NewNode(NodeConstant, SubFloatConstant)
	n.fval = v
	n.itype = TypeFloat
	return n
}

func (a *Allocator) NewStringConstant(v string) *Node {
	n := a.NewNode(NodeConstant, SubStringConstant)
	n.sval = v
	n.itype = TypeString
	return n
}

func (a *Allocator) NewKeyConstant(v string) *Node {
	n := a.NewNode(NodeConstant, SubKeyConstant)
	n.sval = v
	n.itype = TypeKey
	return n
}

func (a *Allocator) NewVectorConstant(x, y, z float32) *Node {
	n := a.NewNode(NodeConstant, SubVectorConstant)
	n.vval = [3]float32{x, y, z}
	n.itype = TypeVector
	return n
}

func (a *Allocator) NewQuaternionConstant(x, y, z, s float32) *Node {
	n := a.NewNode(NodeConstant, SubQuaternionConstant)
	n.qval = [4]float32{x, y, z, s}
	n.itype = TypeRotation
	return n
}

// NewListConstant wraps element constants into a list constant. Elements
// must themselves be constant nodes; lists may not nest.
func (a *Allocator) NewListConstant(elements ...*Node) *Node {
	n := a.NewNode(NodeConstant, SubListConstant, elements...)
	n.itype = TypeList
	return n
}

func (n *Node) IntValue() int32               { return n.ival }
func (n *Node) FloatValue() float32           { return n.fval }
func (n *Node) StringValue() string           { return n.sval }
func (n *Node) VectorValue() [3]float32       { return n.vval }
func (n *Node) QuaternionValue() [4]float32   { return n.qval }

// EqualConstants compares two constant nodes structurally: same subtype,
// same payload, element-wise for lists. Floats compare bitwise so that
// distinct NaN payloads and signed zeroes stay distinguishable.
func EqualConstants(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.typ != NodeConstant || b.typ != NodeConstant || a.sub != b.sub {
		return false
	}
	switch a.sub {
	case SubIntegerConstant:
		return a.ival == b.ival
	case SubFloatConstant:
		return math.Float32bits(a.fval) == math.Float32bits(b.fval)
	case SubStringConstant, SubKeyConstant:
		return a.sval == b.sval
	case SubVectorConstant:
		for i := range a.vval {
			if math.Float32bits(a.vval[i]) != math.Float32bits(b.vval[i]) {
				return false
			}
		}
		return true
	case SubQuaternionConstant:
		for i := range a.qval {
			if math.Float32bits(a.qval[i]) != math.Float32bits(b.qval[i]) {
				return false
			}
		}
		return true
	case SubListConstant:
		if len(a.children) != len(b.children) {
			return false
		}
		for i := range a.children {
			if !EqualConstants(a.children[i], b.children[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// CopyConstant clones a constant node (and, for lists, its elements) into
// the arena. The clone carries the original's location.
func (a *Allocator) CopyConstant(c *Node) *Node {
	if c == nil || c.typ != NodeConstant {
		panic("ast: copying a non-constant node")
	}
	var n *Node
	switch c.sub {
	case SubIntegerConstant:
		n = a.NewIntegerConstant(c.ival)
	case SubFloatConstant:
		n = a.NewFloatConstant(c.fval)
	case SubStringConstant:
		n = a.NewStringConstant(c.sval)
	case SubKeyConstant:
		n = a.NewKeyConstant(c.sval)
	case SubVectorConstant:
		n = a.NewVectorConstant(c.vval[0], c.vval[1], c.vval[2])
	case SubQuaternionConstant:
		n = a.NewQuaternionConstant(c.qval[0], c.qval[1], c.qval[2], c.qval[3])
	case SubListConstant:
		n = a.NewNode(NodeConstant, SubListConstant)
		n.itype = TypeList
		for _, el := range c.children {
			n.PushChild(a.CopyConstant(el))
		}
	default:
		panic("ast: unknown constant subtype")
	}
	n.loc = c.loc
	return n
}
