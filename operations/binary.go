package operations

import (
	"github.com/secondlife/tailslide/ast"
)

// BinaryOp folds op over two constant operands. nil means the combination
// has no compile-time result; callers leave the expression alone.
func (e *Evaluator) BinaryOp(op ast.Operator, lhs, rhs *ast.Node, loc ast.Loc) *ast.Node {
	if lhs == nil || rhs == nil || lhs.Type() != ast.NodeConstant || rhs.Type() != ast.NodeConstant {
		return nil
	}

	var out *ast.Node
	switch {
	case lhs.SubType() == ast.SubIntegerConstant && rhs.SubType() == ast.SubIntegerConstant:
		out = e.integerBinary(op, lhs.IntValue(), rhs.IntValue())
	case isNumeric(lhs) && isNumeric(rhs):
		out = e.floatBinary(op, numericValue(lhs), numericValue(rhs))
	case isStringy(lhs) && isStringy(rhs):
		out = e.stringBinary(op, lhs.StringValue(), rhs.StringValue())
	case lhs.SubType() == ast.SubVectorConstant && rhs.SubType() == ast.SubVectorConstant:
		out = e.vectorBinary(op, lhs.VectorValue(), rhs.VectorValue())
	case lhs.SubType() == ast.SubVectorConstant && isNumeric(rhs):
		out = e.vectorScale(op, lhs.VectorValue(), numericValue(rhs))
	case lhs.SubType() == ast.SubQuaternionConstant && rhs.SubType() == ast.SubQuaternionConstant:
		out = e.quaternionBinary(op, lhs.QuaternionValue(), rhs.QuaternionValue())
	case lhs.SubType() == ast.SubListConstant || rhs.SubType() == ast.SubListConstant:
		out = e.listBinary(op, lhs, rhs)
	}
	if out != nil {
		out.SetLoc(loc)
	}
	return out
}

func isNumeric(c *ast.Node) bool {
	return c.SubType() == ast.SubIntegerConstant || c.SubType() == ast.SubFloatConstant
}

func isStringy(c *ast.Node) bool {
	return c.SubType() == ast.SubStringConstant || c.SubType() == ast.SubKeyConstant
}

func numericValue(c *ast.Node) float32 {
	if c.SubType() == ast.SubIntegerConstant {
		return float32(c.IntValue())
	}
	return c.FloatValue()
}

// integerBinary implements two's-complement 32-bit arithmetic. Go's
// signed arithmetic already wraps and defines MinInt32 / -1 == MinInt32;
// division and modulo by zero return zero, matching the host runtime.
func (e *Evaluator) integerBinary(op ast.Operator, l, r int32) *ast.Node {
	var v int32
	switch op {
	case ast.OpAdd:
		v = l + r
	case ast.OpSub:
		v = l - r
	case ast.OpMul:
		v = l * r
	case ast.OpDiv:
		if r == 0 {
			v = 0
		} else {
			v = l / r
		}
	case ast.OpMod:
		if r == 0 {
			v = 0
		} else {
			v = l % r
		}
	case ast.OpBitAnd:
		v = l & r
	case ast.OpBitOr:
		v = l | r
	case ast.OpBitXor:
		v = l ^ r
	case ast.OpShiftLeft:
		v = l << (uint32(r) & 31)
	case ast.OpShiftRight:
		v = l >> (uint32(r) & 31)
	case ast.OpAnd:
		v = boolInt(l != 0 && r != 0)
	case ast.OpOr:
		v = boolInt(l != 0 || r != 0)
	case ast.OpEq:
		v = boolInt(l == r)
	case ast.OpNeq:
		v = boolInt(l != r)
	case ast.OpLt:
		v = boolInt(l < r)
	case ast.OpLeq:
		v = boolInt(l <= r)
	case ast.OpGt:
		v = boolInt(l > r)
	case ast.OpGeq:
		v = boolInt(l >= r)
	default:
		return nil
	}
	return e.alloc.NewIntegerConstant(v)
}

// floatBinary covers mixed integer/float and float/float arithmetic in
// single precision with round-to-nearest-even; NaN and infinities
// propagate.
func (e *Evaluator) floatBinary(op ast.Operator, l, r float32) *ast.Node {
	switch op {
	case ast.OpAdd:
		return e.alloc.NewFloatConstant(l + r)
	case ast.OpSub:
		return e.alloc.NewFloatConstant(l - r)
	case ast.OpMul:
		return e.alloc.NewFloatConstant(l * r)
	case ast.OpDiv:
		return e.alloc.NewFloatConstant(l / r)
	case ast.OpEq:
		return e.alloc.NewIntegerConstant(boolInt(l == r))
	case ast.OpNeq:
		return e.alloc.NewIntegerConstant(boolInt(l != r))
	case ast.OpLt:
		return e.alloc.NewIntegerConstant(boolInt(l < r))
	case ast.OpLeq:
		return e.alloc.NewIntegerConstant(boolInt(l <= r))
	case ast.OpGt:
		return e.alloc.NewIntegerConstant(boolInt(l > r))
	case ast.OpGeq:
		return e.alloc.NewIntegerConstant(boolInt(l >= r))
	}
	return nil
}

func (e *Evaluator) stringBinary(op ast.Operator, l, r string) *ast.Node {
	switch op {
	case ast.OpAdd:
		return e.alloc.NewStringConstant(l + r)
	case ast.OpEq:
		return e.alloc.NewIntegerConstant(boolInt(l == r))
	case ast.OpNeq:
		return e.alloc.NewIntegerConstant(boolInt(l != r))
	}
	return nil
}

func (e *Evaluator) vectorBinary(op ast.Operator, l, r [3]float32) *ast.Node {
	switch op {
	case ast.OpAdd:
		return e.alloc.NewVectorConstant(l[0]+r[0], l[1]+r[1], l[2]+r[2])
	case ast.OpSub:
		return e.alloc.NewVectorConstant(l[0]-r[0], l[1]-r[1], l[2]-r[2])
	case ast.OpMul:
		// Dot product.
		return e.alloc.NewFloatConstant(l[0]*r[0] + l[1]*r[1] + l[2]*r[2])
	case ast.OpMod:
		// Cross product.
		return e.alloc.NewVectorConstant(
			l[1]*r[2]-l[2]*r[1],
			l[2]*r[0]-l[0]*r[2],
			l[0]*r[1]-l[1]*r[0],
		)
	case ast.OpEq:
		return e.alloc.NewIntegerConstant(boolInt(l == r))
	case ast.OpNeq:
		return e.alloc.NewIntegerConstant(boolInt(l != r))
	}
	return nil
}

func (e *Evaluator) vectorScale(op ast.Operator, v [3]float32, s float32) *ast.Node {
	switch op {
	case ast.OpMul:
		return e.alloc.NewVectorConstant(v[0]*s, v[1]*s, v[2]*s)
	case ast.OpDiv:
		return e.alloc.NewVectorConstant(v[0]/s, v[1]/s, v[2]/s)
	}
	return nil
}

func (e *Evaluator) quaternionBinary(op ast.Operator, l, r [4]float32) *ast.Node {
	switch op {
	case ast.OpAdd:
		return e.alloc.NewQuaternionConstant(l[0]+r[0], l[1]+r[1], l[2]+r[2], l[3]+r[3])
	case ast.OpSub:
		return e.alloc.NewQuaternionConstant(l[0]-r[0], l[1]-r[1], l[2]-r[2], l[3]-r[3])
	case ast.OpMul:
		return e.alloc.NewQuaternionConstant(
			l[3]*r[0]+l[0]*r[3]+l[1]*r[2]-l[2]*r[1],
			l[3]*r[1]+l[1]*r[3]+l[2]*r[0]-l[0]*r[2],
			l[3]*r[2]+l[2]*r[3]+l[0]*r[1]-l[1]*r[0],
			l[3]*r[3]-l[0]*r[0]-l[1]*r[1]-l[2]*r[2],
		)
	case ast.OpEq:
		return e.alloc.NewIntegerConstant(boolInt(l == r))
	case ast.OpNeq:
		return e.alloc.NewIntegerConstant(boolInt(l != r))
	}
	return nil
}

// listBinary folds list concatenation and the length comparisons the
// runtime defines over lists.
func (e *Evaluator) listBinary(op ast.Operator, lhs, rhs *ast.Node) *ast.Node {
	switch op {
	case ast.OpAdd:
		out := e.alloc.NewListConstant()
		appendElements := func(c *ast.Node) {
			if c.SubType() == ast.SubListConstant {
				for _, el := range c.Children() {
					out.PushChild(e.alloc.CopyConstant(el))
				}
			} else {
				out.PushChild(e.alloc.CopyConstant(c))
			}
		}
		appendElements(lhs)
		appendElements(rhs)
		return out
	case ast.OpEq, ast.OpNeq:
		if lhs.SubType() != ast.SubListConstant || rhs.SubType() != ast.SubListConstant {
			return nil
		}
		// The runtime compares list lengths, not contents.
		eq := lhs.NumChildren() == rhs.NumChildren()
		if op == ast.OpNeq {
			return e.alloc.NewIntegerConstant(int32(lhs.NumChildren() - rhs.NumChildren()))
		}
		return e.alloc.NewIntegerConstant(boolInt(eq))
	}
	return nil
}

// UnaryOp folds op over a constant operand, nil when not foldable.
// Increment and decrement forms are never folded; they mutate storage.
func (e *Evaluator) UnaryOp(op ast.Operator, val *ast.Node, loc ast.Loc) *ast.Node {
	if val == nil || val.Type() != ast.NodeConstant {
		return nil
	}
	var out *ast.Node
	switch op {
	case ast.OpNeg:
		switch val.SubType() {
		case ast.SubIntegerConstant:
			out = e.alloc.NewIntegerConstant(-val.IntValue())
		case ast.SubFloatConstant:
			out = e.alloc.NewFloatConstant(-val.FloatValue())
		case ast.SubVectorConstant:
			v := val.VectorValue()
			out = e.alloc.NewVectorConstant(-v[0], -v[1], -v[2])
		case ast.SubQuaternionConstant:
			q := val.QuaternionValue()
			out = e.alloc.NewQuaternionConstant(-q[0], -q[1], -q[2], -q[3])
		}
	case ast.OpNot:
		if val.SubType() == ast.SubIntegerConstant {
			out = e.alloc.NewIntegerConstant(boolInt(val.IntValue() == 0))
		}
	case ast.OpBitNot:
		if val.SubType() == ast.SubIntegerConstant {
			out = e.alloc.NewIntegerConstant(^val.IntValue())
		}
	}
	if out != nil {
		out.SetLoc(loc)
	}
	return out
}

// Member extracts a named component from a vector or rotation constant.
func (e *Evaluator) Member(val *ast.Node, member string, loc ast.Loc) *ast.Node {
	if val == nil {
		return nil
	}
	var f float32
	switch val.SubType() {
	case ast.SubVectorConstant:
		v := val.VectorValue()
		switch member {
		case "x":
			f = v[0]
		case "y":
			f = v[1]
		case "z":
			f = v[2]
		default:
			return nil
		}
	case ast.SubQuaternionConstant:
		q := val.QuaternionValue()
		switch member {
		case "x":
			f = q[0]
		case "y":
			f = q[1]
		case "z":
			f = q[2]
		case "s":
			f = q[3]
		default:
			return nil
		}
	default:
		return nil
	}
	out := e.alloc.NewFloatConstant(f)
	out.SetLoc(loc)
	return out
}
