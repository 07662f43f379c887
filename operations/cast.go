package operations

import (
	"strconv"
	"strings"

	"github.com/secondlife/tailslide/ast"
)

// Cast converts a constant to the target type, allocating the result in
// the arena. It returns nil when the conversion has no compile-time
// result. A same-type cast returns the operand unchanged; the simplifier
// splices such casts out entirely.
func (e *Evaluator) Cast(to ast.Type, val *ast.Node, loc ast.Loc) *ast.Node {
	if val == nil || val.Type() != ast.NodeConstant {
		return nil
	}
	if val.IType() == to {
		return val
	}

	var out *ast.Node
	switch val.SubType() {
	case ast.SubIntegerConstant:
		out = e.castInteger(to, val.IntValue())
	case ast.SubFloatConstant:
		out = e.castFloat(to, val.FloatValue())
	case ast.SubStringConstant, ast.SubKeyConstant:
		out = e.castString(to, val.SubType(), val.StringValue())
	case ast.SubVectorConstant:
		if to == ast.TypeString {
			out = e.alloc.NewStringConstant(formatVector(val.VectorValue()))
		}
	case ast.SubQuaternionConstant:
		if to == ast.TypeString {
			out = e.alloc.NewStringConstant(formatQuaternion(val.QuaternionValue()))
		}
	case ast.SubListConstant:
		if to == ast.TypeString {
			// Elements concatenate with no separator.
			var b strings.Builder
			for _, el := range val.Children() {
				b.WriteString(elementString(el))
			}
			out = e.alloc.NewStringConstant(b.String())
		}
	}
	if out == nil && to == ast.TypeList {
		out = e.alloc.NewListConstant(e.alloc.CopyConstant(val))
	}
	if out != nil {
		out.SetLoc(loc)
	}
	return out
}

func (e *Evaluator) castInteger(to ast.Type, v int32) *ast.Node {
	switch to {
	case ast.TypeFloat:
		// Round-to-nearest-even where the value is not exactly
		// representable in single precision.
		return e.alloc.NewFloatConstant(float32(v))
	case ast.TypeString:
		return e.alloc.NewStringConstant(strconv.FormatInt(int64(v), 10))
	}
	return nil
}

func (e *Evaluator) castFloat(to ast.Type, v float32) *ast.Node {
	switch to {
	case ast.TypeInteger:
		return e.alloc.NewIntegerConstant(CastFloatToInt(v))
	case ast.TypeString:
		return e.alloc.NewStringConstant(FormatFloat(v))
	}
	return nil
}

func (e *Evaluator) castString(to ast.Type, from ast.NodeSubType, v string) *ast.Node {
	switch to {
	case ast.TypeInteger:
		return e.alloc.NewIntegerConstant(parseLeadingInt(v))
	case ast.TypeFloat:
		return e.alloc.NewFloatConstant(parseLeadingFloat(v))
	case ast.TypeKey:
		if from == ast.SubStringConstant {
			return e.alloc.NewKeyConstant(v)
		}
	case ast.TypeString:
		if from == ast.SubKeyConstant {
			return e.alloc.NewStringConstant(v)
		}
	case ast.TypeVector:
		if vec, ok := parseCoordinates(v, 3); ok {
			return e.alloc.NewVectorConstant(vec[0], vec[1], vec[2])
		}
		return e.alloc.NewVectorConstant(0, 0, 0)
	case ast.TypeRotation:
		if q, ok := parseCoordinates(v, 4); ok {
			return e.alloc.NewQuaternionConstant(q[0], q[1], q[2], q[3])
		}
		return e.alloc.NewQuaternionConstant(0, 0, 0, 1)
	}
	return nil
}

// elementString renders one list element the way the runtime serializes
// it into a string.
func elementString(c *ast.Node) string {
	switch c.SubType() {
	case ast.SubIntegerConstant:
		return strconv.FormatInt(int64(c.IntValue()), 10)
	case ast.SubFloatConstant:
		return FormatFloat(c.FloatValue())
	case ast.SubStringConstant, ast.SubKeyConstant:
		return c.StringValue()
	case ast.SubVectorConstant:
		return formatVector(c.VectorValue())
	case ast.SubQuaternionConstant:
		return formatQuaternion(c.QuaternionValue())
	}
	return ""
}

// parseCoordinates reads "<a, b, c>" or "<a, b, c, d>" forms.
func parseCoordinates(s string, count int) ([4]float32, bool) {
	var out [4]float32
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "<") {
		return out, false
	}
	s = strings.TrimPrefix(s, "<")
	if idx := strings.IndexByte(s, '>'); idx >= 0 {
		s = s[:idx]
	}
	parts := strings.Split(s, ",")
	if len(parts) < count {
		return out, false
	}
	for i := 0; i < count; i++ {
		f, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 32)
		if err != nil {
			return out, false
		}
		out[i] = float32(f)
	}
	return out, true
}
