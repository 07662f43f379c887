// Package operations evaluates operators and casts over constant nodes
// with the host runtime's exact numeric behavior: 32-bit two's-complement
// integers with wraparound, IEEE-754 single-precision floats, and the
// truncating float-to-integer conversion of the x86 CVTTSS2SI
// instruction.
package operations

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/secondlife/tailslide/ast"
)

// Evaluator folds operators over constant nodes, allocating results in
// the script's arena.
type Evaluator struct {
	alloc *ast.Allocator
}

func NewEvaluator(alloc *ast.Allocator) *Evaluator {
	return &Evaluator{alloc: alloc}
}

// CastFloatToInt truncates toward zero. NaN, either infinity, and any
// value whose truncation falls outside int32 yield math.MinInt32; exactly
// -2^31 is in range.
func CastFloatToInt(f float32) int32 {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return math.MinInt32
	}
	t := math.Trunc(v)
	if t >= 2147483648 || t < -2147483648 {
		return math.MinInt32
	}
	return int32(t)
}

// truth is the branch behavior of each type when used as a condition.
func truth(c *ast.Node) (bool, bool) {
	switch c.SubType() {
	case ast.SubIntegerConstant:
		return c.IntValue() != 0, true
	case ast.SubFloatConstant:
		return c.FloatValue() != 0, true
	case ast.SubStringConstant, ast.SubKeyConstant:
		return c.StringValue() != "", true
	case ast.SubVectorConstant:
		v := c.VectorValue()
		return v != [3]float32{}, true
	case ast.SubQuaternionConstant:
		q := c.QuaternionValue()
		return q != [4]float32{0, 0, 0, 1}, true
	case ast.SubListConstant:
		return c.NumChildren() != 0, true
	}
	return false, false
}

// Truth reports the constant's branch value; ok is false for constants
// with no defined truth value.
func Truth(c *ast.Node) (val, ok bool) {
	return truth(c)
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// FormatFloat renders a float the way the host serializes it into
// strings: six digits after the decimal point.
func FormatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'f', 6, 32)
}

func formatVector(v [3]float32) string {
	return fmt.Sprintf("<%.5f, %.5f, %.5f>",
		v[0], v[1], v[2])
}

func formatQuaternion(q [4]float32) string {
	return fmt.Sprintf("<%.5f, %.5f, %.5f, %.5f>",
		q[0], q[1], q[2], q[3])
}

// parseLeadingInt mirrors the host's string-to-integer conversion: parse
// the longest leading integer, honoring an 0x prefix, and give zero when
// nothing parses.
func parseLeadingInt(s string) int32 {
	s = strings.TrimLeft(s, " \t")
	neg := false
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	base := 10
	if i+1 < len(s) && s[i] == '0' && (s[i+1] == 'x' || s[i+1] == 'X') {
		base = 16
		i += 2
	}
	start := i
	for i < len(s) {
		c := s[i]
		if base == 10 && (c < '0' || c > '9') {
			break
		}
		if base == 16 && !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			break
		}
		i++
	}
	if start == i {
		return 0
	}
	val, err := strconv.ParseUint(s[start:i], base, 64)
	if err != nil {
		// Overflow saturates through the 64-bit parse; wrap like the
		// runtime's 32-bit conversion does.
		val = math.MaxUint64
	}
	res := int32(uint32(val))
	if neg {
		res = -res
	}
	return res
}

// parseLeadingFloat parses the longest leading float, zero when nothing
// parses.
func parseLeadingFloat(s string) float32 {
	s = strings.TrimLeft(s, " \t")
	end := 0
	for end < len(s) {
		c := s[end]
		if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == '+' || c == 'e' || c == 'E' {
			end++
			continue
		}
		break
	}
	for ; end > 0; end-- {
		if f, err := strconv.ParseFloat(s[:end], 32); err == nil {
			return float32(f)
		}
	}
	return 0
}
