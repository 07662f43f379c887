package passes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secondlife/tailslide/ast"
	"github.com/secondlife/tailslide/diag"
	"github.com/secondlife/tailslide/parser"
)

func analyzeStrict(t *testing.T, src string, strict bool) (*ast.Node, *diag.Logger) {
	t.Helper()
	alloc := ast.NewAllocator()
	log := diag.NewLogger()
	root := parser.Parse(src, alloc, log)
	require.NotNil(t, root)

	CollectSymbols(root, log)
	DetermineTypes(root, log)
	RecalculateReferenceData(root)
	PropagateValues(root, log)
	FinalCheck(root, log)
	ValidateGlobals(root, log, strict)
	return root, log
}

func TestLiteralInitializersAlwaysValid(t *testing.T) {
	src := `
integer a = 1;
float b = -2.5;
vector v = <1, 2, 3>;
list l = [1, "two", 3.0];
default{state_entry(){ llOwnerSay((string)a + (string)b + (string)v + (string)llGetListLength(l)); }}
`
	_, log := analyzeStrict(t, src, true)
	assert.Zero(t, log.Errors())
}

func TestBuiltinConstantInitializerValid(t *testing.T) {
	src := "integer a = TRUE;\ndefault{state_entry(){ llOwnerSay((string)a); }}"
	_, log := analyzeStrict(t, src, true)
	assert.Zero(t, log.Errors())
}

func TestGlobalReferenceNeedsRelaxedMode(t *testing.T) {
	src := `
integer a = 1;
integer b = a;
default{state_entry(){ llOwnerSay((string)a + (string)b); }}
`
	_, strictLog := analyzeStrict(t, src, true)
	assert.Contains(t, codes(strictLog), diag.ErrGlobalInitNotConstant)

	_, relaxedLog := analyzeStrict(t, src, false)
	assert.Zero(t, relaxedLog.Errors())
}

func TestForwardGlobalReferenceInvalidEitherWay(t *testing.T) {
	src := `
integer b = a;
integer a = 1;
default{state_entry(){ llOwnerSay((string)a + (string)b); }}
`
	_, log := analyzeStrict(t, src, false)
	assert.Contains(t, codes(log), diag.ErrGlobalInitNotConstant)
}

func TestFoldedExpressionValidWhenRelaxed(t *testing.T) {
	src := "integer a = 1 + 2 * 3;\ndefault{state_entry(){ llOwnerSay((string)a); }}"
	_, log := analyzeStrict(t, src, false)
	assert.Zero(t, log.Errors())

	_, strictLog := analyzeStrict(t, src, true)
	assert.Contains(t, codes(strictLog), diag.ErrGlobalInitNotConstant)
}

func TestCallInitializerInvalid(t *testing.T) {
	src := "float a = llGetTime();\ndefault{state_entry(){ llOwnerSay((string)a); }}"
	_, log := analyzeStrict(t, src, false)
	assert.Contains(t, codes(log), diag.ErrGlobalInitNotConstant)
}

func TestValuePropagation(t *testing.T) {
	root, log := analyzeStrict(t, `
integer x = 1 + 2 * 3;
default{state_entry(){ llOwnerSay((string)x); }}
`, false)
	assert.Zero(t, log.Errors())

	init := root.Child(0).Child(0).Child(1)
	cv := init.ConstantValue()
	require.NotNil(t, cv)
	assert.Equal(t, ast.SubIntegerConstant, cv.SubType())
	assert.Equal(t, int32(7), cv.IntValue())
}

func TestBuiltinConstantPropagates(t *testing.T) {
	root, log := analyzeStrict(t, `
default{state_entry(){
    if (DEG_TO_RAD > 0.0) llOwnerSay("ok");
}}
`, false)
	// The condition folds to a known truth, which the final pass calls
	// out.
	assert.Contains(t, codes(log), diag.WarnConditionAlwaysTrue)
	_ = root
}

func TestVectorLiteralFoldsToConstant(t *testing.T) {
	root, log := analyzeStrict(t, `
vector v = <1, 2.5, 3>;
default{state_entry(){ llSetPos(v); }}
`, false)
	assert.Zero(t, log.Errors())

	init := root.Child(0).Child(0).Child(1)
	cv := init.ConstantValue()
	require.NotNil(t, cv)
	require.Equal(t, ast.SubVectorConstant, cv.SubType())
	assert.Equal(t, [3]float32{1, 2.5, 3}, cv.VectorValue())
}
