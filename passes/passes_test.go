package passes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secondlife/tailslide/ast"
	"github.com/secondlife/tailslide/diag"
	"github.com/secondlife/tailslide/parser"
)

// analyze parses src and runs the full fixed-order pipeline.
func analyze(t *testing.T, src string) (*ast.Node, *diag.Logger) {
	t.Helper()
	alloc := ast.NewAllocator()
	log := diag.NewLogger()
	root := parser.Parse(src, alloc, log)
	require.NotNil(t, root, "script failed to parse: %v", log.Messages())

	CollectSymbols(root, log)
	DetermineTypes(root, log)
	RecalculateReferenceData(root)
	PropagateValues(root, log)
	FinalCheck(root, log)
	ValidateGlobals(root, log, false)
	CheckSymbols(root, log)
	return root, log
}

func codes(log *diag.Logger) []diag.Code {
	var out []diag.Code
	for _, m := range log.Messages() {
		out = append(out, m.Code)
	}
	return out
}

func TestMinimalScriptClean(t *testing.T) {
	_, log := analyze(t, "default{state_entry(){}}")
	assert.Empty(t, log.Messages())
}

func TestDuplicateDeclaration(t *testing.T) {
	src := "\n\ninteger a;\n\ninteger a;\ndefault{state_entry(){}}"
	root, log := analyze(t, src)
	require.NotNil(t, root)

	require.Equal(t, 1, log.Errors())
	var dup *diag.Message
	for _, m := range log.Messages() {
		if m.Code == diag.ErrDuplicateDeclaration {
			dup = m
		}
	}
	require.NotNil(t, dup)
	assert.Equal(t,
		"ERROR:: (  5,  9): [E10001] Duplicate declaration of `a'; previously declared at (3, 9).",
		dup.String())
}

func TestShadowingWarning(t *testing.T) {
	_, log := analyze(t, `
integer x;
f() {
    integer x = 1;
    llOwnerSay((string)x);
}
default{state_entry(){ f(); x = 2; }}
`)
	assert.Zero(t, log.Errors())
	assert.Contains(t, codes(log), diag.WarnShadowDeclaration)
}

func TestUndeclaredIdentifier(t *testing.T) {
	_, log := analyze(t, "default{state_entry(){ llOwnerSay(missing); }}")
	assert.Contains(t, codes(log), diag.ErrUndeclared)
}

func TestUsingFunctionAsVariable(t *testing.T) {
	_, log := analyze(t, `
f() {}
default{state_entry(){ llOwnerSay(f); f(); }}
`)
	assert.Contains(t, codes(log), diag.ErrWrongKindOfSymbol)
}

func TestForwardFunctionReference(t *testing.T) {
	_, log := analyze(t, `
caller() { callee(); }
callee() { }
default{state_entry(){ caller(); }}
`)
	assert.Zero(t, log.Errors())
}

func TestTypePromotionInsertsCast(t *testing.T) {
	root, log := analyze(t, `
float f = 1 + 2.5;
default{state_entry(){ llOwnerSay((string)f); }}
`)
	assert.Zero(t, log.Errors())

	sum := root.Child(0).Child(0).Child(1)
	require.Equal(t, ast.SubBinaryExpression, sum.SubType())
	assert.Equal(t, ast.TypeFloat, sum.IType())

	lhs := sum.Child(0)
	require.Equal(t, ast.SubTypecastExpression, lhs.SubType())
	assert.Equal(t, ast.TypeFloat, lhs.DeclType())
	assert.Equal(t, ast.SubConstantExpression, lhs.Child(0).SubType())
}

func TestInvalidOperatorReported(t *testing.T) {
	_, log := analyze(t, `default{state_entry(){ string s = "a" - "b"; llOwnerSay(s); }}`)
	assert.Contains(t, codes(log), diag.ErrInvalidOperator)
}

func TestErrorTypeDoesNotCascade(t *testing.T) {
	// One bad operand should produce exactly one operator diagnostic
	// even though the bad result feeds further expressions.
	_, log := analyze(t, `default{state_entry(){ string s = ("a" - "b") + "c" + "d"; llOwnerSay(s); }}`)
	count := 0
	for _, c := range codes(log) {
		if c == diag.ErrInvalidOperator {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestMemberAccess(t *testing.T) {
	_, log := analyze(t, `
default{state_entry(){
    vector v = <1, 2, 3>;
    float f = v.x;
    llOwnerSay((string)f);
}}
`)
	assert.Zero(t, log.Errors())
}

func TestInvalidMember(t *testing.T) {
	_, log := analyze(t, `
default{state_entry(){
    vector v = <1, 2, 3>;
    float f = v.s;
    llOwnerSay((string)f);
}}
`)
	assert.Contains(t, codes(log), diag.ErrInvalidMember)
}

func TestMemberOfNonCoordinate(t *testing.T) {
	_, log := analyze(t, `
default{state_entry(){
    integer i = 1;
    float f = i.x;
    llOwnerSay((string)f);
}}
`)
	assert.Contains(t, codes(log), diag.ErrMemberNotCoordinate)
}

func TestCallArgumentChecking(t *testing.T) {
	_, log := analyze(t, `default{state_entry(){ llOwnerSay(42); }}`)
	assert.Contains(t, codes(log), diag.ErrArgumentTypeMismatch)

	_, log = analyze(t, `default{state_entry(){ llOwnerSay("a", "b"); }}`)
	assert.Contains(t, codes(log), diag.ErrTooManyArguments)

	_, log = analyze(t, `default{state_entry(){ llOwnerSay(); }}`)
	assert.Contains(t, codes(log), diag.ErrTooFewArguments)
}

func TestImplicitConversionsInCalls(t *testing.T) {
	// integer->float and string->key conversions are free.
	_, log := analyze(t, `default{state_entry(){ llSleep(1); llKey2Name("k"); }}`)
	assert.Zero(t, log.Errors())
}

func TestNestedListRejected(t *testing.T) {
	_, log := analyze(t, `default{state_entry(){ list l = [1, [2]]; llOwnerSay((string)llGetListLength(l)); }}`)
	assert.Contains(t, codes(log), diag.ErrNestedList)
}

func TestEventHandlerChecks(t *testing.T) {
	_, log := analyze(t, "default{ bogus_event(){} }")
	assert.Contains(t, codes(log), diag.ErrUnknownEvent)

	_, log = analyze(t, "default{ touch_start(string n){} }")
	assert.Contains(t, codes(log), diag.ErrEventParameterMismatch)

	_, log = analyze(t, "default{ timer(integer x){} }")
	assert.Contains(t, codes(log), diag.ErrTooManyEventParameters)
}

func TestEventCannotReturnValue(t *testing.T) {
	_, log := analyze(t, "default{state_entry(){ return 1; }}")
	assert.Contains(t, codes(log), diag.ErrEventReturnsValue)
}

func TestFunctionCannotChangeState(t *testing.T) {
	_, log := analyze(t, `
f() { state other; }
default{state_entry(){ f(); }}
state other{state_entry(){}}
`)
	assert.Contains(t, codes(log), diag.ErrFunctionChangesState)
}

func TestStateChangeInEventAllowed(t *testing.T) {
	_, log := analyze(t, `
default{state_entry(){ state other; }}
state other{state_entry(){ state default; }}
`)
	assert.Zero(t, log.Errors())
}

func TestReturnPathCompleteness(t *testing.T) {
	_, log := analyze(t, `
integer f(integer c) { if (c) return 1; }
default{state_entry(){ llOwnerSay((string)f(0)); }}
`)
	assert.Contains(t, codes(log), diag.ErrNotAllPathsReturn)

	_, log = analyze(t, `
integer g(integer c) { if (c) return 1; else return 0; }
default{state_entry(){ llOwnerSay((string)g(0)); }}
`)
	assert.Zero(t, log.Errors())
}

func TestReturnTypeMismatch(t *testing.T) {
	_, log := analyze(t, `
integer f() { return "nope"; }
default{state_entry(){ llOwnerSay((string)f()); }}
`)
	assert.Contains(t, codes(log), diag.ErrReturnWrongType)
}

func TestStateNeedsHandler(t *testing.T) {
	_, log := analyze(t, "default{state_entry(){}}\nstate empty{}")
	assert.Contains(t, codes(log), diag.ErrStateWithoutHandlers)
}

func TestConstantAssignmentRejected(t *testing.T) {
	_, log := analyze(t, "default{state_entry(){ TRUE = 0; }}")
	assert.Contains(t, codes(log), diag.ErrConstantAssignment)
}

func TestConstantRedeclarationRejected(t *testing.T) {
	_, log := analyze(t, "integer TRUE;\ndefault{state_entry(){}}")
	assert.Contains(t, codes(log), diag.ErrConstantRedeclared)
}

func TestUnusedVariableWarnings(t *testing.T) {
	_, log := analyze(t, `
integer unused;
default{state_entry(){ integer local; }}
`)
	count := 0
	for _, c := range codes(log) {
		if c == diag.WarnUnusedVariable {
			count++
		}
	}
	assert.Equal(t, 2, count)
	assert.Zero(t, log.Errors())
}

func TestConditionWarnings(t *testing.T) {
	_, log := analyze(t, `default{state_entry(){ if (TRUE) llOwnerSay("y"); }}`)
	assert.Contains(t, codes(log), diag.WarnConditionAlwaysTrue)

	_, log = analyze(t, `default{state_entry(){ while (0) llOwnerSay("n"); }}`)
	assert.Contains(t, codes(log), diag.WarnConditionAlwaysFalse)
}

func TestLabelVisibleAcrossSiblingBlocks(t *testing.T) {
	// Labels are scoped to the enclosing function, not the enclosing
	// block: a jump in one branch reaches a label in a sibling branch.
	_, log := analyze(t, `
f(integer c) {
    if (c) { jump skip; }
    if (!c) { @skip; }
    llOwnerSay("done");
}
default{state_entry(){ f(1); }}
`)
	assert.Zero(t, log.Errors())
}

func TestForwardJumpIntoLaterBlock(t *testing.T) {
	_, log := analyze(t, `
f(integer c) {
    while (c) { jump out; }
    { @out; llOwnerSay("out"); }
}
default{state_entry(){ f(1); }}
`)
	assert.Zero(t, log.Errors())
}

func TestDuplicateLabelWarnsOnce(t *testing.T) {
	_, log := analyze(t, `
f(integer c) {
    if (c) { @done; }
    if (!c) { @done; }
    jump done;
}
default{state_entry(){ f(1); }}
`)
	assert.Zero(t, log.Errors())
	count := 0
	for _, c := range codes(log) {
		if c == diag.WarnDuplicateLabel {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestLabelsScopedPerFunction(t *testing.T) {
	// The same label name in two functions is not a duplicate.
	_, log := analyze(t, `
f() { @top; jump top; }
g() { @top; jump top; }
default{state_entry(){ f(); g(); }}
`)
	assert.Zero(t, log.Errors())
	assert.NotContains(t, codes(log), diag.WarnDuplicateLabel)
}

func TestLabelMayShareNameWithVariable(t *testing.T) {
	// Labels live in their own namespace; no duplicate or shadow
	// diagnostics against the variable, and both resolve.
	_, log := analyze(t, `
f(integer c) {
    integer foo = 2;
    if (c) jump foo;
    llOwnerSay((string)foo);
    @foo;
}
default{state_entry(){ f(1); }}
`)
	assert.Zero(t, log.Errors())
	assert.NotContains(t, codes(log), diag.WarnShadowDeclaration)
}

func TestAssignmentInCondition(t *testing.T) {
	_, log := analyze(t, `
default{state_entry(){
    integer i;
    if (i = 1) llOwnerSay("y");
}}
`)
	assert.Contains(t, codes(log), diag.WarnAssignmentInCondition)
}
