package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secondlife/tailslide/ast"
	"github.com/secondlife/tailslide/diag"
)

func parse(t *testing.T, src string) (*ast.Node, *diag.Logger, *ast.Allocator) {
	t.Helper()
	alloc := ast.NewAllocator()
	log := diag.NewLogger()
	root := Parse(src, alloc, log)
	return root, log, alloc
}

func TestParseMinimalScript(t *testing.T) {
	root, log, _ := parse(t, "default{state_entry(){}}")
	require.NotNil(t, root)
	assert.Zero(t, log.Errors())

	states := root.Child(1)
	require.Equal(t, 1, states.NumChildren())
	state := states.Child(0)
	assert.Equal(t, "default", state.Child(0).Name())
	require.Equal(t, 2, state.NumChildren())
	assert.Equal(t, "state_entry", state.Child(1).Child(0).Name())
}

func TestParseGlobals(t *testing.T) {
	root, log, _ := parse(t, `
integer count = 3;
string greet(string who) { return "hi " + who; }
default{state_entry(){}}
`)
	require.NotNil(t, root)
	assert.Zero(t, log.Errors())

	globals := root.Child(0)
	require.Equal(t, 2, globals.NumChildren())

	v := globals.Child(0)
	assert.Equal(t, ast.SubGlobalVariable, v.SubType())
	assert.Equal(t, ast.TypeInteger, v.DeclType())
	assert.Equal(t, "count", v.Child(0).Name())
	require.NotNil(t, v.Child(1))

	fn := globals.Child(1)
	assert.Equal(t, ast.SubGlobalFunction, fn.SubType())
	assert.Equal(t, ast.TypeString, fn.DeclType())
	require.Equal(t, 1, fn.Child(1).NumChildren())
	assert.Equal(t, ast.TypeString, fn.Child(1).Child(0).DeclType())
}

func TestParseStatements(t *testing.T) {
	root, log, _ := parse(t, `
f() {
    integer i;
    for (i = 0; i < 10; ++i) ;
    while (i) i--;
    do { i = i - 1; } while (i > 0);
    if (i == 0) i = 1; else i = 2;
    @top;
    jump top;
    return;
}
default{state_entry(){}}
`)
	require.NotNil(t, root)
	assert.Zero(t, log.Errors())

	body := root.Child(0).Child(0).Child(2)
	subs := make([]ast.NodeSubType, 0, body.NumChildren())
	for _, s := range body.Children() {
		subs = append(subs, s.SubType())
	}
	assert.Equal(t, []ast.NodeSubType{
		ast.SubDeclaration,
		ast.SubForStatement,
		ast.SubWhileStatement,
		ast.SubDoStatement,
		ast.SubIfStatement,
		ast.SubLabel,
		ast.SubJumpStatement,
		ast.SubReturnStatement,
	}, subs)
}

func TestParsePrecedence(t *testing.T) {
	root, log, _ := parse(t, "integer x = 1 + 2 * 3;\ndefault{state_entry(){}}")
	require.NotNil(t, root)
	assert.Zero(t, log.Errors())

	init := root.Child(0).Child(0).Child(1)
	require.Equal(t, ast.SubBinaryExpression, init.SubType())
	assert.Equal(t, ast.OpAdd, init.Operator())
	rhs := init.Child(1)
	require.Equal(t, ast.SubBinaryExpression, rhs.SubType())
	assert.Equal(t, ast.OpMul, rhs.Operator())
}

func TestParseVectorAndRotationLiterals(t *testing.T) {
	root, log, _ := parse(t, `
vector v = <1, 2, 3>;
rotation r = <0, 0, 0, 1>;
default{state_entry(){}}
`)
	require.NotNil(t, root)
	assert.Zero(t, log.Errors())

	v := root.Child(0).Child(0).Child(1)
	assert.Equal(t, ast.SubVectorExpression, v.SubType())
	assert.Equal(t, 3, v.NumChildren())

	r := root.Child(0).Child(1).Child(1)
	assert.Equal(t, ast.SubQuaternionExpression, r.SubType())
	assert.Equal(t, 4, r.NumChildren())
}

func TestParseTypecastVersusParens(t *testing.T) {
	root, log, _ := parse(t, `
f() {
    float a = (float)1;
    integer b = (1 + 2);
}
default{state_entry(){}}
`)
	require.NotNil(t, root)
	assert.Zero(t, log.Errors())

	body := root.Child(0).Child(0).Child(2)
	castInit := body.Child(0).Child(1)
	assert.Equal(t, ast.SubTypecastExpression, castInit.SubType())
	assert.Equal(t, ast.TypeFloat, castInit.DeclType())

	parenInit := body.Child(1).Child(1)
	assert.Equal(t, ast.SubParenthesisExpression, parenInit.SubType())
}

func TestParseHexAndStringEscapes(t *testing.T) {
	root, log, _ := parse(t, `
integer mask = 0xFF;
string s = "a\nb\"c";
default{state_entry(){}}
`)
	require.NotNil(t, root)
	assert.Zero(t, log.Errors())

	mask := root.Child(0).Child(0).Child(1).Child(0)
	assert.Equal(t, int32(255), mask.IntValue())

	s := root.Child(0).Child(1).Child(1).Child(0)
	assert.Equal(t, "a\nb\"c", s.StringValue())
}

func TestParseLineAndColumnTracking(t *testing.T) {
	root, log, _ := parse(t, "integer a;\ninteger b;\ndefault{state_entry(){}}")
	require.NotNil(t, root)
	assert.Zero(t, log.Errors())

	b := root.Child(0).Child(1).Child(0)
	assert.Equal(t, 2, b.Loc().FirstLine)
	assert.Equal(t, 9, b.Loc().FirstColumn)
}

func TestSyntaxErrorNilsRoot(t *testing.T) {
	root, log, _ := parse(t, "integer = ;")
	assert.Nil(t, root)
	assert.Positive(t, log.Errors())
	require.NotEmpty(t, log.Messages())
	assert.Equal(t, diag.ErrSyntaxError, log.Messages()[0].Code)
}

func TestAssertionCommentsCollected(t *testing.T) {
	alloc := ast.NewAllocator()
	alloc.Context().CollectAssertions = true
	log := diag.NewLogger()
	root := Parse("integer a;\ninteger a; //@ E10001\ndefault{state_entry(){}}", alloc, log)
	require.NotNil(t, root)

	asserts := alloc.Context().Assertions
	require.Len(t, asserts, 1)
	assert.Equal(t, 2, asserts[0].Line)
	assert.Equal(t, 10001, asserts[0].Code)
}

func TestAssertionCommentsIgnoredByDefault(t *testing.T) {
	_, _, alloc := parse(t, "integer a; //@ E10001\ndefault{state_entry(){}}")
	assert.Empty(t, alloc.Context().Assertions)
}

func TestCommentsSkipped(t *testing.T) {
	root, log, _ := parse(t, `
// leading comment
integer a; /* inline */ integer b;
/* multi
   line */
default{state_entry(){}}
`)
	require.NotNil(t, root)
	assert.Zero(t, log.Errors())
	assert.Equal(t, 2, root.Child(0).NumChildren())
}

func TestEveryNodeInArena(t *testing.T) {
	root, _, alloc := parse(t, "integer x = 1 + 2;\ndefault{state_entry(){ llOwnerSay(\"hi\"); }}")
	require.NotNil(t, root)

	var walk func(n *ast.Node)
	walk = func(n *ast.Node) {
		assert.True(t, alloc.Owns(n))
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(root)
}
