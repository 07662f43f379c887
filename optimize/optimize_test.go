package optimize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secondlife/tailslide/ast"
	"github.com/secondlife/tailslide/diag"
	"github.com/secondlife/tailslide/format"
	"github.com/secondlife/tailslide/parser"
	"github.com/secondlife/tailslide/passes"
)

func analyzed(t *testing.T, src string) (*ast.Node, *diag.Logger) {
	t.Helper()
	alloc := ast.NewAllocator()
	log := diag.NewLogger()
	root := parser.Parse(src, alloc, log)
	require.NotNil(t, root, "parse failed: %v", log.Messages())

	passes.CollectSymbols(root, log)
	passes.DetermineTypes(root, log)
	passes.RecalculateReferenceData(root)
	passes.PropagateValues(root, log)
	passes.FinalCheck(root, log)
	passes.ValidateGlobals(root, log, false)
	require.Zero(t, log.Errors(), "unexpected errors: %v", log.Messages())
	return root, log
}

func TestFoldGlobalInitializer(t *testing.T) {
	root, _ := analyzed(t, `
integer x = 1 + 2 * 3;
default{state_entry(){ llOwnerSay((string)x); }}
`)
	Optimize(root, Options{FoldConstants: true})

	init := root.Child(0).Child(0).Child(1)
	require.Equal(t, ast.SubConstantExpression, init.SubType())
	c := init.Child(0)
	require.Equal(t, ast.SubIntegerConstant, c.SubType())
	assert.Equal(t, int32(7), c.IntValue())
}

func TestFoldingIsIdempotent(t *testing.T) {
	src := `
integer x = 1 + 2 * 3;
float y = (float)4 / 8;
default{state_entry(){ llOwnerSay((string)x + (string)y + (string)(3 * 3)); }}
`
	root, _ := analyzed(t, src)
	Optimize(root, Options{FoldConstants: true})
	once := format.PrettyPrint(root, format.PrettyOpts{})

	passes.PropagateValues(root, nil)
	Optimize(root, Options{FoldConstants: true})
	twice := format.PrettyPrint(root, format.PrettyOpts{})

	assert.Equal(t, once, twice)
}

func TestSameTypeCastSplicedOut(t *testing.T) {
	root, _ := analyzed(t, `
f(integer n) { llOwnerSay((string)((integer)n)); }
default{state_entry(){ f(3); }}
`)
	Optimize(root, Options{FoldConstants: true})

	// The (integer) cast around an integer disappears; the (string)
	// cast stays.
	body := root.Child(0).Child(0).Child(2)
	call := body.Child(0).Child(0)
	arg := call.Child(1)
	require.Equal(t, ast.SubTypecastExpression, arg.SubType())
	assert.Equal(t, ast.TypeString, arg.DeclType())
	inner := arg.Child(0)
	assert.Equal(t, ast.SubParenthesisExpression, inner.SubType())
	assert.Equal(t, ast.SubLValueExpression, inner.Child(0).SubType())
}

func TestPruneUnusedGlobal(t *testing.T) {
	root, _ := analyzed(t, `
integer unused = 5;
default{state_entry(){}}
`)
	Optimize(root, Options{PruneUnusedGlobals: true})
	assert.Zero(t, root.Child(0).NumChildren())
}

func TestPruneKeepsUsedGlobal(t *testing.T) {
	root, _ := analyzed(t, `
integer used = 5;
integer unused = 6;
default{state_entry(){ llOwnerSay((string)used); }}
`)
	Optimize(root, Options{PruneUnusedGlobals: true})
	globals := root.Child(0)
	require.Equal(t, 1, globals.NumChildren())
	assert.Equal(t, "used", globals.Child(0).Child(0).Name())
}

func TestPruneUnusedLocal(t *testing.T) {
	root, _ := analyzed(t, `
default{state_entry(){
    integer dead = 5;
    llOwnerSay("hi");
}}
`)
	Optimize(root, Options{PruneUnusedLocals: true})

	body := root.Child(1).Child(0).Child(1).Child(2)
	require.Equal(t, 1, body.NumChildren())
	assert.Equal(t, ast.SubExpressionStatement, body.Child(0).SubType())
}

func TestPruneLocalKeepsSideEffects(t *testing.T) {
	root, _ := analyzed(t, `
default{state_entry(){
    integer handle = llListen(0, "", NULL_KEY, "");
}}
`)
	Optimize(root, Options{PruneUnusedLocals: true})

	body := root.Child(1).Child(0).Child(1).Child(2)
	require.Equal(t, 1, body.NumChildren())
	stmt := body.Child(0)
	require.Equal(t, ast.SubExpressionStatement, stmt.SubType())
	assert.Equal(t, ast.SubFunctionExpression, stmt.Child(0).SubType())
}

func TestPruneSkipsBodiesWithUnstructuredJumps(t *testing.T) {
	root, _ := analyzed(t, `
f() {
    integer dead = 5;
    @top;
    jump top;
}
default{state_entry(){ f(); }}
`)
	Optimize(root, Options{PruneUnusedLocals: true})

	body := root.Child(0).Child(0).Child(2)
	assert.Equal(t, ast.SubDeclaration, body.Child(0).SubType())
}

func TestPruneUnusedFunction(t *testing.T) {
	root, _ := analyzed(t, `
used() { llOwnerSay("used"); }
dead() { llOwnerSay("dead"); }
default{state_entry(){ used(); }}
`)
	Optimize(root, Options{PruneUnusedFunctions: true})

	globals := root.Child(0)
	require.Equal(t, 1, globals.NumChildren())
	assert.Equal(t, "used", globals.Child(0).Child(0).Name())
}

func TestPruneRecursiveIsland(t *testing.T) {
	root, _ := analyzed(t, `
ping() { pong(); }
pong() { ping(); }
default{state_entry(){ llOwnerSay("hi"); }}
`)
	Optimize(root, Options{PruneUnusedFunctions: true})
	assert.Zero(t, root.Child(0).NumChildren())
}

func TestPruneIteratesToFixpoint(t *testing.T) {
	// Removing the dead function must release its hold on the global,
	// which then goes too.
	root, _ := analyzed(t, `
integer counter = 0;
dead() { counter = counter + 1; }
default{state_entry(){ llOwnerSay("hi"); }}
`)
	Optimize(root, Options{PruneUnusedGlobals: true, PruneUnusedFunctions: true})
	assert.Zero(t, root.Child(0).NumChildren())
}

func TestPruneMonotonicity(t *testing.T) {
	// Pruning never creates references: every surviving symbol's count
	// stays at or below its pre-prune value.
	root, _ := analyzed(t, `
integer keep = 1;
integer drop = 2;
default{state_entry(){ llOwnerSay((string)keep); }}
`)
	before := make(map[*ast.Symbol]int)
	for _, obj := range root.Context().Alloc.Tracked() {
		if sym, ok := obj.(*ast.Symbol); ok {
			before[sym] = sym.References
		}
	}
	Optimize(root, Options{PruneUnusedGlobals: true})
	passes.RecalculateReferenceData(root)
	for _, obj := range root.Context().Alloc.Tracked() {
		if sym, ok := obj.(*ast.Symbol); ok && !sym.Builtin {
			assert.LessOrEqual(t, sym.References, before[sym], "symbol %s", sym.Name)
		}
	}
}

func TestOptimizeBeforeAnalysisPanics(t *testing.T) {
	alloc := ast.NewAllocator()
	log := diag.NewLogger()
	root := parser.Parse("default{state_entry(){}}", alloc, log)
	require.NotNil(t, root)
	assert.Panics(t, func() { Optimize(root, Options{FoldConstants: true}) })
}

func TestDetachedNodesStayInArena(t *testing.T) {
	root, _ := analyzed(t, `
integer unused = 5;
default{state_entry(){}}
`)
	alloc := root.Context().Alloc
	dead := root.Child(0).Child(0)
	Optimize(root, Options{PruneUnusedGlobals: true})
	assert.Nil(t, dead.Parent())
	assert.True(t, alloc.Owns(dead))
}
