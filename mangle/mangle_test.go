package mangle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secondlife/tailslide/ast"
	"github.com/secondlife/tailslide/diag"
	"github.com/secondlife/tailslide/parser"
	"github.com/secondlife/tailslide/passes"
)

func analyzed(t *testing.T, src string) *ast.Node {
	t.Helper()
	alloc := ast.NewAllocator()
	log := diag.NewLogger()
	root := parser.Parse(src, alloc, log)
	require.NotNil(t, root)
	passes.CollectSymbols(root, log)
	passes.DetermineTypes(root, log)
	require.Zero(t, log.Errors())
	return root
}

const src = `
integer counter;
string label_text;
bump(integer amount) { counter = counter + amount; }
default{state_entry(){ bump(1); llSetText(label_text, <1,1,1>, 1.0); }}
`

func collectMangled(root *ast.Node) map[string]string {
	out := make(map[string]string)
	for _, obj := range root.Context().Alloc.Tracked() {
		if sym, ok := obj.(*ast.Symbol); ok && sym.Mangled != "" {
			out[sym.Name] = sym.Mangled
		}
	}
	return out
}

func TestMangleSelectsKinds(t *testing.T) {
	root := analyzed(t, src)
	MangleSymbols(root, Options{Globals: true})

	names := collectMangled(root)
	assert.Contains(t, names, "counter")
	assert.Contains(t, names, "label_text")
	assert.NotContains(t, names, "bump")
	assert.NotContains(t, names, "amount")
}

func TestMangleDeterministic(t *testing.T) {
	first := collectMangled(func() *ast.Node {
		root := analyzed(t, src)
		MangleSymbols(root, Options{Functions: true, Globals: true, Locals: true})
		return root
	}())
	second := collectMangled(func() *ast.Node {
		root := analyzed(t, src)
		MangleSymbols(root, Options{Functions: true, Globals: true, Locals: true})
		return root
	}())
	assert.Equal(t, first, second)
}

func TestMangledNamesUniqueAndSafe(t *testing.T) {
	root := analyzed(t, src)
	MangleSymbols(root, Options{Functions: true, Globals: true, Locals: true})

	seen := make(map[string]bool)
	for _, mangled := range collectMangled(root) {
		assert.False(t, seen[mangled], "duplicate mangled name %s", mangled)
		seen[mangled] = true
		assert.False(t, reserved[mangled])
	}
	assert.NotEmpty(t, seen)
}

func TestShortNameSequence(t *testing.T) {
	assert.Equal(t, "a", shortName(0))
	assert.Equal(t, "z", shortName(25))
	assert.Equal(t, "aa", shortName(26))
	assert.Equal(t, "ab", shortName(27))
}
