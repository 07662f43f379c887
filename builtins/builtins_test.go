package builtins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secondlife/tailslide/ast"
)

func TestConstantLookup(t *testing.T) {
	tru := LookupConstant("TRUE")
	require.NotNil(t, tru)
	assert.Equal(t, ast.TypeInteger, tru.Type)
	assert.Equal(t, int32(1), tru.IntValue)

	zv := LookupConstant("ZERO_ROTATION")
	require.NotNil(t, zv)
	assert.Equal(t, [4]float32{0, 0, 0, 1}, zv.QuatValue)

	assert.Nil(t, LookupConstant("NOT_A_CONSTANT"))
}

func TestFunctionLookup(t *testing.T) {
	say := LookupFunction("llSay")
	require.NotNil(t, say)
	assert.Equal(t, ast.TypeVoid, say.Returns)
	require.Len(t, say.Params, 2)
	assert.Equal(t, ast.TypeInteger, say.Params[0].Type)
	assert.Equal(t, ast.TypeString, say.Params[1].Type)

	assert.Nil(t, LookupFunction("llDoesNotExist"))
}

func TestEventLookup(t *testing.T) {
	listen := LookupEvent("listen")
	require.NotNil(t, listen)
	require.Len(t, listen.Params, 4)
	assert.Equal(t, ast.TypeKey, listen.Params[2].Type)

	entry := LookupEvent("state_entry")
	require.NotNil(t, entry)
	assert.Empty(t, entry.Params)

	assert.Nil(t, LookupEvent("not_an_event"))
}

func TestMakeValue(t *testing.T) {
	alloc := ast.NewAllocator()

	pi := LookupConstant("PI").MakeValue(alloc)
	require.Equal(t, ast.SubFloatConstant, pi.SubType())
	assert.InDelta(t, 3.14159, float64(pi.FloatValue()), 0.0001)

	nk := LookupConstant("NULL_KEY").MakeValue(alloc)
	require.Equal(t, ast.SubKeyConstant, nk.SubType())
	assert.Equal(t, "00000000-0000-0000-0000-000000000000", nk.StringValue())

	assert.True(t, alloc.Owns(pi))
}

func TestEachIteratesAll(t *testing.T) {
	constCount := 0
	EachConstant(func(*Constant) { constCount++ })
	assert.Greater(t, constCount, 20)

	funcCount := 0
	EachFunction(func(*Function) { funcCount++ })
	assert.Greater(t, funcCount, 30)
}
