package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocComparison(t *testing.T) {
	smaller := Loc{FirstLine: 0, FirstColumn: 1, LastLine: 2, LastColumn: 3}
	bigger := Loc{FirstLine: 1, FirstColumn: 1, LastLine: 2, LastColumn: 3}
	smallerSameLine := Loc{FirstLine: 1, FirstColumn: 0, LastLine: 2, LastColumn: 3}

	assert.True(t, bigger.After(smaller))
	assert.True(t, bigger.After(smallerSameLine))
	assert.True(t, smaller.Before(bigger))
	assert.True(t, smallerSameLine.Before(bigger))
	assert.False(t, bigger.Before(bigger))
}

func TestLocEmpty(t *testing.T) {
	assert.True(t, Loc{}.Empty())
	assert.False(t, Loc{FirstLine: 1}.Empty())
}

func TestLocString(t *testing.T) {
	assert.Equal(t, "(3, 9)", Loc{FirstLine: 3, FirstColumn: 9}.String())
}
