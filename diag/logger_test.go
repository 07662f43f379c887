package diag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secondlife/tailslide/ast"
)

func loc(line, col int) ast.Loc {
	return ast.Loc{FirstLine: line, FirstColumn: col, LastLine: line, LastColumn: col}
}

func TestDuplicateDeclarationRendering(t *testing.T) {
	log := NewLogger()
	log.Report(loc(5, 9), ErrDuplicateDeclaration, "a", 3, 9)

	require.Len(t, log.Messages(), 1)
	assert.Equal(t,
		"ERROR:: (  5,  9): [E10001] Duplicate declaration of `a'; previously declared at (3, 9).",
		log.Messages()[0].String())
	assert.Equal(t, 1, log.Errors())
	assert.Equal(t, 0, log.Warnings())
}

func TestWarningSeverityFromCode(t *testing.T) {
	log := NewLogger()
	log.Report(loc(2, 1), WarnShadowDeclaration, "x", 1, 1)

	require.Len(t, log.Messages(), 1)
	msg := log.Messages()[0]
	assert.Equal(t, SevWarn, msg.Severity)
	assert.True(t, strings.HasPrefix(msg.String(), " WARN:: "))
	assert.Equal(t, 1, log.Warnings())
	assert.Equal(t, 0, log.Errors())
}

func TestLocationOmittedWhenNonPositive(t *testing.T) {
	log := NewLogger()
	log.Log(SevError, ast.Loc{}, "boom")
	assert.Equal(t, "ERROR:: boom", log.Messages()[0].String())
}

func TestCodeOmittedWhenZero(t *testing.T) {
	log := NewLogger()
	log.Log(SevWarn, loc(1, 2), "careful")
	assert.Equal(t, " WARN:: (  1,  2): careful", log.Messages()[0].String())
}

func TestWideLineNumbersNotTruncated(t *testing.T) {
	log := NewLogger()
	log.Log(SevError, loc(1234, 5), "big")
	assert.Equal(t, "ERROR:: (1234,  5): big", log.Messages()[0].String())
}

func TestSortBySeverityThenLocation(t *testing.T) {
	log := NewLogger()
	log.SetSort(true)
	log.Report(loc(9, 1), WarnShadowDeclaration, "x", 1, 1)
	log.Report(loc(7, 5), ErrUndeclared, "b")
	log.Report(loc(7, 2), ErrUndeclared, "a")

	msgs := log.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, SevError, msgs[0].Severity)
	assert.Equal(t, 2, msgs[0].Loc.FirstColumn)
	assert.Equal(t, 5, msgs[1].Loc.FirstColumn)
	assert.Equal(t, SevWarn, msgs[2].Severity)
}

func TestInfoSuppressedByDefault(t *testing.T) {
	log := NewLogger()
	log.Log(SevInfo, loc(1, 1), "hi")
	assert.Empty(t, log.Messages())

	log.SetShowInfo(true)
	log.Log(SevInfo, loc(1, 1), "hi")
	assert.Len(t, log.Messages(), 1)
}

func TestReset(t *testing.T) {
	log := NewLogger()
	log.Report(loc(1, 1), ErrUndeclared, "x")
	log.Reset()
	assert.Empty(t, log.Messages())
	assert.Zero(t, log.Errors())
}

func TestFilterAssertionsSuppressesMatches(t *testing.T) {
	log := NewLogger()
	log.Report(loc(5, 9), ErrDuplicateDeclaration, "a", 3, 9)
	log.Report(loc(8, 1), ErrUndeclared, "b")

	filtered := log.FilterAssertions([]ast.Assertion{
		{Line: 5, Code: int(ErrDuplicateDeclaration)},
	})
	require.Len(t, filtered, 1)
	assert.Equal(t, ErrUndeclared, filtered[0].Code)
	// The log itself keeps everything.
	assert.Len(t, log.Messages(), 2)
}

func TestFilterAssertionsReportsUnmatched(t *testing.T) {
	log := NewLogger()
	filtered := log.FilterAssertions([]ast.Assertion{
		{Line: 4, Code: int(ErrUndeclared)},
	})
	require.Len(t, filtered, 1)
	assert.Equal(t, SevError, filtered[0].Severity)
	assert.Equal(t, 4, filtered[0].Loc.FirstLine)
	assert.Contains(t, filtered[0].Text, "Assertion failed: expected error 10006")
}

// For a fixed input the multiset of (code, line) pairs must be stable
// run to run.
func TestDiagnosticDeterminism(t *testing.T) {
	emit := func() []string {
		log := NewLogger()
		log.SetSort(true)
		log.Report(loc(3, 1), ErrUndeclared, "x")
		log.Report(loc(1, 1), WarnShadowDeclaration, "y", 1, 1)
		log.Report(loc(2, 1), ErrTooFewArguments, "f")
		var out []string
		for _, m := range log.Messages() {
			out = append(out, m.String())
		}
		return out
	}
	first := emit()
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, emit())
	}
}

func TestWriteReportTrailer(t *testing.T) {
	log := NewLogger()
	log.Report(loc(1, 1), ErrUndeclared, "x")
	var b strings.Builder
	log.WriteReport(&b)
	assert.Contains(t, b.String(), "TOTAL:: Errors: 1  Warnings: 0")
}
