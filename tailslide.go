// Package tailslide analyzes, optimizes and renders scripts written in a
// small embedded scripting language. The host parses a script into an
// arena-owned tree, runs the fixed-order semantic pipeline, optionally
// optimizes the tree in place, and hands the result to a formatter.
//
//	script := tailslide.Parse(src)
//	script.Analyze(false)
//	if script.Log().Errors() == 0 {
//		script.Optimize(optimize.Options{FoldConstants: true})
//		fmt.Print(script.PrettyPrint(format.PrettyOpts{}))
//	}
//	script.Release()
package tailslide

import (
	"github.com/secondlife/tailslide/ast"
	"github.com/secondlife/tailslide/diag"
	"github.com/secondlife/tailslide/format"
	"github.com/secondlife/tailslide/mangle"
	"github.com/secondlife/tailslide/optimize"
	"github.com/secondlife/tailslide/parser"
	"github.com/secondlife/tailslide/passes"
)

// Script bundles one script's tree with the arena that owns it and the
// diagnostic log that collected its messages.
type Script struct {
	alloc *ast.Allocator
	log   *diag.Logger
	root  *ast.Node
}

// Parse builds a script from source. Root returns nil when parsing
// failed; the log carries the syntax errors either way.
func Parse(src string) *Script {
	return parseWith(src, false)
}

// ParseWithAssertions parses with assertion-comment collection enabled,
// for conformance-style test harnesses.
func ParseWithAssertions(src string) *Script {
	return parseWith(src, true)
}

func parseWith(src string, collectAssertions bool) *Script {
	alloc := ast.NewAllocator()
	alloc.Context().CollectAssertions = collectAssertions
	log := diag.NewLogger()
	root := parser.Parse(src, alloc, log)
	return &Script{alloc: alloc, log: log, root: root}
}

// Root is the script node, nil after a failed parse. It stays valid
// until Release.
func (s *Script) Root() *ast.Node { return s.root }

// Log is the script's diagnostic log.
func (s *Script) Log() *diag.Logger { return s.log }

// Alloc is the arena owning every node of this script.
func (s *Script) Alloc() *ast.Allocator { return s.alloc }

// Assertions returns the expected diagnostics collected during parsing.
func (s *Script) Assertions() []ast.Assertion {
	return s.alloc.Context().Assertions
}

// Analyze runs the semantic pipeline in its fixed order: symbol
// collection, type determination, reference data, constant propagation,
// final checks, global validation and the unused-symbol sweep. It is a
// no-op when the parse failed.
func (s *Script) Analyze(strictGlobals bool) {
	if s.root == nil {
		return
	}
	passes.CollectSymbols(s.root, s.log)
	passes.DetermineTypes(s.root, s.log)
	passes.RecalculateReferenceData(s.root)
	passes.PropagateValues(s.root, s.log)
	passes.FinalCheck(s.root, s.log)
	passes.ValidateGlobals(s.root, s.log, strictGlobals)
	passes.CheckSymbols(s.root, s.log)
}

// Optimize mutates the analyzed tree per the enabled options. Calling it
// before Analyze is a programmer error and panics.
func (s *Script) Optimize(opts optimize.Options) {
	if s.root == nil {
		return
	}
	optimize.Optimize(s.root, opts)
}

// MangleNames assigns short names to the selected symbol kinds for the
// pretty-printer to substitute.
func (s *Script) MangleNames(opts mangle.Options) {
	if s.root == nil {
		return
	}
	mangle.MangleSymbols(s.root, opts)
}

// PrettyPrint renders canonical source for the current tree.
func (s *Script) PrettyPrint(opts format.PrettyOpts) string {
	if s.root == nil {
		return ""
	}
	return format.PrettyPrint(s.root, opts)
}

// TreeDump renders the debug tree for the current tree.
func (s *Script) TreeDump() string {
	if s.root == nil {
		return ""
	}
	return format.TreeDump(s.root)
}

// FilteredMessages applies the assertion protocol to the log and returns
// the surviving messages.
func (s *Script) FilteredMessages() []*diag.Message {
	return s.log.FilterAssertions(s.Assertions())
}

// Release destroys the arena; the root and every node and symbol
// reachable from it become invalid.
func (s *Script) Release() {
	s.alloc.Release()
	s.root = nil
}
