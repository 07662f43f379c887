// Package passes implements the fixed-order semantic pipeline over a
// parsed script: symbol collection, type determination, reference data,
// constant propagation, final checks and global validation. The order is
// part of the contract; each pass records its completion on the script
// context.
package passes

import (
	"github.com/secondlife/tailslide/ast"
	"github.com/secondlife/tailslide/builtins"
	"github.com/secondlife/tailslide/diag"
)

// valueKinds is the namespace shared by variables, functions and states;
// labels live in a namespace of their own.
var valueKinds = ast.MaskOf(ast.SymVariable, ast.SymFunction, ast.SymParameter,
	ast.SymEventParameter, ast.SymState)

var lvalueKinds = ast.MaskOf(ast.SymVariable, ast.SymParameter, ast.SymEventParameter)

// CollectSymbols builds the scope tree, declares every symbol and binds
// identifier occurrences. Globals are declared before any body is
// resolved so forward references between functions work.
func CollectSymbols(root *ast.Node, log *diag.Logger) {
	ctx := root.Context()
	c := &collector{alloc: ctx.Alloc, log: log}

	globals := c.alloc.NewScope(nil)
	ctx.Globals = globals
	c.injectBuiltins(globals)

	globalStorage := root.Child(0)
	stateStorage := root.Child(1)

	for _, g := range globalStorage.Children() {
		switch g.SubType() {
		case ast.SubGlobalVariable:
			c.declare(globals, g.Child(0), ast.SymVariable, g.DeclType(), g)
		case ast.SubGlobalFunction:
			c.declareFunction(globals, g)
		}
	}
	for _, s := range stateStorage.Children() {
		c.declare(globals, s.Child(0), ast.SymState, ast.TypeVoid, s)
	}

	for _, g := range globalStorage.Children() {
		switch g.SubType() {
		case ast.SubGlobalVariable:
			if init := g.Child(1); init != nil {
				c.resolveExpr(globals, init)
			}
		case ast.SubGlobalFunction:
			c.enterCallable(globals, g, ast.SymParameter)
		}
	}
	for _, s := range stateStorage.Children() {
		for _, h := range s.Children()[1:] {
			c.checkHandlerSignature(h)
			c.enterCallable(globals, h, ast.SymEventParameter)
		}
	}

	ctx.MarkCompleted(ast.PassSymbols)
}

type collector struct {
	alloc *ast.Allocator
	log   *diag.Logger
}

func (c *collector) injectBuiltins(globals *ast.Scope) {
	builtins.EachConstant(func(bc *builtins.Constant) {
		sym := c.alloc.NewSymbol(bc.Name, ast.SymVariable, bc.Type, ast.Loc{})
		sym.Builtin = true
		sym.Default = bc.MakeValue(c.alloc)
		globals.Declare(sym)
	})
	builtins.EachFunction(func(bf *builtins.Function) {
		sym := c.alloc.NewSymbol(bf.Name, ast.SymFunction, bf.Returns, ast.Loc{})
		sym.Builtin = true
		sym.Params = bf.Params
		globals.Declare(sym)
	})
}

// declare inserts a symbol for a declaring identifier in the value
// namespace (labels are hoisted separately by collectLabels), reporting
// duplicates in the same scope and warning about shadowed declarations
// further out. Built-in constants may not be redeclared at all.
func (c *collector) declare(scope *ast.Scope, ident *ast.Node, kind ast.SymbolKind, typ ast.Type, decl *ast.Node) *ast.Symbol {
	name := ident.Name()
	mask := valueKinds

	if bc := builtins.LookupConstant(name); bc != nil {
		c.log.Report(ident.Loc(), diag.ErrConstantRedeclared, name)
		return nil
	}
	if prev := scope.LookupLocal(name, mask); prev != nil {
		c.log.Report(ident.Loc(), diag.ErrDuplicateDeclaration,
			name, prev.Loc.FirstLine, prev.Loc.FirstColumn)
		return nil
	}
	if outer := scope.Lookup(name, mask); outer != nil && !outer.Builtin {
		c.log.Report(ident.Loc(), diag.WarnShadowDeclaration,
			name, outer.Loc.FirstLine, outer.Loc.FirstColumn)
	}

	sym := c.alloc.NewSymbol(name, kind, typ, ident.Loc())
	sym.Decl = decl
	scope.Declare(sym)
	ident.SetSymbol(sym)
	return sym
}

func (c *collector) declareFunction(globals *ast.Scope, fn *ast.Node) {
	sym := c.declare(globals, fn.Child(0), ast.SymFunction, fn.DeclType(), fn)
	if sym == nil {
		return
	}
	for _, p := range fn.Child(1).Children() {
		sym.Params = append(sym.Params, ast.Param{Name: p.Name(), Type: p.DeclType()})
	}
}

// checkHandlerSignature validates an event handler's name and parameters
// against the built-in event table and gives the handler a symbol to
// carry its reference data.
func (c *collector) checkHandlerSignature(handler *ast.Node) {
	ident := handler.Child(0)
	name := ident.Name()
	sym := c.alloc.NewSymbol(name, ast.SymFunction, ast.TypeVoid, ident.Loc())
	sym.Decl = handler
	ident.SetSymbol(sym)

	ev := builtins.LookupEvent(name)
	if ev == nil {
		c.log.Report(ident.Loc(), diag.ErrUnknownEvent, name)
		return
	}
	params := handler.Child(1).Children()
	if len(params) > len(ev.Params) {
		c.log.Report(ident.Loc(), diag.ErrTooManyEventParameters, name)
		return
	}
	for i, p := range params {
		want := ev.Params[i]
		if p.DeclType() != want.Type {
			c.log.Report(p.Loc(), diag.ErrEventParameterMismatch,
				p.Name(), i+1, name, want.Type, want.Name)
		}
	}
}

// enterCallable opens the parameter scope for a function or handler and
// resolves its body. Labels are collected first, into the function-level
// scope, so forward jumps resolve and a label in one block is visible
// from a jump in a sibling block. paramKind distinguishes user-function
// parameters from event parameters.
func (c *collector) enterCallable(globals *ast.Scope, fn *ast.Node, paramKind ast.SymbolKind) {
	scope := c.alloc.NewScope(globals)
	for _, p := range fn.Child(1).Children() {
		c.declare(scope, p, paramKind, p.DeclType(), fn.Child(1))
	}
	c.collectLabels(scope, fn.Child(2))
	c.compound(scope, fn.Child(2))
}

// collectLabels declares every label under a callable's body into one
// function-wide scope. Labels share a single namespace per function; a
// repeated name gets the host's duplicate-label warning but both label
// statements keep their own symbols, and lookups resolve to the first.
func (c *collector) collectLabels(scope *ast.Scope, n *ast.Node) {
	if n.SubType() == ast.SubLabel {
		ident := n.Child(0)
		if prev := scope.LookupLocal(ident.Name(), ast.MaskOf(ast.SymLabel)); prev != nil {
			c.log.Report(ident.Loc(), diag.WarnDuplicateLabel, ident.Name())
		}
		sym := c.alloc.NewSymbol(ident.Name(), ast.SymLabel, ast.TypeVoid, ident.Loc())
		sym.Decl = n
		scope.Declare(sym)
		ident.SetSymbol(sym)
	}
	for _, child := range n.Children() {
		c.collectLabels(scope, child)
	}
}

// compound opens a scope for a block and processes it in statement
// order, which makes use-before-declaration fail lookup naturally.
// Labels were already hoisted to the function scope.
func (c *collector) compound(parent *ast.Scope, block *ast.Node) {
	scope := c.alloc.NewScope(parent)
	for _, stmt := range block.Children() {
		c.statement(scope, stmt)
	}
}

func (c *collector) statement(scope *ast.Scope, stmt *ast.Node) {
	switch stmt.SubType() {
	case ast.SubCompoundStatement:
		c.compound(scope, stmt)
	case ast.SubDeclaration:
		if init := stmt.Child(1); init != nil {
			c.resolveExpr(scope, init)
		}
		c.declare(scope, stmt.Child(0), ast.SymVariable, stmt.DeclType(), stmt)
	case ast.SubExpressionStatement:
		c.resolveExpr(scope, stmt.Child(0))
	case ast.SubIfStatement:
		c.resolveExpr(scope, stmt.Child(0))
		c.statement(scope, stmt.Child(1))
		if els := stmt.Child(2); els != nil {
			c.statement(scope, els)
		}
	case ast.SubForStatement:
		for _, e := range stmt.Child(0).Children() {
			c.resolveExpr(scope, e)
		}
		c.resolveExpr(scope, stmt.Child(1))
		for _, e := range stmt.Child(2).Children() {
			c.resolveExpr(scope, e)
		}
		c.statement(scope, stmt.Child(3))
	case ast.SubWhileStatement:
		c.resolveExpr(scope, stmt.Child(0))
		c.statement(scope, stmt.Child(1))
	case ast.SubDoStatement:
		c.statement(scope, stmt.Child(0))
		c.resolveExpr(scope, stmt.Child(1))
	case ast.SubReturnStatement:
		if expr := stmt.Child(0); expr != nil {
			c.resolveExpr(scope, expr)
		}
	case ast.SubJumpStatement:
		target := stmt.Child(0)
		sym := scope.Lookup(target.Name(), ast.MaskOf(ast.SymLabel))
		if sym == nil {
			c.log.Report(target.Loc(), diag.ErrUndeclared, target.Name())
			return
		}
		target.SetSymbol(sym)
	case ast.SubStateStatement:
		target := stmt.Child(0)
		sym := scope.Lookup(target.Name(), ast.MaskOf(ast.SymState))
		if sym == nil {
			c.log.Report(target.Loc(), diag.ErrUndeclared, target.Name())
			return
		}
		target.SetSymbol(sym)
	case ast.SubLabel, ast.SubNopStatement:
		// Labels were hoisted into the function scope up front.
	}
}

func (c *collector) resolveExpr(scope *ast.Scope, expr *ast.Node) {
	switch expr.SubType() {
	case ast.SubLValueExpression:
		ident := expr.Child(0)
		sym := scope.Lookup(ident.Name(), lvalueKinds)
		if sym == nil {
			if other := scope.Lookup(ident.Name(), ast.AnyKind); other != nil {
				c.log.Report(ident.Loc(), diag.ErrWrongKindOfSymbol,
					ident.Name(), ast.SymVariable, other.Kind)
			} else {
				c.log.Report(ident.Loc(), diag.ErrUndeclared, ident.Name())
			}
			return
		}
		ident.SetSymbol(sym)
	case ast.SubFunctionExpression:
		ident := expr.Child(0)
		sym := scope.Lookup(ident.Name(), ast.MaskOf(ast.SymFunction))
		if sym == nil {
			if other := scope.Lookup(ident.Name(), ast.AnyKind); other != nil {
				c.log.Report(ident.Loc(), diag.ErrWrongKindOfSymbol,
					ident.Name(), ast.SymFunction, other.Kind)
			} else {
				c.log.Report(ident.Loc(), diag.ErrUndeclared, ident.Name())
			}
		} else {
			ident.SetSymbol(sym)
		}
		for _, arg := range expr.Children()[1:] {
			c.resolveExpr(scope, arg)
		}
	default:
		for _, child := range expr.Children() {
			if child.Type() == ast.NodeExpression {
				c.resolveExpr(scope, child)
			}
		}
	}
}
