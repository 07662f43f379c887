// Package parser turns source text into an arena-allocated syntax tree.
// It is a hand-written recursive descent parser; syntax errors are
// reported through the diagnostic log and abort the parse with a nil
// script root.
package parser

import (
	"fmt"

	"github.com/secondlife/tailslide/ast"
	"github.com/secondlife/tailslide/diag"
)

// Parse builds a script tree in the given arena. It returns nil when the
// source fails to parse; the diagnostic log holds the syntax errors.
func Parse(src string, alloc *ast.Allocator, log *diag.Logger) (root *ast.Node) {
	p := &parser{
		alloc: alloc,
		log:   log,
	}
	p.lex = newLexer(src, alloc.Context(), func(loc ast.Loc, format string, args ...any) {
		p.syntaxError(loc, format, args...)
	})

	defer func() {
		if r := recover(); r != nil {
			if r != parseAbort {
				panic(r)
			}
			root = nil
		}
	}()

	p.advance()
	return p.parseScript()
}

// parseAbort is the sentinel thrown after the first syntax error; the
// parser makes no attempt at recovery beyond reporting it.
var parseAbort = new(struct{})

type parser struct {
	lex   *lexer
	tok   token
	alloc *ast.Allocator
	log   *diag.Logger
}

func (p *parser) advance() {
	p.tok = p.lex.next()
}

func (p *parser) syntaxError(loc ast.Loc, format string, args ...any) {
	p.log.Report(loc, diag.ErrSyntaxError, fmt.Sprintf(format, args...))
	panic(parseAbort)
}

func (p *parser) expect(kind tokenKind) token {
	if p.tok.kind != kind {
		p.syntaxError(p.tok.loc, "syntax error, unexpected %s, expecting %s", p.tok.kind, kind)
	}
	tok := p.tok
	p.advance()
	return tok
}

func (p *parser) accept(kind tokenKind) bool {
	if p.tok.kind == kind {
		p.advance()
		return true
	}
	return false
}

// parseScript reads globals until the first state block, then states
// until end of file.
func (p *parser) parseScript() *ast.Node {
	globals := p.alloc.NewGlobalStorage()
	states := p.alloc.NewStateStorage()

	for p.tok.kind != tokEOF && p.tok.kind != tokDefault {
		globals.PushChild(p.parseGlobal())
	}
	if p.tok.kind == tokDefault {
		states.PushChild(p.parseState())
		for p.tok.kind == tokState {
			states.PushChild(p.parseState())
		}
	}
	if p.tok.kind != tokEOF {
		p.syntaxError(p.tok.loc, "syntax error, unexpected %s", p.tok.kind)
	}

	script := p.alloc.NewScript(globals, states)
	if n := globals.NumChildren(); n > 0 {
		script.SetLoc(globals.Child(0).Loc())
	} else if states.NumChildren() > 0 {
		script.SetLoc(states.Child(0).Loc())
	}
	return script
}

// parseGlobal handles `type name [= expr];`, `type name(...) {...}` and
// `name(...) {...}` forms.
func (p *parser) parseGlobal() *ast.Node {
	var declType ast.Type = ast.TypeVoid
	if p.tok.kind == tokTypeName {
		declType = p.tok.typ
		p.advance()
	} else if p.tok.kind != tokIdent {
		p.syntaxError(p.tok.loc, "syntax error, unexpected %s, expecting declaration", p.tok.kind)
	}

	nameTok := p.expect(tokIdent)
	ident := p.alloc.NewIdentifier(nameTok.text, nameTok.loc)

	if p.tok.kind == tokLParen {
		params := p.parseParamList(ast.SubFunctionDec)
		body := p.parseCompound()
		fn := p.alloc.NewGlobalFunction(declType, ident, params, body)
		fn.SetLoc(nameTok.loc)
		return fn
	}

	if declType == ast.TypeVoid {
		p.syntaxError(nameTok.loc, "syntax error, missing type in declaration of `%s'", nameTok.text)
	}
	var initializer *ast.Node
	if p.accept(tokAssign) {
		initializer = p.parseExpression()
	}
	p.expect(tokSemicolon)
	g := p.alloc.NewGlobalVariable(declType, ident, initializer)
	g.SetLoc(nameTok.loc)
	return g
}

func (p *parser) parseParamList(sub ast.NodeSubType) *ast.Node {
	p.expect(tokLParen)
	var params []*ast.Node
	for p.tok.kind != tokRParen {
		if len(params) > 0 {
			p.expect(tokComma)
		}
		typeTok := p.expect(tokTypeName)
		nameTok := p.expect(tokIdent)
		param := p.alloc.NewParamIdentifier(typeTok.typ, nameTok.text, nameTok.loc)
		params = append(params, param)
	}
	p.expect(tokRParen)
	return p.alloc.NewFunctionDec(sub, params...)
}

func (p *parser) parseState() *ast.Node {
	var ident *ast.Node
	switch p.tok.kind {
	case tokDefault:
		ident = p.alloc.NewIdentifier("default", p.tok.loc)
		p.advance()
	case tokState:
		p.advance()
		nameTok := p.expect(tokIdent)
		ident = p.alloc.NewIdentifier(nameTok.text, nameTok.loc)
	default:
		p.syntaxError(p.tok.loc, "syntax error, unexpected %s, expecting state", p.tok.kind)
	}

	p.expect(tokLBrace)
	var handlers []*ast.Node
	for p.tok.kind != tokRBrace {
		handlers = append(handlers, p.parseEventHandler())
	}
	p.expect(tokRBrace)

	state := p.alloc.NewState(ident, handlers...)
	state.SetLoc(ident.Loc())
	return state
}

func (p *parser) parseEventHandler() *ast.Node {
	nameTok := p.expect(tokIdent)
	ident := p.alloc.NewIdentifier(nameTok.text, nameTok.loc)
	params := p.parseParamList(ast.SubEventDec)
	body := p.parseCompound()
	handler := p.alloc.NewEventHandler(ident, params, body)
	handler.SetLoc(nameTok.loc)
	return handler
}

func (p *parser) parseCompound() *ast.Node {
	open := p.expect(tokLBrace)
	var stmts []*ast.Node
	for p.tok.kind != tokRBrace {
		stmts = append(stmts, p.parseStatement())
	}
	p.expect(tokRBrace)
	compound := p.alloc.NewCompoundStatement(stmts...)
	compound.SetLoc(open.loc)
	return compound
}

func (p *parser) parseStatement() *ast.Node {
	loc := p.tok.loc
	switch p.tok.kind {
	case tokLBrace:
		return p.parseCompound()
	case tokSemicolon:
		p.advance()
		n := p.alloc.NewNopStatement()
		n.SetLoc(loc)
		return n
	case tokTypeName:
		declType := p.tok.typ
		p.advance()
		nameTok := p.expect(tokIdent)
		ident := p.alloc.NewIdentifier(nameTok.text, nameTok.loc)
		var initializer *ast.Node
		if p.accept(tokAssign) {
			initializer = p.parseExpression()
		}
		p.expect(tokSemicolon)
		decl := p.alloc.NewDeclaration(declType, ident, initializer)
		decl.SetLoc(loc)
		return decl
	case tokIf:
		p.advance()
		p.expect(tokLParen)
		cond := p.parseExpression()
		p.expect(tokRParen)
		then := p.parseStatement()
		var els *ast.Node
		if p.accept(tokElse) {
			els = p.parseStatement()
		}
		n := p.alloc.NewIfStatement(cond, then, els)
		n.SetLoc(loc)
		return n
	case tokFor:
		p.advance()
		p.expect(tokLParen)
		init := p.parseForExpressionList(tokSemicolon)
		p.expect(tokSemicolon)
		var cond *ast.Node
		if p.tok.kind != tokSemicolon {
			cond = p.parseExpression()
		} else {
			// An absent condition loops forever.
			one := p.alloc.NewIntegerConstant(1)
			one.SetLoc(loc)
			cond = p.alloc.NewConstantExpression(one)
			cond.SetLoc(loc)
		}
		p.expect(tokSemicolon)
		update := p.parseForExpressionList(tokRParen)
		p.expect(tokRParen)
		body := p.parseStatement()
		n := p.alloc.NewForStatement(init, cond, update, body)
		n.SetLoc(loc)
		return n
	case tokWhile:
		p.advance()
		p.expect(tokLParen)
		cond := p.parseExpression()
		p.expect(tokRParen)
		body := p.parseStatement()
		n := p.alloc.NewWhileStatement(cond, body)
		n.SetLoc(loc)
		return n
	case tokDo:
		p.advance()
		body := p.parseStatement()
		p.expect(tokWhile)
		p.expect(tokLParen)
		cond := p.parseExpression()
		p.expect(tokRParen)
		p.expect(tokSemicolon)
		n := p.alloc.NewDoStatement(body, cond)
		n.SetLoc(loc)
		return n
	case tokJump:
		p.advance()
		nameTok := p.expect(tokIdent)
		target := p.alloc.NewIdentifier(nameTok.text, nameTok.loc)
		p.expect(tokSemicolon)
		n := p.alloc.NewJumpStatement(target)
		n.SetLoc(loc)
		return n
	case tokAt:
		p.advance()
		nameTok := p.expect(tokIdent)
		ident := p.alloc.NewIdentifier(nameTok.text, nameTok.loc)
		p.expect(tokSemicolon)
		n := p.alloc.NewLabel(ident)
		n.SetLoc(loc)
		return n
	case tokReturn:
		p.advance()
		var expr *ast.Node
		if p.tok.kind != tokSemicolon {
			expr = p.parseExpression()
		}
		p.expect(tokSemicolon)
		n := p.alloc.NewReturnStatement(expr)
		n.SetLoc(loc)
		return n
	case tokState:
		p.advance()
		var target *ast.Node
		if p.tok.kind == tokDefault {
			target = p.alloc.NewIdentifier("default", p.tok.loc)
			p.advance()
		} else {
			nameTok := p.expect(tokIdent)
			target = p.alloc.NewIdentifier(nameTok.text, nameTok.loc)
		}
		p.expect(tokSemicolon)
		n := p.alloc.NewStateStatement(target)
		n.SetLoc(loc)
		return n
	}

	expr := p.parseExpression()
	p.expect(tokSemicolon)
	n := p.alloc.NewExpressionStatement(expr)
	n.SetLoc(loc)
	return n
}

func (p *parser) parseForExpressionList(terminator tokenKind) *ast.Node {
	loc := p.tok.loc
	var exprs []*ast.Node
	for p.tok.kind != terminator {
		if len(exprs) > 0 {
			p.expect(tokComma)
		}
		exprs = append(exprs, p.parseExpression())
	}
	n := p.alloc.NewForExpressionList(exprs...)
	n.SetLoc(loc)
	return n
}
