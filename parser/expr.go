package parser

import (
	"github.com/secondlife/tailslide/ast"
)

// Binary operator precedence tiers, lowest binding first. Assignment is
// handled separately because it is right-associative and restricted to
// lvalues.
const (
	precOr = iota + 1
	precAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
)

var binaryOps = map[tokenKind]struct {
	prec int
	op   ast.Operator
}{
	tokOr:         {precOr, ast.OpOr},
	tokAnd:        {precAnd, ast.OpAnd},
	tokBitOr:      {precBitOr, ast.OpBitOr},
	tokBitXor:     {precBitXor, ast.OpBitXor},
	tokBitAnd:     {precBitAnd, ast.OpBitAnd},
	tokEq:         {precEquality, ast.OpEq},
	tokNeq:        {precEquality, ast.OpNeq},
	tokLt:         {precRelational, ast.OpLt},
	tokLeq:        {precRelational, ast.OpLeq},
	tokGt:         {precRelational, ast.OpGt},
	tokGeq:        {precRelational, ast.OpGeq},
	tokShiftLeft:  {precShift, ast.OpShiftLeft},
	tokShiftRight: {precShift, ast.OpShiftRight},
	tokPlus:       {precAdditive, ast.OpAdd},
	tokMinus:      {precAdditive, ast.OpSub},
	tokStar:       {precMultiplicative, ast.OpMul},
	tokSlash:      {precMultiplicative, ast.OpDiv},
	tokPercent:    {precMultiplicative, ast.OpMod},
}

var assignOps = map[tokenKind]ast.Operator{
	tokAssign:    ast.OpAssign,
	tokAddAssign: ast.OpAddAssign,
	tokSubAssign: ast.OpSubAssign,
	tokMulAssign: ast.OpMulAssign,
	tokDivAssign: ast.OpDivAssign,
	tokModAssign: ast.OpModAssign,
}

func (p *parser) parseExpression() *ast.Node {
	return p.parseAssignment()
}

// parseAssignment handles the right-associative assignment tier.
func (p *parser) parseAssignment() *ast.Node {
	lhs := p.parseBinary(1)
	op, ok := assignOps[p.tok.kind]
	if !ok {
		return lhs
	}
	opLoc := p.tok.loc
	if lhs.SubType() != ast.SubLValueExpression {
		p.syntaxError(opLoc, "syntax error, assignment target is not an lvalue")
	}
	p.advance()
	rhs := p.parseAssignment()
	n := p.alloc.NewBinaryExpression(op, lhs, rhs)
	n.SetLoc(lhs.Loc())
	return n
}

// parseBinary is a precedence climber over the binary tiers.
func (p *parser) parseBinary(minPrec int) *ast.Node {
	lhs := p.parseUnary()
	for {
		info, ok := binaryOps[p.tok.kind]
		if !ok || info.prec < minPrec {
			return lhs
		}
		p.advance()
		rhs := p.parseBinary(info.prec + 1)
		n := p.alloc.NewBinaryExpression(info.op, lhs, rhs)
		n.SetLoc(lhs.Loc())
		lhs = n
	}
}

func (p *parser) parseUnary() *ast.Node {
	loc := p.tok.loc
	switch p.tok.kind {
	case tokMinus:
		p.advance()
		operand := p.parseUnary()
		n := p.alloc.NewUnaryExpression(ast.OpNeg, operand)
		n.SetLoc(loc)
		return n
	case tokNot:
		p.advance()
		operand := p.parseUnary()
		n := p.alloc.NewUnaryExpression(ast.OpNot, operand)
		n.SetLoc(loc)
		return n
	case tokBitNot:
		p.advance()
		operand := p.parseUnary()
		n := p.alloc.NewUnaryExpression(ast.OpBitNot, operand)
		n.SetLoc(loc)
		return n
	case tokIncr, tokDecr:
		op := ast.OpPreIncr
		if p.tok.kind == tokDecr {
			op = ast.OpPreDecr
		}
		p.advance()
		operand := p.parseUnary()
		if operand.SubType() != ast.SubLValueExpression {
			p.syntaxError(loc, "syntax error, increment target is not an lvalue")
		}
		n := p.alloc.NewUnaryExpression(op, operand)
		n.SetLoc(loc)
		return n
	case tokLParen:
		// Either a typecast or a parenthesized expression.
		if p.peekIsTypecast() {
			p.advance()
			castType := p.tok.typ
			p.advance()
			p.expect(tokRParen)
			operand := p.parseUnary()
			n := p.alloc.NewTypecastExpression(castType, operand)
			n.SetLoc(loc)
			return n
		}
	}
	return p.parsePostfix()
}

// peekIsTypecast reports whether the current `(` opens `(typename)`.
func (p *parser) peekIsTypecast() bool {
	save := *p.lex
	p.lex.ctx = nil // don't double-collect assertion comments while peeking
	tok := p.lex.next()
	closing := p.lex.next()
	*p.lex = save
	return tok.kind == tokTypeName && closing.kind == tokRParen
}

func (p *parser) parsePostfix() *ast.Node {
	expr := p.parsePrimary()
	if expr.SubType() == ast.SubLValueExpression {
		switch p.tok.kind {
		case tokIncr:
			p.advance()
			n := p.alloc.NewUnaryExpression(ast.OpPostIncr, expr)
			n.SetLoc(expr.Loc())
			return n
		case tokDecr:
			p.advance()
			n := p.alloc.NewUnaryExpression(ast.OpPostDecr, expr)
			n.SetLoc(expr.Loc())
			return n
		}
	}
	return expr
}

func (p *parser) parsePrimary() *ast.Node {
	loc := p.tok.loc
	switch p.tok.kind {
	case tokInteger:
		c := p.alloc.NewIntegerConstant(p.tok.ival)
		c.SetLoc(loc)
		p.advance()
		n := p.alloc.NewConstantExpression(c)
		n.SetLoc(loc)
		return n
	case tokFloat:
		c := p.alloc.NewFloatConstant(p.tok.fval)
		c.SetLoc(loc)
		p.advance()
		n := p.alloc.NewConstantExpression(c)
		n.SetLoc(loc)
		return n
	case tokString:
		c := p.alloc.NewStringConstant(p.tok.text)
		c.SetLoc(loc)
		p.advance()
		n := p.alloc.NewConstantExpression(c)
		n.SetLoc(loc)
		return n
	case tokLParen:
		p.advance()
		inner := p.parseExpression()
		p.expect(tokRParen)
		n := p.alloc.NewParenthesisExpression(inner)
		n.SetLoc(loc)
		return n
	case tokLBracket:
		p.advance()
		var elements []*ast.Node
		for p.tok.kind != tokRBracket {
			if len(elements) > 0 {
				p.expect(tokComma)
			}
			elements = append(elements, p.parseExpression())
		}
		p.expect(tokRBracket)
		n := p.alloc.NewListExpression(elements...)
		n.SetLoc(loc)
		return n
	case tokLt:
		return p.parseCoordinateLiteral(loc)
	case tokIdent:
		nameTok := p.tok
		p.advance()
		ident := p.alloc.NewIdentifier(nameTok.text, nameTok.loc)
		if p.tok.kind == tokLParen {
			p.advance()
			var args []*ast.Node
			for p.tok.kind != tokRParen {
				if len(args) > 0 {
					p.expect(tokComma)
				}
				args = append(args, p.parseExpression())
			}
			p.expect(tokRParen)
			n := p.alloc.NewFunctionExpression(ident, args...)
			n.SetLoc(nameTok.loc)
			return n
		}
		var member *ast.Node
		if p.accept(tokPeriod) {
			memberTok := p.expect(tokIdent)
			member = p.alloc.NewIdentifier(memberTok.text, memberTok.loc)
		}
		n := p.alloc.NewLValueExpression(ident, member)
		n.SetLoc(nameTok.loc)
		return n
	}
	p.syntaxError(loc, "syntax error, unexpected %s, expecting expression", p.tok.kind)
	return nil
}

// parseCoordinateLiteral reads `<x, y, z>` or `<x, y, z, s>`. Components
// bind at shift precedence so the closing `>` is never taken as a
// comparison.
func (p *parser) parseCoordinateLiteral(loc ast.Loc) *ast.Node {
	p.expect(tokLt)
	var components []*ast.Node
	for {
		components = append(components, p.parseBinary(precShift))
		if len(components) > 4 {
			p.syntaxError(p.tok.loc, "syntax error, too many components in coordinate literal")
		}
		if !p.accept(tokComma) {
			break
		}
	}
	p.expect(tokGt)
	switch len(components) {
	case 3:
		n := p.alloc.NewVectorExpression(components[0], components[1], components[2])
		n.SetLoc(loc)
		return n
	case 4:
		n := p.alloc.NewQuaternionExpression(components[0], components[1], components[2], components[3])
		n.SetLoc(loc)
		return n
	}
	p.syntaxError(loc, "syntax error, coordinate literal needs 3 or 4 components")
	return nil
}
