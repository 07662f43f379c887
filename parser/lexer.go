package parser

import (
	"strconv"
	"strings"

	"github.com/secondlife/tailslide/ast"
)

// lexer turns source text into tokens, tracking 1-based line and column
// positions. It also collects `//@ E<code>` assertion comments when the
// script context asks for them.
type lexer struct {
	src  string
	off  int
	line int
	col  int
	ctx  *ast.Context

	err func(loc ast.Loc, format string, args ...any)
}

func newLexer(src string, ctx *ast.Context, err func(ast.Loc, string, ...any)) *lexer {
	return &lexer{src: src, line: 1, col: 1, ctx: ctx, err: err}
}

func (lx *lexer) peekByte() byte {
	if lx.off >= len(lx.src) {
		return 0
	}
	return lx.src[lx.off]
}

func (lx *lexer) peekByteAt(n int) byte {
	if lx.off+n >= len(lx.src) {
		return 0
	}
	return lx.src[lx.off+n]
}

func (lx *lexer) advance() byte {
	c := lx.src[lx.off]
	lx.off++
	if c == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}
	return c
}

func (lx *lexer) here() ast.Loc {
	return ast.Loc{FirstLine: lx.line, FirstColumn: lx.col, LastLine: lx.line, LastColumn: lx.col}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// next scans one token. Comments and whitespace are skipped; assertion
// comments are recorded against the line they sit on.
func (lx *lexer) next() token {
	for {
		lx.skipSpace()
		if lx.off >= len(lx.src) {
			return token{kind: tokEOF, loc: lx.here()}
		}
		c := lx.peekByte()
		if c == '/' && lx.peekByteAt(1) == '/' {
			lx.lineComment()
			continue
		}
		if c == '/' && lx.peekByteAt(1) == '*' {
			lx.blockComment()
			continue
		}
		break
	}

	start := lx.here()
	c := lx.peekByte()

	switch {
	case isIdentStart(c):
		return lx.identifier(start)
	case isDigit(c) || (c == '.' && isDigit(lx.peekByteAt(1))):
		return lx.number(start)
	case c == '"':
		return lx.stringLiteral(start)
	}
	return lx.operator(start)
}

func (lx *lexer) skipSpace() {
	for lx.off < len(lx.src) {
		switch lx.peekByte() {
		case ' ', '\t', '\r', '\n':
			lx.advance()
		default:
			return
		}
	}
}

func (lx *lexer) lineComment() {
	commentLine := lx.line
	lx.advance()
	lx.advance()
	startOff := lx.off
	for lx.off < len(lx.src) && lx.peekByte() != '\n' {
		lx.advance()
	}
	body := lx.src[startOff:lx.off]
	if lx.ctx != nil && lx.ctx.CollectAssertions {
		lx.collectAssertion(commentLine, body)
	}
}

func (lx *lexer) blockComment() {
	open := lx.here()
	lx.advance()
	lx.advance()
	for lx.off < len(lx.src) {
		if lx.peekByte() == '*' && lx.peekByteAt(1) == '/' {
			lx.advance()
			lx.advance()
			return
		}
		lx.advance()
	}
	lx.err(open, "unterminated block comment")
}

// collectAssertion recognizes `//@ E10001` (the E is optional) and files
// an expected diagnostic for the comment's line.
func (lx *lexer) collectAssertion(line int, body string) {
	body = strings.TrimSpace(body)
	if !strings.HasPrefix(body, "@") {
		return
	}
	body = strings.TrimSpace(strings.TrimPrefix(body, "@"))
	body = strings.TrimPrefix(body, "E")
	code, err := strconv.Atoi(body)
	if err != nil {
		return
	}
	lx.ctx.Assertions = append(lx.ctx.Assertions, ast.Assertion{Line: line, Code: code})
}

func (lx *lexer) identifier(start ast.Loc) token {
	startOff := lx.off
	for lx.off < len(lx.src) && isIdentPart(lx.peekByte()) {
		lx.advance()
	}
	text := lx.src[startOff:lx.off]
	loc := lx.span(start)
	if kind, ok := keywords[text]; ok {
		return token{kind: kind, loc: loc, text: text}
	}
	if typ, ok := ast.ParseType(text); ok {
		return token{kind: tokTypeName, loc: loc, text: text, typ: typ}
	}
	return token{kind: tokIdent, loc: loc, text: text}
}

func (lx *lexer) number(start ast.Loc) token {
	startOff := lx.off
	isFloat := false

	if lx.peekByte() == '0' && (lx.peekByteAt(1) == 'x' || lx.peekByteAt(1) == 'X') {
		lx.advance()
		lx.advance()
		for lx.off < len(lx.src) && isHexDigit(lx.peekByte()) {
			lx.advance()
		}
		text := lx.src[startOff:lx.off]
		v, err := strconv.ParseUint(text[2:], 16, 64)
		if err != nil {
			lx.err(lx.span(start), "malformed hex constant %q", text)
			v = 0
		}
		return token{kind: tokInteger, loc: lx.span(start), text: text, ival: int32(uint32(v))}
	}

	for lx.off < len(lx.src) && isDigit(lx.peekByte()) {
		lx.advance()
	}
	if lx.peekByte() == '.' {
		isFloat = true
		lx.advance()
		for lx.off < len(lx.src) && isDigit(lx.peekByte()) {
			lx.advance()
		}
	}
	if c := lx.peekByte(); c == 'e' || c == 'E' {
		mark := lx.off
		lx.advance()
		if c := lx.peekByte(); c == '+' || c == '-' {
			lx.advance()
		}
		if isDigit(lx.peekByte()) {
			isFloat = true
			for lx.off < len(lx.src) && isDigit(lx.peekByte()) {
				lx.advance()
			}
		} else {
			// Not an exponent after all; back out to the mark.
			lx.col -= lx.off - mark
			lx.off = mark
		}
	}

	text := lx.src[startOff:lx.off]
	loc := lx.span(start)
	if isFloat {
		f, err := strconv.ParseFloat(text, 32)
		if err != nil {
			lx.err(loc, "malformed float constant %q", text)
		}
		return token{kind: tokFloat, loc: loc, text: text, fval: float32(f)}
	}
	// Integer literals wrap into the 32-bit range the way the runtime's
	// lexer does.
	v, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		lx.err(loc, "malformed integer constant %q", text)
		v = 0
	}
	return token{kind: tokInteger, loc: loc, text: text, ival: int32(uint32(v))}
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func (lx *lexer) stringLiteral(start ast.Loc) token {
	lx.advance() // opening quote
	var b strings.Builder
	for {
		if lx.off >= len(lx.src) {
			lx.err(lx.span(start), "unterminated string constant")
			break
		}
		c := lx.advance()
		if c == '"' {
			break
		}
		if c == '\\' && lx.off < len(lx.src) {
			esc := lx.advance()
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				// The runtime expands tab escapes to four spaces.
				b.WriteString("    ")
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			default:
				b.WriteByte(esc)
			}
			continue
		}
		b.WriteByte(c)
	}
	return token{kind: tokString, loc: lx.span(start), text: b.String()}
}

func (lx *lexer) operator(start ast.Loc) token {
	two := ""
	if lx.off+1 < len(lx.src) {
		two = lx.src[lx.off : lx.off+2]
	}
	twoCharOps := map[string]tokenKind{
		"+=": tokAddAssign, "-=": tokSubAssign, "*=": tokMulAssign,
		"/=": tokDivAssign, "%=": tokModAssign, "==": tokEq, "!=": tokNeq,
		"<=": tokLeq, ">=": tokGeq, "<<": tokShiftLeft, ">>": tokShiftRight,
		"||": tokOr, "&&": tokAnd, "++": tokIncr, "--": tokDecr,
	}
	if kind, ok := twoCharOps[two]; ok {
		lx.advance()
		lx.advance()
		return token{kind: kind, loc: lx.span(start), text: two}
	}

	c := lx.advance()
	oneCharOps := map[byte]tokenKind{
		'(': tokLParen, ')': tokRParen, '{': tokLBrace, '}': tokRBrace,
		'[': tokLBracket, ']': tokRBracket, ';': tokSemicolon, ',': tokComma,
		'.': tokPeriod, '@': tokAt, '=': tokAssign, '|': tokBitOr,
		'^': tokBitXor, '&': tokBitAnd, '<': tokLt, '>': tokGt,
		'+': tokPlus, '-': tokMinus, '*': tokStar, '/': tokSlash,
		'%': tokPercent, '!': tokNot, '~': tokBitNot,
	}
	if kind, ok := oneCharOps[c]; ok {
		return token{kind: kind, loc: lx.span(start), text: string(c)}
	}
	lx.err(lx.span(start), "unexpected character %q", c)
	return lx.next()
}

// span closes a location opened at the token's first byte.
func (lx *lexer) span(start ast.Loc) ast.Loc {
	start.LastLine = lx.line
	start.LastColumn = lx.col - 1
	if start.LastColumn < 1 {
		start.LastColumn = 1
	}
	return start
}
