package parser

import "github.com/secondlife/tailslide/ast"

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokInteger
	tokFloat
	tokString

	// Keywords.
	tokDefault
	tokState
	tokJump
	tokReturn
	tokIf
	tokElse
	tokFor
	tokDo
	tokWhile
	tokTypeName

	// Punctuation.
	tokLParen
	tokRParen
	tokLBrace
	tokRBrace
	tokLBracket
	tokRBracket
	tokSemicolon
	tokComma
	tokPeriod
	tokAt

	// Operators.
	tokAssign
	tokAddAssign
	tokSubAssign
	tokMulAssign
	tokDivAssign
	tokModAssign
	tokOr
	tokAnd
	tokBitOr
	tokBitXor
	tokBitAnd
	tokEq
	tokNeq
	tokLt
	tokLeq
	tokGt
	tokGeq
	tokShiftLeft
	tokShiftRight
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokPercent
	tokNot
	tokBitNot
	tokIncr
	tokDecr
)

var tokenNames = map[tokenKind]string{
	tokEOF:        "end of file",
	tokIdent:      "identifier",
	tokInteger:    "integer constant",
	tokFloat:      "float constant",
	tokString:     "string constant",
	tokDefault:    "`default'",
	tokState:      "`state'",
	tokJump:       "`jump'",
	tokReturn:     "`return'",
	tokIf:         "`if'",
	tokElse:       "`else'",
	tokFor:        "`for'",
	tokDo:         "`do'",
	tokWhile:      "`while'",
	tokTypeName:   "type name",
	tokLParen:     "`('",
	tokRParen:     "`)'",
	tokLBrace:     "`{'",
	tokRBrace:     "`}'",
	tokLBracket:   "`['",
	tokRBracket:   "`]'",
	tokSemicolon:  "`;'",
	tokComma:      "`,'",
	tokPeriod:     "`.'",
	tokAt:         "`@'",
	tokAssign:     "`='",
	tokAddAssign:  "`+='",
	tokSubAssign:  "`-='",
	tokMulAssign:  "`*='",
	tokDivAssign:  "`/='",
	tokModAssign:  "`%='",
	tokOr:         "`||'",
	tokAnd:        "`&&'",
	tokBitOr:      "`|'",
	tokBitXor:     "`^'",
	tokBitAnd:     "`&'",
	tokEq:         "`=='",
	tokNeq:        "`!='",
	tokLt:         "`<'",
	tokLeq:        "`<='",
	tokGt:         "`>'",
	tokGeq:        "`>='",
	tokShiftLeft:  "`<<'",
	tokShiftRight: "`>>'",
	tokPlus:       "`+'",
	tokMinus:      "`-'",
	tokStar:       "`*'",
	tokSlash:      "`/'",
	tokPercent:    "`%'",
	tokNot:        "`!'",
	tokBitNot:     "`~'",
	tokIncr:       "`++'",
	tokDecr:       "`--'",
}

func (k tokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	return "token"
}

// token is one lexeme with its source span and literal payload.
type token struct {
	kind tokenKind
	loc  ast.Loc
	text string
	ival int32
	fval float32
	typ  ast.Type // for tokTypeName
}

var keywords = map[string]tokenKind{
	"default": tokDefault,
	"state":   tokState,
	"jump":    tokJump,
	"return":  tokReturn,
	"if":      tokIf,
	"else":    tokElse,
	"for":     tokFor,
	"do":      tokDo,
	"while":   tokWhile,
}
