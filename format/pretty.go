// Package format renders an analyzed script: canonical source via the
// pretty-printer, or an indented debug tree via the tree dumper. Both
// rely on the inferred types and constant caches left behind by the
// analysis passes.
package format

import (
	"fmt"
	"strings"

	"github.com/secondlife/tailslide/ast"
	"github.com/secondlife/tailslide/operations"
)

// PrettyOpts controls name substitution during pretty-printing. All-false
// renders the original names.
type PrettyOpts struct {
	MangleFuncNames   bool
	MangleGlobalNames bool
	MangleLocalNames  bool
	ShowUnmangled     bool
}

// PrettyPrint renders the script as canonical source.
func PrettyPrint(root *ast.Node, opts PrettyOpts) string {
	p := &printer{opts: opts}
	for _, g := range root.Child(0).Children() {
		p.global(g)
	}
	for _, s := range root.Child(1).Children() {
		p.state(s)
	}
	return p.b.String()
}

type printer struct {
	b      strings.Builder
	opts   PrettyOpts
	indent int
}

func (p *printer) line(format string, args ...any) {
	p.b.WriteString(strings.Repeat("    ", p.indent))
	fmt.Fprintf(&p.b, format, args...)
	p.b.WriteByte('\n')
}

// name picks the mangled or original name for a symbol occurrence.
func (p *printer) name(ident *ast.Node) string {
	sym := ident.Symbol()
	if sym == nil || sym.Mangled == "" {
		return ident.Name()
	}
	use := false
	switch sym.Kind {
	case ast.SymFunction:
		use = p.opts.MangleFuncNames
	case ast.SymVariable:
		if sym.Decl != nil && sym.Decl.SubType() == ast.SubGlobalVariable {
			use = p.opts.MangleGlobalNames
		} else {
			use = p.opts.MangleLocalNames
		}
	case ast.SymParameter, ast.SymEventParameter, ast.SymLabel:
		use = p.opts.MangleLocalNames
	}
	if !use {
		return ident.Name()
	}
	if p.opts.ShowUnmangled {
		return sym.Mangled + "/*" + ident.Name() + "*/"
	}
	return sym.Mangled
}

func (p *printer) global(g *ast.Node) {
	switch g.SubType() {
	case ast.SubGlobalVariable:
		if init := g.Child(1); init != nil {
			p.line("%s %s = %s;", g.DeclType(), p.name(g.Child(0)), p.expr(init))
		} else {
			p.line("%s %s;", g.DeclType(), p.name(g.Child(0)))
		}
	case ast.SubGlobalFunction:
		sig := p.paramList(g.Child(1))
		if g.DeclType() == ast.TypeVoid {
			p.line("%s(%s)", p.name(g.Child(0)), sig)
		} else {
			p.line("%s %s(%s)", g.DeclType(), p.name(g.Child(0)), sig)
		}
		p.block(g.Child(2))
	}
}

func (p *printer) paramList(params *ast.Node) string {
	parts := make([]string, 0, params.NumChildren())
	for _, param := range params.Children() {
		parts = append(parts, fmt.Sprintf("%s %s", param.DeclType(), p.name(param)))
	}
	return strings.Join(parts, ", ")
}

func (p *printer) state(s *ast.Node) {
	ident := s.Child(0)
	if ident.Name() == "default" {
		p.line("default")
	} else {
		p.line("state %s", ident.Name())
	}
	p.line("{")
	p.indent++
	for _, h := range s.Children()[1:] {
		p.line("%s(%s)", h.Child(0).Name(), p.paramList(h.Child(1)))
		p.block(h.Child(2))
	}
	p.indent--
	p.line("}")
}

func (p *printer) block(body *ast.Node) {
	p.line("{")
	p.indent++
	for _, stmt := range body.Children() {
		p.statement(stmt)
	}
	p.indent--
	p.line("}")
}

func (p *printer) statement(stmt *ast.Node) {
	switch stmt.SubType() {
	case ast.SubCompoundStatement:
		p.block(stmt)
	case ast.SubNopStatement:
		p.line(";")
	case ast.SubDeclaration:
		if init := stmt.Child(1); init != nil {
			p.line("%s %s = %s;", stmt.DeclType(), p.name(stmt.Child(0)), p.expr(init))
		} else {
			p.line("%s %s;", stmt.DeclType(), p.name(stmt.Child(0)))
		}
	case ast.SubExpressionStatement:
		p.line("%s;", p.expr(stmt.Child(0)))
	case ast.SubIfStatement:
		p.line("if (%s)", p.expr(stmt.Child(0)))
		p.branch(stmt.Child(1))
		if els := stmt.Child(2); els != nil {
			p.line("else")
			p.branch(els)
		}
	case ast.SubForStatement:
		p.line("for (%s; %s; %s)",
			p.exprList(stmt.Child(0)), p.expr(stmt.Child(1)), p.exprList(stmt.Child(2)))
		p.branch(stmt.Child(3))
	case ast.SubWhileStatement:
		p.line("while (%s)", p.expr(stmt.Child(0)))
		p.branch(stmt.Child(1))
	case ast.SubDoStatement:
		p.line("do")
		p.branch(stmt.Child(0))
		p.line("while (%s);", p.expr(stmt.Child(1)))
	case ast.SubReturnStatement:
		if expr := stmt.Child(0); expr != nil {
			p.line("return %s;", p.expr(expr))
		} else {
			p.line("return;")
		}
	case ast.SubJumpStatement:
		p.line("jump %s;", p.name(stmt.Child(0)))
	case ast.SubLabel:
		p.line("@%s;", p.name(stmt.Child(0)))
	case ast.SubStateStatement:
		p.line("state %s;", stmt.Child(0).Name())
	}
}

// branch prints a statement nested under a control header, wrapping
// non-compound bodies at one extra indent level.
func (p *printer) branch(stmt *ast.Node) {
	if stmt.SubType() == ast.SubCompoundStatement {
		p.block(stmt)
		return
	}
	p.indent++
	p.statement(stmt)
	p.indent--
}

func (p *printer) exprList(list *ast.Node) string {
	parts := make([]string, 0, list.NumChildren())
	for _, e := range list.Children() {
		parts = append(parts, p.expr(e))
	}
	return strings.Join(parts, ", ")
}

func (p *printer) expr(n *ast.Node) string {
	switch n.SubType() {
	case ast.SubConstantExpression:
		return p.constant(n.Child(0))
	case ast.SubParenthesisExpression:
		return "(" + p.expr(n.Child(0)) + ")"
	case ast.SubLValueExpression:
		if member := n.Child(1); member != nil {
			return p.name(n.Child(0)) + "." + member.Name()
		}
		return p.name(n.Child(0))
	case ast.SubBinaryExpression:
		return fmt.Sprintf("%s %s %s",
			p.operand(n, n.Child(0)), n.Operator(), p.operand(n, n.Child(1)))
	case ast.SubUnaryExpression:
		switch n.Operator() {
		case ast.OpPostIncr, ast.OpPostDecr:
			return p.operand(n, n.Child(0)) + n.Operator().String()
		}
		return n.Operator().String() + p.operand(n, n.Child(0))
	case ast.SubTypecastExpression:
		return fmt.Sprintf("(%s)%s", n.DeclType(), p.operand(n, n.Child(0)))
	case ast.SubVectorExpression, ast.SubQuaternionExpression:
		return "<" + p.exprListOf(n) + ">"
	case ast.SubListExpression:
		return "[" + p.exprListOf(n) + "]"
	case ast.SubFunctionExpression:
		parts := make([]string, 0, n.NumChildren()-1)
		for _, arg := range n.Children()[1:] {
			parts = append(parts, p.expr(arg))
		}
		return p.name(n.Child(0)) + "(" + strings.Join(parts, ", ") + ")"
	}
	return ""
}

func (p *printer) exprListOf(n *ast.Node) string {
	parts := make([]string, 0, n.NumChildren())
	for _, c := range n.Children() {
		parts = append(parts, p.expr(c))
	}
	return strings.Join(parts, ", ")
}

// operand parenthesizes a child whose binding is looser than its
// parent's.
func (p *printer) operand(parent, child *ast.Node) string {
	text := p.expr(child)
	if needsParens(parent, child) {
		return "(" + text + ")"
	}
	return text
}

func needsParens(parent, child *ast.Node) bool {
	if child.SubType() != ast.SubBinaryExpression {
		return false
	}
	if parent.SubType() == ast.SubBinaryExpression {
		return precedence(child.Operator()) < precedence(parent.Operator()) ||
			(child.Slot() == 1 && precedence(child.Operator()) == precedence(parent.Operator()))
	}
	// Unary and cast operators bind tighter than any binary operator.
	return true
}

func precedence(op ast.Operator) int {
	switch op {
	case ast.OpAssign, ast.OpAddAssign, ast.OpSubAssign, ast.OpMulAssign,
		ast.OpDivAssign, ast.OpModAssign:
		return 1
	case ast.OpOr:
		return 2
	case ast.OpAnd:
		return 3
	case ast.OpBitOr:
		return 4
	case ast.OpBitXor:
		return 5
	case ast.OpBitAnd:
		return 6
	case ast.OpEq, ast.OpNeq:
		return 7
	case ast.OpLt, ast.OpLeq, ast.OpGt, ast.OpGeq:
		return 8
	case ast.OpShiftLeft, ast.OpShiftRight:
		return 9
	case ast.OpAdd, ast.OpSub:
		return 10
	case ast.OpMul, ast.OpDiv, ast.OpMod:
		return 11
	}
	return 12
}

func (p *printer) constant(c *ast.Node) string {
	switch c.SubType() {
	case ast.SubIntegerConstant:
		return fmt.Sprintf("%d", c.IntValue())
	case ast.SubFloatConstant:
		return operations.FormatFloat(c.FloatValue())
	case ast.SubStringConstant:
		return quoteString(c.StringValue())
	case ast.SubKeyConstant:
		return quoteString(c.StringValue())
	case ast.SubVectorConstant:
		v := c.VectorValue()
		return fmt.Sprintf("<%s, %s, %s>",
			operations.FormatFloat(v[0]), operations.FormatFloat(v[1]), operations.FormatFloat(v[2]))
	case ast.SubQuaternionConstant:
		q := c.QuaternionValue()
		return fmt.Sprintf("<%s, %s, %s, %s>",
			operations.FormatFloat(q[0]), operations.FormatFloat(q[1]),
			operations.FormatFloat(q[2]), operations.FormatFloat(q[3]))
	case ast.SubListConstant:
		parts := make([]string, 0, c.NumChildren())
		for _, el := range c.Children() {
			parts = append(parts, p.constant(el))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return ""
}

func quoteString(s string) string {
	replacer := strings.NewReplacer("\\", "\\\\", "\"", "\\\"", "\n", "\\n")
	return "\"" + replacer.Replace(s) + "\""
}
