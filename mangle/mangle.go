// Package mangle assigns deterministic short names to user symbols. The
// pretty-printer substitutes them when the matching toggle is on.
package mangle

import (
	"github.com/secondlife/tailslide/ast"
	"github.com/secondlife/tailslide/builtins"
)

// Options selects which symbol kinds get mangled names.
type Options struct {
	Functions bool
	Globals   bool
	Locals    bool
}

var reserved = map[string]bool{
	"default": true, "state": true, "jump": true, "return": true,
	"if": true, "else": true, "for": true, "do": true, "while": true,
	"integer": true, "float": true, "string": true, "key": true,
	"vector": true, "rotation": true, "quaternion": true, "list": true,
	"event": true, "print": true,
}

// MangleSymbols walks the script in declaration order and writes a short
// name onto every selected user symbol. The numbering is deterministic
// for a given tree, so repeated runs rename identically.
func MangleSymbols(root *ast.Node, opts Options) {
	m := &mangler{taken: make(map[string]bool)}

	for _, g := range root.Child(0).Children() {
		sym := g.Child(0).Symbol()
		if sym == nil {
			continue
		}
		switch {
		case g.SubType() == ast.SubGlobalVariable && opts.Globals:
			m.assign(sym)
		case g.SubType() == ast.SubGlobalFunction && opts.Functions:
			m.assign(sym)
		}
	}
	if opts.Locals {
		m.mangleLocals(root)
	}
}

func (m *mangler) mangleLocals(root *ast.Node) {
	lm := &localMangler{m: m}
	ast.Walk(lm, root)
}

type localMangler struct {
	m *mangler
}

func (lm *localMangler) Visit(n *ast.Node) bool {
	switch n.SubType() {
	case ast.SubDeclaration:
		if sym := n.Child(0).Symbol(); sym != nil {
			lm.m.assign(sym)
		}
	case ast.SubFunctionDec, ast.SubEventDec:
		for _, p := range n.Children() {
			if sym := p.Symbol(); sym != nil {
				lm.m.assign(sym)
			}
		}
	case ast.SubLabel:
		if sym := n.Child(0).Symbol(); sym != nil {
			lm.m.assign(sym)
		}
	}
	return true
}

type mangler struct {
	taken map[string]bool
	next  int
}

func (m *mangler) assign(sym *ast.Symbol) {
	if sym.Builtin || sym.Mangled != "" {
		return
	}
	for {
		name := shortName(m.next)
		m.next++
		if m.usable(name) {
			m.taken[name] = true
			sym.Mangled = name
			return
		}
	}
}

func (m *mangler) usable(name string) bool {
	if m.taken[name] || reserved[name] {
		return false
	}
	if _, isType := ast.ParseType(name); isType {
		return false
	}
	return builtins.LookupConstant(name) == nil &&
		builtins.LookupFunction(name) == nil &&
		builtins.LookupEvent(name) == nil
}

// shortName enumerates a, b, ..., z, aa, ab, ... like spreadsheet
// columns.
func shortName(i int) string {
	var buf []byte
	i++
	for i > 0 {
		i--
		buf = append([]byte{byte('a' + i%26)}, buf...)
		i /= 26
	}
	return string(buf)
}
