package format

import (
	"fmt"
	"strings"

	"github.com/secondlife/tailslide/ast"
)

// TreeDump renders the tree as indented lines, one node per line, with
// the discriminators, inferred type, identifier payloads and any cached
// constant value. It is a debugging aid; nothing parses it back.
func TreeDump(root *ast.Node) string {
	var b strings.Builder
	dumpNode(&b, root, 0)
	return b.String()
}

func dumpNode(b *strings.Builder, n *ast.Node, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(n.SubType().String())

	if name := n.Name(); name != "" {
		fmt.Fprintf(b, " %q", name)
	}
	if op := n.Operator(); op != ast.OpNone {
		fmt.Fprintf(b, " '%s'", op)
	}
	if n.Type() == ast.NodeConstant {
		fmt.Fprintf(b, " = %s", constantText(n))
	}
	if t := n.IType(); t != ast.TypeError {
		fmt.Fprintf(b, " [%s]", t)
	}
	if cv := n.ConstantValue(); cv != nil && cv != n {
		fmt.Fprintf(b, " (const %s)", constantText(cv))
	}
	if !n.Loc().Empty() {
		fmt.Fprintf(b, " @%s", n.Loc())
	}
	b.WriteByte('\n')

	for _, child := range n.Children() {
		dumpNode(b, child, depth+1)
	}
}

func constantText(c *ast.Node) string {
	p := &printer{}
	return p.constant(c)
}
