package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collectingVisitor struct {
	order []NodeSubType
}

func (v *collectingVisitor) Visit(n *Node) bool {
	v.order = append(v.order, n.SubType())
	return true
}

type departingVisitor struct {
	collectingVisitor
	departs []NodeSubType
}

func (v *departingVisitor) Depart(n *Node) {
	v.departs = append(v.departs, n.SubType())
}

func TestWalkPreOrder(t *testing.T) {
	alloc := NewAllocator()
	root := alloc.NewListConstant(
		alloc.NewIntegerConstant(1),
		alloc.NewListConstant(alloc.NewFloatConstant(2)),
	)

	v := &collectingVisitor{}
	Walk(v, root)
	assert.Equal(t, []NodeSubType{
		SubListConstant, SubIntegerConstant, SubListConstant, SubFloatConstant,
	}, v.order)
}

func TestWalkPostOrderHook(t *testing.T) {
	alloc := NewAllocator()
	root := alloc.NewListConstant(alloc.NewIntegerConstant(1))

	v := &departingVisitor{}
	Walk(v, root)
	// Children depart before their parent.
	assert.Equal(t, []NodeSubType{SubIntegerConstant, SubListConstant}, v.departs)
}

type pruningVisitor struct {
	order []NodeSubType
}

func (v *pruningVisitor) Visit(n *Node) bool {
	v.order = append(v.order, n.SubType())
	return n.SubType() != SubListConstant || n.Parent() == nil
}

func TestWalkSkipsSubtreeOnFalse(t *testing.T) {
	alloc := NewAllocator()
	inner := alloc.NewListConstant(alloc.NewIntegerConstant(7))
	root := alloc.NewListConstant(inner, alloc.NewStringConstant("s"))

	v := &pruningVisitor{}
	Walk(v, root)
	// The inner list is visited but its children are not.
	assert.Equal(t, []NodeSubType{
		SubListConstant, SubListConstant, SubStringConstant,
	}, v.order)
}

// replacingVisitor swaps every integer constant for a string constant in
// its Depart hook, the pattern mutation passes follow.
type replacingVisitor struct {
	alloc *Allocator
}

func (v *replacingVisitor) Visit(n *Node) bool { return true }

func (v *replacingVisitor) Depart(n *Node) {
	if n.SubType() == SubIntegerConstant && n.Parent() != nil {
		ReplaceNode(n, v.alloc.NewStringConstant("swapped"))
	}
}

func TestWalkSurvivesReplacementInDepart(t *testing.T) {
	alloc := NewAllocator()
	root := alloc.NewListConstant(
		alloc.NewIntegerConstant(1),
		alloc.NewIntegerConstant(2),
		alloc.NewFloatConstant(3),
	)

	Walk(&replacingVisitor{alloc: alloc}, root)

	require.Equal(t, 3, root.NumChildren())
	assert.Equal(t, SubStringConstant, root.Child(0).SubType())
	assert.Equal(t, SubStringConstant, root.Child(1).SubType())
	assert.Equal(t, SubFloatConstant, root.Child(2).SubType())
	// Slots stay consistent after the splices.
	for i, c := range root.Children() {
		assert.Equal(t, i, c.Slot())
	}
}
