package outline

import (
	"fmt"

	"github.com/itsmostafa/tanaline/internal/node"
)

// Padder attaches nodes by raw indent under a fixed root. When a node sits
// more than one level deeper than the previous one, Dummy nodes are inserted
// for every skipped level so the tree keeps one level per indent.
type Padder struct {
	// path[i] is the node at indent i-1; path[0] is the root (indent -1).
	path []*node.Node
	cur  int
}

// NewPadder returns a Padder adding under root.
func NewPadder(root *node.Node) *Padder {
	return &Padder{path: []*node.Node{root}, cur: -1}
}

// Indent is the effective indent of the previous node, -1 before any.
func (p *Padder) Indent() int {
	return p.cur
}

// Add places n at indent.
func (p *Padder) Add(n *node.Node, indent int) error {
	indent = max(indent, 0)
	lineIndent := indent
	parentIndent := lineIndent - 1

	// wrapped[k] ends up at indent-k
	var wrapped []*node.Node
	cur := n
	for parentIndent > p.cur {
		wrapped = append(wrapped, cur)
		cur = node.NewDummy(cur)
		lineIndent--
		parentIndent--
	}

	if parentIndent+1 >= len(p.path) || p.path[parentIndent+1] == nil {
		return fmt.Errorf("indent %d: %w", indent, ErrNoAncestor)
	}
	p.path[parentIndent+1].Append(cur)

	p.path = p.path[:lineIndent+1]
	p.path = append(p.path, cur)
	for i := len(wrapped) - 1; i >= 0; i-- {
		p.path = append(p.path, wrapped[i])
	}
	p.cur = indent
	return nil
}
