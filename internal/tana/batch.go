package tana

import (
	"context"

	"github.com/itsmostafa/tanaline/internal/node"
)

// Submitter is what a Batch submits through; *Client implements it.
type Submitter interface {
	Submit(ctx context.Context, targetID string, nodes ...*node.Node) (*node.Node, error)
}

// Batch collects nodes for one target and submits them together.
type Batch struct {
	submitter Submitter
	target    string
	children  []*node.Node
}

// NewBatch returns a batch holding children.
func NewBatch(s Submitter, children ...*node.Node) *Batch {
	return &Batch{submitter: s, children: children}
}

// SetTarget sets the node the children are created under.
func (b *Batch) SetTarget(targetID string) *Batch {
	b.target = targetID
	return b
}

// TargetInbox targets the workspace inbox.
func (b *Batch) TargetInbox() *Batch {
	return b.SetTarget(TargetInbox)
}

// TargetSchema targets the schema node.
func (b *Batch) TargetSchema() *Batch {
	return b.SetTarget(TargetSchema)
}

// Target returns the current target.
func (b *Batch) Target() string {
	return b.target
}

// AddChildren queues nodes.
func (b *Batch) AddChildren(children ...*node.Node) *Batch {
	b.children = append(b.children, children...)
	return b
}

// AddStrings queues plain text nodes.
func (b *Batch) AddStrings(names ...string) *Batch {
	return b.AddChildren(node.Texts(names...)...)
}

// Len is the number of queued nodes.
func (b *Batch) Len() int {
	return len(b.children)
}

// Clear drops the queued nodes.
func (b *Batch) Clear() {
	b.children = nil
}

// Payload returns the request document that Submit would send.
func (b *Batch) Payload(opts ...node.EncodeOption) (map[string]any, error) {
	docs, err := node.EncodeAll(b.children, opts...)
	if err != nil {
		return nil, err
	}
	payload := map[string]any{"nodes": docs}
	if b.target != "" {
		payload["targetNodeId"] = b.target
	}
	return payload, nil
}

// Submit sends the queued nodes. When clear is set the queue is emptied
// after a successful submission; on error it is always kept.
func (b *Batch) Submit(ctx context.Context, clear bool) (*node.Node, error) {
	created, err := b.submitter.Submit(ctx, b.target, b.children...)
	if err != nil {
		return nil, err
	}
	if clear {
		b.Clear()
	}
	return created, nil
}
