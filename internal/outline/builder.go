// Package outline rebuilds node trees from flat, level annotated text: slide
// outline levels, table expansions and free form meeting notes.
package outline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/itsmostafa/tanaline/internal/logging"
	"github.com/itsmostafa/tanaline/internal/node"
)

// ErrNoAncestor means no parent could be found for an entry. The root is
// always seeded, so seeing it is a bug in the builder.
var ErrNoAncestor = errors.New("outline: no ancestor for entry")

// DefaultTableMarker is the entry text that starts an expanded table.
const DefaultTableMarker = "HyaHwYWkdPXK"

// Entry is one line of outline input.
type Entry struct {
	Text  string `json:"text" yaml:"text"`
	Level int    `json:"level" yaml:"level"`
}

// FieldResolver maps a field name to the attribute id of its definition.
type FieldResolver interface {
	ResolveField(ctx context.Context, name string) (string, error)
}

// FieldResolverFunc adapts a function to FieldResolver.
type FieldResolverFunc func(ctx context.Context, name string) (string, error)

// ResolveField implements FieldResolver.
func (f FieldResolverFunc) ResolveField(ctx context.Context, name string) (string, error) {
	return f(ctx, name)
}

// Builder turns (text, level) entries into a forest. A skipped level attaches
// the entry to the nearest populated ancestor; no placeholders are created.
type Builder struct {
	fields      FieldResolver
	tableMarker string
	tableTag    string
	logger      logging.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithFieldResolver sets how "Name::" entries become field nodes. Without one
// such entries stay plain text.
func WithFieldResolver(r FieldResolver) BuilderOption {
	return func(b *Builder) { b.fields = r }
}

// WithTableMarker overrides DefaultTableMarker.
func WithTableMarker(marker string) BuilderOption {
	return func(b *Builder) { b.tableMarker = marker }
}

// WithTableTag sets the supertag put on table nodes. Defaults to the marker.
func WithTableTag(id string) BuilderOption {
	return func(b *Builder) { b.tableTag = id }
}

// WithLogger sets the builder logger.
func WithLogger(l logging.Logger) BuilderOption {
	return func(b *Builder) { b.logger = l }
}

// NewBuilder returns a Builder configured by opts.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{tableMarker: DefaultTableMarker}
	for _, opt := range opts {
		opt(b)
	}
	if b.tableTag == "" {
		b.tableTag = b.tableMarker
	}
	b.logger = logging.OrNoOp(b.logger)
	return b
}

// Build returns the top level nodes implied by entries, in input order.
func (b *Builder) Build(ctx context.Context, entries []Entry) ([]*node.Node, error) {
	root := node.NewGeneric("")
	idx := newLevelIndex(root)

	for i, entry := range entries {
		if strings.TrimSpace(entry.Text) == "" {
			continue
		}
		n, err := b.classify(ctx, entry.Text)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		if err := idx.place(n, entry.Level); err != nil {
			return nil, fmt.Errorf("entry %d (%q): %w", i, entry.Text, err)
		}
	}

	b.logger.Debug("outline built", "entries", len(entries), "top_level", len(root.Children))
	return root.Children, nil
}

func (b *Builder) classify(ctx context.Context, text string) (*node.Node, error) {
	switch {
	case text == b.tableMarker:
		return node.NewPlain("Table").AddTags(b.tableTag), nil
	case strings.HasSuffix(text, "::") && b.fields != nil:
		name := strings.TrimSpace(strings.TrimSuffix(text, "::"))
		id, err := b.fields.ResolveField(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve field %q: %w", name, err)
		}
		return node.NewField(id), nil
	default:
		return node.NewPlain(text), nil
	}
}

// levelIndex holds the current path from the root as (level, node) pairs
// with strictly increasing levels. The root stands for every level below
// zero. Memory grows with path length, not with level numbers.
type levelIndex struct {
	root *node.Node
	path []placed
}

type placed struct {
	level int
	node  *node.Node
}

func newLevelIndex(root *node.Node) *levelIndex {
	return &levelIndex{root: root, path: make([]placed, 0, 16)}
}

// resolveParent drops path entries at level or deeper, which belong to the
// previous branch, and returns the nearest remaining ancestor.
func (li *levelIndex) resolveParent(level int) (*node.Node, error) {
	for len(li.path) > 0 && li.path[len(li.path)-1].level >= level {
		li.path = li.path[:len(li.path)-1]
	}
	if len(li.path) > 0 {
		return li.path[len(li.path)-1].node, nil
	}
	if li.root == nil {
		return nil, ErrNoAncestor
	}
	return li.root, nil
}

func (li *levelIndex) place(n *node.Node, level int) error {
	level = max(level, 0)
	parent, err := li.resolveParent(level)
	if err != nil {
		return err
	}
	parent.Append(n)
	li.path = append(li.path, placed{level: level, node: n})
	return nil
}
