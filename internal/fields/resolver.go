package fields

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/itsmostafa/tanaline/internal/logging"
	"github.com/itsmostafa/tanaline/internal/node"
)

// ErrUnknownField is returned for names not in the store when minting is off.
var ErrUnknownField = errors.New("unknown field")

// Submitter posts nodes under a target node and returns the created tree.
type Submitter interface {
	Submit(ctx context.Context, targetID string, nodes ...*node.Node) (*node.Node, error)
}

// Resolver turns field names into attribute ids.
type Resolver struct {
	store     Store
	submitter Submitter
	// definitions are created under parentID tagged with fieldTag
	parentID string
	fieldTag string
	mint     bool
	logger   logging.Logger

	mu    sync.Mutex
	names map[string]string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMinting creates missing fields under parentID, tagged with fieldTag.
func WithMinting(s Submitter, parentID, fieldTag string) Option {
	return func(r *Resolver) {
		r.submitter = s
		r.parentID = parentID
		r.fieldTag = fieldTag
		r.mint = s != nil
	}
}

// WithNames seeds the id to display name table used by LookupName.
func WithNames(names map[string]string) Option {
	return func(r *Resolver) {
		for id, name := range names {
			r.names[id] = name
		}
	}
}

// WithLogger sets the resolver logger.
func WithLogger(l logging.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// NewResolver returns a resolver reading ids from store.
func NewResolver(store Store, opts ...Option) *Resolver {
	r := &Resolver{store: store, names: map[string]string{}}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.OrNoOp(r.logger)
	return r
}

// ResolveField returns the attribute id for name, minting a definition when
// the store has none and minting is enabled.
func (r *Resolver) ResolveField(ctx context.Context, name string) (string, error) {
	key := Normalize(name)
	id, ok, err := r.store.Get(key)
	if err != nil {
		return "", err
	}
	if ok {
		r.remember(id, name)
		return id, nil
	}
	if !r.mint {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
	}

	definition := node.NewPlain(name).AddTags(r.fieldTag)
	created, err := r.submitter.Submit(ctx, r.parentID, definition)
	if err != nil {
		return "", fmt.Errorf("failed to create field %q: %w", name, err)
	}
	if created == nil || len(created.Children) == 0 || created.Children[0].NodeID == "" {
		return "", fmt.Errorf("failed to create field %q: response has no node id", name)
	}
	id = created.Children[0].NodeID

	if err := r.store.Put(key, id); err != nil {
		return "", err
	}
	r.logger.Info("created field", "name", name, "id", id)
	r.remember(id, name)
	return id, nil
}

// LookupName implements node.NameLookup for fields resolved so far and the
// seeded names.
func (r *Resolver) LookupName(id string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name, ok := r.names[id]
	return name, ok
}

func (r *Resolver) remember(id, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.names[id]; !ok {
		r.names[id] = name
	}
}
