package relation

import (
	"context"
	"fmt"
	"sync"

	"opscal/core/errors"

	"github.com/google/uuid"
)

// Kind discriminates the entity type behind a generic relation target.
// The schedule core never assumes anything about the target beyond its
// (kind, id) pair; resolution goes through the registry.
type Kind string

const (
	KindUser    Kind = "user"
	KindWorker  Kind = "worker"
	KindProject Kind = "project"
)

// Target is a resolved relation target: the stable (kind, id) pair plus a
// display label. The relation does not own the target and a dangling pair
// simply fails to resolve.
type Target struct {
	Kind  Kind      `json:"kind"`
	ID    uuid.UUID `json:"id"`
	Label string    `json:"label"`
}

func (t Target) String() string {
	return fmt.Sprintf("%s:%s", t.Kind, t.ID)
}

// FetchFunc loads a target of one kind by id.
type FetchFunc func(ctx context.Context, id uuid.UUID) (Target, error)

// Registry maps kinds to fetch functions. Modules register their kinds
// during Init; the calendar/event services resolve through it.
type Registry struct {
	mu       sync.RWMutex
	fetchers map[Kind]FetchFunc
}

func NewRegistry() *Registry {
	return &Registry{fetchers: make(map[Kind]FetchFunc)}
}

func (r *Registry) Register(kind Kind, fetch FetchFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetchers[kind] = fetch
}

func (r *Registry) Resolve(ctx context.Context, kind Kind, id uuid.UUID) (Target, *errors.AppError) {
	r.mu.RLock()
	fetch, ok := r.fetchers[kind]
	r.mu.RUnlock()
	if !ok {
		return Target{}, errors.NewAppError(errors.ErrNotFound, fmt.Sprintf("unknown relation target kind %q", kind), nil)
	}
	target, err := fetch(ctx, id)
	if err != nil {
		return Target{}, errors.NewAppError(errors.ErrNotFound, fmt.Sprintf("relation target %s:%s not found", kind, id), nil)
	}
	return target, nil
}

// Known reports whether a kind has a registered fetcher.
func (r *Registry) Known(kind Kind) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.fetchers[kind]
	return ok
}
