package command

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrNoHandler is returned by Act when no handler matches.
	ErrNoHandler = errors.New("no handler registered")
	// ErrDuplicate is returned by Add when the pattern is taken.
	ErrDuplicate = errors.New("handler already registered")
)

// Handler executes a command.
type Handler func(ctx context.Context, cmd *Command) (any, error)

// Registry dispatches commands to handlers by pattern.
type Registry struct {
	mu       sync.RWMutex
	handlers map[Pattern]Handler
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[Pattern]Handler)}
}

// Add registers h for p.
func (r *Registry) Add(p Pattern, h Handler) error {
	if h == nil {
		return fmt.Errorf("%s: handler is nil", p)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[p]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicate, p)
	}
	r.handlers[p] = h
	return nil
}

// Wrap replaces the handler for p with wrap(prior). prior is whatever
// Act would have run for p before the call; when nothing matched, prior
// fails with ErrNoHandler. Handlers added after Wrap are not seen by
// prior.
func (r *Registry) Wrap(p Pattern, wrap func(prior Handler) Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prior, ok := r.lookupLocked(p)
	if !ok {
		prior = func(ctx context.Context, cmd *Command) (any, error) {
			return nil, fmt.Errorf("%w: %s", ErrNoHandler, p)
		}
	}

	h := wrap(prior)
	if h == nil {
		return fmt.Errorf("%s: wrapped handler is nil", p)
	}
	r.handlers[p] = h
	return nil
}

// Has reports whether a handler is registered for exactly p.
func (r *Registry) Has(p Pattern) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[p]
	return ok
}

// Act runs the handler for cmd. A handler registered for the command's
// base wins over one registered for every base.
func (r *Registry) Act(ctx context.Context, cmd *Command) (any, error) {
	if cmd == nil {
		return nil, fmt.Errorf("%w: nil command", ErrNoHandler)
	}

	r.mu.RLock()
	h, ok := r.lookupLocked(cmd.Pattern())
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoHandler, cmd.Pattern())
	}
	return h(ctx, cmd)
}

func (r *Registry) lookupLocked(p Pattern) (Handler, bool) {
	if h, ok := r.handlers[p]; ok {
		return h, true
	}
	if p.Base != "" {
		p.Base = ""
		h, ok := r.handlers[p]
		return h, ok
	}
	return nil, false
}
