package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when an entity does not exist.
	ErrNotFound = errors.New("entity not found")
	// ErrMissingID is returned when an entity is written without an id.
	ErrMissingID = errors.New("entity id is required")
	// ErrMissingName is returned when an entity has no type name.
	ErrMissingName = errors.New("entity name is required")
)

// Entity is a record in the authoritative store. Base is the namespace
// and Name the entity type; together they scope the id.
type Entity struct {
	ID     string         `json:"id" bson:"_id"`
	Base   string         `json:"base" bson:"base"`
	Name   string         `json:"name" bson:"name"`
	Fields map[string]any `json:"fields" bson:"fields"`
}

// Clone returns a copy whose field map can be modified freely.
func (e *Entity) Clone() *Entity {
	if e == nil {
		return nil
	}
	out := *e
	if e.Fields != nil {
		out.Fields = make(map[string]any, len(e.Fields))
		for k, v := range e.Fields {
			out.Fields[k] = v
		}
	}
	return &out
}

// Canon returns the qualified type, "base/name", or just name without a base.
func (e *Entity) Canon() string {
	return Canon(e.Base, e.Name)
}

// Canon joins a namespace and a type name.
func Canon(base, name string) string {
	if base == "" {
		return name
	}
	return base + "/" + name
}

// Validate checks the fields every store requires.
func (e *Entity) Validate() error {
	if e == nil || e.Name == "" {
		return ErrMissingName
	}
	if strings.TrimSpace(e.ID) == "" {
		return ErrMissingID
	}
	return nil
}

// Store is the authoritative entity store.
// Implementations must be safe for concurrent use.
type Store interface {
	// Name returns the driver identifier.
	Name() string
	// Save inserts or replaces the entity and returns what was stored.
	Save(ctx context.Context, e *Entity) (*Entity, error)
	// Load returns ErrNotFound when the entity is absent.
	Load(ctx context.Context, base, name, id string) (*Entity, error)
	// Remove returns ErrNotFound when the entity is absent.
	Remove(ctx context.Context, base, name, id string) error
	// List returns the entities among ids that exist, in no particular order.
	List(ctx context.Context, base, name string, ids []string) ([]*Entity, error)
	Close() error
}

// Collector receives store metrics
type Collector interface {
	StoreOperation(driver, operation string, err error)
}

type instrumented struct {
	Store
	collector Collector
}

// Instrument reports every operation of next to collector.
func Instrument(next Store, collector Collector) Store {
	if collector == nil {
		return next
	}
	return &instrumented{Store: next, collector: collector}
}

func (s *instrumented) Save(ctx context.Context, e *Entity) (*Entity, error) {
	out, err := s.Store.Save(ctx, e)
	s.collector.StoreOperation(s.Name(), "save", err)
	return out, err
}

func (s *instrumented) Load(ctx context.Context, base, name, id string) (*Entity, error) {
	out, err := s.Store.Load(ctx, base, name, id)
	s.collector.StoreOperation(s.Name(), "load", ignoreNotFound(err))
	return out, err
}

func (s *instrumented) Remove(ctx context.Context, base, name, id string) error {
	err := s.Store.Remove(ctx, base, name, id)
	s.collector.StoreOperation(s.Name(), "remove", ignoreNotFound(err))
	return err
}

func (s *instrumented) List(ctx context.Context, base, name string, ids []string) ([]*Entity, error) {
	out, err := s.Store.List(ctx, base, name, ids)
	s.collector.StoreOperation(s.Name(), "list", err)
	return out, err
}

func ignoreNotFound(err error) error {
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

// NotFoundError reports a missing entity with its qualified type.
func NotFoundError(base, name, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, Canon(base, name), id)
}
