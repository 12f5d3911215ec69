package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/ncobase/searchsync/config"
	"github.com/sony/gobreaker"
)

// breakerAdapter guards an Adapter with a circuit breaker.
type breakerAdapter struct {
	next Adapter
	cb   *gobreaker.CircuitBreaker
}

// WithBreaker wraps next in a circuit breaker. Negative results such as
// ErrNotFound do not count as failures.
func WithBreaker(next Adapter, cfg *config.Breaker) Adapter {
	if cfg == nil || !cfg.Enabled {
		return next
	}
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        string(next.Type()),
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || isNegative(err)
		},
	})
	return &breakerAdapter{next: next, cb: cb}
}

func isNegative(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrIndexExists) || errors.Is(err, ErrIndexNotFound)
}

func execute[T any](b *breakerAdapter, fn func() (T, error)) (T, error) {
	var zero T
	out, err := b.cb.Execute(func() (any, error) {
		return fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return zero, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
	}
	if err != nil {
		return zero, err
	}
	v, _ := out.(T)
	return v, nil
}

func (b *breakerAdapter) Type() Engine { return b.next.Type() }

func (b *breakerAdapter) Index(ctx context.Context, req *Request) (*WriteResult, error) {
	return execute(b, func() (*WriteResult, error) { return b.next.Index(ctx, req) })
}

func (b *breakerAdapter) Get(ctx context.Context, req *Request) (*Document, error) {
	return execute(b, func() (*Document, error) { return b.next.Get(ctx, req) })
}

func (b *breakerAdapter) Delete(ctx context.Context, req *Request) (*WriteResult, error) {
	return execute(b, func() (*WriteResult, error) { return b.next.Delete(ctx, req) })
}

func (b *breakerAdapter) Search(ctx context.Context, req *Request) (*Result, error) {
	return execute(b, func() (*Result, error) { return b.next.Search(ctx, req) })
}

func (b *breakerAdapter) IndexExists(ctx context.Context, index string) (bool, error) {
	return execute(b, func() (bool, error) { return b.next.IndexExists(ctx, index) })
}

func (b *breakerAdapter) CreateIndex(ctx context.Context, index string) error {
	_, err := execute(b, func() (struct{}, error) { return struct{}{}, b.next.CreateIndex(ctx, index) })
	return err
}

func (b *breakerAdapter) DeleteIndex(ctx context.Context, index string) error {
	_, err := execute(b, func() (struct{}, error) { return struct{}{}, b.next.DeleteIndex(ctx, index) })
	return err
}

func (b *breakerAdapter) Health(ctx context.Context) error {
	_, err := execute(b, func() (struct{}, error) { return struct{}{}, b.next.Health(ctx) })
	return err
}
