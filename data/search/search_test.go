package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ncobase/searchsync/config"
)

// flakyAdapter fails every call with err until err is cleared.
type flakyAdapter struct {
	err   error
	calls int
}

func (a *flakyAdapter) Type() Engine { return Engine("flaky") }
func (a *flakyAdapter) Index(ctx context.Context, req *Request) (*WriteResult, error) {
	a.calls++
	if a.err != nil {
		return nil, a.err
	}
	return &WriteResult{ID: req.ID, Result: ResultCreated}, nil
}
func (a *flakyAdapter) Get(ctx context.Context, req *Request) (*Document, error) {
	a.calls++
	return nil, ErrNotFound
}
func (a *flakyAdapter) Delete(ctx context.Context, req *Request) (*WriteResult, error) {
	a.calls++
	return nil, a.err
}
func (a *flakyAdapter) Search(ctx context.Context, req *Request) (*Result, error) {
	a.calls++
	return &Result{}, a.err
}
func (a *flakyAdapter) IndexExists(ctx context.Context, index string) (bool, error) {
	a.calls++
	return true, a.err
}
func (a *flakyAdapter) CreateIndex(ctx context.Context, index string) error { a.calls++; return a.err }
func (a *flakyAdapter) DeleteIndex(ctx context.Context, index string) error { a.calls++; return a.err }
func (a *flakyAdapter) Health(ctx context.Context) error                    { a.calls++; return a.err }

func TestDocumentBody(t *testing.T) {
	req := &Request{Type: "user", Body: map[string]any{"_id": "1", "name": "ann"}}
	doc := DocumentBody(req)

	if _, ok := doc[IDField]; ok {
		t.Error("expected _id to be stripped")
	}
	if doc[TypeField] != "user" || doc["name"] != "ann" {
		t.Errorf("unexpected document %v", doc)
	}
	if _, ok := req.Body[TypeField]; ok {
		t.Error("request body was modified")
	}
}

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name  string
		body  map[string]any
		text  string
		terms int
	}{
		{"nil", nil, "", 0},
		{"match all", map[string]any{"query": map[string]any{"match_all": map[string]any{}}}, "", 0},
		{"query string", map[string]any{"query": map[string]any{"query_string": map[string]any{"query": "ann"}}}, "ann", 0},
		{"bool with type filter", WithTypeFilter(map[string]any{
			"query": map[string]any{"query_string": map[string]any{"query": "ann"}},
		}, "user"), "ann", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := ParseQuery(tt.body)
			if q.Text != tt.text {
				t.Errorf("expected text %q, got %q", tt.text, q.Text)
			}
			if len(q.Terms) != tt.terms {
				t.Errorf("expected %d terms, got %v", tt.terms, q.Terms)
			}
		})
	}
}

func TestParseQuery_Paging(t *testing.T) {
	q := ParseQuery(map[string]any{"from": 10, "size": float64(5)})
	if q.From != 10 || q.Size != 5 {
		t.Errorf("unexpected paging %d/%d", q.From, q.Size)
	}
}

func TestWithTypeFilter_NoQuery(t *testing.T) {
	body := WithTypeFilter(map[string]any{"size": 3}, "user")
	q := ParseQuery(body)
	if q.Terms[TypeField] != "user" {
		t.Errorf("expected type term, got %v", q.Terms)
	}
	if q.Size != 3 {
		t.Errorf("expected size to be kept, got %d", q.Size)
	}
}

func TestBreaker_Disabled(t *testing.T) {
	a := &flakyAdapter{}
	if got := WithBreaker(a, &config.Breaker{Enabled: false}); got != Adapter(a) {
		t.Error("expected adapter to be returned unchanged")
	}
}

func TestBreaker_OpensAfterFailures(t *testing.T) {
	a := &flakyAdapter{err: errors.New("connection refused")}
	b := WithBreaker(a, &config.Breaker{
		Enabled:          true,
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		FailureThreshold: 2,
	})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := b.Health(ctx); err == nil || errors.Is(err, ErrCircuitOpen) {
			t.Fatalf("call %d: expected backend error, got %v", i, err)
		}
	}

	err := b.Health(ctx)
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open, got %v", err)
	}
	if a.calls != 2 {
		t.Errorf("expected backend to be skipped while open, got %d calls", a.calls)
	}
}

func TestBreaker_NotFoundIsNotFailure(t *testing.T) {
	a := &flakyAdapter{}
	b := WithBreaker(a, &config.Breaker{Enabled: true, FailureThreshold: 1, Timeout: time.Minute})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := b.Get(ctx, &Request{ID: "x"}); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	}
	if _, err := b.Index(ctx, &Request{ID: "x"}); err != nil {
		t.Fatalf("expected breaker to stay closed, got %v", err)
	}
}

type countingCollector struct {
	queries, writes int
}

func (c *countingCollector) SearchQuery(string, error)  { c.queries++ }
func (c *countingCollector) SearchIndex(string, string) { c.writes++ }

func TestInstrument(t *testing.T) {
	c := &countingCollector{}
	a := Instrument(&flakyAdapter{}, c)
	ctx := context.Background()

	_, _ = a.Index(ctx, &Request{ID: "1"})
	_, _ = a.Search(ctx, &Request{})
	_, _ = a.Search(ctx, &Request{})

	if c.writes != 1 || c.queries != 2 {
		t.Errorf("unexpected counts writes=%d queries=%d", c.writes, c.queries)
	}
}

func TestAdapterFactoryRegistry(t *testing.T) {
	RegisterAdapterFactory(Engine("fake"), func(conn any, cfg *config.Search) (Adapter, error) {
		return &flakyAdapter{}, nil
	})

	factory, err := GetAdapterFactory(Engine("fake"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a, err := factory(nil, nil)
	if err != nil || a.Type() != Engine("flaky") {
		t.Fatalf("unexpected adapter %v, %v", a, err)
	}

	if _, err := GetAdapterFactory(Engine("missing")); err == nil {
		t.Error("expected error for unknown engine")
	}
}
