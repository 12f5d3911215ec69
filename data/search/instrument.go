package search

import "context"

// Collector receives search metrics
type Collector interface {
	SearchQuery(engine string, err error)
	SearchIndex(engine, operation string)
}

// NoOpCollector implementation
type NoOpCollector struct{}

func (NoOpCollector) SearchQuery(string, error)  {}
func (NoOpCollector) SearchIndex(string, string) {}

type instrumented struct {
	Adapter
	collector Collector
}

// Instrument reports queries and index writes of next to collector.
func Instrument(next Adapter, collector Collector) Adapter {
	if collector == nil {
		return next
	}
	return &instrumented{Adapter: next, collector: collector}
}

func (a *instrumented) Index(ctx context.Context, req *Request) (*WriteResult, error) {
	res, err := a.Adapter.Index(ctx, req)
	if err == nil {
		a.collector.SearchIndex(string(a.Type()), "index")
	}
	return res, err
}

func (a *instrumented) Delete(ctx context.Context, req *Request) (*WriteResult, error) {
	res, err := a.Adapter.Delete(ctx, req)
	if err == nil {
		a.collector.SearchIndex(string(a.Type()), "delete")
	}
	return res, err
}

func (a *instrumented) Search(ctx context.Context, req *Request) (*Result, error) {
	res, err := a.Adapter.Search(ctx, req)
	a.collector.SearchQuery(string(a.Type()), err)
	return res, err
}
