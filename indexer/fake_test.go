package indexer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ncobase/searchsync/config"
	"github.com/ncobase/searchsync/data/search"
	"github.com/ncobase/searchsync/data/store"
)

// fakeAdapter keeps documents in memory. Search returns hits, when set,
// otherwise every document of the requested index.
type fakeAdapter struct {
	mu      sync.Mutex
	indices map[string]map[string]map[string]any
	hits    []search.Hit

	existsErr error
	createErr error
	indexErr  error
	deleteErr error
	searchErr error

	creates   int
	lastIndex *search.Request
}

func newFakeAdapter() *fakeAdapter {
	return &fakeAdapter{indices: make(map[string]map[string]map[string]any)}
}

func (f *fakeAdapter) Type() search.Engine { return "fake" }

func (f *fakeAdapter) Index(ctx context.Context, req *search.Request) (*search.WriteResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.indexErr != nil {
		return nil, f.indexErr
	}
	f.lastIndex = req
	docs, ok := f.indices[req.Index]
	if !ok {
		docs = make(map[string]map[string]any)
		f.indices[req.Index] = docs
	}
	result := search.ResultCreated
	if _, ok := docs[req.ID]; ok {
		result = search.ResultUpdated
	}
	docs[req.ID] = search.DocumentBody(req)
	return &search.WriteResult{Index: req.Index, ID: req.ID, Result: result, Version: 1}, nil
}

func (f *fakeAdapter) Get(ctx context.Context, req *search.Request) (*search.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.indices[req.Index][req.ID]
	if !ok {
		return nil, search.ErrNotFound
	}
	return &search.Document{Index: req.Index, Type: search.HitType(doc), ID: req.ID, Exists: true, Source: doc}, nil
}

func (f *fakeAdapter) Delete(ctx context.Context, req *search.Request) (*search.WriteResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	docs := f.indices[req.Index]
	if _, ok := docs[req.ID]; !ok {
		return nil, search.ErrNotFound
	}
	delete(docs, req.ID)
	return &search.WriteResult{Index: req.Index, ID: req.ID, Result: search.ResultDeleted}, nil
}

func (f *fakeAdapter) Search(ctx context.Context, req *search.Request) (*search.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if f.hits != nil {
		hits := append([]search.Hit(nil), f.hits...)
		return &search.Result{Total: int64(len(hits)), Hits: hits, Engine: "fake"}, nil
	}
	var hits []search.Hit
	for id, doc := range f.indices[req.Index] {
		if req.Type != "" && search.HitType(doc) != req.Type {
			continue
		}
		hits = append(hits, search.Hit{ID: id, Type: search.HitType(doc), Index: req.Index, Source: doc})
	}
	return &search.Result{Total: int64(len(hits)), Hits: hits, Engine: "fake"}, nil
}

func (f *fakeAdapter) IndexExists(ctx context.Context, index string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.indices[index]
	return ok, nil
}

func (f *fakeAdapter) CreateIndex(ctx context.Context, index string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.indices[index]; ok {
		return search.ErrIndexExists
	}
	f.creates++
	f.indices[index] = make(map[string]map[string]any)
	return nil
}

func (f *fakeAdapter) DeleteIndex(ctx context.Context, index string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.indices[index]; !ok {
		return search.ErrIndexNotFound
	}
	delete(f.indices, index)
	return nil
}

func (f *fakeAdapter) Health(ctx context.Context) error { return nil }

func (f *fakeAdapter) doc(index, id string) (map[string]any, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.indices[index][id]
	return doc, ok
}

// failingStore fails every List with err.
type failingStore struct {
	*store.Memory
	err error
}

func (s *failingStore) List(ctx context.Context, base, name string, ids []string) ([]*store.Entity, error) {
	return nil, s.err
}

var errBoom = errors.New("boom")

func testConfig(mutate func(*config.Search)) *config.Config {
	sc := &config.Search{
		Engine:     "fake",
		Connection: &config.Connection{Index: "test"},
	}
	if mutate != nil {
		mutate(sc)
	}
	return &config.Config{Search: sc}
}

func counterID() IDGenerator {
	n := 0
	var mu sync.Mutex
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("gen-%d", n)
	}
}
