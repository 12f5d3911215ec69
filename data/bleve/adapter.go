package bleve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/ncobase/searchsync/config"
	"github.com/ncobase/searchsync/data/search"
	"github.com/spf13/cast"
)

// DefaultSize is the page size when the query body sets none.
const DefaultSize = 10

func init() {
	search.RegisterAdapterFactory(search.Bleve, func(conn any, _ *config.Search) (search.Adapter, error) {
		e, ok := conn.(*Engine)
		if !ok {
			return nil, fmt.Errorf("expected *bleve.Engine, got %T", conn)
		}
		return NewAdapter(e), nil
	})
}

// Adapter implements search.Adapter on an embedded Engine. Writing to a
// missing index creates it, as the DSL engines do.
type Adapter struct {
	engine *Engine
}

// NewAdapter creates an adapter
func NewAdapter(e *Engine) *Adapter {
	return &Adapter{engine: e}
}

func (a *Adapter) Type() search.Engine {
	return search.Bleve
}

func (a *Adapter) Index(ctx context.Context, req *search.Request) (*search.WriteResult, error) {
	if req.ID == "" {
		return nil, errors.New("bleve: document id is required")
	}
	idx, err := a.engine.open(req.Index, true)
	if err != nil {
		return nil, err
	}

	result := search.ResultCreated
	if _, err := a.Get(ctx, req); err == nil {
		result = search.ResultUpdated
	}

	body := search.DocumentBody(req)
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("error encoding document: %w", err)
	}
	doc := make(map[string]any, len(body)+1)
	for k, v := range body {
		doc[k] = v
	}
	doc[SourceField] = string(raw)

	if err := idx.Index(req.ID, doc); err != nil {
		return nil, fmt.Errorf("failed to index document %s: %w", req.ID, err)
	}
	return &search.WriteResult{Index: req.Index, ID: req.ID, Result: result}, nil
}

func (a *Adapter) Get(ctx context.Context, req *search.Request) (*search.Document, error) {
	idx, err := a.engine.open(req.Index, false)
	if errors.Is(err, errNoIndex) {
		return nil, search.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	sr := bleve.NewSearchRequest(query.NewDocIDQuery([]string{req.ID}))
	sr.Fields = []string{SourceField}
	res, err := idx.SearchInContext(ctx, sr)
	if err != nil {
		return nil, err
	}
	if len(res.Hits) == 0 {
		return nil, search.ErrNotFound
	}

	source, err := decodeSource(res.Hits[0].Fields)
	if err != nil {
		return nil, err
	}
	return &search.Document{
		Index:  req.Index,
		Type:   search.HitType(source),
		ID:     req.ID,
		Exists: true,
		Source: source,
	}, nil
}

func (a *Adapter) Delete(ctx context.Context, req *search.Request) (*search.WriteResult, error) {
	if _, err := a.Get(ctx, req); err != nil {
		return nil, err
	}
	idx, err := a.engine.open(req.Index, false)
	if err != nil {
		return nil, err
	}
	if err := idx.Delete(req.ID); err != nil {
		return nil, fmt.Errorf("failed to delete document %s: %w", req.ID, err)
	}
	return &search.WriteResult{Index: req.Index, ID: req.ID, Result: search.ResultDeleted}, nil
}

func (a *Adapter) Search(ctx context.Context, req *search.Request) (*search.Result, error) {
	idx, err := a.engine.open(req.Index, false)
	if errors.Is(err, errNoIndex) {
		return nil, fmt.Errorf("bleve: no such index %s", req.Index)
	}
	if err != nil {
		return nil, err
	}

	q := search.ParseQuery(req.Body)
	size := q.Size
	if size <= 0 {
		size = DefaultSize
	}
	sr := bleve.NewSearchRequestOptions(buildQuery(q, req.Type), size, q.From, false)
	sr.Fields = []string{SourceField}

	res, err := idx.SearchInContext(ctx, sr)
	if err != nil {
		return nil, err
	}

	hits := make([]search.Hit, 0, len(res.Hits))
	for _, hit := range res.Hits {
		source, err := decodeSource(hit.Fields)
		if err != nil {
			return nil, err
		}
		hits = append(hits, search.Hit{
			ID:     hit.ID,
			Type:   search.HitType(source),
			Index:  req.Index,
			Score:  hit.Score,
			Source: source,
		})
	}

	return &search.Result{
		Total:  int64(res.Total),
		Hits:   hits,
		Took:   res.Took,
		Engine: search.Bleve,
	}, nil
}

func (a *Adapter) IndexExists(ctx context.Context, index string) (bool, error) {
	return a.engine.Exists(index)
}

func (a *Adapter) CreateIndex(ctx context.Context, index string) error {
	return a.engine.Create(index)
}

func (a *Adapter) DeleteIndex(ctx context.Context, index string) error {
	return a.engine.Drop(index)
}

func (a *Adapter) Health(ctx context.Context) error {
	for _, name := range a.engine.Names() {
		idx, err := a.engine.open(name, false)
		if err != nil {
			return err
		}
		if _, err := idx.DocCount(); err != nil {
			return fmt.Errorf("index %s unhealthy: %w", name, err)
		}
	}
	return nil
}

// buildQuery combines the free text, term clauses and entity type into
// one conjunction. The type is matched exactly; other terms are analyzed.
func buildQuery(q search.Query, entityType string) query.Query {
	var text query.Query = bleve.NewMatchAllQuery()
	if q.Text != "" {
		text = bleve.NewQueryStringQuery(q.Text)
	}

	clauses := []query.Query{text}
	for field, v := range q.Terms {
		if field == search.TypeField {
			continue
		}
		m := bleve.NewMatchQuery(cast.ToString(v))
		m.SetField(field)
		clauses = append(clauses, m)
	}
	if t := cast.ToString(q.Terms[search.TypeField]); entityType == "" && t != "" {
		entityType = t
	}
	if entityType != "" {
		tq := bleve.NewTermQuery(entityType)
		tq.SetField(search.TypeField)
		clauses = append(clauses, tq)
	}

	if len(clauses) == 1 {
		return text
	}
	return bleve.NewConjunctionQuery(clauses...)
}

func decodeSource(fields map[string]any) (map[string]any, error) {
	raw, ok := fields[SourceField].(string)
	if !ok {
		return map[string]any{}, nil
	}
	var source map[string]any
	if err := json.Unmarshal([]byte(raw), &source); err != nil {
		return nil, fmt.Errorf("bleve: corrupt stored source: %w", err)
	}
	return source, nil
}
