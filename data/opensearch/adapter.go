package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ncobase/searchsync/config"
	"github.com/ncobase/searchsync/data/opensearch/client"
	"github.com/ncobase/searchsync/data/search"
	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"
)

func init() {
	search.RegisterAdapterFactory(search.OpenSearch, func(conn any, _ *config.Search) (search.Adapter, error) {
		c, ok := conn.(*client.Client)
		if !ok {
			return nil, fmt.Errorf("expected *client.Client, got %T", conn)
		}
		return NewAdapter(c), nil
	})
}

// Adapter implements search.Adapter with the typed opensearchapi client.
type Adapter struct {
	client *client.Client
}

// NewAdapter creates an adapter
func NewAdapter(c *client.Client) *Adapter {
	return &Adapter{client: c}
}

func (a *Adapter) Type() search.Engine {
	return search.OpenSearch
}

func (a *Adapter) Index(ctx context.Context, req *search.Request) (*search.WriteResult, error) {
	body, err := json.Marshal(search.DocumentBody(req))
	if err != nil {
		return nil, fmt.Errorf("error encoding document: %w", err)
	}

	res, err := a.client.Index(ctx, opensearchapi.IndexReq{
		Index:      req.Index,
		DocumentID: req.ID,
		Body:       bytes.NewReader(body),
		Params:     opensearchapi.IndexParams{Refresh: refresh(req.Refresh)},
	})
	if err != nil {
		return nil, fmt.Errorf("opensearch indexing error: %w", err)
	}
	return &search.WriteResult{Index: res.Index, ID: res.ID, Result: res.Result, Version: int64(res.Version)}, nil
}

func (a *Adapter) Get(ctx context.Context, req *search.Request) (*search.Document, error) {
	res, err := a.client.Document.Get(ctx, opensearchapi.DocumentGetReq{Index: req.Index, DocumentID: req.ID})
	if res != nil && client.Status(res.Inspect().Response) == http.StatusNotFound {
		return nil, search.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("opensearch get error: %w", err)
	}
	if !res.Found {
		return nil, search.ErrNotFound
	}

	var source map[string]any
	if len(res.Source) > 0 {
		if err := json.Unmarshal(res.Source, &source); err != nil {
			return nil, fmt.Errorf("opensearch parsing error: %w", err)
		}
	}
	return &search.Document{
		Index:  res.Index,
		Type:   search.HitType(source),
		ID:     res.ID,
		Exists: true,
		Source: source,
	}, nil
}

func (a *Adapter) Delete(ctx context.Context, req *search.Request) (*search.WriteResult, error) {
	res, err := a.client.Document.Delete(ctx, opensearchapi.DocumentDeleteReq{
		Index:      req.Index,
		DocumentID: req.ID,
		Params:     opensearchapi.DocumentDeleteParams{Refresh: refresh(req.Refresh)},
	})
	if res != nil && client.Status(res.Inspect().Response) == http.StatusNotFound {
		return nil, search.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("opensearch deletion error: %w", err)
	}
	return &search.WriteResult{Index: res.Index, ID: res.ID, Result: res.Result, Version: int64(res.Version)}, nil
}

func (a *Adapter) Search(ctx context.Context, req *search.Request) (*search.Result, error) {
	body, err := json.Marshal(search.WithTypeFilter(req.Body, req.Type))
	if err != nil {
		return nil, fmt.Errorf("error encoding query: %w", err)
	}

	res, err := a.client.Search(ctx, &opensearchapi.SearchReq{
		Indices: []string{req.Index},
		Body:    bytes.NewReader(body),
	})
	if err != nil {
		return nil, fmt.Errorf("opensearch search error: %w", err)
	}

	hits := make([]search.Hit, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var source map[string]any
		if len(hit.Source) > 0 {
			if err := json.Unmarshal(hit.Source, &source); err != nil {
				return nil, fmt.Errorf("opensearch parsing error: %w", err)
			}
		}
		hits = append(hits, search.Hit{
			ID:     hit.ID,
			Type:   search.HitType(source),
			Index:  hit.Index,
			Score:  float64(hit.Score),
			Source: source,
		})
	}

	return &search.Result{
		Total:  int64(res.Hits.Total.Value),
		Hits:   hits,
		Took:   time.Duration(res.Took) * time.Millisecond,
		Engine: search.OpenSearch,
	}, nil
}

func (a *Adapter) IndexExists(ctx context.Context, index string) (bool, error) {
	res, err := a.client.Indices.Exists(ctx, opensearchapi.IndicesExistsReq{Indices: []string{index}})
	switch client.Status(res) {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("opensearch index exists error: %w", err)
	}
	return false, fmt.Errorf("opensearch index exists: unexpected status %d", client.Status(res))
}

func (a *Adapter) CreateIndex(ctx context.Context, index string) error {
	body, err := json.Marshal(search.IndexMapping)
	if err != nil {
		return err
	}
	_, err = a.client.Indices.Create(ctx, opensearchapi.IndicesCreateReq{Index: index, Body: bytes.NewReader(body)})
	if err == nil {
		return nil
	}
	if client.ErrorType(err) == "resource_already_exists_exception" {
		return search.ErrIndexExists
	}
	return fmt.Errorf("opensearch create index error: %w", err)
}

func (a *Adapter) DeleteIndex(ctx context.Context, index string) error {
	res, err := a.client.Indices.Delete(ctx, opensearchapi.IndicesDeleteReq{Indices: []string{index}})
	if err == nil {
		return nil
	}
	if client.ErrorType(err) == "index_not_found_exception" ||
		(res != nil && client.Status(res.Inspect().Response) == http.StatusNotFound) {
		return search.ErrIndexNotFound
	}
	return fmt.Errorf("opensearch delete index error: %w", err)
}

func (a *Adapter) Health(ctx context.Context) error {
	res, err := a.client.Cluster.Health(ctx, &opensearchapi.ClusterHealthReq{})
	if err != nil {
		return fmt.Errorf("opensearch health check error: %w", err)
	}
	if res.Status == "red" {
		return fmt.Errorf("opensearch cluster status %s", res.Status)
	}
	return nil
}

func refresh(on bool) string {
	if on {
		return "true"
	}
	return ""
}
