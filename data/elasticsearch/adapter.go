package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/ncobase/searchsync/config"
	"github.com/ncobase/searchsync/data/elasticsearch/client"
	"github.com/ncobase/searchsync/data/search"
)

func init() {
	search.RegisterAdapterFactory(search.Elasticsearch, func(conn any, _ *config.Search) (search.Adapter, error) {
		c, ok := conn.(*client.Client)
		if !ok {
			return nil, fmt.Errorf("expected *client.Client, got %T", conn)
		}
		return NewAdapter(c), nil
	})
}

// Adapter implements search.Adapter over the Elasticsearch REST API.
type Adapter struct {
	client *client.Client
}

// NewAdapter creates an adapter
func NewAdapter(c *client.Client) *Adapter {
	return &Adapter{client: c}
}

func (a *Adapter) Type() search.Engine {
	return search.Elasticsearch
}

type writeResp struct {
	Index   string `json:"_index"`
	ID      string `json:"_id"`
	Version int64  `json:"_version"`
	Result  string `json:"result"`
}

func (r writeResp) toResult() *search.WriteResult {
	return &search.WriteResult{Index: r.Index, ID: r.ID, Result: r.Result, Version: r.Version}
}

func (a *Adapter) Index(ctx context.Context, req *search.Request) (*search.WriteResult, error) {
	body, err := json.Marshal(search.DocumentBody(req))
	if err != nil {
		return nil, fmt.Errorf("error encoding document: %w", err)
	}

	var out writeResp
	if _, err := a.client.Do(ctx, esapi.IndexRequest{
		Index:      req.Index,
		DocumentID: req.ID,
		Body:       bytes.NewReader(body),
		Refresh:    refresh(req.Refresh),
	}, &out); err != nil {
		return nil, err
	}
	return out.toResult(), nil
}

func (a *Adapter) Get(ctx context.Context, req *search.Request) (*search.Document, error) {
	var out struct {
		Index  string         `json:"_index"`
		ID     string         `json:"_id"`
		Found  bool           `json:"found"`
		Source map[string]any `json:"_source"`
	}
	status, err := a.client.Do(ctx, esapi.GetRequest{Index: req.Index, DocumentID: req.ID}, &out)
	if status == http.StatusNotFound {
		return nil, search.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !out.Found {
		return nil, search.ErrNotFound
	}
	return &search.Document{
		Index:  out.Index,
		Type:   search.HitType(out.Source),
		ID:     out.ID,
		Exists: true,
		Source: out.Source,
	}, nil
}

func (a *Adapter) Delete(ctx context.Context, req *search.Request) (*search.WriteResult, error) {
	var out writeResp
	status, err := a.client.Do(ctx, esapi.DeleteRequest{
		Index:      req.Index,
		DocumentID: req.ID,
		Refresh:    refresh(req.Refresh),
	}, &out)
	if status == http.StatusNotFound {
		return nil, search.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return out.toResult(), nil
}

func (a *Adapter) Search(ctx context.Context, req *search.Request) (*search.Result, error) {
	body, err := json.Marshal(search.WithTypeFilter(req.Body, req.Type))
	if err != nil {
		return nil, fmt.Errorf("error encoding query: %w", err)
	}

	var out struct {
		Took int64 `json:"took"`
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Index  string         `json:"_index"`
				ID     string         `json:"_id"`
				Score  float64        `json:"_score"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if _, err := a.client.Do(ctx, esapi.SearchRequest{
		Index:          []string{req.Index},
		Body:           bytes.NewReader(body),
		TrackTotalHits: true,
	}, &out); err != nil {
		return nil, err
	}

	hits := make([]search.Hit, len(out.Hits.Hits))
	for i, hit := range out.Hits.Hits {
		hits[i] = search.Hit{
			ID:     hit.ID,
			Type:   search.HitType(hit.Source),
			Index:  hit.Index,
			Score:  hit.Score,
			Source: hit.Source,
		}
	}

	return &search.Result{
		Total:  out.Hits.Total.Value,
		Hits:   hits,
		Took:   time.Duration(out.Took) * time.Millisecond,
		Engine: search.Elasticsearch,
	}, nil
}

func (a *Adapter) IndexExists(ctx context.Context, index string) (bool, error) {
	status, err := a.client.Do(ctx, esapi.IndicesExistsRequest{Index: []string{index}}, nil)
	if status == http.StatusNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check elasticsearch index existence: %w", err)
	}
	return status == http.StatusOK, nil
}

func (a *Adapter) CreateIndex(ctx context.Context, index string) error {
	body, err := json.Marshal(search.IndexMapping)
	if err != nil {
		return err
	}
	_, err = a.client.Do(ctx, esapi.IndicesCreateRequest{Index: index, Body: bytes.NewReader(body)}, nil)
	var respErr *client.ResponseError
	if errors.As(err, &respErr) && respErr.Type == "resource_already_exists_exception" {
		return search.ErrIndexExists
	}
	return err
}

func (a *Adapter) DeleteIndex(ctx context.Context, index string) error {
	status, err := a.client.Do(ctx, esapi.IndicesDeleteRequest{Index: []string{index}}, nil)
	if status == http.StatusNotFound {
		return search.ErrIndexNotFound
	}
	return err
}

func (a *Adapter) Health(ctx context.Context) error {
	_, err := a.client.Do(ctx, esapi.InfoRequest{}, nil)
	return err
}

func refresh(on bool) string {
	if on {
		return "true"
	}
	return ""
}
