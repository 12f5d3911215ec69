package meilisearch

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ncobase/searchsync/config"
	"github.com/ncobase/searchsync/data/meilisearch/client"
	"github.com/ncobase/searchsync/data/search"
)

// PrimaryKey is the document attribute holding the document id. It is
// added on write and removed on read.
const PrimaryKey = "doc_id"

// encodedPrefix marks a primary key holding a base64url-encoded id.
const encodedPrefix = "b64_"

// Meilisearch accepts only these characters in a primary key value.
var validKey = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func init() {
	search.RegisterAdapterFactory(search.Meilisearch, func(conn any, _ *config.Search) (search.Adapter, error) {
		c, ok := conn.(*client.Client)
		if !ok {
			return nil, fmt.Errorf("expected *client.Client, got %T", conn)
		}
		return NewAdapter(c), nil
	})
}

// Adapter implements search.Adapter for Meilisearch. DSL query bodies are
// reduced to text plus term filters, see search.ParseQuery.
//
// Meilisearch limits primary keys to [A-Za-z0-9_-] and 511 bytes. Ids
// outside that alphabet, such as "john doe", are stored base64url-encoded
// and decoded again on read, so callers always see their own ids. The
// length limit still applies to the stored form.
type Adapter struct {
	client *client.Client
}

// NewAdapter creates an adapter
func NewAdapter(c *client.Client) *Adapter {
	return &Adapter{client: c}
}

func (a *Adapter) Type() search.Engine {
	return search.Meilisearch
}

func (a *Adapter) Index(ctx context.Context, req *search.Request) (*search.WriteResult, error) {
	if req.ID == "" {
		return nil, errors.New("meilisearch: document id is required")
	}

	result := search.ResultCreated
	if _, err := a.Get(ctx, req); err == nil {
		result = search.ResultUpdated
	}

	if err := a.client.AddDocuments(req.Index, []map[string]any{toDocument(req)}, PrimaryKey, req.Refresh); err != nil {
		return nil, err
	}
	return &search.WriteResult{Index: req.Index, ID: req.ID, Result: result}, nil
}

func (a *Adapter) Get(ctx context.Context, req *search.Request) (*search.Document, error) {
	var doc map[string]any
	err := a.client.GetDocument(req.Index, encodeID(req.ID), &doc)
	if client.IsNotFound(err) {
		return nil, search.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	source := fromDocument(doc)
	return &search.Document{
		Index:  req.Index,
		Type:   search.HitType(source),
		ID:     req.ID,
		Exists: true,
		Source: source,
	}, nil
}

// Delete reports ErrNotFound for a missing document. Meilisearch itself
// accepts deletes of unknown ids, so the document is looked up first.
func (a *Adapter) Delete(ctx context.Context, req *search.Request) (*search.WriteResult, error) {
	if _, err := a.Get(ctx, req); err != nil {
		return nil, err
	}
	if err := a.client.DeleteDocument(req.Index, encodeID(req.ID), req.Refresh); err != nil {
		return nil, err
	}
	return &search.WriteResult{Index: req.Index, ID: req.ID, Result: search.ResultDeleted}, nil
}

func (a *Adapter) Search(ctx context.Context, req *search.Request) (*search.Result, error) {
	params := searchParams(req)
	q := search.ParseQuery(req.Body)

	res, err := a.client.SearchWithContext(ctx, req.Index, q.Text, params)
	if err != nil {
		return nil, err
	}

	hits := make([]search.Hit, 0, len(res.Hits))
	for _, hit := range res.Hits {
		// hits decode the same whatever the SDK's hit representation
		raw, err := json.Marshal(hit)
		if err != nil {
			return nil, err
		}
		var doc map[string]any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("meilisearch parsing error: %w", err)
		}
		id := decodeID(fmt.Sprint(doc[PrimaryKey]))
		source := fromDocument(doc)
		hits = append(hits, search.Hit{
			ID:     id,
			Type:   search.HitType(source),
			Index:  req.Index,
			Score:  1.0,
			Source: source,
		})
	}

	return &search.Result{
		Total:  res.EstimatedTotalHits,
		Hits:   hits,
		Took:   time.Duration(res.ProcessingTimeMs) * time.Millisecond,
		Engine: search.Meilisearch,
	}, nil
}

func (a *Adapter) IndexExists(ctx context.Context, index string) (bool, error) {
	_, err := a.client.GetIndex(index)
	if client.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check meilisearch index existence: %w", err)
	}
	return true, nil
}

func (a *Adapter) CreateIndex(ctx context.Context, index string) error {
	exists, err := a.IndexExists(ctx, index)
	if err != nil {
		return err
	}
	if exists {
		return search.ErrIndexExists
	}
	return a.client.CreateIndex(index, PrimaryKey, search.TypeField)
}

func (a *Adapter) DeleteIndex(ctx context.Context, index string) error {
	exists, err := a.IndexExists(ctx, index)
	if err != nil {
		return err
	}
	if !exists {
		return search.ErrIndexNotFound
	}
	return a.client.DeleteIndex(index)
}

func (a *Adapter) Health(ctx context.Context) error {
	_, err := a.client.Health()
	return err
}

// searchParams maps paging and term clauses of the query body, plus the
// request type, onto Meilisearch parameters.
func searchParams(req *search.Request) *client.SearchParams {
	q := search.ParseQuery(req.Body)
	if req.Type != "" {
		q.Terms[search.TypeField] = req.Type
	}

	params := &client.SearchParams{Offset: int64(q.From)}
	if q.Size > 0 {
		params.Limit = int64(q.Size)
	}
	if len(q.Terms) > 0 {
		params.Filter = search.FilterExpr(q.Terms)
	}
	return params
}

func toDocument(req *search.Request) map[string]any {
	doc := search.DocumentBody(req)
	doc[PrimaryKey] = encodeID(req.ID)
	return doc
}

// encodeID maps id onto a valid primary key. Ids already valid and not
// carrying encodedPrefix are kept as is.
func encodeID(id string) string {
	if validKey.MatchString(id) && !strings.HasPrefix(id, encodedPrefix) {
		return id
	}
	return encodedPrefix + base64.RawURLEncoding.EncodeToString([]byte(id))
}

func decodeID(key string) string {
	if !strings.HasPrefix(key, encodedPrefix) {
		return key
	}
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(key, encodedPrefix))
	if err != nil {
		return key
	}
	return string(raw)
}

func fromDocument(doc map[string]any) map[string]any {
	source := make(map[string]any, len(doc))
	for k, v := range doc {
		if k != PrimaryKey {
			source[k] = v
		}
	}
	return source
}
