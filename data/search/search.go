package search

import (
	"context"
	"errors"

	"github.com/ncobase/searchsync/ecode"
)

var (
	// ErrNotFound is returned by Get and Delete when the document is absent.
	ErrNotFound = errors.New("document not found")
	// ErrIndexExists is returned by CreateIndex when the index already exists.
	ErrIndexExists = errors.New("index already exists")
	// ErrIndexNotFound is returned by DeleteIndex when the index is absent.
	ErrIndexNotFound = errors.New(ecode.NotExist("index"))
	// ErrCircuitOpen is returned while the breaker rejects calls.
	ErrCircuitOpen = errors.New(ecode.Unavailable("search backend") + ": circuit open")
)

// Adapter is the search engine client contract.
//
// Implementations add TypeField to indexed bodies, filter on it when
// Request.Type is set on a search, and report it back as Hit.Type.
// They must be safe for concurrent use.
type Adapter interface {
	Type() Engine
	Index(ctx context.Context, req *Request) (*WriteResult, error)
	Get(ctx context.Context, req *Request) (*Document, error)
	Delete(ctx context.Context, req *Request) (*WriteResult, error)
	Search(ctx context.Context, req *Request) (*Result, error)
	IndexExists(ctx context.Context, index string) (bool, error)
	CreateIndex(ctx context.Context, index string) error
	DeleteIndex(ctx context.Context, index string) error
	Health(ctx context.Context) error
}

// DocumentBody returns a copy of body ready to be stored: the id field is
// removed and the entity type is set.
func DocumentBody(req *Request) map[string]any {
	doc := make(map[string]any, len(req.Body)+1)
	for k, v := range req.Body {
		if k == IDField {
			continue
		}
		doc[k] = v
	}
	if req.Type != "" {
		doc[TypeField] = req.Type
	}
	return doc
}

// HitType reads the entity type stored in a source document.
func HitType(source map[string]any) string {
	if source == nil {
		return ""
	}
	if t, ok := source[TypeField].(string); ok {
		return t
	}
	return ""
}
