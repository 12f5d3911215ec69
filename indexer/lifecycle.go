package indexer

import (
	"context"
	"errors"

	"github.com/ncobase/searchsync/data/search"
)

func (p *Plugin) indexName(name string) string {
	if name == "" {
		return p.conn.Index
	}
	return name
}

// HasIndex reports whether the index exists. Only transport failures are errors.
func (p *Plugin) HasIndex(ctx context.Context, name string) (bool, error) {
	exists, err := p.adapter.IndexExists(ctx, p.indexName(name))
	if err != nil {
		return false, transportError("has index", err)
	}
	return exists, nil
}

// CreateIndex creates the index. An index that already exists is not an error.
func (p *Plugin) CreateIndex(ctx context.Context, name string) error {
	index := p.indexName(name)
	err := p.adapter.CreateIndex(ctx, index)
	if err == nil {
		p.log.Infof(ctx, "created index %s", index)
		return nil
	}
	if errors.Is(err, search.ErrIndexExists) {
		return nil
	}
	return transportError("create index", err)
}

// EnsureIndex creates the index unless it is known to exist. A failed
// existence check counts as absent; the create error, if any, is returned.
func (p *Plugin) EnsureIndex(ctx context.Context, name string) error {
	index := p.indexName(name)
	exists, err := p.adapter.IndexExists(ctx, index)
	if err == nil && exists {
		return nil
	}
	if err != nil {
		p.log.Warnf(ctx, "index %s existence check failed, creating: %v", index, err)
	}
	return p.CreateIndex(ctx, index)
}

// DeleteIndex ensures the index and then deletes it. It reports false when
// the index was gone by the time of the delete.
func (p *Plugin) DeleteIndex(ctx context.Context, name string) (bool, error) {
	index := p.indexName(name)
	if err := p.EnsureIndex(ctx, index); err != nil {
		return false, err
	}

	err := p.adapter.DeleteIndex(ctx, index)
	if errors.Is(err, search.ErrIndexNotFound) {
		return false, nil
	}
	if err != nil {
		return false, transportError("delete index", err)
	}
	p.log.Infof(ctx, "deleted index %s", index)
	return true, nil
}
