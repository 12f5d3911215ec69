// Package bleve provides an embedded search engine backed by bleve.
//
// It registers itself when imported:
//
//	import _ "github.com/ncobase/searchsync/data/bleve"
//
// search.bleve.path selects an on-disk directory; without it indexes are
// kept in memory, which suits tests and single-process deployments.
package bleve

import (
	"context"
	"fmt"

	"github.com/ncobase/searchsync/config"
	"github.com/ncobase/searchsync/data"
)

type driver struct{}

func (d *driver) Name() string {
	return config.EngineBleve
}

// Connect opens an *Engine from a *config.Search.
func (d *driver) Connect(ctx context.Context, cfg any) (any, error) {
	sc, ok := cfg.(*config.Search)
	if !ok {
		return nil, fmt.Errorf("bleve: invalid configuration type %T, expected *config.Search", cfg)
	}
	path := ""
	if sc.Bleve != nil {
		path = sc.Bleve.Path
	}
	return NewEngine(path)
}

// Close closes every index of the engine.
func (d *driver) Close(conn any) error {
	e, ok := conn.(*Engine)
	if !ok {
		return fmt.Errorf("bleve: invalid connection type %T, expected *bleve.Engine", conn)
	}
	return e.Close()
}

func init() {
	data.RegisterSearchDriver(&driver{})
}
