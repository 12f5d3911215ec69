// Package meilisearch provides the Meilisearch search driver and adapter.
//
// It registers itself when imported:
//
//	import _ "github.com/ncobase/searchsync/data/meilisearch"
package meilisearch

import (
	"context"
	"fmt"

	"github.com/ncobase/searchsync/config"
	"github.com/ncobase/searchsync/data"
	"github.com/ncobase/searchsync/data/meilisearch/client"
)

// driver implements data.SearchDriver for Meilisearch.
type driver struct{}

// Name returns the driver identifier used in configuration files.
func (d *driver) Name() string {
	return config.EngineMeilisearch
}

// Connect establishes a Meilisearch connection from a *config.Search.
//
// The host is search.meilisearch.host, or the connection host when unset.
// The connection is verified with a health check before being returned.
func (d *driver) Connect(ctx context.Context, cfg any) (any, error) {
	sc, ok := cfg.(*config.Search)
	if !ok {
		return nil, fmt.Errorf("meilisearch: invalid configuration type %T, expected *config.Search", cfg)
	}

	host, apiKey := Host(sc), ""
	if sc.Meilisearch != nil {
		apiKey = sc.Meilisearch.APIKey
	}

	c := client.NewMeilisearch(host, apiKey)
	if _, err := c.Health(); err != nil {
		return nil, fmt.Errorf("meilisearch: health check failed: %w", err)
	}
	return c, nil
}

// Close is a no-op; the SDK holds no connections of its own.
func (d *driver) Close(conn any) error {
	if _, ok := conn.(*client.Client); !ok {
		return fmt.Errorf("meilisearch: invalid connection type %T, expected *client.Client", conn)
	}
	return nil
}

// Host returns the Meilisearch URL for the configuration.
func Host(sc *config.Search) string {
	if sc.Meilisearch != nil && sc.Meilisearch.Host != "" {
		return sc.Meilisearch.Host
	}
	return sc.Connection.Address()
}

func init() {
	data.RegisterSearchDriver(&driver{})
}
