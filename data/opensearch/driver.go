// Package opensearch provides the OpenSearch search driver and adapter.
//
// The driver uses opensearch-go/v4 and registers itself when imported:
//
//	import _ "github.com/ncobase/searchsync/data/opensearch"
package opensearch

import (
	"context"
	"fmt"

	"github.com/ncobase/searchsync/config"
	"github.com/ncobase/searchsync/data"
	"github.com/ncobase/searchsync/data/opensearch/client"
)

// driver implements data.SearchDriver for OpenSearch.
type driver struct{}

// Name returns the driver identifier used in configuration files.
func (d *driver) Name() string {
	return config.EngineOpenSearch
}

// Connect creates a client from a *config.Search.
//
// Addresses come from search.opensearch.addresses, or the connection host
// when none are listed. InsecureSkipTLS disables certificate checks.
func (d *driver) Connect(ctx context.Context, cfg any) (any, error) {
	sc, ok := cfg.(*config.Search)
	if !ok {
		return nil, fmt.Errorf("opensearch: invalid configuration type %T, expected *config.Search", cfg)
	}

	c, err := client.NewClient(Options(sc))
	if err != nil {
		return nil, fmt.Errorf("opensearch: failed to create client: %w", err)
	}
	return c, nil
}

// Close terminates the OpenSearch connection and releases resources.
func (d *driver) Close(conn any) error {
	if _, ok := conn.(*client.Client); !ok {
		return fmt.Errorf("opensearch: invalid connection type %T, expected *client.Client", conn)
	}
	return nil
}

// Options derives client options from the search configuration.
func Options(sc *config.Search) client.Options {
	conn := config.ResolveConnection(sc.Connection)
	opts := client.Options{
		Addresses:     []string{conn.Address()},
		SniffOnStart:  conn.ShouldSniffOnStart(),
		SniffInterval: conn.SniffInterval,
	}
	if osc := sc.OpenSearch; osc != nil {
		if len(osc.Addresses) > 0 {
			opts.Addresses = osc.Addresses
		}
		opts.Username, opts.Password = osc.Username, osc.Password
		opts.Insecure = osc.InsecureSkipTLS
	}
	return opts
}

func init() {
	data.RegisterSearchDriver(&driver{})
}
