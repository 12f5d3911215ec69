// Package elasticsearch provides the Elasticsearch search driver and adapter.
//
// The driver uses go-elasticsearch/v8 and registers itself when imported:
//
//	import _ "github.com/ncobase/searchsync/data/elasticsearch"
//
// Node addresses come from search.elasticsearch.addresses, falling back to
// the connection host. Sniffing maps to the client's node discovery.
package elasticsearch

import (
	"context"
	"fmt"

	"github.com/ncobase/searchsync/config"
	"github.com/ncobase/searchsync/data"
	"github.com/ncobase/searchsync/data/elasticsearch/client"
)

// driver implements data.SearchDriver for Elasticsearch.
type driver struct{}

// Name returns the driver identifier used in configuration files.
func (d *driver) Name() string {
	return config.EngineElasticsearch
}

// Connect creates a client from a *config.Search. No request is sent
// unless sniffing on start is enabled.
func (d *driver) Connect(ctx context.Context, cfg any) (any, error) {
	sc, ok := cfg.(*config.Search)
	if !ok {
		return nil, fmt.Errorf("elasticsearch: invalid configuration type %T, expected *config.Search", cfg)
	}

	c, err := client.NewClient(Options(sc))
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: failed to create client: %w", err)
	}
	return c, nil
}

// Close releases the connection. The HTTP transport has nothing to close.
func (d *driver) Close(conn any) error {
	if _, ok := conn.(*client.Client); !ok {
		return fmt.Errorf("elasticsearch: invalid connection type %T, expected *client.Client", conn)
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
	if es := sc.Elasticsearch; es != nil {
		if len(es.Addresses) > 0 {
			opts.Addresses = es.Addresses
		}
		opts.Username, opts.Password = es.Username, es.Password
	}
	return opts
}

func init() {
	data.RegisterSearchDriver(&driver{})
}
