// Package mongodb provides a MongoDB entity store.
//
// It registers itself automatically when imported:
//
//	import _ "github.com/ncobase/searchsync/data/mongodb"
//
// Each qualified entity type lives in its own collection named
// "base_name", keyed by the entity id.
package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/ncobase/searchsync/config"
	"github.com/ncobase/searchsync/data"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// driver implements data.StoreDriver for MongoDB.
type driver struct{}

// Name returns the driver identifier used in configuration files.
func (d *driver) Name() string {
	return config.StoreMongoDB
}

// Connect opens a client for the configured URI and returns a *Store on
// the configured database. The server is contacted lazily; call Ping to
// verify it.
func (d *driver) Connect(ctx context.Context, cfg any) (any, error) {
	sc, ok := cfg.(*config.Store)
	if !ok || sc == nil || sc.MongoDB == nil {
		return nil, fmt.Errorf("mongodb: invalid configuration type, expected *config.Store")
	}
	if sc.MongoDB.URI == "" {
		return nil, errors.New("mongodb: uri is empty")
	}
	if sc.MongoDB.Database == "" {
		return nil, errors.New("mongodb: database is empty")
	}

	opts := options.Client().
		ApplyURI(sc.MongoDB.URI).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb: connect error: %w", err)
	}

	return New(client.Database(sc.MongoDB.Database)), nil
}

// Close disconnects the store's client.
func (d *driver) Close(conn any) error {
	s, ok := conn.(*Store)
	if !ok {
		return fmt.Errorf("mongodb: invalid connection type, expected *mongodb.Store")
	}
	if err := s.Close(); err != nil {
		return fmt.Errorf("mongodb: failed to disconnect: %w", err)
	}
	return nil
}

// Ping verifies the server is reachable.
func (d *driver) Ping(ctx context.Context, conn any) error {
	s, ok := conn.(*Store)
	if !ok {
		return fmt.Errorf("mongodb: invalid connection type, expected *mongodb.Store")
	}
	if err := s.db.Client().Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongodb: ping failed: %w", err)
	}
	return nil
}

func init() {
	data.RegisterStoreDriver(&driver{})
}
