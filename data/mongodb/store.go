package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ncobase/searchsync/data/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store implements store.Store on a MongoDB database.
type Store struct {
	db *mongo.Database
}

// New creates a store on db
func New(db *mongo.Database) *Store {
	return &Store{db: db}
}

func (s *Store) Name() string { return "mongodb" }

// CollectionName returns the collection holding a qualified entity type.
func CollectionName(base, name string) string {
	if base == "" {
		return name
	}
	return strings.ReplaceAll(base, "/", "_") + "_" + name
}

func (s *Store) collection(base, name string) *mongo.Collection {
	return s.db.Collection(CollectionName(base, name))
}

func (s *Store) Save(ctx context.Context, e *store.Entity) (*store.Entity, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	stored := e.Clone()
	if stored.Fields == nil {
		stored.Fields = map[string]any{}
	}

	_, err := s.collection(stored.Base, stored.Name).ReplaceOne(ctx,
		bson.M{"_id": stored.ID},
		stored,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return nil, fmt.Errorf("mongodb: save %s %s: %w", stored.Canon(), stored.ID, err)
	}
	return stored, nil
}

func (s *Store) Load(ctx context.Context, base, name, id string) (*store.Entity, error) {
	var out store.Entity
	err := s.collection(base, name).FindOne(ctx, bson.M{"_id": id}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.NotFoundError(base, name, id)
	}
	if err != nil {
		return nil, fmt.Errorf("mongodb: load %s %s: %w", store.Canon(base, name), id, err)
	}
	return &out, nil
}

func (s *Store) Remove(ctx context.Context, base, name, id string) error {
	res, err := s.collection(base, name).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("mongodb: remove %s %s: %w", store.Canon(base, name), id, err)
	}
	if res.DeletedCount == 0 {
		return store.NotFoundError(base, name, id)
	}
	return nil
}

func (s *Store) List(ctx context.Context, base, name string, ids []string) ([]*store.Entity, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.collection(base, name).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("mongodb: list %s: %w", store.Canon(base, name), err)
	}
	var out []*store.Entity
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("mongodb: decode %s: %w", store.Canon(base, name), err)
	}
	return out, nil
}

// Close disconnects the underlying client.
func (s *Store) Close() error {
	return s.db.Client().Disconnect(context.Background())
}
