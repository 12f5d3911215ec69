package indexer

import (
	"context"

	"github.com/ncobase/searchsync/config"
	"github.com/ncobase/searchsync/data/search"
	"github.com/ncobase/searchsync/data/store"
	"golang.org/x/sync/errgroup"
)

// DropCollector is told how many hits of a type were dropped.
type DropCollector interface {
	ReconcileDropped(entityType string, count int)
}

// ReconcilerOption configures a Reconciler
type ReconcilerOption func(*Reconciler)

// WithConcurrency caps parallel store lookups; zero or less is unbounded.
func WithConcurrency(n int) ReconcilerOption {
	return func(r *Reconciler) { r.concurrency = n }
}

// WithDropCollector reports dropped hits
func WithDropCollector(c DropCollector) ReconcilerOption {
	return func(r *Reconciler) { r.collector = c }
}

// Reconciler replaces the sources of search hits with live records from
// the authoritative store.
type Reconciler struct {
	store       store.Store
	namespace   string
	entities    config.Entities
	concurrency int
	collector   DropCollector
}

// NewReconciler creates a reconciler reading from st within namespace.
func NewReconciler(st store.Store, namespace string, entities config.Entities, opts ...ReconcilerOption) *Reconciler {
	if namespace == "" {
		namespace = config.DefaultBase
	}
	r := &Reconciler{store: st, namespace: namespace, entities: entities}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type typeGroup struct {
	entityType string
	hits       []search.Hit
	ids        []string
	found      map[string]*store.Entity
}

// Reconcile groups hits by type, looks every group up in the store in
// parallel and keeps only hits whose record still exists, with the record
// as their source.
//
// Within a type the engine's order is kept. Groups follow the order in
// which their type first appears, so ranking across types is not kept.
// Total is the number of surviving hits. If any lookup fails the whole
// call fails with a *ReconcileError and no result.
func (r *Reconciler) Reconcile(ctx context.Context, res *search.Result) (*search.Result, error) {
	if res == nil || len(res.Hits) == 0 {
		return res, nil
	}

	groups := groupByType(res.Hits)

	g, gctx := errgroup.WithContext(ctx)
	if r.concurrency > 0 {
		g.SetLimit(r.concurrency)
	}
	for _, grp := range groups {
		grp := grp
		g.Go(func() error {
			records, err := r.store.List(gctx, r.namespace, grp.entityType, grp.ids)
			if err != nil {
				return &ReconcileError{Type: grp.entityType, Err: err}
			}
			grp.found = make(map[string]*store.Entity, len(records))
			for _, e := range records {
				grp.found[e.ID] = e
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &search.Result{
		Hits:   make([]search.Hit, 0, len(res.Hits)),
		Took:   res.Took,
		Engine: res.Engine,
	}
	for _, grp := range groups {
		dropped := 0
		for _, hit := range grp.hits {
			e, ok := grp.found[hit.ID]
			if !ok {
				dropped++
				continue
			}
			hit.Source = r.source(grp.entityType, e)
			out.Hits = append(out.Hits, hit)
		}
		out.Total += int64(len(grp.hits) - dropped)
		if dropped > 0 && r.collector != nil {
			r.collector.ReconcileDropped(grp.entityType, dropped)
		}
	}
	return out, nil
}

func groupByType(hits []search.Hit) []*typeGroup {
	var groups []*typeGroup
	byType := make(map[string]*typeGroup)
	for _, hit := range hits {
		grp, ok := byType[hit.Type]
		if !ok {
			grp = &typeGroup{entityType: hit.Type}
			byType[hit.Type] = grp
			groups = append(groups, grp)
		}
		grp.hits = append(grp.hits, hit)
		grp.ids = append(grp.ids, hit.ID)
	}
	return groups
}

// source is the record's fields plus id, limited to the type's allow-list
// when one is configured.
func (r *Reconciler) source(entityType string, e *store.Entity) map[string]any {
	if allow, ok := r.entities.Fields(entityType); ok {
		src := project(e.Fields, allow)
		src["id"] = e.ID
		return src
	}
	src := make(map[string]any, len(e.Fields)+1)
	for k, v := range e.Fields {
		src[k] = v
	}
	src["id"] = e.ID
	return src
}

// project copies the allowed fields present in fields.
func project(fields map[string]any, allow []string) map[string]any {
	out := make(map[string]any, len(allow)+1)
	for _, name := range allow {
		if v, ok := fields[name]; ok {
			out[name] = v
		}
	}
	return out
}
