package indexer

import (
	"context"
	"testing"

	"github.com/ncobase/searchsync/config"
	"github.com/ncobase/searchsync/data/metrics"
	"github.com/ncobase/searchsync/data/search"
	"github.com/ncobase/searchsync/data/store"
)

func seed(t *testing.T, st store.Store, base, name string, ids ...string) {
	t.Helper()
	for _, id := range ids {
		e := &store.Entity{ID: id, Base: base, Name: name, Fields: map[string]any{"n": id, "hidden": true}}
		if _, err := st.Save(context.Background(), e); err != nil {
			t.Fatal(err)
		}
	}
}

func hitIDs(hits []search.Hit) string {
	var s string
	for _, h := range hits {
		s += h.ID
	}
	return s
}

func TestReconcileKeepsOrderWithinType(t *testing.T) {
	st := store.NewMemory()
	seed(t, st, "sys", "foo", "1", "2", "3")
	seed(t, st, "sys", "bar", "x", "y")

	res := &search.Result{Total: 99, Engine: "fake", Hits: []search.Hit{
		{ID: "3", Type: "foo"},
		{ID: "x", Type: "bar"},
		{ID: "1", Type: "foo"},
		{ID: "y", Type: "bar"},
		{ID: "2", Type: "foo"},
	}}

	out, err := NewReconciler(st, "", nil, WithConcurrency(1)).Reconcile(context.Background(), res)
	if err != nil {
		t.Fatal(err)
	}
	if got := hitIDs(out.Hits); got != "312xy" {
		t.Errorf("hit order = %s, want 312xy", got)
	}
	if out.Total != 5 || out.Engine != "fake" {
		t.Errorf("result = total %d engine %s", out.Total, out.Engine)
	}
}

func TestReconcileDropsMissingAndProjects(t *testing.T) {
	st := store.NewMemory()
	seed(t, st, "app", "foo", "a")
	collector := metrics.NewDataCollector()

	r := NewReconciler(st, "app", config.Entities{"foo": {"n"}}, WithDropCollector(collector))
	out, err := r.Reconcile(context.Background(), &search.Result{Hits: []search.Hit{
		{ID: "a", Type: "foo"},
		{ID: "b", Type: "foo"},
		{ID: "c", Type: "foo"},
	}})
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Hits) != 1 || out.Total != 1 {
		t.Fatalf("hits = %d total = %d", len(out.Hits), out.Total)
	}
	src := out.Hits[0].Source
	if src["n"] != "a" || src["id"] != "a" {
		t.Errorf("source = %v", src)
	}
	if _, ok := src["hidden"]; ok {
		t.Error("field outside the allow-list returned")
	}

	dropped := collector.GetStats()["reconcile"].(map[string]any)["dropped"]
	if dropped != int64(2) {
		t.Errorf("dropped = %v, want 2", dropped)
	}
}

func TestReconcileEmpty(t *testing.T) {
	r := NewReconciler(store.NewMemory(), "", nil)
	res := &search.Result{}
	out, err := r.Reconcile(context.Background(), res)
	if err != nil || out != res {
		t.Errorf("Reconcile(empty) = %v, %v", out, err)
	}
}
