package indexer

import (
	"context"
	"testing"

	"github.com/ncobase/searchsync/command"
	"github.com/ncobase/searchsync/config"
	_ "github.com/ncobase/searchsync/data/bleve"
	"github.com/ncobase/searchsync/data/search"
	"github.com/ncobase/searchsync/data/store"
	"github.com/spf13/viper"
)

func openBleve(t *testing.T) *Plugin {
	t.Helper()
	v := viper.New()
	v.Set("search.engine", "bleve")
	v.Set("search.connection.index", "people")
	v.Set("search.entities", map[string]any{"user": []string{"name"}})
	v.Set("store.driver", "memory")
	v.Set("logger.level", 2)

	p, cleanup, err := Open(context.Background(), config.FromViper(v))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(cleanup)
	return p
}

func TestOpen_RequiresConfig(t *testing.T) {
	if _, _, err := Open(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestOpen_UnknownEngine(t *testing.T) {
	v := viper.New()
	v.Set("search.engine", "nope")
	v.Set("store.driver", "memory")
	v.Set("logger.level", 2)
	if _, _, err := Open(context.Background(), config.FromViper(v)); err == nil {
		t.Fatal("expected error for unregistered engine")
	}
}

func TestOpen_MalformedFilters(t *testing.T) {
	v := viper.New()
	v.Set("search.engine", "bleve")
	v.Set("search.filters", map[string]any{"user": "draft"})
	v.Set("store.driver", "memory")
	v.Set("logger.level", 2)
	if _, _, err := Open(context.Background(), config.FromViper(v)); err == nil {
		t.Fatal("expected error for malformed filters")
	}
}

func TestOpen_FiltersByType(t *testing.T) {
	v := viper.New()
	v.Set("search.engine", "bleve")
	v.Set("search.filters", map[string]any{"note": map[string]any{"status": "draft"}})
	v.Set("store.driver", "memory")
	v.Set("logger.level", 2)
	p, cleanup, err := Open(context.Background(), config.FromViper(v))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer cleanup()

	res, err := p.Save(context.Background(), &command.Command{
		Type: "note",
		ID:   "n1",
		Data: map[string]any{"status": "draft"},
	})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !res.Skipped {
		t.Errorf("Save() = %+v, want skipped", res)
	}
}

func TestOpen_EndToEnd(t *testing.T) {
	p := openBleve(t)
	ctx := context.Background()

	if ok, err := p.HasIndex(ctx, ""); err != nil || !ok {
		t.Fatalf("default index missing after Open: %v, %v", ok, err)
	}

	for id, name := range map[string]string{"u1": "alice", "u2": "bob"} {
		_, err := p.Act(ctx, &command.Command{
			Role: command.RoleEntity,
			Cmd:  command.Save,
			Type: "user",
			Entity: &store.Entity{
				ID:     id,
				Fields: map[string]any{"name": name, "password": "x"},
			},
		})
		if err != nil {
			t.Fatalf("entity save %s error = %v", id, err)
		}
	}

	res, err := p.Act(ctx, &command.Command{Role: command.RoleSearch, Cmd: command.Search, Query: "alice"})
	if err != nil {
		t.Fatalf("search error = %v", err)
	}
	result := res.(*search.Result)
	if result.Total != 1 || len(result.Hits) != 1 || result.Hits[0].ID != "u1" {
		t.Fatalf("search result = %+v", result)
	}
	if _, ok := result.Hits[0].Source["password"]; ok {
		t.Error("reconciled hit exposes a field outside the allow-list")
	}

	if _, err := p.Act(ctx, &command.Command{Role: command.RoleEntity, Cmd: command.Remove, Type: "user", ID: "u1"}); err != nil {
		t.Fatalf("entity remove error = %v", err)
	}
	res, err = p.Act(ctx, &command.Command{Role: command.RoleSearch, Cmd: command.Search, Query: "alice"})
	if err != nil {
		t.Fatalf("search after remove error = %v", err)
	}
	if got := res.(*search.Result); got.Total != 0 {
		t.Errorf("search after remove = %+v", got)
	}
}
