package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestConnectionDefaults_Empty(t *testing.T) {
	conn := getConnectionConfig(viper.New())

	if conn.Host != DefaultHost {
		t.Errorf("expected host %q, got %q", DefaultHost, conn.Host)
	}
	if conn.Index != DefaultIndex {
		t.Errorf("expected index %q, got %q", DefaultIndex, conn.Index)
	}
	if conn.SniffInterval != DefaultSniffInterval {
		t.Errorf("expected sniff interval %v, got %v", DefaultSniffInterval, conn.SniffInterval)
	}
	if !conn.ShouldSniffOnStart() {
		t.Error("expected sniff on start by default")
	}
	if conn.Log != DefaultLogLevel {
		t.Errorf("expected log %q, got %q", DefaultLogLevel, conn.Log)
	}
}

func TestConnectionDefaults_PerField(t *testing.T) {
	v := viper.New()
	v.Set("search.connection.index", "people")

	conn := getConnectionConfig(v)
	if conn.Index != "people" {
		t.Errorf("expected index people, got %q", conn.Index)
	}
	if conn.Host != DefaultHost {
		t.Errorf("expected default host to survive partial block, got %q", conn.Host)
	}
	if conn.SniffInterval != DefaultSniffInterval {
		t.Errorf("expected default sniff interval, got %v", conn.SniffInterval)
	}
}

func TestConnection_ExplicitSniffOff(t *testing.T) {
	v := viper.New()
	v.Set("search.connection.sniff_on_start", false)

	conn := getConnectionConfig(v)
	if conn.ShouldSniffOnStart() {
		t.Error("expected explicit false to be kept")
	}
}

func TestConnection_SniffIntervalMillis(t *testing.T) {
	tests := []struct {
		raw  any
		want time.Duration
	}{
		{1500, 1500 * time.Millisecond},
		{"2000", 2 * time.Second},
		{"1m", time.Minute},
	}

	for _, tt := range tests {
		v := viper.New()
		v.Set("search.connection.sniff_interval", tt.raw)
		conn := getConnectionConfig(v)
		if conn.SniffInterval != tt.want {
			t.Errorf("sniff_interval %v: expected %v, got %v", tt.raw, tt.want, conn.SniffInterval)
		}
	}
}

func TestResolveConnection_DoesNotMutateInput(t *testing.T) {
	user := &Connection{Host: "search:9200"}
	resolved := ResolveConnection(user)

	if user.Index != "" || user.SniffOnStart != nil {
		t.Fatalf("input was modified: %+v", user)
	}
	if resolved.Host != "search:9200" || resolved.Index != DefaultIndex {
		t.Fatalf("unexpected resolved connection: %+v", resolved)
	}
	if resolved.Address() != "http://search:9200" {
		t.Errorf("expected scheme to be added, got %q", resolved.Address())
	}
}

func TestSearchConfig_EntitiesAndFilters(t *testing.T) {
	v := viper.New()
	v.Set("search.entities", map[string]any{
		"User": []string{"name", "email"},
	})
	v.Set("search.filters", []map[string]any{
		{"type": "user", "field": "status", "match": "^deleted$"},
	})
	v.Set("search.refresh_on_save", true)

	s := getSearchConfig(v)

	fields, ok := s.Entities.Fields("User")
	if !ok {
		t.Fatal("expected allow-list for User")
	}
	if len(fields) != 2 || fields[0] != "name" || fields[1] != "email" {
		t.Errorf("unexpected fields %v", fields)
	}
	if len(s.Filters) != 1 || s.Filters[0].Field != "status" || s.Filters[0].Match != "^deleted$" {
		t.Errorf("unexpected filters %+v", s.Filters)
	}
	if !s.RefreshOnSave {
		t.Error("expected refresh_on_save")
	}
	if s.Engine != EngineElasticsearch {
		t.Errorf("expected default engine, got %q", s.Engine)
	}
	if s.BaseOrDefault() != DefaultBase {
		t.Errorf("expected default base, got %q", s.BaseOrDefault())
	}
}

func TestSearchConfig_FiltersByType(t *testing.T) {
	v := viper.New()
	v.Set("search.filters", map[string]any{
		"user":  map[string]any{"status": "^deleted$", "owner": "sys"},
		"order": map[string]any{"draft": true},
	})

	s := getSearchConfig(v)
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	want := []FilterRule{
		{Type: "order", Field: "draft", Match: "true"},
		{Type: "user", Field: "owner", Match: "sys"},
		{Type: "user", Field: "status", Match: "^deleted$"},
	}
	if len(s.Filters) != len(want) {
		t.Fatalf("unexpected filters %+v", s.Filters)
	}
	for i := range want {
		if s.Filters[i] != want[i] {
			t.Errorf("filter %d = %+v, want %+v", i, s.Filters[i], want[i])
		}
	}
}

func TestSearchConfig_MalformedFilters(t *testing.T) {
	tests := []struct {
		name string
		raw  any
	}{
		{"scalar", "status=draft"},
		{"type without conditions", map[string]any{"user": "draft"}},
		{"rule without field", []map[string]any{{"type": "user", "match": "x"}}},
		{"rule without type", []any{map[string]any{"field": "status", "match": "x"}}},
		{"unknown rule key", []any{map[string]any{"type": "user", "field": "status", "value": "x"}}},
		{"rule not a map", []any{"user"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set("search.filters", tt.raw)

			s := getSearchConfig(v)
			if err := s.Validate(); err == nil {
				t.Fatalf("expected error for filters %#v, got rules %+v", tt.raw, s.Filters)
			}
			if len(s.Filters) != 0 {
				t.Errorf("expected no rules from a malformed block, got %+v", s.Filters)
			}
		})
	}
}

func TestSearch_ValidateRules(t *testing.T) {
	s := &Search{Filters: []FilterRule{{Type: "user", Field: "status"}, {Type: "user"}}}
	if err := s.Validate(); err == nil {
		t.Error("expected error for a rule without field")
	}
	if err := (&Search{}).Validate(); err != nil {
		t.Errorf("Validate() on empty search = %v", err)
	}
}

func TestEntities_Missing(t *testing.T) {
	s := getSearchConfig(viper.New())
	if _, ok := s.Entities.Fields("user"); ok {
		t.Error("expected no allow-list")
	}
}

func TestFromViper(t *testing.T) {
	v := viper.New()
	v.Set("app_name", "catalog")
	v.Set("store.driver", "Redis")

	cfg := FromViper(v)
	if cfg.AppName != "catalog" {
		t.Errorf("expected app name catalog, got %q", cfg.AppName)
	}
	if cfg.Store.Driver != StoreRedis {
		t.Errorf("expected redis store, got %q", cfg.Store.Driver)
	}
	if !cfg.Logger.Desensitization.Enabled {
		t.Error("expected desensitization on by default")
	}
	if cfg.Metrics.Enabled {
		t.Error("expected metrics off by default")
	}
}
