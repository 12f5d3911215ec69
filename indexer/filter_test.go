package indexer

import (
	"testing"

	"github.com/ncobase/searchsync/config"
)

func TestFilterTable(t *testing.T) {
	table := newFilterTable([]config.FilterRule{
		{Type: "Foo", Field: "status", Match: "draft|hidden"},
		{Type: "bar", Field: "count", Match: "0"},
		{Type: "baz", Field: "name", Match: "a(b"},
		{Type: "", Field: "x", Match: "y"},
	})

	tests := []struct {
		name string
		typ  string
		data map[string]any
		want bool
	}{
		{"regex match", "foo", map[string]any{"status": "hidden"}, true},
		{"type is case-insensitive", "FOO", map[string]any{"status": "draft"}, true},
		{"no match", "foo", map[string]any{"status": "live"}, false},
		{"missing field", "foo", map[string]any{}, false},
		{"nil field", "foo", map[string]any{"status": nil}, false},
		{"non-string value", "bar", map[string]any{"count": 0}, true},
		{"bad pattern compares literally", "baz", map[string]any{"name": "a(b"}, true},
		{"bad pattern no match", "baz", map[string]any{"name": "ab"}, false},
		{"unfiltered type", "qux", map[string]any{"status": "draft"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := table.skip(tt.typ, tt.data); got != tt.want {
				t.Errorf("skip(%s, %v) = %v, want %v", tt.typ, tt.data, got, tt.want)
			}
		})
	}
}
