package mongodb

import (
	"context"
	"testing"

	"github.com/ncobase/searchsync/config"
	"github.com/ncobase/searchsync/data"
	"github.com/ncobase/searchsync/data/store"
)

var _ store.Store = (*Store)(nil)

// TestDriverName verifies the driver returns the correct name
func TestDriverName(t *testing.T) {
	d := &driver{}
	if got := d.Name(); got != "mongodb" {
		t.Errorf("Name() = %v, want %v", got, "mongodb")
	}
}

func TestDriverRegistration(t *testing.T) {
	d, err := data.GetStoreDriver("mongodb")
	if err != nil {
		t.Fatalf("Failed to get MongoDB driver: %v", err)
	}
	if d.Name() != "mongodb" {
		t.Errorf("Driver name = %v, want mongodb", d.Name())
	}
}

func TestDriverConnect_InvalidConfig(t *testing.T) {
	d := &driver{}
	ctx := context.Background()

	cases := []any{
		nil,
		"invalid",
		&config.Store{},
		&config.Store{MongoDB: &config.MongoDB{Database: "db"}},
		&config.Store{MongoDB: &config.MongoDB{URI: "mongodb://localhost:27017"}},
	}
	for _, cfg := range cases {
		if _, err := d.Connect(ctx, cfg); err == nil {
			t.Errorf("Connect(%#v) should return error", cfg)
		}
	}
}

func TestDriverClose_InvalidConnection(t *testing.T) {
	d := &driver{}
	if err := d.Close(nil); err == nil {
		t.Error("Close() with nil connection should return error")
	}
	if err := d.Ping(context.Background(), "invalid"); err == nil {
		t.Error("Ping() with invalid connection type should return error")
	}
}

func TestCollectionName(t *testing.T) {
	tests := []struct {
		base, name, want string
	}{
		{"sys", "user", "sys_user"},
		{"", "user", "user"},
		{"shop/eu", "order", "shop_eu_order"},
	}
	for _, tt := range tests {
		if got := CollectionName(tt.base, tt.name); got != tt.want {
			t.Errorf("CollectionName(%q, %q) = %q, want %q", tt.base, tt.name, got, tt.want)
		}
	}
}
