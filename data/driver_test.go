package data

import (
	"context"
	"strings"
	"testing"
)

type mockSearchDriver struct {
	name string
}

func (d *mockSearchDriver) Name() string { return d.name }
func (d *mockSearchDriver) Connect(ctx context.Context, cfg any) (any, error) {
	return "mock-client", nil
}
func (d *mockSearchDriver) Close(conn any) error { return nil }

type mockStoreDriver struct {
	name string
}

func (d *mockStoreDriver) Name() string { return d.name }
func (d *mockStoreDriver) Connect(ctx context.Context, cfg any) (any, error) {
	return "mock-store", nil
}
func (d *mockStoreDriver) Close(conn any) error                     { return nil }
func (d *mockStoreDriver) Ping(ctx context.Context, conn any) error { return nil }

func resetRegistries() {
	searchDriversMu.Lock()
	searchDrivers = make(map[string]SearchDriver)
	searchDriversMu.Unlock()

	storeDriversMu.Lock()
	storeDrivers = make(map[string]StoreDriver)
	storeDriversMu.Unlock()
}

func TestRegisterSearchDriver(t *testing.T) {
	resetRegistries()

	RegisterSearchDriver(&mockSearchDriver{name: "test-search"})

	retrieved, err := GetSearchDriver("test-search")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if retrieved.Name() != "test-search" {
		t.Errorf("expected driver name 'test-search', got %q", retrieved.Name())
	}
}

func TestRegisterSearchDriverPanicsOnNil(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic when registering nil driver")
		}
	}()

	RegisterSearchDriver(nil)
}

func TestRegisterStoreDriverPanicsOnDuplicate(t *testing.T) {
	resetRegistries()

	RegisterStoreDriver(&mockStoreDriver{name: "duplicate"})

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic when registering duplicate driver")
		}
	}()

	RegisterStoreDriver(&mockStoreDriver{name: "duplicate"})
}

func TestRegisterStoreDriverPanicsOnEmptyName(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic when registering driver with empty name")
		}
	}()

	RegisterStoreDriver(&mockStoreDriver{name: ""})
}

func TestGetStoreDriverNotFound(t *testing.T) {
	resetRegistries()
	RegisterStoreDriver(&mockStoreDriver{name: "memory"})

	_, err := GetStoreDriver("nonexistent")
	if err == nil {
		t.Fatal("expected error for nonexistent driver")
	}
	if !strings.Contains(err.Error(), "Did you forget to import") {
		t.Errorf("expected helpful error message, got: %v", err)
	}
	if !strings.Contains(err.Error(), "memory") {
		t.Errorf("expected available drivers in message, got: %v", err)
	}
}

func TestListRegisteredDrivers(t *testing.T) {
	resetRegistries()

	RegisterSearchDriver(&mockSearchDriver{name: "search-b"})
	RegisterSearchDriver(&mockSearchDriver{name: "search-a"})
	RegisterStoreDriver(&mockStoreDriver{name: "store1"})

	drivers := ListRegisteredDrivers()

	if got := drivers["search"]; len(got) != 2 || got[0] != "search-a" {
		t.Errorf("expected sorted search drivers, got %v", got)
	}
	if len(drivers["store"]) != 1 {
		t.Errorf("expected 1 store driver, got %d", len(drivers["store"]))
	}
}
