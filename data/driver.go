package data

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Driver interfaces define contracts for the backends the indexer talks to.
// Drivers register themselves from init() and are looked up at runtime
// based on configuration, the way database/sql does it.

// SearchDriver connects to a search engine. Connect returns the engine's
// native client, which the engine's search.AdapterFactory turns into an Adapter.
type SearchDriver interface {
	// Name returns the driver identifier (e.g., "elasticsearch", "bleve")
	Name() string

	// Connect establishes a new search engine connection.
	Connect(ctx context.Context, cfg any) (any, error)

	// Close terminates the search engine connection.
	Close(conn any) error
}

// StoreDriver opens an authoritative entity store.
type StoreDriver interface {
	// Name returns the driver identifier (e.g., "mongodb", "redis", "memory")
	Name() string

	// Connect opens the store. The returned value implements store.Store.
	Connect(ctx context.Context, cfg any) (any, error)

	// Close releases the store's resources.
	Close(conn any) error

	// Ping verifies the store is reachable.
	Ping(ctx context.Context, conn any) error
}

var (
	searchDrivers   = make(map[string]SearchDriver)
	searchDriversMu sync.RWMutex

	storeDrivers   = make(map[string]StoreDriver)
	storeDriversMu sync.RWMutex
)

// RegisterSearchDriver makes a search engine driver available by the provided name.
// It is intended to be called from the init function in driver packages.
//
//	func init() {
//	    data.RegisterSearchDriver(&driver{})
//	}
//
// If RegisterSearchDriver is called twice with the same name or if driver is nil,
// it panics.
func RegisterSearchDriver(driver SearchDriver) {
	searchDriversMu.Lock()
	defer searchDriversMu.Unlock()

	if driver == nil {
		panic("data: RegisterSearchDriver driver is nil")
	}

	name := driver.Name()
	if name == "" {
		panic("data: RegisterSearchDriver driver name is empty")
	}

	if _, exists := searchDrivers[name]; exists {
		panic(fmt.Sprintf("data: RegisterSearchDriver called twice for driver %s", name))
	}

	searchDrivers[name] = driver
}

// RegisterStoreDriver makes a store driver available by the provided name.
// It follows the same rules as RegisterSearchDriver.
func RegisterStoreDriver(driver StoreDriver) {
	storeDriversMu.Lock()
	defer storeDriversMu.Unlock()

	if driver == nil {
		panic("data: RegisterStoreDriver driver is nil")
	}

	name := driver.Name()
	if name == "" {
		panic("data: RegisterStoreDriver driver name is empty")
	}

	if _, exists := storeDrivers[name]; exists {
		panic(fmt.Sprintf("data: RegisterStoreDriver called twice for driver %s", name))
	}

	storeDrivers[name] = driver
}

// GetSearchDriver retrieves a registered search engine driver by name.
func GetSearchDriver(name string) (SearchDriver, error) {
	searchDriversMu.RLock()
	defer searchDriversMu.RUnlock()

	driver, ok := searchDrivers[name]
	if !ok {
		return nil, fmt.Errorf(
			"data: search driver %q not registered\n\n"+
				"Did you forget to import the driver package?\n"+
				"    _ \"github.com/ncobase/searchsync/data/%s\"\n\n"+
				"Available drivers: %v",
			name, name, sortedKeys(searchDrivers),
		)
	}

	return driver, nil
}

// GetStoreDriver retrieves a registered store driver by name.
func GetStoreDriver(name string) (StoreDriver, error) {
	storeDriversMu.RLock()
	defer storeDriversMu.RUnlock()

	driver, ok := storeDrivers[name]
	if !ok {
		return nil, fmt.Errorf(
			"data: store driver %q not registered\n\n"+
				"Did you forget to import the driver package?\n"+
				"    _ \"github.com/ncobase/searchsync/data/%s\"\n\n"+
				"Available drivers: %v",
			name, name, sortedKeys(storeDrivers),
		)
	}

	return driver, nil
}

// ListRegisteredDrivers returns a snapshot of all registered drivers.
func ListRegisteredDrivers() map[string][]string {
	result := make(map[string][]string)

	searchDriversMu.RLock()
	result["search"] = sortedKeys(searchDrivers)
	searchDriversMu.RUnlock()

	storeDriversMu.RLock()
	result["store"] = sortedKeys(storeDrivers)
	storeDriversMu.RUnlock()

	return result
}

// sortedKeys must be called with the registry lock held
func sortedKeys[T any](m map[string]T) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
