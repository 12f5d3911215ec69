package search

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ncobase/searchsync/config"
)

// AdapterFactory creates a search adapter from a driver connection
type AdapterFactory func(conn any, cfg *config.Search) (Adapter, error)

var (
	// Registry of adapter factories by engine type
	adapterFactories = make(map[Engine]AdapterFactory)
	factoriesMu      sync.RWMutex
)

// RegisterAdapterFactory registers a factory for creating search adapters.
// This is called by search driver packages in their init() functions.
func RegisterAdapterFactory(engine Engine, factory AdapterFactory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	adapterFactories[engine] = factory
}

// GetAdapterFactory returns the factory for a given engine
func GetAdapterFactory(engine Engine) (AdapterFactory, error) {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	factory, ok := adapterFactories[engine]
	if !ok {
		return nil, fmt.Errorf("no adapter factory registered for engine: %s", engine)
	}
	return factory, nil
}

// GetRegisteredEngines returns list of engines with registered factories
func GetRegisteredEngines() []Engine {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	engines := make([]Engine, 0, len(adapterFactories))
	for engine := range adapterFactories {
		engines = append(engines, engine)
	}
	sort.Slice(engines, func(i, j int) bool { return engines[i] < engines[j] })
	return engines
}
