package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Collector interface for indexer metrics
type Collector interface {
	SearchQuery(engine string, err error)
	SearchIndex(engine, operation string)
	StoreOperation(driver, operation string, err error)
	ReconcileDropped(entityType string, count int)
	HealthCheck(component string, healthy bool)
}

// NoOpCollector implements Collector with no-op methods
type NoOpCollector struct{}

func (NoOpCollector) SearchQuery(string, error)            {}
func (NoOpCollector) SearchIndex(string, string)           {}
func (NoOpCollector) StoreOperation(string, string, error) {}
func (NoOpCollector) ReconcileDropped(string, int)         {}
func (NoOpCollector) HealthCheck(string, bool)             {}

// DataCollector keeps in-process counters
type DataCollector struct {
	searchQueries  atomic.Int64
	searchErrors   atomic.Int64
	searchIndexOps atomic.Int64

	storeOps    atomic.Int64
	storeErrors atomic.Int64

	reconcileDropped atomic.Int64

	lastSearchQuery atomic.Value // time.Time
	lastStoreOp     atomic.Value // time.Time

	healthChecks map[string]*atomic.Bool
	healthMu     sync.RWMutex
}

// NewDataCollector creates a new in-memory collector
func NewDataCollector() *DataCollector {
	c := &DataCollector{
		healthChecks: make(map[string]*atomic.Bool),
	}
	now := time.Now()
	c.lastSearchQuery.Store(now)
	c.lastStoreOp.Store(now)
	return c
}

// SearchQuery records search query metrics
func (c *DataCollector) SearchQuery(engine string, err error) {
	c.searchQueries.Add(1)
	c.lastSearchQuery.Store(time.Now())
	if err != nil {
		c.searchErrors.Add(1)
	}
}

// SearchIndex records search index operation metrics
func (c *DataCollector) SearchIndex(engine, operation string) {
	c.searchIndexOps.Add(1)
}

// StoreOperation records authoritative store operation metrics
func (c *DataCollector) StoreOperation(driver, operation string, err error) {
	c.storeOps.Add(1)
	c.lastStoreOp.Store(time.Now())
	if err != nil {
		c.storeErrors.Add(1)
	}
}

// ReconcileDropped records hits dropped for lack of an authoritative record
func (c *DataCollector) ReconcileDropped(entityType string, count int) {
	c.reconcileDropped.Add(int64(count))
}

// HealthCheck records health check metrics
func (c *DataCollector) HealthCheck(component string, healthy bool) {
	c.healthMu.Lock()
	if _, exists := c.healthChecks[component]; !exists {
		c.healthChecks[component] = &atomic.Bool{}
	}
	healthCheck := c.healthChecks[component]
	c.healthMu.Unlock()

	healthCheck.Store(healthy)
}

// GetStats returns current statistics
func (c *DataCollector) GetStats() map[string]any {
	c.healthMu.RLock()
	healthStatus := make(map[string]bool)
	for component, status := range c.healthChecks {
		healthStatus[component] = status.Load()
	}
	c.healthMu.RUnlock()

	return map[string]any{
		"search": map[string]any{
			"queries":    c.searchQueries.Load(),
			"errors":     c.searchErrors.Load(),
			"index_ops":  c.searchIndexOps.Load(),
			"last_query": c.lastSearchQuery.Load(),
		},
		"store": map[string]any{
			"operations":     c.storeOps.Load(),
			"errors":         c.storeErrors.Load(),
			"last_operation": c.lastStoreOp.Load(),
		},
		"reconcile": map[string]any{
			"dropped": c.reconcileDropped.Load(),
		},
		"health":    healthStatus,
		"timestamp": time.Now(),
	}
}

func boolToString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
