package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector exports indexer metrics to Prometheus
type PrometheusCollector struct {
	searchQueries    *prometheus.CounterVec
	searchIndexOps   *prometheus.CounterVec
	storeOps         *prometheus.CounterVec
	reconcileDropped *prometheus.CounterVec
	health           *prometheus.GaugeVec
}

// NewPrometheusCollector creates the collector and registers it with reg.
func NewPrometheusCollector(namespace string, reg prometheus.Registerer) (*PrometheusCollector, error) {
	c := &PrometheusCollector{
		searchQueries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "search_queries_total",
				Help:      "Total number of search queries",
			},
			[]string{"engine", "success"},
		),
		searchIndexOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "search_index_operations_total",
				Help:      "Total number of index writes and deletes",
			},
			[]string{"engine", "operation"},
		),
		storeOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_operations_total",
				Help:      "Total number of authoritative store operations",
			},
			[]string{"driver", "operation", "success"},
		),
		reconcileDropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reconcile_dropped_hits_total",
				Help:      "Search hits dropped because the entity no longer exists",
			},
			[]string{"entity_type"},
		),
		health: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "component_healthy",
				Help:      "Component health, 1 when healthy",
			},
			[]string{"component"},
		),
	}

	for _, col := range []prometheus.Collector{c.searchQueries, c.searchIndexOps, c.storeOps, c.reconcileDropped, c.health} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// SearchQuery records search query metrics
func (c *PrometheusCollector) SearchQuery(engine string, err error) {
	c.searchQueries.WithLabelValues(engine, boolToString(err == nil)).Inc()
}

// SearchIndex records search index operation metrics
func (c *PrometheusCollector) SearchIndex(engine, operation string) {
	c.searchIndexOps.WithLabelValues(engine, operation).Inc()
}

// StoreOperation records authoritative store operation metrics
func (c *PrometheusCollector) StoreOperation(driver, operation string, err error) {
	c.storeOps.WithLabelValues(driver, operation, boolToString(err == nil)).Inc()
}

// ReconcileDropped records dropped hits
func (c *PrometheusCollector) ReconcileDropped(entityType string, count int) {
	c.reconcileDropped.WithLabelValues(entityType).Add(float64(count))
}

// HealthCheck records health check metrics
func (c *PrometheusCollector) HealthCheck(component string, healthy bool) {
	v := 0.0
	if healthy {
		v = 1
	}
	c.health.WithLabelValues(component).Set(v)
}
