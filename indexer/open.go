package indexer

import (
	"context"
	"errors"
	"fmt"

	"github.com/ncobase/searchsync/command"
	"github.com/ncobase/searchsync/config"
	"github.com/ncobase/searchsync/data"
	"github.com/ncobase/searchsync/data/metrics"
	"github.com/ncobase/searchsync/data/search"
	"github.com/ncobase/searchsync/data/store"
	"github.com/ncobase/searchsync/logging/logger"
	"github.com/ncobase/searchsync/logging/observes"

	"github.com/prometheus/client_golang/prometheus"
)

// Open builds a ready plugin from configuration: logger, tracer, metrics,
// search adapter and store from the registered drivers, a registry with
// the base entity handlers, and the plugin registered on it. The default
// index is ensured before Open returns.
//
// Drivers must be linked in, e.g. with
//
//	import _ "github.com/ncobase/searchsync/data/all"
func Open(ctx context.Context, cfg *config.Config) (*Plugin, func(), error) {
	if cfg == nil || cfg.Search == nil || cfg.Store == nil {
		return nil, nil, missingArgument("config")
	}

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (*Plugin, func(), error) {
		cleanup()
		return nil, nil, err
	}

	logger.SetVersion(cfg.Version)
	closeLog, err := logger.New(cfg.Logger)
	if err != nil {
		return fail(fmt.Errorf("init logger: %w", err))
	}
	closers = append(closers, closeLog)

	if cfg.Tracer != nil && cfg.Tracer.Endpoint != "" {
		shutdown, err := observes.NewTracer(cfg.Tracer, cfg.AppName, cfg.Version)
		if err != nil {
			return fail(fmt.Errorf("init tracer: %w", err))
		}
		closers = append(closers, func() { _ = shutdown(context.Background()) })
	}

	conn := config.ResolveConnection(cfg.Search.Connection)
	log, err := logger.StdLogger().Derive(conn.Log)
	if err != nil {
		return fail(err)
	}

	collector, err := newCollector(cfg.Metrics)
	if err != nil {
		return fail(fmt.Errorf("init metrics: %w", err))
	}

	adapter, closeAdapter, err := openAdapter(ctx, cfg.Search)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, closeAdapter)
	adapter = search.WithBreaker(search.Instrument(adapter, collector), cfg.Search.Breaker)

	st, closeStore, err := openStore(ctx, cfg.Store)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, closeStore)
	st = store.Instrument(st, collector)

	registry := command.NewRegistry()
	if err := command.RegisterEntityStore(registry, st); err != nil {
		return fail(err)
	}

	p, err := New(cfg, adapter, st, WithLogger(log), WithCollector(collector))
	if err != nil {
		return fail(err)
	}
	if err := p.Register(registry); err != nil {
		return fail(err)
	}
	if err := p.Init(ctx); err != nil {
		return fail(err)
	}

	return p, cleanup, nil
}

// Registry returns the registry the plugin was registered on, if any.
func (p *Plugin) Registry() *command.Registry { return p.registry }

// Act dispatches cmd through the plugin's registry.
func (p *Plugin) Act(ctx context.Context, cmd *command.Command) (any, error) {
	if p.registry == nil {
		return nil, errors.New("plugin is not registered")
	}
	ctx, _ = logger.EnsureTraceID(ctx)
	return p.registry.Act(ctx, cmd)
}

func newCollector(cfg *config.Metrics) (metrics.Collector, error) {
	if cfg == nil || !cfg.Enabled {
		return metrics.NoOpCollector{}, nil
	}
	if cfg.Type == "prometheus" {
		return metrics.NewPrometheusCollector(cfg.Namespace, prometheus.DefaultRegisterer)
	}
	return metrics.NewDataCollector(), nil
}

func openAdapter(ctx context.Context, cfg *config.Search) (search.Adapter, func(), error) {
	driver, err := data.GetSearchDriver(cfg.Engine)
	if err != nil {
		return nil, nil, err
	}
	conn, err := driver.Connect(ctx, cfg)
	if err != nil {
		return nil, nil, transportError("connect "+cfg.Engine, err)
	}
	closeConn := func() { _ = driver.Close(conn) }

	factory, err := search.GetAdapterFactory(search.Engine(cfg.Engine))
	if err != nil {
		closeConn()
		return nil, nil, err
	}
	adapter, err := factory(conn, cfg)
	if err != nil {
		closeConn()
		return nil, nil, err
	}
	return adapter, closeConn, nil
}

func openStore(ctx context.Context, cfg *config.Store) (store.Store, func(), error) {
	driver, err := data.GetStoreDriver(cfg.Driver)
	if err != nil {
		return nil, nil, err
	}
	conn, err := driver.Connect(ctx, cfg)
	if err != nil {
		return nil, nil, transportError("connect "+cfg.Driver, err)
	}
	closeConn := func() { _ = driver.Close(conn) }

	st, ok := conn.(store.Store)
	if !ok {
		closeConn()
		return nil, nil, fmt.Errorf("store driver %s returned %T", cfg.Driver, conn)
	}
	if err := driver.Ping(ctx, conn); err != nil {
		closeConn()
		return nil, nil, transportError("ping "+cfg.Driver, err)
	}
	return st, closeConn, nil
}
