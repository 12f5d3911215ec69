package indexer

import (
	"context"
	"errors"
	"fmt"

	"github.com/ncobase/searchsync/command"
	"github.com/ncobase/searchsync/config"
	"github.com/ncobase/searchsync/data/metrics"
	"github.com/ncobase/searchsync/data/search"
	"github.com/ncobase/searchsync/data/store"
	"github.com/ncobase/searchsync/logging/logger"
	"github.com/ncobase/searchsync/pipeline"
)

// Plugin keeps a search index in step with an authoritative store and
// answers searches with reconciled, live entity data.
//
// Configuration is read once in New. A Plugin holds no per-call state and
// is safe for concurrent use when its adapter and store are.
type Plugin struct {
	conn      *config.Connection
	refresh   bool
	autoIndex bool
	entities  config.Entities
	filters   filterTable
	base      string
	namespace string

	adapter   search.Adapter
	store     store.Store
	registry  *command.Registry
	recon     *Reconciler
	log       *logger.Logger
	collector metrics.Collector
	newID     IDGenerator
	onFatal   FatalHandler

	save         *pipeline.Pipeline[*recordState]
	load         *pipeline.Pipeline[*recordState]
	find         *pipeline.Pipeline[*recordState]
	remove       *pipeline.Pipeline[*recordState]
	entitySave   *pipeline.Pipeline[*entityState]
	entityRemove *pipeline.Pipeline[*entityState]
}

// New creates a plugin over adapter and st.
func New(cfg *config.Config, adapter search.Adapter, st store.Store, opts ...Option) (*Plugin, error) {
	if cfg == nil || cfg.Search == nil {
		return nil, missingArgument("config")
	}
	if adapter == nil {
		return nil, missingArgument("search adapter")
	}
	if st == nil {
		return nil, missingArgument("store")
	}

	sc := cfg.Search
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid search config: %w", err)
	}
	p := &Plugin{
		conn:      config.ResolveConnection(sc.Connection),
		refresh:   sc.RefreshOnSave,
		autoIndex: sc.AutoCreateIndex,
		entities:  sc.Entities,
		filters:   newFilterTable(sc.Filters),
		base:      sc.Base,
		namespace: sc.BaseOrDefault(),
		adapter:   adapter,
		store:     st,
		log:       logger.StdLogger(),
		collector: metrics.NoOpCollector{},
		newID:     idGenerator(sc.IDGenerator),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.onFatal == nil {
		p.onFatal = p.logFatal
	}

	p.recon = NewReconciler(st, p.namespace, p.entities,
		WithConcurrency(sc.Concurrency),
		WithDropCollector(p.collector),
	)
	p.buildRecordPipelines()
	p.buildEntityPipelines()

	return p, nil
}

// Connection returns the resolved connection options.
func (p *Plugin) Connection() config.Connection { return *p.conn }

// Adapter returns the search adapter in use.
func (p *Plugin) Adapter() search.Adapter { return p.adapter }

// Init ensures the default index exists.
func (p *Plugin) Init(ctx context.Context) error {
	if err := p.EnsureIndex(ctx, ""); err != nil {
		return err
	}
	p.log.Infof(ctx, "search plugin ready on index %s (%s)", p.conn.Index, p.adapter.Type())
	return nil
}

// Register adds the search commands to r and wraps the entity save and
// remove handlers for the configured base.
//
// The wrap captures the entity handlers present at call time, so the
// store handlers (command.RegisterEntityStore) must already be in r.
// Registered the other way round, entity saves fail with
// command.ErrNoHandler.
//
// A wrapped entity save whose index write fails returns the stored
// entity together with a *MirrorError matching ErrIndexMirror. The
// store write has succeeded by then: check errors.Is(err, ErrIndexMirror)
// before discarding the result.
func (p *Plugin) Register(r *command.Registry) error {
	p.registry = r

	handlers := map[command.Kind]command.Handler{
		command.CreateIndex: func(ctx context.Context, cmd *command.Command) (any, error) {
			return true, p.EnsureIndex(ctx, cmd.Index)
		},
		command.HasIndex: func(ctx context.Context, cmd *command.Command) (any, error) {
			return p.HasIndex(ctx, cmd.Index)
		},
		command.DeleteIndex: func(ctx context.Context, cmd *command.Command) (any, error) {
			return p.DeleteIndex(ctx, cmd.Index)
		},
		command.Save: func(ctx context.Context, cmd *command.Command) (any, error) {
			return p.Save(ctx, cmd)
		},
		command.Load: func(ctx context.Context, cmd *command.Command) (any, error) {
			return p.Load(ctx, cmd)
		},
		command.Search: func(ctx context.Context, cmd *command.Command) (any, error) {
			return p.Search(ctx, cmd)
		},
		command.Remove: func(ctx context.Context, cmd *command.Command) (any, error) {
			return p.Remove(ctx, cmd)
		},
	}
	for kind, h := range handlers {
		if err := r.Add(command.Pattern{Role: command.RoleSearch, Cmd: kind}, h); err != nil {
			return err
		}
	}

	if err := r.Wrap(command.Pattern{Role: command.RoleEntity, Cmd: command.Save, Base: p.base}, p.wrapEntitySave); err != nil {
		return err
	}
	return r.Wrap(command.Pattern{Role: command.RoleEntity, Cmd: command.Remove, Base: p.base}, p.wrapEntityRemove)
}

// act routes a mirror command through the registry when registered, so
// overrides of the search commands apply.
func (p *Plugin) act(ctx context.Context, cmd *command.Command) (any, error) {
	if p.registry != nil {
		return p.registry.Act(ctx, cmd)
	}
	switch cmd.Cmd {
	case command.Save:
		return p.Save(ctx, cmd)
	case command.Remove:
		return p.Remove(ctx, cmd)
	}
	return nil, command.ErrNoHandler
}

func (p *Plugin) logFatal(ctx context.Context, err *MirrorError) {
	p.log.Errorf(ctx, "index out of sync with store: %v", err)
}

func (p *Plugin) defaults() RequestDefaults {
	return RequestDefaults{Index: p.conn.Index, Refresh: p.refresh}
}

func isNotFound(err error) bool {
	return errors.Is(err, search.ErrNotFound)
}
