package indexer

import (
	"context"

	"github.com/google/uuid"
	"github.com/ncobase/searchsync/config"
	"github.com/ncobase/searchsync/data/metrics"
	"github.com/ncobase/searchsync/logging/logger"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// IDGenerator returns a fresh entity id.
type IDGenerator func() string

// FatalHandler is called when an entity removal leaves the index out of
// sync with the store.
type FatalHandler func(ctx context.Context, err *MirrorError)

// Option configures a Plugin
type Option func(*Plugin)

// WithLogger sets the plugin logger
func WithLogger(l *logger.Logger) Option {
	return func(p *Plugin) {
		if l != nil {
			p.log = l
		}
	}
}

// WithCollector sets the metrics collector
func WithCollector(c metrics.Collector) Option {
	return func(p *Plugin) {
		if c != nil {
			p.collector = c
		}
	}
}

// WithIDGenerator overrides the configured id generator
func WithIDGenerator(gen IDGenerator) Option {
	return func(p *Plugin) {
		if gen != nil {
			p.newID = gen
		}
	}
}

// WithFatalHandler sets the handler for fatal mirror failures.
// The default logs the failure at error level.
func WithFatalHandler(h FatalHandler) Option {
	return func(p *Plugin) {
		if h != nil {
			p.onFatal = h
		}
	}
}

// NewUUID returns a random UUID string
func NewUUID() string { return uuid.NewString() }

// NewNanoID returns a 21 character nanoid
func NewNanoID() string {
	id, err := gonanoid.New()
	if err != nil {
		return uuid.NewString()
	}
	return id
}

func idGenerator(name string) IDGenerator {
	if name == config.IDGeneratorNanoID {
		return NewNanoID
	}
	return NewUUID
}
