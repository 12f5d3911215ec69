package bleve

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/ncobase/searchsync/data/search"
	"github.com/ncobase/searchsync/ecode"
)

// SourceField stores the original document as JSON.
const SourceField = "source_json"

var errNoIndex = errors.New("bleve: " + ecode.NotExist("index"))

// Engine owns the named bleve indexes of one process. With an empty path
// indexes live in memory and vanish on Close.
type Engine struct {
	mu      sync.Mutex
	path    string
	indexes map[string]bleve.Index
}

// NewEngine creates an engine rooted at path.
func NewEngine(path string) (*Engine, error) {
	if path != "" {
		if err := os.MkdirAll(path, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create index directory: %w", err)
		}
	}
	return &Engine{path: path, indexes: make(map[string]bleve.Index)}, nil
}

func (e *Engine) indexPath(name string) string {
	return filepath.Join(e.path, name+".bleve")
}

// open returns the named index, creating it when create is set.
func (e *Engine) open(name string, create bool) (bleve.Index, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.openLocked(name, create)
}

func (e *Engine) openLocked(name string, create bool) (bleve.Index, error) {
	if idx, ok := e.indexes[name]; ok {
		return idx, nil
	}

	if e.path != "" {
		idx, err := bleve.Open(e.indexPath(name))
		if err == nil {
			e.indexes[name] = idx
			return idx, nil
		}
		if err != bleve.ErrorIndexPathDoesNotExist {
			return nil, err
		}
	}
	if !create {
		return nil, errNoIndex
	}

	var (
		idx bleve.Index
		err error
	)
	if e.path == "" {
		idx, err = bleve.NewMemOnly(newMapping())
	} else {
		idx, err = bleve.New(e.indexPath(name), newMapping())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create index %s: %w", name, err)
	}
	e.indexes[name] = idx
	return idx, nil
}

// Exists reports whether the named index exists.
func (e *Engine) Exists(name string) (bool, error) {
	_, err := e.open(name, false)
	if errors.Is(err, errNoIndex) {
		return false, nil
	}
	return err == nil, err
}

// Create creates the named index.
func (e *Engine) Create(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.openLocked(name, false); err == nil {
		return search.ErrIndexExists
	} else if !errors.Is(err, errNoIndex) {
		return err
	}
	_, err := e.openLocked(name, true)
	return err
}

// Drop closes and removes the named index.
func (e *Engine) Drop(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx, err := e.openLocked(name, false)
	if errors.Is(err, errNoIndex) {
		return search.ErrIndexNotFound
	}
	if err != nil {
		return err
	}
	delete(e.indexes, name)
	if err := idx.Close(); err != nil {
		return err
	}
	if e.path != "" {
		return os.RemoveAll(e.indexPath(name))
	}
	return nil
}

// Names lists the open indexes.
func (e *Engine) Names() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	names := make([]string, 0, len(e.indexes))
	for name := range e.indexes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close closes every open index.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var errs []error
	for name, idx := range e.indexes {
		if err := idx.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close index %s: %w", name, err))
		}
	}
	e.indexes = make(map[string]bleve.Index)
	return errors.Join(errs...)
}

// newMapping maps the entity type as a keyword and stores the source
// without indexing it. Other fields are mapped dynamically.
func newMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt(search.TypeField, bleve.NewKeywordFieldMapping())

	source := bleve.NewTextFieldMapping()
	source.Index = false
	source.Store = true
	source.IncludeInAll = false
	docMapping.AddFieldMappingsAt(SourceField, source)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}
