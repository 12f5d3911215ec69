package search

import "time"

// Engine represents search engine type
type Engine string

const (
	Elasticsearch Engine = "elasticsearch"
	OpenSearch    Engine = "opensearch"
	Meilisearch   Engine = "meilisearch"
	Bleve         Engine = "bleve"
)

// TypeField is the document field carrying the entity type.
const TypeField = "entity_type"

// IDField is engine metadata and never part of a document body.
const IDField = "_id"

// Request is the wire request handed to an Adapter.
// For Index, Body is the document; for Search, it is the query body.
type Request struct {
	Index   string         `json:"index"`
	Type    string         `json:"type,omitempty"`
	ID      string         `json:"id,omitempty"`
	Body    map[string]any `json:"body,omitempty"`
	Refresh bool           `json:"refresh,omitempty"`
}

// Hit represents search result item
type Hit struct {
	ID     string         `json:"id"`
	Type   string         `json:"type"`
	Index  string         `json:"index,omitempty"`
	Score  float64        `json:"score"`
	Source map[string]any `json:"source,omitempty"`
}

// Result represents unified search response
type Result struct {
	Total  int64         `json:"total"`
	Hits   []Hit         `json:"hits"`
	Took   time.Duration `json:"took"`
	Engine Engine        `json:"engine"`
}

// Document is a single document envelope returned by Get.
type Document struct {
	Index  string         `json:"index"`
	Type   string         `json:"type,omitempty"`
	ID     string         `json:"id"`
	Exists bool           `json:"exists"`
	Source map[string]any `json:"source,omitempty"`
}

// WriteResult reports the outcome of an index or delete.
type WriteResult struct {
	Index   string `json:"index"`
	ID      string `json:"id"`
	Result  string `json:"result"` // created, updated, deleted, not_found, noop
	Version int64  `json:"version,omitempty"`
}

// Write result values
const (
	ResultCreated  = "created"
	ResultUpdated  = "updated"
	ResultDeleted  = "deleted"
	ResultNotFound = "not_found"
	ResultNoop     = "noop"
)
