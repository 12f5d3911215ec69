// Package searchtest provides an in-memory HTTP server speaking the subset
// of the Elasticsearch/OpenSearch REST API the DSL adapters use.
package searchtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
)

// Server is a fake search cluster. Search ignores the query body apart
// from a term filter on entity_type and returns documents sorted by id.
type Server struct {
	*httptest.Server

	mu      sync.Mutex
	indices map[string]map[string]map[string]any
	// Requests counts requests per "METHOD path".
	Requests map[string]int
}

// NewServer starts a fake cluster. Close it when done.
func NewServer() *Server {
	s := &Server{
		indices:  make(map[string]map[string]map[string]any),
		Requests: make(map[string]int),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

// Doc returns a stored document source.
func (s *Server) Doc(index, id string) (map[string]any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.indices[index][id]
	return doc, ok
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	s.Requests[r.Method+" "+r.URL.Path]++

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case r.URL.Path == "/" || parts[0] == "_cluster":
		reply(w, http.StatusOK, map[string]any{"status": "green", "version": map[string]any{"number": "8.19.0"}})
	case len(parts) == 1:
		s.serveIndex(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "_search":
		s.serveSearch(w, r, parts[0])
	case len(parts) == 3 && parts[1] == "_doc":
		s.serveDoc(w, r, parts[0], parts[2])
	default:
		reply(w, http.StatusNotFound, errorBody("not_found", r.URL.Path))
	}
}

func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request, index string) {
	_, exists := s.indices[index]
	switch r.Method {
	case http.MethodHead:
		if exists {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusNotFound)
		}
	case http.MethodPut:
		if exists {
			reply(w, http.StatusBadRequest, errorBody("resource_already_exists_exception", index))
			return
		}
		s.indices[index] = make(map[string]map[string]any)
		reply(w, http.StatusOK, map[string]any{"acknowledged": true, "index": index})
	case http.MethodDelete:
		if !exists {
			reply(w, http.StatusNotFound, errorBody("index_not_found_exception", index))
			return
		}
		delete(s.indices, index)
		reply(w, http.StatusOK, map[string]any{"acknowledged": true})
	default:
		reply(w, http.StatusMethodNotAllowed, errorBody("method_not_allowed", r.Method))
	}
}

func (s *Server) serveDoc(w http.ResponseWriter, r *http.Request, index, id string) {
	docs, exists := s.indices[index]
	switch r.Method {
	case http.MethodPut, http.MethodPost:
		var doc map[string]any
		if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
			reply(w, http.StatusBadRequest, errorBody("parse_exception", err.Error()))
			return
		}
		if !exists {
			docs = make(map[string]map[string]any)
			s.indices[index] = docs
		}
		result, status := "created", http.StatusCreated
		if _, ok := docs[id]; ok {
			result, status = "updated", http.StatusOK
		}
		docs[id] = doc
		reply(w, status, map[string]any{"_index": index, "_id": id, "_version": 1, "result": result})
	case http.MethodGet:
		doc, ok := docs[id]
		if !ok {
			reply(w, http.StatusNotFound, map[string]any{"_index": index, "_id": id, "found": false})
			return
		}
		reply(w, http.StatusOK, map[string]any{"_index": index, "_id": id, "found": true, "_source": doc})
	case http.MethodDelete:
		if _, ok := docs[id]; !ok {
			reply(w, http.StatusNotFound, map[string]any{"_index": index, "_id": id, "result": "not_found"})
			return
		}
		delete(docs, id)
		reply(w, http.StatusOK, map[string]any{"_index": index, "_id": id, "_version": 2, "result": "deleted"})
	default:
		reply(w, http.StatusMethodNotAllowed, errorBody("method_not_allowed", r.Method))
	}
}

func (s *Server) serveSearch(w http.ResponseWriter, r *http.Request, index string) {
	docs, ok := s.indices[index]
	if !ok {
		reply(w, http.StatusNotFound, errorBody("index_not_found_exception", index))
		return
	}
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	entityType := typeFilter(body)

	ids := make([]string, 0, len(docs))
	for id, doc := range docs {
		if entityType != "" && doc["entity_type"] != entityType {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	hits := make([]any, 0, len(ids))
	for _, id := range ids {
		hits = append(hits, map[string]any{"_index": index, "_id": id, "_score": 1.0, "_source": docs[id]})
	}
	reply(w, http.StatusOK, map[string]any{
		"took":      1,
		"timed_out": false,
		"hits": map[string]any{
			"total": map[string]any{"value": len(hits), "relation": "eq"},
			"hits":  hits,
		},
	})
}

// typeFilter finds a bool.filter term on entity_type.
func typeFilter(body map[string]any) string {
	query, _ := body["query"].(map[string]any)
	b, _ := query["bool"].(map[string]any)
	filters, _ := b["filter"].([]any)
	for _, f := range filters {
		m, _ := f.(map[string]any)
		term, _ := m["term"].(map[string]any)
		if t, ok := term["entity_type"].(string); ok {
			return t
		}
	}
	return ""
}

func errorBody(kind, reason string) map[string]any {
	return map[string]any{"error": map[string]any{"type": kind, "reason": reason}}
}

func reply(w http.ResponseWriter, status int, body any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
