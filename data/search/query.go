package search

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// Query is the engine-neutral reading of a query body, used by engines
// that do not speak the query DSL natively.
type Query struct {
	// Text is a query-string expression; empty means match all.
	Text  string
	Terms map[string]any
	From  int
	Size  int
}

// ParseQuery reads query_string, match, match_all, term and bool clauses
// out of a DSL body. Unknown clauses are ignored.
func ParseQuery(body map[string]any) Query {
	q := Query{Terms: map[string]any{}}
	if body == nil {
		return q
	}
	q.From = cast.ToInt(body["from"])
	q.Size = cast.ToInt(body["size"])

	var texts []string
	collectClause(body["query"], &texts, q.Terms)
	q.Text = strings.Join(texts, " ")
	return q
}

func collectClause(raw any, texts *[]string, terms map[string]any) {
	clause, ok := raw.(map[string]any)
	if !ok {
		return
	}
	for kind, value := range clause {
		switch kind {
		case "query_string", "simple_query_string":
			if m, ok := value.(map[string]any); ok {
				if s := cast.ToString(m["query"]); s != "" && s != "*" {
					*texts = append(*texts, s)
				}
			}
		case "match", "match_phrase":
			if m, ok := value.(map[string]any); ok {
				for _, v := range m {
					if inner, ok := v.(map[string]any); ok {
						v = inner["query"]
					}
					if s := cast.ToString(v); s != "" {
						*texts = append(*texts, s)
					}
				}
			}
		case "term":
			if m, ok := value.(map[string]any); ok {
				for field, v := range m {
					if inner, ok := v.(map[string]any); ok {
						v = inner["value"]
					}
					terms[field] = v
				}
			}
		case "bool":
			m, ok := value.(map[string]any)
			if !ok {
				continue
			}
			for _, occur := range []string{"must", "filter", "should"} {
				switch sub := m[occur].(type) {
				case []any:
					for _, c := range sub {
						collectClause(c, texts, terms)
					}
				case []map[string]any:
					for _, c := range sub {
						collectClause(c, texts, terms)
					}
				case map[string]any:
					collectClause(sub, texts, terms)
				}
			}
		}
	}
}

// WithTypeFilter returns a copy of body whose query is restricted to
// documents of the given entity type.
func WithTypeFilter(body map[string]any, entityType string) map[string]any {
	out := make(map[string]any, len(body)+1)
	for k, v := range body {
		out[k] = v
	}
	if entityType == "" {
		return out
	}

	query, ok := out["query"]
	if !ok {
		query = map[string]any{"match_all": map[string]any{}}
	}
	out["query"] = map[string]any{
		"bool": map[string]any{
			"must":   []any{query},
			"filter": []any{map[string]any{"term": map[string]any{TypeField: entityType}}},
		},
	}
	return out
}

// IndexMapping is the index body created by the DSL engines. Only the
// type field is mapped; everything else is dynamic.
var IndexMapping = map[string]any{
	"mappings": map[string]any{
		"properties": map[string]any{
			TypeField: map[string]any{"type": "keyword"},
		},
	},
}

// FilterExpr renders terms as a Meilisearch-style filter expression.
func FilterExpr(terms map[string]any) string {
	parts := make([]string, 0, len(terms))
	for field, v := range terms {
		parts = append(parts, fmt.Sprintf("%s = %q", field, cast.ToString(v)))
	}
	return strings.Join(parts, " AND ")
}
