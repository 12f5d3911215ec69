package indexer

import (
	"github.com/ncobase/searchsync/command"
)

// NormalizeQuery returns the search body for cmd. A structured query is
// returned unchanged. Otherwise a free-text query becomes a query_string
// over all fields, and no query at all becomes match_all. Paging from the
// command only applies to built bodies.
func NormalizeQuery(cmd *command.Command) map[string]any {
	if cmd.Search != nil {
		return cmd.Search
	}

	var query map[string]any
	if cmd.Query != "" {
		query = map[string]any{"query_string": map[string]any{"query": cmd.Query}}
	} else {
		query = map[string]any{"match_all": map[string]any{}}
	}

	body := map[string]any{"query": query}
	if cmd.From != nil {
		body["from"] = *cmd.From
	}
	if cmd.Size != nil {
		body["size"] = *cmd.Size
	}
	return body
}
