package indexer

import (
	"github.com/ncobase/searchsync/command"
	"github.com/ncobase/searchsync/data/search"
)

// RequestDefaults are the plugin-wide values a request falls back to.
type RequestDefaults struct {
	Index   string
	Refresh bool
}

// entityTypeKey is the camel-case spelling of search.TypeField that callers
// may use in record data.
const entityTypeKey = "entityType"

// BuildRequest derives the wire request for cmd. The type comes from
// cmd.Type or, failing that, from cmd.Data: entity_type first, then
// entityType.
// With requireType, a command without a type fails with ErrMissingType;
// one without both data and type fails with ErrMissingArgument.
// BuildRequest has no side effects.
func BuildRequest(cmd *command.Command, defaults RequestDefaults, requireType bool) (*search.Request, error) {
	if cmd == nil {
		return nil, missingArgument("command")
	}

	entityType := cmd.Type
	if entityType == "" {
		if t, ok := cmd.Data[search.TypeField].(string); ok && t != "" {
			entityType = t
		} else if t, ok := cmd.Data[entityTypeKey].(string); ok {
			entityType = t
		}
	}
	if requireType && entityType == "" {
		if cmd.Data == nil {
			return nil, missingArgument("data or type")
		}
		return nil, ErrMissingType
	}

	index := cmd.Index
	if index == "" {
		index = defaults.Index
	}

	return &search.Request{
		Index:   index,
		Type:    entityType,
		ID:      cmd.ID,
		Refresh: defaults.Refresh,
	}, nil
}
