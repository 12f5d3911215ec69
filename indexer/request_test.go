package indexer

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ncobase/searchsync/command"
)

func TestBuildRequest(t *testing.T) {
	defaults := RequestDefaults{Index: "main", Refresh: true}

	tests := []struct {
		name        string
		cmd         *command.Command
		requireType bool
		wantIndex   string
		wantType    string
		wantErr     error
	}{
		{
			name:      "explicit index and type",
			cmd:       &command.Command{Index: "other", Type: "foo", ID: "1"},
			wantIndex: "other", wantType: "foo",
		},
		{
			name:      "type from data",
			cmd:       &command.Command{Data: map[string]any{"entity_type": "bar"}},
			wantIndex: "main", wantType: "bar",
		},
		{
			name:      "camel-case type from data",
			cmd:       &command.Command{Data: map[string]any{"entityType": "baz"}},
			wantIndex: "main", wantType: "baz",
		},
		{
			name:      "snake-case key wins over camel-case",
			cmd:       &command.Command{Data: map[string]any{"entity_type": "bar", "entityType": "baz"}},
			wantIndex: "main", wantType: "bar",
		},
		{
			name:      "command type wins over data",
			cmd:       &command.Command{Type: "foo", Data: map[string]any{"entity_type": "bar"}},
			wantIndex: "main", wantType: "foo",
		},
		{
			name:        "missing type",
			cmd:         &command.Command{Data: map[string]any{"x": 1}},
			requireType: true,
			wantErr:     ErrMissingType,
		},
		{
			name:        "missing data and type",
			cmd:         &command.Command{},
			requireType: true,
			wantErr:     ErrMissingArgument,
		},
		{
			name:      "type optional",
			cmd:       &command.Command{},
			wantIndex: "main",
		},
		{
			name:    "nil command",
			wantErr: ErrMissingArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := BuildRequest(tt.cmd, defaults, tt.requireType)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("BuildRequest() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("BuildRequest() error = %v", err)
			}
			if req.Index != tt.wantIndex || req.Type != tt.wantType {
				t.Errorf("BuildRequest() = %+v", req)
			}
			if !req.Refresh {
				t.Error("refresh default not applied")
			}
		})
	}
}

func TestBuildRequestHasNoSideEffects(t *testing.T) {
	cmd := &command.Command{Data: map[string]any{"entity_type": "foo"}}
	if _, err := BuildRequest(cmd, RequestDefaults{Index: "main"}, true); err != nil {
		t.Fatal(err)
	}
	if cmd.Type != "" || cmd.Index != "" || len(cmd.Data) != 1 {
		t.Errorf("command changed: %+v", cmd)
	}
}

func TestNormalizeQuery(t *testing.T) {
	structured := map[string]any{"query": map[string]any{"term": map[string]any{"a": "b"}}}

	tests := []struct {
		name string
		cmd  *command.Command
		want map[string]any
	}{
		{
			name: "structured passes through",
			cmd:  &command.Command{Search: structured, Query: "ignored", Size: command.Int(3)},
			want: structured,
		},
		{
			name: "free text",
			cmd:  &command.Command{Query: "alice"},
			want: map[string]any{"query": map[string]any{"query_string": map[string]any{"query": "alice"}}},
		},
		{
			name: "match all with paging",
			cmd:  &command.Command{From: command.Int(10), Size: command.Int(5)},
			want: map[string]any{
				"query": map[string]any{"match_all": map[string]any{}},
				"from":  10,
				"size":  5,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeQuery(tt.cmd); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeQuery() = %v, want %v", got, tt.want)
			}
		})
	}
}
