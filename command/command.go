package command

import (
	"fmt"

	"github.com/ncobase/searchsync/data/store"
)

// Role groups related commands.
type Role string

const (
	RoleSearch Role = "search"
	RoleEntity Role = "entity"
)

// Kind names an operation within a role.
type Kind string

const (
	CreateIndex Kind = "create-index"
	HasIndex    Kind = "has-index"
	DeleteIndex Kind = "delete-index"
	Save        Kind = "save"
	Load        Kind = "load"
	Search      Kind = "search"
	Remove      Kind = "remove"
	List        Kind = "list"
)

// Pattern identifies a registered handler. An empty Base matches every base.
type Pattern struct {
	Role Role
	Cmd  Kind
	Base string
}

func (p Pattern) String() string {
	if p.Base == "" {
		return fmt.Sprintf("role:%s,cmd:%s", p.Role, p.Cmd)
	}
	return fmt.Sprintf("role:%s,cmd:%s,base:%s", p.Role, p.Cmd, p.Base)
}

// Command is one invocation. Only the fields the operation needs are set.
type Command struct {
	Role  Role
	Cmd   Kind
	Base  string
	Index string
	Type  string
	ID    string
	// Data is the record to save.
	Data map[string]any
	// Query is a free-text query-string expression.
	Query string
	// Search is a structured query body passed to the engine unchanged.
	Search map[string]any
	// From and Size override paging when the query body leaves them out.
	From *int
	Size *int
	// Entity is the payload of entity commands.
	Entity *store.Entity
}

// Pattern returns the command's own pattern, including its base.
func (c *Command) Pattern() Pattern {
	return Pattern{Role: c.Role, Cmd: c.Cmd, Base: c.Base}
}

// Int returns a pointer to n, for the paging fields.
func Int(n int) *int { return &n }
