package command

import (
	"context"
	"fmt"

	"github.com/ncobase/searchsync/data/store"
	"github.com/ncobase/searchsync/ecode"
)

// RegisterEntityStore adds the base entity handlers backed by s, for every base.
// Search plugins wrap save and remove to mirror into the index.
func RegisterEntityStore(r *Registry, s store.Store) error {
	handlers := map[Kind]Handler{
		Save: func(ctx context.Context, cmd *Command) (any, error) {
			if cmd.Entity == nil {
				return nil, store.ErrMissingName
			}
			return s.Save(ctx, cmd.Entity)
		},
		Load: func(ctx context.Context, cmd *Command) (any, error) {
			base, name, id := entityKey(cmd)
			return s.Load(ctx, base, name, id)
		},
		Remove: func(ctx context.Context, cmd *Command) (any, error) {
			base, name, id := entityKey(cmd)
			if id == "" {
				return nil, store.ErrMissingID
			}
			if err := s.Remove(ctx, base, name, id); err != nil {
				return nil, err
			}
			return &store.Entity{ID: id, Base: base, Name: name}, nil
		},
		List: func(ctx context.Context, cmd *Command) (any, error) {
			base, name, _ := entityKey(cmd)
			ids, _ := cmd.Data["ids"].([]string)
			return s.List(ctx, base, name, ids)
		},
	}

	for kind, h := range handlers {
		if err := r.Add(Pattern{Role: RoleEntity, Cmd: kind}, h); err != nil {
			return fmt.Errorf("%s: %w", ecode.Failed("register entity store"), err)
		}
	}
	return nil
}

// entityKey reads base, name and id from the entity when present,
// otherwise from the command.
func entityKey(cmd *Command) (base, name, id string) {
	base, name, id = cmd.Base, cmd.Type, cmd.ID
	if e := cmd.Entity; e != nil {
		if e.Base != "" {
			base = e.Base
		}
		if e.Name != "" {
			name = e.Name
		}
		if e.ID != "" {
			id = e.ID
		}
	}
	return base, name, id
}
