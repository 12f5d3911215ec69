package indexer

import (
	"context"
	"errors"

	"github.com/ncobase/searchsync/command"
	"github.com/ncobase/searchsync/data/search"
	"github.com/ncobase/searchsync/data/store"
	"github.com/ncobase/searchsync/pipeline"
)

type entityState struct {
	cmd    *command.Command
	prior  command.Handler
	entity *store.Entity
	doc    map[string]any
	result any
	mirror error
}

func (p *Plugin) buildEntityPipelines() {
	p.entitySave = pipeline.New("entity.save",
		pipeline.Func("project", p.projectEntity),
		pipeline.Func("resolve-id", p.resolveEntityID),
		pipeline.Func("store", p.priorStage(command.Save)),
		pipeline.Func("mirror", p.mirrorSave),
	)
	p.entityRemove = pipeline.New("entity.remove",
		pipeline.Func("target", p.removeTarget),
		pipeline.Func("store", p.priorStage(command.Remove)),
		pipeline.Func("mirror", p.mirrorRemove),
	)
}

// wrapEntitySave returns the entity save handler that mirrors into the index.
// A failed mirror returns the stored entity together with a non-fatal *MirrorError.
func (p *Plugin) wrapEntitySave(prior command.Handler) command.Handler {
	return func(ctx context.Context, cmd *command.Command) (any, error) {
		s := &entityState{cmd: cmd, prior: prior}
		if err := p.entitySave.Execute(ctx, s); err != nil {
			return nil, unwrapStage(err)
		}
		if s.mirror != nil {
			return s.result, s.mirror
		}
		return s.result, nil
	}
}

// wrapEntityRemove returns the entity remove handler. The store is changed
// first; a failed mirror after that is fatal.
func (p *Plugin) wrapEntityRemove(prior command.Handler) command.Handler {
	return func(ctx context.Context, cmd *command.Command) (any, error) {
		s := &entityState{cmd: cmd, prior: prior}
		if err := p.entityRemove.Execute(ctx, s); err != nil {
			err = unwrapStage(err)
			var mirrorErr *MirrorError
			if errors.As(err, &mirrorErr) && mirrorErr.Fatal {
				p.onFatal(ctx, mirrorErr)
			}
			return nil, err
		}
		return s.result, nil
	}
}

// projectEntity copies the entity for the store and builds the index
// document from its allow-listed fields.
func (p *Plugin) projectEntity(ctx context.Context, s *entityState) error {
	if s.cmd.Entity == nil {
		return missingArgument("entity")
	}
	e := s.cmd.Entity.Clone()
	if e.Name == "" {
		e.Name = s.cmd.Type
	}
	if e.Name == "" {
		return ErrMissingType
	}
	if e.Base == "" {
		e.Base = p.namespace
	}
	s.entity = e

	// no allow-list means no fields
	allow, _ := p.entities.Fields(e.Name)
	s.doc = project(e.Fields, allow)
	return nil
}

// resolveEntityID picks the caller's id, then an id already carried by
// the record, then a fresh one.
func (p *Plugin) resolveEntityID(ctx context.Context, s *entityState) error {
	id := s.cmd.ID
	if id == "" {
		id = s.entity.ID
	}
	if id == "" {
		id = fieldString(s.entity.Fields, search.IDField)
	}
	if id == "" {
		id = fieldString(s.entity.Fields, "id")
	}
	if id == "" {
		id = p.newID()
	}
	s.entity.ID = id
	s.doc["id"] = id
	return nil
}

func (p *Plugin) priorStage(kind command.Kind) func(ctx context.Context, s *entityState) error {
	return func(ctx context.Context, s *entityState) error {
		cmd := *s.cmd
		cmd.Role, cmd.Cmd = command.RoleEntity, kind
		cmd.Entity = s.entity
		if s.entity != nil {
			cmd.ID, cmd.Type, cmd.Base = s.entity.ID, s.entity.Name, s.entity.Base
		}
		res, err := s.prior(ctx, &cmd)
		if err != nil {
			return err
		}
		s.result = res
		return nil
	}
}

func (p *Plugin) mirrorSave(ctx context.Context, s *entityState) error {
	id := s.entity.ID
	if stored, ok := s.result.(*store.Entity); ok && stored != nil && stored.ID != "" {
		id = stored.ID
		s.doc["id"] = id
	}

	_, err := p.act(ctx, &command.Command{
		Role: command.RoleSearch,
		Cmd:  command.Save,
		Type: s.entity.Name,
		ID:   id,
		Data: s.doc,
	})
	if err != nil {
		s.mirror = &MirrorError{Op: "save", Type: s.entity.Name, ID: id, Err: err}
		p.log.Warnf(ctx, "%v", s.mirror)
	}
	return nil
}

func (p *Plugin) removeTarget(ctx context.Context, s *entityState) error {
	e := &store.Entity{ID: s.cmd.ID, Base: s.cmd.Base, Name: s.cmd.Type}
	if in := s.cmd.Entity; in != nil {
		if in.ID != "" {
			e.ID = in.ID
		}
		if in.Base != "" {
			e.Base = in.Base
		}
		if in.Name != "" {
			e.Name = in.Name
		}
	}
	if e.Name == "" {
		return ErrMissingType
	}
	if e.ID == "" {
		return missingArgument("id")
	}
	if e.Base == "" {
		e.Base = p.namespace
	}
	s.entity = e
	return nil
}

func (p *Plugin) mirrorRemove(ctx context.Context, s *entityState) error {
	_, err := p.act(ctx, &command.Command{
		Role: command.RoleSearch,
		Cmd:  command.Remove,
		Type: s.entity.Name,
		ID:   s.entity.ID,
	})
	if err != nil {
		return &MirrorError{Op: "remove", Type: s.entity.Name, ID: s.entity.ID, Fatal: true, Err: err}
	}
	return nil
}

func fieldString(fields map[string]any, key string) string {
	if s, ok := fields[key].(string); ok {
		return s
	}
	return ""
}
