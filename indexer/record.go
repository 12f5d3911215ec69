package indexer

import (
	"context"
	"errors"

	"github.com/ncobase/searchsync/command"
	"github.com/ncobase/searchsync/data/search"
	"github.com/ncobase/searchsync/pipeline"
)

// SaveResult is the outcome of a save. Skipped is set when the record
// matched the skip filters and nothing was written.
type SaveResult struct {
	Index   string `json:"index"`
	Type    string `json:"type"`
	ID      string `json:"id"`
	Skipped bool   `json:"skipped"`
	Result  string `json:"result"`
	Version int64  `json:"version,omitempty"`
}

type recordState struct {
	cmd     *command.Command
	req     *search.Request
	skipped bool
	write   *search.WriteResult
	doc     *search.Document
	result  *search.Result
}

func (p *Plugin) buildRecordPipelines() {
	typed := p.requestStage(true)

	stages := []pipeline.Stage[*recordState]{typed}
	if p.autoIndex {
		stages = append(stages, pipeline.Func("ensure-index", func(ctx context.Context, s *recordState) error {
			return p.EnsureIndex(ctx, s.req.Index)
		}))
	}
	stages = append(stages,
		pipeline.Func("filter", p.filterRecord),
		pipeline.Func("index", p.indexRecord),
	)
	p.save = pipeline.New("search.save", stages...)

	p.load = pipeline.New("search.load", typed, pipeline.Func("get", p.loadRecord))

	p.find = pipeline.New("search.search",
		p.requestStage(false),
		pipeline.Func("query", func(ctx context.Context, s *recordState) error {
			s.req.Body = NormalizeQuery(s.cmd)
			return nil
		}),
		pipeline.Func("search", p.doSearch),
		pipeline.Func("reconcile", func(ctx context.Context, s *recordState) error {
			res, err := p.recon.Reconcile(ctx, s.result)
			if err != nil {
				return err
			}
			s.result = res
			return nil
		}),
	)

	p.remove = pipeline.New("search.remove", typed, pipeline.Func("delete", p.removeRecord))
}

func (p *Plugin) requestStage(requireType bool) pipeline.Stage[*recordState] {
	return pipeline.Func("request", func(ctx context.Context, s *recordState) error {
		req, err := BuildRequest(s.cmd, p.defaults(), requireType)
		if err != nil {
			return err
		}
		s.req = req
		return nil
	})
}

func (p *Plugin) filterRecord(ctx context.Context, s *recordState) error {
	if s.cmd.Data == nil {
		return missingArgument("data")
	}
	s.skipped = p.filters.skip(s.req.Type, s.cmd.Data)
	return nil
}

func (p *Plugin) indexRecord(ctx context.Context, s *recordState) error {
	if s.skipped {
		p.log.Debugf(ctx, "%s record %s matches skip filter, not indexed", s.req.Type, recordID(s.cmd))
		return nil
	}

	s.req.ID = recordID(s.cmd)
	if s.req.ID == "" {
		s.req.ID = p.newID()
	}
	s.req.Body = s.cmd.Data

	res, err := p.adapter.Index(ctx, s.req)
	if err != nil {
		return transportError("index document", err)
	}
	s.write = res
	return nil
}

// recordID is the explicit id, or the record's _id.
func recordID(cmd *command.Command) string {
	if cmd.ID != "" {
		return cmd.ID
	}
	if id, ok := cmd.Data[search.IDField].(string); ok {
		return id
	}
	return ""
}

func (p *Plugin) loadRecord(ctx context.Context, s *recordState) error {
	if s.req.ID == "" {
		return missingArgument("id")
	}
	doc, err := p.adapter.Get(ctx, s.req)
	if isNotFound(err) {
		return err
	}
	if err != nil {
		return transportError("get document", err)
	}
	s.doc = doc
	return nil
}

func (p *Plugin) doSearch(ctx context.Context, s *recordState) error {
	res, err := p.adapter.Search(ctx, s.req)
	if err != nil {
		return transportError("search", err)
	}
	s.result = res
	return nil
}

func (p *Plugin) removeRecord(ctx context.Context, s *recordState) error {
	if s.req.ID == "" {
		return missingArgument("id")
	}
	res, err := p.adapter.Delete(ctx, s.req)
	if isNotFound(err) {
		// deletes are idempotent
		s.write = &search.WriteResult{Index: s.req.Index, ID: s.req.ID, Result: search.ResultNotFound}
		return nil
	}
	if err != nil {
		return transportError("delete document", err)
	}
	s.write = res
	return nil
}

// Save indexes cmd.Data under the command's type. A record matching every
// skip filter of its type is not written and reports Skipped.
func (p *Plugin) Save(ctx context.Context, cmd *command.Command) (*SaveResult, error) {
	s := &recordState{cmd: cmd}
	if err := p.save.Execute(ctx, s); err != nil {
		return nil, unwrapStage(err)
	}

	out := &SaveResult{Index: s.req.Index, Type: s.req.Type, ID: s.req.ID, Skipped: s.skipped}
	if s.skipped {
		out.ID = recordID(cmd)
		out.Result = search.ResultNoop
		return out, nil
	}
	if s.write != nil {
		out.Result = s.write.Result
		out.Version = s.write.Version
		if s.write.ID != "" {
			out.ID = s.write.ID
		}
	}
	return out, nil
}

// Load fetches one document by id. A missing document is reported with
// Exists false and no error.
func (p *Plugin) Load(ctx context.Context, cmd *command.Command) (*search.Document, error) {
	s := &recordState{cmd: cmd}
	if err := p.load.Execute(ctx, s); err != nil {
		if isNotFound(err) {
			return &search.Document{Index: s.req.Index, Type: s.req.Type, ID: s.req.ID, Exists: false}, nil
		}
		return nil, unwrapStage(err)
	}
	return s.doc, nil
}

// Search runs the query and reconciles the hits against the store.
func (p *Plugin) Search(ctx context.Context, cmd *command.Command) (*search.Result, error) {
	s := &recordState{cmd: cmd}
	if err := p.find.Execute(ctx, s); err != nil {
		return nil, unwrapStage(err)
	}
	return s.result, nil
}

// Remove deletes one document by id. Removing a missing document
// succeeds with result not_found; other failures are returned.
func (p *Plugin) Remove(ctx context.Context, cmd *command.Command) (*search.WriteResult, error) {
	s := &recordState{cmd: cmd}
	if err := p.remove.Execute(ctx, s); err != nil {
		return nil, unwrapStage(err)
	}
	return s.write, nil
}

// unwrapStage strips pipeline bookkeeping so callers see the domain error.
func unwrapStage(err error) error {
	var stageErr *pipeline.StageError
	if errors.As(err, &stageErr) {
		return stageErr.Err
	}
	return err
}
