package txflow

import (
	"context"

	"github.com/cockroachdb/errors"
)

// Set holds one coordinator per action kind.
type Set struct {
	byKind map[Kind]*Coordinator
}

func NewSet(cfg Config, deps Deps) *Set {
	s := &Set{byKind: make(map[Kind]*Coordinator, len(Kinds()))}
	for _, k := range Kinds() {
		s.byKind[k] = NewCoordinator(k, cfg, deps)
	}
	return s
}

func (s *Set) Get(kind Kind) (*Coordinator, error) {
	c, ok := s.byKind[kind]
	if !ok {
		return nil, errors.Newf("no coordinator for %q", kind)
	}
	return c, nil
}

// Start begins an attempt for req.Kind and runs it in the background with ctx.
// It returns the Validating record, or ErrBusy.
func (s *Set) Start(ctx context.Context, req Request) (Record, error) {
	c, err := s.Get(req.Kind)
	if err != nil {
		return Record{}, err
	}
	rec, err := c.Begin()
	if err != nil {
		return rec, err
	}
	go c.Run(ctx, req)
	return rec, nil
}

func (s *Set) Records() []Record {
	out := make([]Record, 0, len(s.byKind))
	for _, k := range Kinds() {
		out = append(out, s.byKind[k].Record())
	}
	return out
}
