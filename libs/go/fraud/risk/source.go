package risk

import (
	"context"
	"time"
)

// Source resolves a subject asynchronously, standing in for a remote intelligence backend.
type Source interface {
	Fetch(ctx context.Context, kind Kind, id string) (Record, bool, error)
}

// DelayedSource answers from the active table after a fixed delay. A cancelled
// context aborts the call with no result.
type DelayedSource struct {
	Tables *Holder
	Delay  time.Duration
}

func (s *DelayedSource) Fetch(ctx context.Context, kind Kind, id string) (Record, bool, error) {
	if s.Delay > 0 {
		timer := time.NewTimer(s.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Record{}, false, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return Record{}, false, err
	}
	rec, ok := s.Tables.Load().Lookup(kind, id)
	return rec, ok, nil
}
