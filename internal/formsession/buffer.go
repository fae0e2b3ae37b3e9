package formsession

import (
	"context"
	"sync"
)

// WriteAheadBuffer queues full snapshots per evaluation while the session is
// offline. Flushing replays them in order; because every snapshot is a
// complete copy, replay is idempotent and the last one wins.
type WriteAheadBuffer struct {
	mu      sync.Mutex
	pending map[string][]Snapshot
}

func NewWriteAheadBuffer() *WriteAheadBuffer {
	return &WriteAheadBuffer{pending: map[string][]Snapshot{}}
}

func (b *WriteAheadBuffer) Append(snap Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending[snap.EvaluationID] = append(b.pending[snap.EvaluationID], snap)
}

func (b *WriteAheadBuffer) Len(evaluationID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending[evaluationID])
}

// Latest returns the newest queued snapshot, used to rehydrate a session
// whose local edits are ahead of the server.
func (b *WriteAheadBuffer) Latest(evaluationID string) (Snapshot, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	queue := b.pending[evaluationID]
	if len(queue) == 0 {
		return Snapshot{}, false
	}
	return queue[len(queue)-1], true
}

// Flush replays queued snapshots in enqueue order. It stops at the first
// failure, leaving that snapshot and everything after it queued.
func (b *WriteAheadBuffer) Flush(ctx context.Context, evaluationID string, save func(context.Context, Snapshot) error) (int, error) {
	b.mu.Lock()
	queue := b.pending[evaluationID]
	b.mu.Unlock()

	flushed := 0
	for _, snap := range queue {
		if err := save(ctx, snap); err != nil {
			b.drop(evaluationID, flushed)
			return flushed, err
		}
		flushed++
	}
	b.drop(evaluationID, flushed)
	return flushed, nil
}

func (b *WriteAheadBuffer) drop(evaluationID string, n int) {
	if n == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	queue := b.pending[evaluationID]
	if n >= len(queue) {
		delete(b.pending, evaluationID)
		return
	}
	b.pending[evaluationID] = queue[n:]
}
