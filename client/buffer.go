package client

import (
	"sync"

	"github.com/authe-me/authe-go/action"
)

// buffer is the shared queue between producers and the delivery pipeline.
// One mutex guards the backing slice; it is only ever held for list
// manipulation, never across network I/O.
type buffer struct {
	mu        sync.Mutex
	records   []action.Record
	threshold int
}

func newBuffer(threshold int) *buffer {
	return &buffer{threshold: threshold}
}

// Append adds one record at the tail. It returns true when the buffer has
// reached its flush threshold; the caller is expected to run the flush after
// releasing any state of its own, so the send never happens under this lock.
func (b *buffer) Append(rec action.Record) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records = append(b.records, rec)
	return len(b.records) >= b.threshold
}

// DrainSnapshot atomically takes ownership of all buffered records and
// clears the buffer.
func (b *buffer) DrainSnapshot() []action.Record {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.records) == 0 {
		return nil
	}
	batch := b.records
	b.records = nil
	return batch
}

// Requeue prepends a drained-but-undelivered batch back onto the buffer,
// ahead of anything appended since the drain. Batch order is preserved.
func (b *buffer) Requeue(batch []action.Record) {
	if len(batch) == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	merged := make([]action.Record, 0, len(batch)+len(b.records))
	merged = append(merged, batch...)
	merged = append(merged, b.records...)
	b.records = merged
}

// Len returns the current queue depth.
func (b *buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.records)
}
