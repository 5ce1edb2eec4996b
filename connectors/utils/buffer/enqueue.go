package buffer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	jsoniter "github.com/json-iterator/go"
	cmap "github.com/orcaman/concurrent-map/v2"
	"golang.org/x/sync/semaphore"

	"github.com/PeerDB-io/destkit/internal"
)

// MemoryManager shares one byte budget between stream queues.
// Queues grow in blocks while memory is free and wait for exactly what a record needs once it is not.
type MemoryManager struct {
	budget     *semaphore.Weighted
	maxBytes   int64
	blockBytes int64
	allocated  atomic.Int64
}

func NewMemoryManager(maxBytes int64, blockBytes int64) *MemoryManager {
	return &MemoryManager{
		budget:     semaphore.NewWeighted(maxBytes),
		maxBytes:   maxBytes,
		blockBytes: max(1, min(blockBytes, maxBytes)),
	}
}

func MemoryManagerFromEnv() *MemoryManager {
	return NewMemoryManager(int64(internal.DestkitBufferMaxTotalBytes()), int64(internal.DestkitBufferMemoryBlockBytes()))
}

func (m *MemoryManager) AllocatedBytes() int64 {
	return m.allocated.Load()
}

func (m *MemoryManager) tryRequest(n int64) bool {
	if !m.budget.TryAcquire(n) {
		return false
	}
	m.allocated.Add(n)
	return true
}

func (m *MemoryManager) request(ctx context.Context, n int64) error {
	if err := m.budget.Acquire(ctx, n); err != nil {
		return err
	}
	m.allocated.Add(n)
	return nil
}

func (m *MemoryManager) release(n int64) {
	if n <= 0 {
		return
	}
	m.allocated.Add(-n)
	m.budget.Release(n)
}

type streamQueue struct {
	records  [][]byte
	used     int64
	reserved int64
	mu       sync.Mutex
}

func (q *streamQueue) offer(record []byte) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	size := int64(len(record))
	if q.used+size > q.reserved {
		return false
	}
	q.records = append(q.records, record)
	q.used += size
	return true
}

func (q *streamQueue) grow(n int64) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.reserved += n
}

// take pops records in order until maxBytes would be exceeded, always at least one,
// and shrinks the reservation to what is still queued. It returns the bytes to give back.
func (q *streamQueue) take(maxBytes int64) ([][]byte, int64) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var taken int64
	n := 0
	for n < len(q.records) {
		size := int64(len(q.records[n]))
		if n > 0 && taken+size > maxBytes {
			break
		}
		taken += size
		n++
	}
	records := q.records[:n:n]
	q.records = q.records[n:]
	q.used -= taken
	surplus := q.reserved - q.used
	q.reserved = q.used
	return records, surplus
}

func (q *streamQueue) queuedBytes() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.used
}

// Enqueue accepts records from many producers into per-stream queues.
// AddRecord blocks while the shared memory budget is exhausted, until Take frees memory or ctx is done.
type Enqueue struct {
	memory *MemoryManager
	queues cmap.ConcurrentMap[StreamID, *streamQueue]
}

func NewEnqueue(memory *MemoryManager) *Enqueue {
	return &Enqueue{
		memory: memory,
		queues: cmap.NewStringer[StreamID, *streamQueue](),
	}
}

func (e *Enqueue) AddRecord(ctx context.Context, stream StreamID, record any) error {
	data, err := jsoniter.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to serialize record for stream %s: %w", stream, err)
	}
	data = append(data, '\n')
	size := int64(len(data))
	if size > e.memory.maxBytes {
		return fmt.Errorf("record of %s for stream %s exceeds the buffer memory budget of %s",
			humanize.Bytes(uint64(size)), stream, humanize.Bytes(uint64(e.memory.maxBytes)))
	}

	queue := e.queueFor(stream)
	for !queue.offer(data) {
		if n := max(size, e.memory.blockBytes); e.memory.tryRequest(n) {
			queue.grow(n)
			continue
		}
		ctx := internal.WithStreamName(ctx, stream.String())
		internal.LoggerFromCtx(ctx).Debug("waiting for buffer memory",
			slog.String("allocated", humanize.Bytes(uint64(e.memory.AllocatedBytes()))),
			slog.String("recordSize", humanize.Bytes(uint64(size))))
		if err := e.memory.request(ctx, size); err != nil {
			return fmt.Errorf("failed to reserve buffer memory for stream %s: %w", stream, err)
		}
		queue.grow(size)
	}
	return nil
}

// Take removes queued records of a stream in order, up to maxBytes but at least one,
// and returns their memory to the shared budget.
func (e *Enqueue) Take(stream StreamID, maxBytes int64) [][]byte {
	queue, ok := e.queues.Get(stream)
	if !ok {
		return nil
	}
	records, surplus := queue.take(maxBytes)
	e.memory.release(surplus)
	return records
}

func (e *Enqueue) QueuedBytes(stream StreamID) int64 {
	queue, ok := e.queues.Get(stream)
	if !ok {
		return 0
	}
	return queue.queuedBytes()
}

func (e *Enqueue) Streams() []StreamID {
	return e.queues.Keys()
}

// Close drops every queued record and returns all reserved memory. Producers must have returned first.
func (e *Enqueue) Close() {
	for _, stream := range e.queues.Keys() {
		if queue, ok := e.queues.Pop(stream); ok {
			_, surplus := queue.take(queue.queuedBytes())
			e.memory.release(surplus)
		}
	}
}

func (e *Enqueue) queueFor(stream StreamID) *streamQueue {
	return e.queues.Upsert(stream, nil, func(exist bool, queue *streamQueue, _ *streamQueue) *streamQueue {
		if exist {
			return queue
		}
		return &streamQueue{}
	})
}
