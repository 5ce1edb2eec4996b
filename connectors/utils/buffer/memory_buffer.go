package buffer

import (
	"context"
	"iter"
)

type MemoryBuffer struct {
	records   [][]byte
	byteCount int64
}

func NewMemoryBuffer() *MemoryBuffer {
	return &MemoryBuffer{}
}

func MemoryBufferFactory(context.Context, StreamID) (Buffer, error) {
	return NewMemoryBuffer(), nil
}

func (b *MemoryBuffer) Accept(record []byte) (int64, error) {
	b.records = append(b.records, record)
	size := int64(len(record))
	b.byteCount += size
	return size, nil
}

func (b *MemoryBuffer) ByteCount() int64 {
	return b.byteCount
}

func (b *MemoryBuffer) Records() iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		for _, record := range b.records {
			if !yield(record, nil) {
				return
			}
		}
	}
}

func (b *MemoryBuffer) Close() error {
	b.records = nil
	return nil
}
