package buffer

import (
	"context"
	"encoding/binary"
	"fmt"
	"iter"
	"os"
	"path/filepath"

	"github.com/cockroachdb/pebble/v2"
	"github.com/google/uuid"
)

// PebbleBuffer spills a stream's records to a throwaway Pebble database under dir.
type PebbleBuffer struct {
	db        *pebble.DB
	dir       string
	seq       uint64
	byteCount int64
}

func NewPebbleBuffer(baseDir string) (*PebbleBuffer, error) {
	dir := filepath.Join(baseDir, "destkit_buffer_"+uuid.NewString())
	// no WAL, this is a cache that dies with the process
	db, err := pebble.Open(dir, &pebble.Options{
		DisableWAL:    true,
		ErrorIfExists: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Pebble database: %w", err)
	}
	return &PebbleBuffer{db: db, dir: dir}, nil
}

func PebbleBufferFactory(baseDir string) BufferFactory {
	return func(context.Context, StreamID) (Buffer, error) {
		return NewPebbleBuffer(baseDir)
	}
}

func (b *PebbleBuffer) Accept(record []byte) (int64, error) {
	var key [8]byte
	binary.BigEndian.PutUint64(key[:], b.seq)
	if err := b.db.Set(key[:], record, pebble.NoSync); err != nil {
		return 0, fmt.Errorf("unable to store record in Pebble: %w", err)
	}
	b.seq++
	size := int64(len(record))
	b.byteCount += size
	return size, nil
}

func (b *PebbleBuffer) ByteCount() int64 {
	return b.byteCount
}

func (b *PebbleBuffer) Records() iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		it, err := b.db.NewIter(nil)
		if err != nil {
			yield(nil, fmt.Errorf("failed to open Pebble iterator: %w", err))
			return
		}
		defer it.Close()
		for valid := it.First(); valid; valid = it.Next() {
			value, err := it.ValueAndErr()
			if err != nil {
				yield(nil, fmt.Errorf("failed to read record from Pebble: %w", err))
				return
			}
			if !yield(append([]byte(nil), value...), nil) {
				return
			}
		}
		if err := it.Error(); err != nil {
			yield(nil, err)
		}
	}
}

func (b *PebbleBuffer) Close() error {
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
		b.db = nil
	}
	if err := os.RemoveAll(b.dir); err != nil {
		return fmt.Errorf("failed to delete database files: %w", err)
	}
	return nil
}
