package buffer

import (
	"context"
	"iter"

	"github.com/PeerDB-io/destkit/internal"
	"github.com/PeerDB-io/destkit/shared"
)

type StreamID struct {
	Namespace string `json:"namespace,omitempty"`
	Name      string `json:"name"`
}

func (s StreamID) String() string {
	return shared.QualifiedTable(s.Namespace, s.Name)
}

// Buffer holds serialized records for one stream until they are flushed.
type Buffer interface {
	// Accept appends one serialized record and returns the bytes it added.
	Accept(record []byte) (int64, error)
	ByteCount() int64
	// Records yields buffered records in the order they were accepted.
	Records() iter.Seq2[[]byte, error]
	Close() error
}

type BufferFactory func(ctx context.Context, stream StreamID) (Buffer, error)

// FlushFunc writes out everything a buffer holds. The buffer is closed by the caller afterwards.
type FlushFunc func(ctx context.Context, stream StreamID, buffer Buffer) error

// StateCollector receives state messages once every record before them has been flushed.
type StateCollector func(ctx context.Context, state *State) error

type FlushType int

const (
	FlushNone FlushType = iota
	FlushSingleStream
	FlushAll
)

func (f FlushType) String() string {
	switch f {
	case FlushSingleStream:
		return "single_stream"
	case FlushAll:
		return "all"
	default:
		return "none"
	}
}

type Limits struct {
	MaxTotalBytes        int64
	MaxStreamBytes       int64
	MaxConcurrentStreams int
}

func LimitsFromEnv() Limits {
	return Limits{
		MaxTotalBytes:        int64(internal.DestkitBufferMaxTotalBytes()),
		MaxStreamBytes:       int64(internal.DestkitBufferMaxStreamBytes()),
		MaxConcurrentStreams: int(internal.DestkitBufferMaxConcurrentStreams()),
	}
}
