package buffer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dustin/go-humanize"
	jsoniter "github.com/json-iterator/go"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/PeerDB-io/destkit/internal"
	"github.com/PeerDB-io/destkit/otel_metrics"
)

// SerializedBufferingStrategy accumulates serialized records per stream and flushes them when
// the per-stream size, the total size, or the number of open streams reaches its limit.
// State messages are released to the collector only after a flush covers them.
type SerializedBufferingStrategy struct {
	createBuffer BufferFactory
	flushStream  FlushFunc
	collector    StateCollector
	otelManager  *otel_metrics.OtelManager
	buffers      *orderedmap.OrderedMap[StreamID, Buffer]
	states       *stateManager
	limits       Limits
	totalBytes   int64
	mu           sync.Mutex
}

func NewSerializedBufferingStrategy(
	createBuffer BufferFactory,
	flushStream FlushFunc,
	collector StateCollector,
	limits Limits,
	otelManager *otel_metrics.OtelManager,
) *SerializedBufferingStrategy {
	if collector == nil {
		collector = func(context.Context, *State) error { return nil }
	}
	return &SerializedBufferingStrategy{
		createBuffer: createBuffer,
		flushStream:  flushStream,
		collector:    collector,
		otelManager:  otelManager,
		buffers:      orderedmap.New[StreamID, Buffer](),
		states:       newStateManager(),
		limits:       limits,
	}
}

func (s *SerializedBufferingStrategy) AddRecord(ctx context.Context, stream StreamID, record any) (FlushType, error) {
	data, err := jsoniter.Marshal(record)
	if err != nil {
		return FlushNone, fmt.Errorf("failed to serialize record for stream %s: %w", stream, err)
	}
	data = append(data, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	streamBuffer, err := s.bufferForStream(ctx, stream)
	if err != nil {
		return FlushNone, err
	}
	size, err := streamBuffer.Accept(data)
	if err != nil {
		return FlushNone, fmt.Errorf("failed to buffer record for stream %s: %w", stream, err)
	}
	s.totalBytes += size

	if s.totalBytes >= s.limits.MaxTotalBytes || s.buffers.Len() >= s.limits.MaxConcurrentStreams {
		return s.flushAll(ctx)
	} else if streamBuffer.ByteCount() >= s.limits.MaxStreamBytes {
		if err := s.flushSingleStream(ctx, stream, streamBuffer); err != nil {
			return FlushNone, err
		}
		return FlushSingleStream, nil
	}
	return FlushNone, nil
}

func (s *SerializedBufferingStrategy) AddState(state *State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states.addState(state)
}

func (s *SerializedBufferingStrategy) FlushAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.flushAll(ctx)
	return err
}

// Close releases every open buffer without flushing it.
func (s *SerializedBufferingStrategy) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.closeBuffers(context.Background())
	s.buffers = orderedmap.New[StreamID, Buffer]()
	s.totalBytes = 0
	return err
}

func (s *SerializedBufferingStrategy) TotalBytes() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalBytes
}

func (s *SerializedBufferingStrategy) bufferForStream(ctx context.Context, stream StreamID) (Buffer, error) {
	if streamBuffer, ok := s.buffers.Get(stream); ok {
		return streamBuffer, nil
	}
	ctx = internal.WithStreamName(ctx, stream.String())
	logger := internal.LoggerFromCtx(ctx)
	logger.Info("starting a new buffer",
		slog.String("bufferedBytes", humanize.Bytes(uint64(s.totalBytes))),
		slog.Int("openBuffers", s.buffers.Len()))
	streamBuffer, err := s.createBuffer(ctx, stream)
	if err != nil {
		logger.Error("failed to create a new buffer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create buffer for stream %s: %w", stream, err)
	}
	if streamBuffer == nil {
		return nil, fmt.Errorf("failed to create buffer for stream %s: factory returned no buffer", stream)
	}
	s.buffers.Set(stream, streamBuffer)
	return streamBuffer, nil
}

func (s *SerializedBufferingStrategy) flushSingleStream(ctx context.Context, stream StreamID, streamBuffer Buffer) error {
	streamCtx := internal.WithStreamName(ctx, stream.String())
	logger := internal.LoggerFromCtx(streamCtx)
	logger.Info("flushing buffer of stream",
		slog.String("size", humanize.Bytes(uint64(streamBuffer.ByteCount()))))
	if err := s.flushStream(streamCtx, stream, streamBuffer); err != nil {
		return fmt.Errorf("failed to flush stream %s: %w", stream, err)
	}
	if err := s.markStatesAsFlushed(ctx); err != nil {
		return err
	}
	s.totalBytes -= streamBuffer.ByteCount()
	s.buffers.Delete(stream)
	s.recordFlush(ctx, FlushSingleStream)
	if err := streamBuffer.Close(); err != nil {
		logger.Warn("failed to close flushed buffer", slog.Any("error", err))
	}
	return nil
}

// flushAll reports FlushAll once every buffer is written and the states are released,
// even if closing the flushed buffers fails afterwards.
func (s *SerializedBufferingStrategy) flushAll(ctx context.Context) (FlushType, error) {
	logger := internal.LoggerFromCtx(ctx)
	logger.Info("flushing all buffers",
		slog.Int("openBuffers", s.buffers.Len()),
		slog.String("size", humanize.Bytes(uint64(s.totalBytes))))
	for pair := s.buffers.Oldest(); pair != nil; pair = pair.Next() {
		if err := s.flushStream(internal.WithStreamName(ctx, pair.Key.String()), pair.Key, pair.Value); err != nil {
			return FlushNone, fmt.Errorf("failed to flush stream %s: %w", pair.Key, err)
		}
	}
	if err := s.markStatesAsFlushed(ctx); err != nil {
		return FlushNone, err
	}
	err := s.closeBuffers(ctx)
	s.buffers = orderedmap.New[StreamID, Buffer]()
	s.totalBytes = 0
	s.recordFlush(ctx, FlushAll)
	return FlushAll, err
}

func (s *SerializedBufferingStrategy) markStatesAsFlushed(ctx context.Context) error {
	s.states.markPendingAsCommitted()
	for _, state := range s.states.listCommitted() {
		if err := s.collector(ctx, state); err != nil {
			return fmt.Errorf("failed to emit state: %w", err)
		}
	}
	s.states.clearCommitted()
	return nil
}

func (s *SerializedBufferingStrategy) closeBuffers(ctx context.Context) error {
	var errs []error
	for pair := s.buffers.Oldest(); pair != nil; pair = pair.Next() {
		if err := pair.Value.Close(); err != nil {
			internal.LoggerFromCtx(internal.WithStreamName(ctx, pair.Key.String())).Error("failed to close stream buffer",
				slog.Any("error", err))
			errs = append(errs, fmt.Errorf("stream %s: %w", pair.Key, err))
		}
	}
	return errors.Join(errs...)
}

func (s *SerializedBufferingStrategy) recordFlush(ctx context.Context, flushType FlushType) {
	if s.otelManager == nil {
		return
	}
	s.otelManager.Metrics.BufferFlushesCounter.Add(ctx, 1, metric.WithAttributeSet(attribute.NewSet(
		attribute.Stringer(otel_metrics.FlushTypeKey, flushType),
	)))
}
