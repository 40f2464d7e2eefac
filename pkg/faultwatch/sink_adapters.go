package faultwatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrChannelSinkClosed is returned when a channel sink is written to after being closed.
var ErrChannelSinkClosed = errors.New("faultwatch: channel sink closed")

// DatasetCallback receives each annotated dataset after it has been written.
type DatasetCallback func(ctx context.Context, ds *AnnotatedDataset) error

// NewCallbackSink adapts a DatasetCallback into a full Sink implementation so callers
// can plug arbitrary functions without defining structs.
func NewCallbackSink(name string, fn DatasetCallback) Sink {
	if name == "" {
		name = "callback"
	}
	return &callbackSink{name: name, fn: fn}
}

// NewChannelSink exposes datasets via a channel; it returns the sink, the read-only channel,
// and a close function that the caller should invoke during shutdown.
func NewChannelSink(name string, buffer int) (Sink, <-chan *AnnotatedDataset, func()) {
	if name == "" {
		name = "channel"
	}
	if buffer < 0 {
		buffer = 0
	}
	ch := make(chan *AnnotatedDataset, buffer)
	s := &channelSink{
		name:   name,
		ch:     ch,
		closed: make(chan struct{}),
	}
	return s, ch, func() { s.close() }
}

type callbackSink struct {
	name string
	fn   DatasetCallback
}

func (s *callbackSink) WriteDataset(ctx context.Context, ds *AnnotatedDataset) error {
	if s.fn == nil {
		return fmt.Errorf("callback sink %q: nil handler", s.name)
	}
	if ds.Len() == 0 {
		return nil
	}
	return s.fn(ctx, ds)
}

func (s *callbackSink) Name() string { return s.name }

type channelSink struct {
	name   string
	ch     chan *AnnotatedDataset
	closed chan struct{}
	once   sync.Once
	// held for reading while sending so close never races a blocked send
	mu sync.RWMutex
}

func (s *channelSink) WriteDataset(ctx context.Context, ds *AnnotatedDataset) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	select {
	case <-s.closed:
		return ErrChannelSinkClosed
	default:
	}

	if ds.Len() == 0 {
		return nil
	}

	select {
	case <-s.closed:
		return ErrChannelSinkClosed
	case <-ctx.Done():
		return ctx.Err()
	case s.ch <- ds:
		return nil
	}
}

func (s *channelSink) Name() string { return s.name }

func (s *channelSink) close() {
	s.once.Do(func() {
		close(s.closed)
		s.mu.Lock()
		close(s.ch)
		s.mu.Unlock()
	})
}
