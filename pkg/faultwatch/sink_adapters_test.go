package faultwatch

import (
	"context"
	"errors"
	"testing"
	"time"
)

func sampleDataset() *AnnotatedDataset {
	return &AnnotatedDataset{
		CycleID: "cycle-1",
		Columns: []string{"temperature", "voltage", "current", "vibration", "fault_status"},
		Rows: []AnnotatedRow{
			{Index: 0, Reading: Reading{Temperature: 85, Voltage: 5, Current: 1, Vibration: 0.5}, Status: "Overheat"},
		},
	}
}

func TestNewCallbackSink(t *testing.T) {
	var received []*AnnotatedDataset
	sink := NewCallbackSink("cb", func(_ context.Context, ds *AnnotatedDataset) error {
		received = append(received, ds)
		return nil
	})

	input := sampleDataset()
	if err := sink.WriteDataset(context.Background(), input); err != nil {
		t.Fatalf("WriteDataset returned error: %v", err)
	}
	if len(received) != 1 {
		t.Fatalf("expected 1 dataset, got %d", len(received))
	}
	if received[0].CycleID != "cycle-1" || received[0].Rows[0].Status != "Overheat" {
		t.Fatalf("mismatched dataset payload: %+v", received[0])
	}
	if sink.Name() != "cb" {
		t.Fatalf("expected name cb, got %s", sink.Name())
	}
}

func TestNewCallbackSinkNilHandler(t *testing.T) {
	sink := NewCallbackSink("", nil)
	if err := sink.WriteDataset(context.Background(), sampleDataset()); err == nil {
		t.Fatalf("expected error when callback is nil")
	}
	if sink.Name() != "callback" {
		t.Fatalf("expected default name callback, got %s", sink.Name())
	}
}

func TestNewChannelSink(t *testing.T) {
	sink, ch, closeFn := NewChannelSink("chan", 1)
	defer closeFn()

	input := sampleDataset()
	errCh := make(chan error, 1)

	go func() {
		errCh <- sink.WriteDataset(context.Background(), input)
	}()

	var got *AnnotatedDataset
	select {
	case got = <-ch:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for channel dataset")
	}

	if err := <-errCh; err != nil {
		t.Fatalf("WriteDataset returned error: %v", err)
	}
	if got != input {
		t.Fatalf("unexpected dataset: %+v", got)
	}

	closeFn()
	if err := sink.WriteDataset(context.Background(), input); !errors.Is(err, ErrChannelSinkClosed) {
		t.Fatalf("expected ErrChannelSinkClosed, got %v", err)
	}
}

func TestChannelSinkCloseUnblocksWriter(t *testing.T) {
	sink, _, closeFn := NewChannelSink("chan", 0)

	errCh := make(chan error, 1)
	go func() {
		errCh <- sink.WriteDataset(context.Background(), sampleDataset())
	}()

	time.Sleep(10 * time.Millisecond)
	closeFn()

	select {
	case err := <-errCh:
		if !errors.Is(err, ErrChannelSinkClosed) {
			t.Fatalf("expected ErrChannelSinkClosed, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("writer stayed blocked after close")
	}
}
