package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressEvent_Line(t *testing.T) {
	event := ProgressEvent{
		Item:    2,
		Total:   5,
		Message: "Creating user: ana_paints",
	}
	assert.Equal(t, "[2/5] Creating user: ana_paints", event.Line())
}

func TestCollectorSink_KeepsOrder(t *testing.T) {
	collector := &CollectorSink{}
	batchID := uuid.New()

	for i := 1; i <= 3; i++ {
		collector.Publish(context.Background(), ProgressEvent{
			BatchID: batchID, Item: i, Total: 3, Step: StepPersona, Message: "Generating persona...",
		})
	}

	events := collector.Events()
	require.Len(t, events, 3)
	assert.Equal(t, 1, events[0].Item)
	assert.Equal(t, 3, events[2].Item)
	assert.Len(t, collector.Lines(), 3)
}

func TestCollectorSink_ConcurrentPublish(t *testing.T) {
	collector := &CollectorSink{}
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(item int) {
			defer wg.Done()
			collector.Publish(context.Background(), ProgressEvent{Item: item, Total: 20})
		}(i)
	}
	wg.Wait()

	assert.Len(t, collector.Events(), 20)
}

func TestMultiSink_SkipsNilMembers(t *testing.T) {
	collector := &CollectorSink{}
	sink := MultiSink{nil, collector, nil}

	sink.Publish(context.Background(), ProgressEvent{Item: 1, Total: 1, Message: "ok"})

	assert.Len(t, collector.Events(), 1)
}
