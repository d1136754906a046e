package sse

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPublish_OnlyReachesTopic(t *testing.T) {
	hub := NewHub()
	a, cleanupA := hub.Subscribe("company-a")
	defer cleanupA()
	b, cleanupB := hub.Subscribe("company-b")
	defer cleanupB()

	hub.Publish("company-a", Event{Event: SnapshotChanged, Data: map[string]int64{"version": 2}})

	select {
	case ev := <-a:
		assert.Equal(t, "company-a", ev.Topic)
		assert.Equal(t, SnapshotChanged, ev.Event)
	default:
		t.Fatal("expected event for company-a")
	}
	select {
	case ev := <-b:
		t.Fatalf("company-b received %+v", ev)
	default:
	}
}

func TestPublish_FullBufferDoesNotBlock(t *testing.T) {
	hub := NewHub()
	_, cleanup := hub.Subscribe("c")
	defer cleanup()

	for i := 0; i < 100; i++ {
		hub.Publish("c", Event{Event: SnapshotChanged})
	}
	assert.Equal(t, 1, hub.SubscriberCount("c"))
}

func TestCleanup_RemovesAndClosesOnce(t *testing.T) {
	hub := NewHub()
	ch, cleanup := hub.Subscribe("c")
	_, cleanup2 := hub.Subscribe("c")
	assert.Equal(t, 2, hub.TotalSubscribers())

	cleanup()
	cleanup()
	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 1, hub.SubscriberCount("c"))

	cleanup2()
	assert.Zero(t, hub.TotalSubscribers())
}

func TestConcurrentSubscribeAndPublish(t *testing.T) {
	hub := NewHub()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			ch, cleanup := hub.Subscribe("c")
			hub.Publish("c", Event{Event: SnapshotChanged})
			<-ch
			cleanup()
		}()
		go func() {
			defer wg.Done()
			hub.Publish("c", Event{Event: SnapshotChanged})
		}()
	}
	wg.Wait()
	assert.Zero(t, hub.TotalSubscribers())
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Event{Event: SnapshotChanged, Data: map[string]int{"version": 3}}))
	assert.Equal(t, "event: snapshot.changed\ndata: {\"version\":3}\n\n", buf.String())
}
