package websocket_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tkahng/dicemen/websocket"
)

func TestHub_PublishDelivers(t *testing.T) {
	hub := websocket.NewHub()

	sub := hub.Subscribe("game1")
	defer hub.Unsubscribe("game1", sub)

	hub.Publish("game1", []byte("hello"))

	select {
	case payload := <-sub.C():
		assert.Equal(t, []byte("hello"), payload)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for payload")
	}
}

func TestHub_RoomsAreIsolated(t *testing.T) {
	hub := websocket.NewHub()

	sub1 := hub.Subscribe("game1")
	sub2 := hub.Subscribe("game2")
	defer hub.Unsubscribe("game1", sub1)
	defer hub.Unsubscribe("game2", sub2)

	hub.Publish("game1", []byte("for game1"))

	select {
	case <-sub2.C():
		t.Fatal("subscriber received a payload for another room")
	case <-time.After(50 * time.Millisecond):
	}
	assert.Len(t, sub1.C(), 1)
}

func TestHub_UnsubscribeClosesChannel(t *testing.T) {
	hub := websocket.NewHub()

	sub := hub.Subscribe("game1")
	assert.Equal(t, 1, hub.Subscribers("game1"))

	hub.Unsubscribe("game1", sub)
	assert.Equal(t, 0, hub.Subscribers("game1"))

	_, ok := <-sub.C()
	assert.False(t, ok)

	// Unsubscribing twice is harmless.
	hub.Unsubscribe("game1", sub)
}

func TestHub_SlowSubscriberDropsMessages(t *testing.T) {
	hub := websocket.NewHub()

	sub := hub.Subscribe("game1")
	defer hub.Unsubscribe("game1", sub)

	// Publishing past the buffer must not block.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			hub.Publish("game1", []byte("x"))
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}
