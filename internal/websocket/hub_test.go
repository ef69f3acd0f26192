package websocket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubBroadcastsToRegisteredClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{hub: hub, Send: make(chan []byte, 16)}
	hub.Register <- client

	hub.Publish([]byte(`{"type":"listing.create"}`))

	select {
	case msg := <-client.Send:
		assert.JSONEq(t, `{"type":"listing.create"}`, string(msg))
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for broadcast")
	}
}

func TestHubUnregisterClosesSendChannel(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{hub: hub, Send: make(chan []byte, 16)}
	hub.Register <- client
	hub.Unregister <- client

	select {
	case _, open := <-client.Send:
		require.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for channel close")
	}
}

func TestPublishNeverBlocks(t *testing.T) {
	// No Run loop draining the buffer; publishing past capacity must drop
	// instead of blocking.
	hub := NewHub()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			hub.Publish([]byte("x"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a saturated hub")
	}
}
