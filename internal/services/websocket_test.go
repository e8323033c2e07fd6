package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Handlers publish each booking transition from its own goroutine, so
// concurrent sends to one owner must be safe even when that owner's send
// buffer is full and the client gets dropped.
func TestBroadcastToUserDropsStalledClientConcurrently(t *testing.T) {
	hub := NewHub()

	stalled := &Client{ID: 7, Send: make(chan []byte, 1), Hub: hub}
	stalled.Send <- []byte("backlog")
	hub.clients[stalled] = true

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.BroadcastToUser(7, []byte("event"))
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, hub.GetConnectedClients())
}

func TestBroadcastToUserDeliversToMatchingClient(t *testing.T) {
	hub := NewHub()

	owner := &Client{ID: 7, Send: make(chan []byte, 4), Hub: hub}
	other := &Client{ID: 8, Send: make(chan []byte, 4), Hub: hub}
	hub.clients[owner] = true
	hub.clients[other] = true

	hub.BroadcastToUser(7, []byte("event"))

	require.Len(t, owner.Send, 1)
	assert.Equal(t, []byte("event"), <-owner.Send)
	assert.Empty(t, other.Send)
	assert.Equal(t, 2, hub.GetConnectedClients())
}
