package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// addTestClient wires a client into the hub without a real websocket
// connection; the test drains the send channel directly.
func addTestClient(t *testing.T, hub *Hub, userID uint) *Client {
	t.Helper()

	client := &Client{
		hub:    hub,
		id:     "test-" + t.Name(),
		send:   make(chan []byte, 4),
		userID: userID,
	}
	hub.register <- client

	require.Eventually(t, func() bool {
		return hub.IsUserConnected(userID)
	}, time.Second, 10*time.Millisecond)

	return client
}

func TestPublishToUserTargetsOnlyThatUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	recipient := addTestClient(t, hub, 1)
	bystander := addTestClient(t, hub, 2)

	hub.PublishToUser(1, "notification", map[string]string{"title": "hello"})

	select {
	case raw := <-recipient.send:
		var msg Message
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, "notification", msg.Type)
	case <-time.After(time.Second):
		t.Fatal("recipient never received the message")
	}

	select {
	case <-bystander.send:
		t.Fatal("message leaked to another user's client")
	default:
	}
}

func TestPublishToUserWithNoClientsIsNoOp(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	assert.False(t, hub.IsUserConnected(42))
	hub.PublishToUser(42, "notification", map[string]string{"title": "nobody home"})
	assert.Equal(t, 0, hub.ClientCount())
}

func TestPublishToUserDropsClientWithFullBuffer(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := addTestClient(t, hub, 7)
	for i := 0; i < cap(client.send); i++ {
		client.send <- []byte("filler")
	}

	hub.PublishToUser(7, "notification", map[string]string{"title": "overflow"})

	assert.False(t, hub.IsUserConnected(7))
	assert.Equal(t, 0, hub.ClientCount())
}
