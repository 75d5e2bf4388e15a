package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hubNopLogger struct{}

func (hubNopLogger) Debug(module string, message string, details map[string]interface{}) {}
func (hubNopLogger) Info(module string, message string, details map[string]interface{})  {}
func (hubNopLogger) Warn(module string, message string, details map[string]interface{})  {}
func (hubNopLogger) Error(module string, message string, details map[string]interface{}) {}
func (hubNopLogger) Sync() error                                                         { return nil }

func clientCount(h *Hub) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, clients := range h.clients {
		n += len(clients)
	}
	return n
}

func waitForClients(t *testing.T, h *Hub, want int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return clientCount(h) == want
	}, time.Second, 10*time.Millisecond)
}

func TestHub_SlowClientsDroppedWithoutBlocking(t *testing.T) {
	h := NewHub(nil, hubNopLogger{})
	go h.Run()

	fast := &Client{Hub: h, ConversationID: "conv-fast", Send: make(chan []byte, 4)}
	slowA := &Client{Hub: h, ConversationID: "conv-slow-a", Send: make(chan []byte)}
	slowB := &Client{Hub: h, ConversationID: "conv-slow-b", Send: make(chan []byte)}
	h.register <- fast
	h.register <- slowA
	h.register <- slowB
	waitForClients(t, h, 3)

	// Two slow clients in one delivery pass must not wedge the hub.
	h.Broadcast(map[string]interface{}{"event": "rebuild"})
	waitForClients(t, h, 1)

	// A second pass over an already-dropped client must not close Send again.
	h.Broadcast(map[string]interface{}{"event": "rebuild"})

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-slowA.Send:
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)

	assert.Len(t, fast.Send, 2)
}

func TestHub_ClusterMessageSkipsOwnPublishes(t *testing.T) {
	h := NewHub(nil, hubNopLogger{})
	go h.Run()

	client := &Client{Hub: h, ConversationID: "conv-c", Send: make(chan []byte, 2)}
	h.register <- client
	waitForClients(t, h, 1)

	msg := json.RawMessage(`{"uuid":"conv-c","response":"hi"}`)

	own, err := json.Marshal(clusterPayload{
		OriginInstanceID:     h.instanceID,
		TargetConversationID: "conv-c",
		Message:              msg,
	})
	require.NoError(t, err)
	h.handleClusterMessage(own)
	assert.Len(t, client.Send, 0, "payload published by this instance must not be re-delivered")

	remote, err := json.Marshal(clusterPayload{
		OriginInstanceID:     "other-instance",
		TargetConversationID: "conv-c",
		Message:              msg,
	})
	require.NoError(t, err)
	h.handleClusterMessage(remote)
	require.Len(t, client.Send, 1)
	assert.JSONEq(t, string(msg), string(<-client.Send))

	wildcard, err := json.Marshal(clusterPayload{
		OriginInstanceID:     "other-instance",
		TargetConversationID: "*",
		Message:              msg,
	})
	require.NoError(t, err)
	h.handleClusterMessage(wildcard)
	assert.Len(t, client.Send, 1)
}

func TestHub_SendToTargetsOneConversation(t *testing.T) {
	h := NewHub(nil, hubNopLogger{})
	go h.Run()

	target := &Client{Hub: h, ConversationID: "conv-target", Send: make(chan []byte, 1)}
	other := &Client{Hub: h, ConversationID: "conv-other", Send: make(chan []byte, 1)}
	h.register <- target
	h.register <- other
	waitForClients(t, h, 2)

	h.SendTo("conv-target", []byte(`{"uuid":"conv-target","response":"ok"}`))

	require.Len(t, target.Send, 1)
	assert.Len(t, other.Send, 0)
}
