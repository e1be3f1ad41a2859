package websocket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SendFullBuffer(t *testing.T) {
	client := NewClient(nil, 1, NewHub())

	for i := 0; i < sendBufferSize; i++ {
		require.NoError(t, client.Send([]byte("{}")))
	}

	err := client.Send([]byte("{}"))
	assert.ErrorIs(t, err, ErrClientSlow)
	assert.False(t, client.IsClosed())

	require.NoError(t, client.Close())
	assert.ErrorIs(t, client.Send([]byte("{}")), ErrClientClosed)
}

func TestHub_BroadcastDropsSlowClient(t *testing.T) {
	hub := NewHub()
	slow := NewClient(nil, 1, hub)
	healthy := newMockClient("healthy", 1)
	hub.Register(slow)
	hub.Register(healthy)

	// Nothing drains slow.send, so the buffer fills up
	for i := 0; i < sendBufferSize; i++ {
		require.NoError(t, slow.Send([]byte("{}")))
	}

	hub.Broadcast(1, TransactionCreated(map[string]interface{}{"id": 1}))

	require.Eventually(t, func() bool {
		return slow.IsClosed() && hub.ClientCount(1) == 1
	}, time.Second, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		return len(healthy.GetMessages()) == 1
	}, time.Second, 5*time.Millisecond)

	hub.Broadcast(1, TransactionCreated(map[string]interface{}{"id": 2}))
	require.Eventually(t, func() bool {
		return len(healthy.GetMessages()) == 2
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, hub.ClientCount(1))
}
