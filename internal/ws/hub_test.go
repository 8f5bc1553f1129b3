package ws

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu       sync.Mutex
	messages []string
	closed   bool
}

func (f *fakeConn) WriteMessage(_ int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, string(data))
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) received() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.messages...)
}

func TestHub_BroadcastAndTargeted(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	anna, max := &fakeConn{}, &fakeConn{}
	hub.Register(&Client{Conn: anna, UserID: "anna"})
	hub.Register(&Client{Conn: max, UserID: "max"})

	hub.BroadcastJSON(map[string]string{"type": "billing_update"})
	hub.SendToUsers([]string{"max"}, map[string]string{"type": "timeslot_notification"})

	require.Eventually(t, func() bool { return len(max.received()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{`{"type":"billing_update"}`}, anna.received())

	cancel()
	<-done
	assert.True(t, anna.closed)
}

func TestHub_DropsWhenQueueFull(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	for i := 0; i < cap(hub.outbound)+10; i++ {
		hub.BroadcastJSON(i)
	}
	assert.Len(t, hub.outbound, cap(hub.outbound))
}

func TestHub_SendToNobody(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	hub.SendToUsers(nil, "x")
	assert.Empty(t, hub.outbound)
}
