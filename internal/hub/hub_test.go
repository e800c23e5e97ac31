package hub

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/YuvaKrishnaS/ideasphere-backend/internal/domain"
)

func newTestClient(h *Hub, userID uint, username string) *Client {
	return NewClient(h, nil, nil, domain.User{ID: userID, Username: username, IsActive: true})
}

// received drains at most one queued frame from the client without
// blocking; nil means nothing was queued.
func received(c *Client) []byte {
	select {
	case frame := <-c.send:
		return frame
	default:
		return nil
	}
}

func TestHub_SubscribeUnsubscribe(t *testing.T) {
	h := NewHub()
	a := newTestClient(h, 1, "a")
	b := newTestClient(h, 2, "b")

	h.Subscribe(7, a)
	h.Subscribe(7, b)
	assert.Equal(t, 2, h.GroupSize(7))

	h.Unsubscribe(7, a)
	assert.Equal(t, 1, h.GroupSize(7))

	// Dropping the last member removes the group entirely.
	h.Unsubscribe(7, b)
	assert.Equal(t, 0, h.GroupSize(7))
	_, ok := h.rooms[7]
	assert.False(t, ok)
}

func TestHub_UnsubscribeUnknownRoom(t *testing.T) {
	h := NewHub()
	// Must not panic.
	h.Unsubscribe(99, newTestClient(h, 1, "a"))
}

func TestHub_BroadcastExcludesSender(t *testing.T) {
	h := NewHub()
	sender := newTestClient(h, 1, "sender")
	other := newTestClient(h, 2, "other")
	outsider := newTestClient(h, 3, "outsider")

	h.Subscribe(7, sender)
	h.Subscribe(7, other)
	h.Subscribe(8, outsider)

	h.Broadcast(7, []byte("hello"), sender)

	assert.Nil(t, received(sender))
	assert.Equal(t, []byte("hello"), received(other))
	assert.Nil(t, received(outsider))
}

func TestHub_BroadcastNilExcludeReachesEveryone(t *testing.T) {
	h := NewHub()
	a := newTestClient(h, 1, "a")
	b := newTestClient(h, 2, "b")
	h.Subscribe(7, a)
	h.Subscribe(7, b)

	h.Broadcast(7, []byte("ping"), nil)

	assert.Equal(t, []byte("ping"), received(a))
	assert.Equal(t, []byte("ping"), received(b))
}

func TestHub_BroadcastEmptyGroup(t *testing.T) {
	h := NewHub()
	// Broadcasting to a room nobody joined is a silent no-op.
	h.Broadcast(7, []byte("void"), nil)
}

func TestHub_BroadcastSkipsClosedClient(t *testing.T) {
	h := NewHub()
	gone := newTestClient(h, 1, "gone")
	alive := newTestClient(h, 2, "alive")
	h.Subscribe(7, gone)
	h.Subscribe(7, alive)

	// The disconnect path closed the queue while the client was still
	// in the group snapshot. Delivery must drop the frame, not panic,
	// and the rest of the group still gets it.
	gone.closeSend()

	assert.NotPanics(t, func() {
		h.Broadcast(7, []byte("after"), nil)
	})
	assert.Equal(t, []byte("after"), received(alive))
}

func TestHub_BroadcastRacingDisconnect(t *testing.T) {
	h := NewHub()
	victim := newTestClient(h, 1, "victim")
	witness := newTestClient(h, 2, "witness")
	h.Subscribe(7, victim)
	h.Subscribe(7, witness)

	broadcasts := make(chan struct{})
	closed := make(chan struct{})
	go func() {
		defer close(broadcasts)
		for i := 0; i < 500; i++ {
			h.Broadcast(7, []byte("tick"), nil)
		}
	}()
	go func() {
		defer close(closed)
		h.Unsubscribe(7, victim)
		victim.closeSend()
	}()
	<-broadcasts
	<-closed

	for received(victim) != nil {
	}
	// A drained closed channel yields zero values, never a panic.
	frame, ok := <-victim.send
	assert.Nil(t, frame)
	assert.False(t, ok)
}

func TestClient_SendEventAfterCloseIsDropped(t *testing.T) {
	h := NewHub()
	c := newTestClient(h, 1, "a")
	c.closeSend()
	// Idempotent close, and queuing afterwards is a silent no-op.
	assert.NotPanics(t, func() {
		c.closeSend()
		c.sendEvent("room-message", map[string]string{"message": "late"})
	})
}

func TestHub_BroadcastSkipsFullQueue(t *testing.T) {
	h := NewHub()
	stuck := newTestClient(h, 1, "stuck")
	healthy := newTestClient(h, 2, "healthy")
	h.Subscribe(7, stuck)
	h.Subscribe(7, healthy)

	for i := 0; i < sendQueueSize; i++ {
		stuck.send <- []byte("fill")
	}

	// The full queue never blocks delivery to the healthy client.
	h.Broadcast(7, []byte("urgent"), nil)

	assert.Equal(t, []byte("urgent"), received(healthy))
}
