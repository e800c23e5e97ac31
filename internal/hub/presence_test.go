package hub

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPresenceIndex_AddRemove(t *testing.T) {
	p := NewPresenceIndex()
	h := NewHub()
	c := newTestClient(h, 42, "ada")

	p.Add(c)
	assert.Equal(t, 1, p.ConnectionCount())

	userID, ok := p.UserID(c.ID())
	assert.True(t, ok)
	assert.Equal(t, uint(42), userID)

	p.Remove(c)
	assert.Equal(t, 0, p.ConnectionCount())
	_, ok = p.UserID(c.ID())
	assert.False(t, ok)
}

func TestPresenceIndex_RemoveUnknownConnection(t *testing.T) {
	p := NewPresenceIndex()
	// Removing something never added must not panic.
	p.Remove(newTestClient(NewHub(), 1, "a"))
}

func TestPresenceIndex_SendToUser(t *testing.T) {
	p := NewPresenceIndex()
	h := NewHub()

	// Two tabs of the same user, one connection of another.
	tab1 := newTestClient(h, 42, "ada")
	tab2 := newTestClient(h, 42, "ada")
	other := newTestClient(h, 7, "bob")
	p.Add(tab1)
	p.Add(tab2)
	p.Add(other)

	delivered := p.SendToUser(42, []byte("direct"))

	assert.Equal(t, 2, delivered)
	assert.Equal(t, []byte("direct"), received(tab1))
	assert.Equal(t, []byte("direct"), received(tab2))
	assert.Nil(t, received(other))
}

func TestPresenceIndex_SendToUserSkipsClosedConnection(t *testing.T) {
	p := NewPresenceIndex()
	h := NewHub()

	stale := newTestClient(h, 42, "ada")
	fresh := newTestClient(h, 42, "ada")
	p.Add(stale)
	p.Add(fresh)

	// One tab hung up but Remove has not run yet; delivery must not
	// panic and still reaches the live tab.
	stale.closeSend()

	var delivered int
	assert.NotPanics(t, func() {
		delivered = p.SendToUser(42, []byte("direct"))
	})
	assert.Equal(t, 1, delivered)
	assert.Equal(t, []byte("direct"), received(fresh))
}

func TestPresenceIndex_SendToUnknownUser(t *testing.T) {
	p := NewPresenceIndex()
	assert.Equal(t, 0, p.SendToUser(404, []byte("nobody home")))
}
