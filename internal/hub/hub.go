// Package hub holds the realtime layer: the broadcast groups, the
// websocket client pumps, the per-connection session state machine and
// the presence index.
package hub

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Hub maintains the broadcast group of each room: the set of live
// connections currently joined to it. Group membership is process-local;
// a multi-process deployment must back fan-out with a shared pub/sub.
type Hub struct {
	mu    sync.RWMutex
	rooms map[uint]map[*Client]bool
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{rooms: make(map[uint]map[*Client]bool)}
}

// Subscribe adds the connection to the room's broadcast group.
func (h *Hub) Subscribe(roomID uint, client *Client) {
	if client == nil {
		logrus.Error("Hub: attempted to subscribe a nil client")
		return
	}
	h.mu.Lock()
	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[*Client]bool)
	}
	h.rooms[roomID][client] = true
	h.mu.Unlock()
}

// Unsubscribe removes the connection from the room's broadcast group,
// dropping the group entirely once it is empty.
func (h *Hub) Unsubscribe(roomID uint, client *Client) {
	h.mu.Lock()
	if group, ok := h.rooms[roomID]; ok {
		delete(group, client)
		if len(group) == 0 {
			delete(h.rooms, roomID)
		}
	}
	h.mu.Unlock()
}

// GroupSize returns the current size of a room's broadcast group.
func (h *Hub) GroupSize(roomID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// Broadcast delivers the message to every connection in the room's group,
// except the excluded sender (pass nil to include everyone). Broadcasting
// to an empty group is a no-op. Sends never block: a client whose queue
// is full is skipped and its write pump deals with the fallout.
func (h *Hub) Broadcast(roomID uint, message []byte, exclude *Client) {
	h.mu.RLock()
	group, ok := h.rooms[roomID]
	recipients := make([]*Client, 0, len(group))
	if ok {
		for client := range group {
			if client != exclude {
				recipients = append(recipients, client)
			}
		}
	}
	h.mu.RUnlock()

	if len(recipients) == 0 {
		return
	}
	for _, client := range recipients {
		if !client.trySend(message) {
			logrus.WithFields(logrus.Fields{
				"room_id": roomID,
				"user_id": client.user.ID,
			}).Warn("Dropped broadcast frame for client, skipping")
		}
	}
}
