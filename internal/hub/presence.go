package hub

import "sync"

// PresenceIndex is the process-wide map from connection id to user
// identity, maintained on connect/disconnect. It exists for direct
// per-user delivery independent of room membership. Nothing here is
// persisted; a restart rebuilds it from nothing as connections return.
type PresenceIndex struct {
	mu     sync.RWMutex
	conns  map[string]*Client
	byUser map[uint]map[*Client]struct{}
}

// NewPresenceIndex creates an empty PresenceIndex.
func NewPresenceIndex() *PresenceIndex {
	return &PresenceIndex{
		conns:  make(map[string]*Client),
		byUser: make(map[uint]map[*Client]struct{}),
	}
}

// Add registers a freshly authenticated connection.
func (p *PresenceIndex) Add(client *Client) {
	p.mu.Lock()
	p.conns[client.id] = client
	userID := client.user.ID
	if _, ok := p.byUser[userID]; !ok {
		p.byUser[userID] = make(map[*Client]struct{})
	}
	p.byUser[userID][client] = struct{}{}
	p.mu.Unlock()
}

// Remove forgets a connection. Safe to call for connections that were
// never added.
func (p *PresenceIndex) Remove(client *Client) {
	p.mu.Lock()
	delete(p.conns, client.id)
	userID := client.user.ID
	if set, ok := p.byUser[userID]; ok {
		delete(set, client)
		if len(set) == 0 {
			delete(p.byUser, userID)
		}
	}
	p.mu.Unlock()
}

// UserID resolves a connection id to the user behind it.
func (p *PresenceIndex) UserID(connID string) (uint, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	client, ok := p.conns[connID]
	if !ok {
		return 0, false
	}
	return client.user.ID, true
}

// ConnectionCount returns the number of live connections.
func (p *PresenceIndex) ConnectionCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.conns)
}

// SendToUser delivers the message to every live connection of the user
// and returns how many connections accepted it. Connections with full
// queues are skipped, same as broadcasts.
func (p *PresenceIndex) SendToUser(userID uint, message []byte) int {
	p.mu.RLock()
	set := p.byUser[userID]
	recipients := make([]*Client, 0, len(set))
	for client := range set {
		recipients = append(recipients, client)
	}
	p.mu.RUnlock()

	delivered := 0
	for _, client := range recipients {
		if client.trySend(message) {
			delivered++
		}
	}
	return delivered
}
