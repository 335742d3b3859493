package registry

import "sync"

// Handle delivers one encoded message to a client. Implementations must be
// safe for concurrent use; sessions and the router share it.
type Handle interface {
	Send(data []byte) error
}

type connection struct {
	mu        sync.Mutex
	handle    Handle
	connected bool
}

// Registry tracks one connection entry per known player id. Entries are
// never deleted: a disconnect only clears the connected flag, so the same
// id can reattach indefinitely.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]*connection
}

func New() *Registry {
	return &Registry{conns: make(map[string]*connection)}
}

// Register attaches a delivery handle to a player id, creating the entry on
// first contact. It reports whether the id was already known, i.e. whether
// this is a reconnect.
func (r *Registry) Register(playerID string, h Handle) bool {
	r.mu.Lock()
	c, known := r.conns[playerID]
	if !known {
		c = &connection{}
		r.conns[playerID] = c
	}
	r.mu.Unlock()

	c.mu.Lock()
	c.handle = h
	c.connected = true
	c.mu.Unlock()
	return known
}

// Deregister marks the player disconnected, but only if h is still the
// entry's current handle. A teardown arriving from a socket that a reconnect
// has already replaced is stale: it must not silence the live handle. The
// entry stays behind either way so a later Register can take over. Reports
// whether the flag was actually cleared.
func (r *Registry) Deregister(playerID string, h Handle) bool {
	r.mu.RLock()
	c := r.conns[playerID]
	r.mu.RUnlock()
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handle != h {
		return false
	}
	c.connected = false
	return true
}

// Send delivers data to the player if they are connected. Unknown or
// disconnected players are a silent no-op; only a live handle's write error
// is surfaced.
func (r *Registry) Send(playerID string, data []byte) error {
	r.mu.RLock()
	c := r.conns[playerID]
	r.mu.RUnlock()
	if c == nil {
		return nil
	}

	c.mu.Lock()
	h, ok := c.handle, c.connected
	c.mu.Unlock()
	if !ok || h == nil {
		return nil
	}
	return h.Send(data)
}

// Connected reports the liveness flag for a player id.
func (r *Registry) Connected(playerID string) bool {
	r.mu.RLock()
	c := r.conns[playerID]
	r.mu.RUnlock()
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}
