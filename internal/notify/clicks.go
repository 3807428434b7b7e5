package notify

import "sync"

// clickRegistry maps notification IDs to their click callbacks until the
// notification is clicked or closed.
type clickRegistry struct {
	mu        sync.Mutex
	callbacks map[uint32]func()
}

func newClickRegistry() *clickRegistry {
	return &clickRegistry{callbacks: make(map[uint32]func())}
}

func (r *clickRegistry) add(id uint32, fn func()) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	r.callbacks[id] = fn
	r.mu.Unlock()
}

// fire runs and removes the callback for id. It reports whether one existed.
func (r *clickRegistry) fire(id uint32) bool {
	r.mu.Lock()
	fn, ok := r.callbacks[id]
	delete(r.callbacks, id)
	r.mu.Unlock()

	if ok {
		fn()
	}
	return ok
}

func (r *clickRegistry) forget(id uint32) {
	r.mu.Lock()
	delete(r.callbacks, id)
	r.mu.Unlock()
}

func (r *clickRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.callbacks)
}
