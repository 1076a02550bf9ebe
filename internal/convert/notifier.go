package convert

import "sync"

// Notifier fans a finished conversion's output path out to its listeners.
// Only successful conversions are announced.
type Notifier struct {
	mu        sync.Mutex
	next      int
	listeners map[int]func(outputPath string)
}

// Subscribe registers fn and returns a function that removes it again.
func (n *Notifier) Subscribe(fn func(outputPath string)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.listeners == nil {
		n.listeners = make(map[int]func(string))
	}
	id := n.next
	n.next++
	n.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.listeners, id)
			n.mu.Unlock()
		})
	}
}

func (n *Notifier) notify(outputPath string) {
	n.mu.Lock()
	fns := make([]func(string), 0, len(n.listeners))
	for _, fn := range n.listeners {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn(outputPath)
	}
}
