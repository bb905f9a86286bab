package resilience

import "sync"

// SingleFlight collapses concurrent calls that share a key into one execution.
// Late joiners block until the leader finishes and receive its result.
type SingleFlight struct {
	mu       sync.Mutex
	inflight map[string]*flight
}

type flight struct {
	done chan struct{}
	val  any
	err  error
}

// Do runs fn once per key at a time. The bool reports whether the result was
// shared from another caller's execution.
func (s *SingleFlight) Do(key string, fn func() (any, error)) (any, error, bool) {
	s.mu.Lock()
	if s.inflight == nil {
		s.inflight = make(map[string]*flight)
	}

	if f, ok := s.inflight[key]; ok {
		s.mu.Unlock()
		<-f.done
		return f.val, f.err, true
	}

	f := &flight{done: make(chan struct{})}
	s.inflight[key] = f
	s.mu.Unlock()

	f.val, f.err = fn()
	close(f.done)

	s.mu.Lock()
	delete(s.inflight, key)
	s.mu.Unlock()

	return f.val, f.err, false
}
