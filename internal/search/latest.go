package search

import "sync"

// Ticket identifies one issued request.
type Ticket struct {
	Key string
	Seq uint64
}

// Latest keeps the response for the most recently requested query. A
// response is applied only if it answers the query currently wanted and is
// not older than the response already applied.
type Latest[T any] struct {
	mu      sync.Mutex
	seq     uint64
	want    string
	applied uint64
	val     T
	has     bool
}

// Begin records key as the wanted query and returns the ticket its
// response must be offered with.
func (l *Latest[T]) Begin(key string) Ticket {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	l.want = key
	return Ticket{Key: key, Seq: l.seq}
}

// Offer applies v if t is still applicable and reports whether it was.
func (l *Latest[T]) Offer(t Ticket, v T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if t.Key != l.want || t.Seq < l.applied {
		return false
	}
	l.val = v
	l.applied = t.Seq
	l.has = true
	return true
}

// Value returns the applied response, if any.
func (l *Latest[T]) Value() (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.val, l.has
}
