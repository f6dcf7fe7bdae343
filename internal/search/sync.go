package search

import (
	"net/url"
	"sync"
	"time"

	"invoicedash/internal/model"
	"invoicedash/internal/query"
)

// Navigator applies navigation state. Replace must overwrite the current
// history entry rather than add a new one.
type Navigator interface {
	Replace(path string, params url.Values)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string, params url.Values)

func (f NavigatorFunc) Replace(path string, params url.Values) { f(path, params) }

// NextParams returns the navigation parameters for a new search term: the
// current parameters with page reset to 1 and query set, or removed when
// the term is empty. current is not modified.
func NextParams(current url.Values, term string) url.Values {
	next := query.CloneValues(current)
	next.Set(query.ParamPage, "1")
	if term != "" {
		next.Set(query.ParamQuery, term)
	} else {
		next.Del(query.ParamQuery)
	}
	return next
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithWait sets the debounce window.
func WithWait(d time.Duration) Option {
	return func(s *Synchronizer) { s.wait = d }
}

// WithClock sets the clock used for debouncing.
func WithClock(c Clock) Option {
	return func(s *Synchronizer) { s.clock = c }
}

// Synchronizer turns keystrokes in the search box into debounced navigation
// replaces, and holds the parameters it last navigated to.
type Synchronizer struct {
	path  string
	nav   Navigator
	wait  time.Duration
	clock Clock
	deb   *Debouncer

	mu     sync.Mutex
	params url.Values
}

// NewSynchronizer starts from the ambient parameters of path.
func NewSynchronizer(path string, initial url.Values, nav Navigator, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		path:   path,
		nav:    nav,
		wait:   DefaultWait,
		clock:  SystemClock,
		params: query.CloneValues(initial),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.deb = NewDebouncer(s.wait, s.clock)
	return s
}

// InputValue is the text the search box should show: the ambient query
// parameter, or "" when absent.
func (s *Synchronizer) InputValue() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params.Get(query.ParamQuery)
}

// Params returns a copy of the current navigation parameters.
func (s *Synchronizer) Params() url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return query.CloneValues(s.params)
}

// State is the listing query the current parameters resolve to.
func (s *Synchronizer) State() model.QueryState {
	return query.Plan(query.ParamsFromValues(s.Params()))
}

// Keystroke records the latest contents of the search box. Only the last
// term of a burst is navigated to.
func (s *Synchronizer) Keystroke(term string) {
	s.deb.Trigger(func() { s.apply(term) })
}

// Close drops any pending navigation.
func (s *Synchronizer) Close() {
	s.deb.Close()
}

func (s *Synchronizer) apply(term string) {
	s.mu.Lock()
	next := NextParams(s.params, term)
	s.params = next
	s.mu.Unlock()

	s.nav.Replace(s.path, query.CloneValues(next))
}
