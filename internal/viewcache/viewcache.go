// Package viewcache holds rendered listing results between requests and
// tracks when a view has gone stale.
//
// Each view has a version. Readers take a Token before fetching and may only
// store a result under that token; Invalidate bumps the version, so anything
// fetched before the bump can neither be served nor stored afterwards.
package viewcache

import (
	"strconv"
	"strings"
	"sync"
	"time"

	goCache "github.com/patrickmn/go-cache"
)

// Views known to the application.
const (
	InvoicesList = "/dashboard/invoices"
	Dashboard    = "/dashboard"
)

// DefaultExpiration is the lifetime of a cached entry when none is configured.
const DefaultExpiration = time.Minute

// Token is a versioned read handle for one view.
type Token struct {
	View    string
	Version uint64
}

// Store is an in-memory, version-aware view cache. It is safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	cache    *goCache.Cache
	versions map[string]uint64
}

// New creates a Store whose entries expire after ttl.
func New(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultExpiration
	}
	return &Store{
		cache:    goCache.New(ttl, 2*ttl),
		versions: make(map[string]uint64),
	}
}

// Token returns a read handle for the current version of view.
func (s *Store) Token(view string) Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Token{View: view, Version: s.versions[view]}
}

// Get returns the entry stored under tok and key. Tokens taken before the
// last invalidation always miss.
func (s *Store) Get(tok Token, key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.versions[tok.View] != tok.Version {
		return nil, false
	}
	return s.cache.Get(entryKey(tok, key))
}

// Set stores v under tok and key. It reports false, storing nothing, when the
// view was invalidated after tok was taken.
func (s *Store) Set(tok Token, key string, v any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.versions[tok.View] != tok.Version {
		return false
	}
	s.cache.SetDefault(entryKey(tok, key), v)
	return true
}

// Invalidate marks view stale: its version moves on and its entries are dropped.
// Other views are untouched.
func (s *Store) Invalidate(view string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.versions[view]++

	prefix := view + "|"
	for k := range s.cache.Items() {
		if strings.HasPrefix(k, prefix) {
			s.cache.Delete(k)
		}
	}
}

// Version returns the current version of view.
func (s *Store) Version(view string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.versions[view]
}

func entryKey(tok Token, key string) string {
	return tok.View + "|" + strconv.FormatUint(tok.Version, 10) + "|" + key
}
