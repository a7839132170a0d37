package dedup

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// Store is a bounded set of previously-notified product fingerprints.
// When the capacity is exceeded the least recently seen keys are evicted,
// which bounds memory without ever evicting the just-inserted key. There
// is no persistence: a restart clears the set, so an already-notified
// product may be re-notified once afterwards.
type Store struct {
	seen *lru.Cache[string, struct{}]
}

// NewStore creates a store holding at most capacity fingerprints
func NewStore(capacity int) (*Store, error) {
	seen, err := lru.New[string, struct{}](capacity)
	if err != nil {
		return nil, err
	}
	return &Store{seen: seen}, nil
}

// ShouldNotify reports whether key has not been seen before and, as a
// side effect, marks it seen. Safe for concurrent use.
func (s *Store) ShouldNotify(key string) bool {
	if _, ok := s.seen.Get(key); ok {
		return false
	}
	s.seen.Add(key, struct{}{})
	return true
}

// Len returns the number of fingerprints currently held
func (s *Store) Len() int {
	return s.seen.Len()
}
