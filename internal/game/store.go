package game

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Handle is one store entry. Its mutex serializes all operations on the
// session it wraps: at most one mutation per session is in flight, while
// distinct sessions proceed independently.
type Handle struct {
	sync.Mutex
	Session *Session
}

// Store is the bounded registry mapping a conversation id to its game
// session. Entries are created lazily and evicted least-recently-used.
type Store struct {
	mu    sync.Mutex
	cache *lru.Cache[string, *Handle]
}

func NewStore(capacity int) (*Store, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("store capacity must be > 0: %d", capacity)
	}
	cache, err := lru.New[string, *Handle](capacity)
	if err != nil {
		return nil, err
	}
	return &Store{cache: cache}, nil
}

// GetOrCreate returns the handle for id, creating a fresh session on
// first access. The second return reports whether a new session was
// created.
func (st *Store) GetOrCreate(id string) (*Handle, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if h, ok := st.cache.Get(id); ok {
		return h, false
	}
	h := &Handle{Session: NewSession()}
	st.cache.Add(id, h)
	return h, true
}

// Adopt inserts a pre-built session (e.g. restored from a snapshot
// cache) unless an entry for id already exists, in which case the
// existing handle wins.
func (st *Store) Adopt(id string, s *Session) *Handle {
	st.mu.Lock()
	defer st.mu.Unlock()
	if h, ok := st.cache.Get(id); ok {
		return h
	}
	h := &Handle{Session: s}
	st.cache.Add(id, h)
	return h
}

// Peek returns the handle for id without creating one.
func (st *Store) Peek(id string) (*Handle, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.cache.Get(id)
}

func (st *Store) Remove(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.cache.Remove(id)
}

func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.cache.Len()
}
