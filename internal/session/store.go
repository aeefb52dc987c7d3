package session

import (
	"sort"
	"sync"
	"time"
)

// storeEntry holds a session with its last use.
type storeEntry struct {
	session  *Session
	lastUsed time.Time
}

// Store keeps named sessions. Sessions idle for longer than the TTL are
// closed by Evict. A ttl of 0 keeps sessions until they are deleted.
type Store struct {
	mu      sync.Mutex
	entries map[string]storeEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewStore creates an empty store.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		entries: make(map[string]storeEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the named session and marks it used.
func (st *Store) Get(name string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	entry, ok := st.entries[name]
	if !ok {
		return nil, false
	}
	entry.lastUsed = st.now()
	st.entries[name] = entry
	return entry.session, true
}

// Put stores s under name, closing any session it replaces.
func (st *Store) Put(name string, s *Session) {
	st.mu.Lock()
	old, existed := st.entries[name]
	st.entries[name] = storeEntry{session: s, lastUsed: st.now()}
	st.mu.Unlock()
	if existed && old.session != s {
		old.session.Close()
	}
}

// Delete closes and removes the named session.
func (st *Store) Delete(name string) bool {
	st.mu.Lock()
	entry, ok := st.entries[name]
	delete(st.entries, name)
	st.mu.Unlock()
	if ok {
		entry.session.Close()
	}
	return ok
}

// Names returns the stored session names, sorted.
func (st *Store) Names() []string {
	st.mu.Lock()
	defer st.mu.Unlock()
	names := make([]string, 0, len(st.entries))
	for name := range st.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Evict closes sessions idle longer than the TTL and returns their names.
func (st *Store) Evict() []string {
	if st.ttl == 0 {
		return nil
	}
	st.mu.Lock()
	cutoff := st.now().Add(-st.ttl)
	var evicted []*Session
	var names []string
	for name, entry := range st.entries {
		if entry.lastUsed.Before(cutoff) {
			evicted = append(evicted, entry.session)
			names = append(names, name)
			delete(st.entries, name)
		}
	}
	st.mu.Unlock()
	for _, s := range evicted {
		s.Close()
	}
	sort.Strings(names)
	return names
}

// CloseAll closes and removes every session.
func (st *Store) CloseAll() {
	st.mu.Lock()
	entries := st.entries
	st.entries = make(map[string]storeEntry)
	st.mu.Unlock()
	for _, entry := range entries {
		entry.session.Close()
	}
}
