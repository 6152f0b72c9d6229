package cache

import (
	"container/list"
	"time"

	"github.com/jonwraymond/usarops/readiness"
	"github.com/jonwraymond/usarops/task"
)

// entry is one cached fingerprint. snapshot is nil while the first
// computation for the key is still in flight. Mutated only by the Cache
// under its mutex.
type entry struct {
	key         string
	taskForceID string
	snapshot    *readiness.Snapshot
	expiresAt   time.Time
	inflight    *task.Handle
}

// fresh reports whether the entry holds an unexpired snapshot.
func (e *entry) fresh(now time.Time) bool {
	return e.snapshot != nil && now.Before(e.expiresAt)
}

// lruStore is a bounded map+list LRU. Entries with an in-flight refresh
// are pinned: they are never evicted, so waiters are never orphaned.
// Not safe for concurrent use; the Cache serializes access.
type lruStore struct {
	capacity  int
	ll        *list.List // front is most recently used
	items     map[string]*list.Element
	evictions int64
}

func newLRUStore(capacity int) *lruStore {
	return &lruStore{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
}

// get returns the entry for key and marks it most recently used.
func (s *lruStore) get(key string) (*entry, bool) {
	elem, ok := s.items[key]
	if !ok {
		return nil, false
	}
	s.ll.MoveToFront(elem)
	return elem.Value.(*entry), true
}

// add inserts a new entry, evicting the least recently used evictable
// entry if at capacity. Returns ErrCacheExhausted when every entry is
// pinned by an in-flight refresh.
func (s *lruStore) add(e *entry) error {
	if _, ok := s.items[e.key]; ok {
		return nil
	}
	if s.ll.Len() >= s.capacity {
		if !s.evictOne() {
			return ErrCacheExhausted
		}
	}
	s.items[e.key] = s.ll.PushFront(e)
	return nil
}

// evictOne removes the least recently used entry without an in-flight
// refresh. Returns false if no entry is evictable.
func (s *lruStore) evictOne() bool {
	for elem := s.ll.Back(); elem != nil; elem = elem.Prev() {
		e := elem.Value.(*entry)
		if e.inflight != nil {
			continue
		}
		s.ll.Remove(elem)
		delete(s.items, e.key)
		s.evictions++
		return true
	}
	return false
}

// remove deletes the entry for key. Idempotent.
func (s *lruStore) remove(key string) {
	if elem, ok := s.items[key]; ok {
		s.ll.Remove(elem)
		delete(s.items, key)
	}
}

// removeTaskForce deletes every entry belonging to a task force and
// returns how many were removed.
func (s *lruStore) removeTaskForce(taskForceID string) int {
	removed := 0
	for key, elem := range s.items {
		if elem.Value.(*entry).taskForceID == taskForceID {
			s.ll.Remove(elem)
			delete(s.items, key)
			removed++
		}
	}
	return removed
}

func (s *lruStore) len() int {
	return s.ll.Len()
}
