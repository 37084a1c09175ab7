// This is free and unencumbered software released into the public domain.
//
// Anyone is free to copy, modify, publish, use, compile, sell, or
// distribute this software, either in source code form or as a compiled
// binary, for any purpose, commercial or non-commercial, and by any
// means.
//
// In jurisdictions that recognize copyright laws, the author or authors
// of this software dedicate any and all copyright interest in the
// software to the public domain. We make this dedication for the benefit
// of the public at large and to the detriment of our heirs and
// successors. We intend this dedication to be an overt act of
// relinquishment in perpetuity of all present and future rights to this
// software under copyright law.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
// EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
// MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
// IN NO EVENT SHALL THE AUTHORS BE LIABLE FOR ANY CLAIM, DAMAGES OR
// OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE,
// ARISING FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR
// OTHER DEALINGS IN THE SOFTWARE.
//
// For more information, please refer to <https://unlicense.org>

package skiptree

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// ObjectStore is the content-addressed storage contract of spec.md §4.4.
// Get's verify flag, when true, MUST check hash(bytes) == id and return an
// IntegrityFailure *Error on mismatch rather than the corrupted bytes.
type ObjectStore interface {
	// Put computes id = hash(bytes), stores it idempotently, and returns id.
	Put(data []byte) (ID, error)
	// Get returns the stored bytes and true, or (nil, false) if id is
	// absent. With verify, a hash mismatch on present bytes is an error.
	Get(id ID, verify bool) ([]byte, bool, error)
	// Contains is equivalent to Get(id, false) returning found=true.
	Contains(id ID) bool
}

// MemStore is the reference in-memory ObjectStore: a mapping from id to
// bytes, per spec.md §4.4. It is safe for concurrent use.
type MemStore struct {
	cfg   *Config
	mu    sync.RWMutex
	data  map[ID][]byte
	group singleflight.Group
}

// NewMemStore creates an empty in-memory object store. A nil cfg uses
// DefaultConfig().
func NewMemStore(cfg *Config) *MemStore {
	return &MemStore{cfg: resolveConfig(cfg), data: make(map[ID][]byte)}
}

// Put stores data idempotently and returns its content id. Re-putting
// identical bytes is a no-op (spec.md §7, §8 property 8).
func (s *MemStore) Put(data []byte) (ID, error) {
	id := computeID(s.cfg, data)
	s.mu.Lock()
	if _, exists := s.data[id]; !exists {
		buf := make([]byte, len(data))
		copy(buf, data)
		s.data[id] = buf
	}
	s.mu.Unlock()
	return id, nil
}

// Get returns the bytes stored under id. With verify set, concurrent
// verified reads of the same id are coalesced through a singleflight
// group so callers whose reads of that id overlap in time share one hash
// check rather than each running their own; a later, non-overlapping
// read checks again. This mirrors the teacher's single guarded KZG-config computation
// but generalized from a process-wide singleton to a per-store,
// per-id request.
func (s *MemStore) Get(id ID, verify bool) ([]byte, bool, error) {
	s.mu.RLock()
	raw, found := s.data[id]
	s.mu.RUnlock()
	if !found {
		return nil, false, nil
	}
	if !verify {
		return raw, true, nil
	}
	v, err, _ := s.group.Do(string(id), func() (interface{}, error) {
		if computeID(s.cfg, raw) != id {
			return nil, newErr(ErrIntegrityFailure, "object %s: hash of stored bytes does not match requested id", id)
		}
		return raw, nil
	})
	if err != nil {
		return nil, true, err
	}
	return v.([]byte), true, nil
}

// Contains reports whether id is present, without integrity-checking it.
func (s *MemStore) Contains(id ID) bool {
	_, found, _ := s.Get(id, false)
	return found
}

// Len returns the number of distinct objects stored.
func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Keys returns the ids of every object currently stored, in no particular
// order. Useful for test assertions and diagnostics.
func (s *MemStore) Keys() []ID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ID, 0, len(s.data))
	for id := range s.data {
		out = append(out, id)
	}
	return out
}
