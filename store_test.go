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
	"testing"
)

func TestMemStorePutGet(t *testing.T) {
	t.Parallel()

	s := NewMemStore(nil)
	id, err := s.Put([]byte("hello"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	data, found, err := s.Get(id, true)
	if err != nil || !found {
		t.Fatalf("get: data=%q found=%v err=%v", data, found, err)
	}
	if string(data) != "hello" {
		t.Fatalf("got %q, want hello", data)
	}
	if !s.Contains(id) {
		t.Fatalf("Contains(%s) = false", id)
	}
}

func TestMemStorePutIdempotent(t *testing.T) {
	t.Parallel()

	s := NewMemStore(nil)
	id1, err := s.Put([]byte("same bytes"))
	if err != nil {
		t.Fatalf("put 1: %v", err)
	}
	id2, err := s.Put([]byte("same bytes"))
	if err != nil {
		t.Fatalf("put 2: %v", err)
	}
	if id1 != id2 {
		t.Fatalf("ids differ: %s != %s", id1, id2)
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
}

func TestMemStoreGetMissing(t *testing.T) {
	t.Parallel()

	s := NewMemStore(nil)
	_, found, err := s.Get("nonexistent", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Fatal("found = true for an absent id")
	}
}

func TestMemStoreIntegrityFailure(t *testing.T) {
	t.Parallel()

	s := NewMemStore(nil)
	id, err := s.Put([]byte("original"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	s.corrupt(id, []byte("tampered"))

	_, _, err = s.Get(id, true)
	if !Is(err, ErrIntegrityFailure) {
		t.Fatalf("expected ErrIntegrityFailure, got %v", err)
	}

	// Unverified reads still see the corrupted bytes.
	data, found, err := s.Get(id, false)
	if err != nil || !found || string(data) != "tampered" {
		t.Fatalf("unverified get: data=%q found=%v err=%v", data, found, err)
	}
}

func TestMemStoreConcurrentVerifiedReads(t *testing.T) {
	t.Parallel()

	s := NewMemStore(nil)
	id, err := s.Put([]byte("concurrent"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := s.Get(id, true); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent verified read failed: %v", err)
	}
}

func TestMemStoreKeys(t *testing.T) {
	t.Parallel()

	s := NewMemStore(nil)
	want := map[ID]bool{}
	for _, b := range [][]byte{[]byte("a"), []byte("b"), []byte("c")} {
		id, err := s.Put(b)
		if err != nil {
			t.Fatalf("put: %v", err)
		}
		want[id] = true
	}
	got := s.Keys()
	if len(got) != len(want) {
		t.Fatalf("Keys() returned %d entries, want %d", len(got), len(want))
	}
	for _, id := range got {
		if !want[id] {
			t.Fatalf("unexpected id %s in Keys()", id)
		}
	}
}
