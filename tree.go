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
	"bytes"
	"sync"
)

// Tree is a read-only view of an immutable, balanced, lexicographically
// ordered Merkle search tree over an ObjectStore, anchored at root. Tree
// is safe for concurrent reads; its decode cache is protected by a mutex
// (spec.md §5).
type Tree struct {
	store ObjectStore
	cfg   *Config
	root  ID

	mu    sync.Mutex
	cache map[ID]treeCacheEntry
}

// treeCacheEntry is a decoded object kept in a Tree's trust-on-read cache
// (spec.md §5): verified at insertion time, not re-checked on later hits.
type treeCacheEntry struct {
	kind Kind
	node *TreeNode
	leaf *TreeLeaf
}

// NewTree constructs a Tree view over store, rooted at root. A nil cfg
// uses DefaultConfig().
func NewTree(store ObjectStore, root ID, cfg *Config) *Tree {
	return &Tree{
		store: store,
		cfg:   resolveConfig(cfg),
		root:  root,
		cache: make(map[ID]treeCacheEntry),
	}
}

// Root returns the tree's root id.
func (t *Tree) Root() ID {
	return t.root
}

// fetch decodes the object stored under id as whichever of TreeNode or
// TreeLeaf it claims to be, using and populating the decode cache.
func (t *Tree) fetch(id ID) (Kind, *TreeNode, *TreeLeaf, error) {
	t.mu.Lock()
	if e, ok := t.cache[id]; ok {
		t.mu.Unlock()
		return e.kind, e.node, e.leaf, nil
	}
	t.mu.Unlock()

	data, found, err := t.store.Get(id, true)
	if err != nil {
		return 0, nil, nil, err
	}
	if !found {
		return 0, nil, nil, newErr(ErrMalformed, "object %s not found in store", id)
	}
	kind, node, leaf, err := t.cfg.Codec.DecodeTreeObject(data)
	if err != nil {
		return 0, nil, nil, err
	}

	t.mu.Lock()
	t.cache[id] = treeCacheEntry{kind: kind, node: node, leaf: leaf}
	t.mu.Unlock()
	return kind, node, leaf, nil
}

// Get returns the value stored under key, or (nil, false, nil) if key is
// absent (a non-inclusion witness, spec.md §4.2). Errors propagate
// unchanged except during proof verification, which uses the lenient
// internal path instead.
func (t *Tree) Get(key []byte) ([]byte, bool, error) {
	val, found, _, err := t.lookup(key, false, nil)
	return val, found, err
}

// Contains reports whether key is present in the tree.
func (t *Tree) Contains(key []byte) (bool, error) {
	_, found, err := t.Get(key)
	return found, err
}

// At is the subscript-style equivalent of Get: it raises ErrKeyNotFound
// instead of returning found=false (spec.md scenario S4).
func (t *Tree) At(key []byte) ([]byte, error) {
	val, found, err := t.Get(key)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, newErr(ErrKeyNotFound, "key %x not found", key)
	}
	return val, nil
}

// GetWithProof is Get, additionally returning a TreeProof: the ordered
// list of nodes visited from root to the terminal leaf (spec.md §4.2,
// "Proof mode").
func (t *Tree) GetWithProof(key []byte) ([]byte, bool, *TreeProof, error) {
	proof := &TreeProof{}
	val, found, _, err := t.lookup(key, false, proof)
	if err != nil {
		return nil, false, nil, err
	}
	return val, found, proof, nil
}

// lookup walks from root toward key. When lenient is true, any error
// (missing object, integrity failure, decode failure, a pivot routing to
// a ⊥ child) is swallowed, logged as a warning, and lookup returns
// (nil, false, false, nil) — the third result signals the caller the
// traversal was aborted rather than that it cleanly concluded
// non-inclusion. This mirrors Chain.traverse and exists for the same
// reason: replaying an adversarial proof must terminate cleanly (spec.md
// §4.1 "warnings vs errors", applied here to trees per §4.2's parallel
// proof-mode text).
func (t *Tree) lookup(key []byte, lenient bool, proof *TreeProof) (value []byte, found bool, ok bool, err error) {
	curID := t.root
	if curID.Empty() {
		if lenient {
			return nil, false, false, nil
		}
		return nil, false, true, newErr(ErrMalformed, "tree has no root")
	}

	for {
		kind, node, leaf, ferr := t.fetch(curID)
		if ferr != nil {
			if lenient {
				t.cfg.Logger.warn("skiptree: lenient tree traversal aborted", "reason", ferr.Error())
				return nil, false, false, nil
			}
			return nil, false, true, ferr
		}

		if proof != nil {
			proof.Path = append(proof.Path, ProofStep{Kind: kind, Node: node, Leaf: leaf})
		}

		if kind == KindTreeLeaf {
			if !bytes.Equal(leaf.LookupKey, key) {
				return nil, false, true, nil
			}
			payload, found2, perr := t.store.Get(leaf.PayloadHash, true)
			if perr != nil {
				if lenient {
					t.cfg.Logger.warn("skiptree: lenient tree traversal aborted", "reason", perr.Error())
					return nil, false, false, nil
				}
				return nil, false, true, perr
			}
			if !found2 {
				if lenient {
					t.cfg.Logger.warn("skiptree: lenient tree traversal aborted", "reason", "missing value payload", "id", leaf.PayloadHash)
					return nil, false, false, nil
				}
				return nil, false, true, newErr(ErrMalformed, "value payload %s not found", leaf.PayloadHash)
			}
			value, verr := t.cfg.Codec.DecodeValue(payload)
			if verr != nil {
				if lenient {
					t.cfg.Logger.warn("skiptree: lenient tree traversal aborted", "reason", verr.Error())
					return nil, false, false, nil
				}
				return nil, false, true, verr
			}
			return value, true, true, nil
		}

		// Inner node: route left or right by comparing key to PivotPrefix.
		var next ID
		if bytes.Compare(key, node.PivotPrefix) < 0 {
			next = node.LeftHash
		} else {
			next = node.RightHash
		}
		if next.Empty() {
			if lenient {
				t.cfg.Logger.warn("skiptree: lenient tree traversal aborted", "reason", "routed to empty child")
				return nil, false, false, nil
			}
			return nil, false, true, newErr(ErrMalformed, "node %s has no child on the required side", curID)
		}
		curID = next
	}
}
