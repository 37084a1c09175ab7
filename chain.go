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

import "sync"

// skipchainIndexSet computes S(n) from spec.md §4.1:
//
//	S(n) = { n-1 - ((n-1) mod 2^f) | f = 0,1,2,... }
//
// deduplicated and bounded by the point where 2^f exceeds n-1 (beyond
// that every further f yields the same index, 0).
func skipchainIndexSet(n uint64) []uint64 {
	if n == 0 {
		return nil
	}
	base := n - 1
	seen := make(map[uint64]struct{})
	var out []uint64
	for f := uint(0); ; f++ {
		step := uint64(1) << f
		idx := base - (base % step)
		if _, ok := seen[idx]; !ok {
			seen[idx] = struct{}{}
			out = append(out, idx)
		}
		if step > base {
			break
		}
	}
	return out
}

func skipchainIndexSetMap(n uint64) map[uint64]struct{} {
	indices := skipchainIndexSet(n)
	out := make(map[uint64]struct{}, len(indices))
	for _, i := range indices {
		out[i] = struct{}{}
	}
	return out
}

// nextFingers computes the finger list of the block that follows a block
// at predIndex with id predID and fingers predFingers, per spec.md §4.1
// ("Building the next block"): the immediate predecessor first, then
// every predecessor finger whose index still belongs to S(n).
func nextFingers(predIndex uint64, predID ID, predFingers []Finger, n uint64) []Finger {
	s := skipchainIndexSetMap(n)
	out := make([]Finger, 0, len(predFingers)+1)
	out = append(out, Finger{PrevIndex: predIndex, PrevID: predID})
	for _, f := range predFingers {
		if _, ok := s[f.PrevIndex]; ok {
			out = append(out, f)
		}
	}
	return out
}

// Chain is a read-only view of a skipchain over an ObjectStore, anchored
// at a head id. A zero-value head (ID("")) denotes an empty chain.
type Chain struct {
	store ObjectStore
	cfg   *Config

	mu    sync.Mutex
	head  ID
	cache map[ID]*ChainBlock
}

// NewChain constructs a Chain view. head == "" denotes an empty chain. A
// nil cfg uses DefaultConfig().
func NewChain(store ObjectStore, head ID, cfg *Config) *Chain {
	return &Chain{
		store: store,
		cfg:   resolveConfig(cfg),
		head:  head,
		cache: make(map[ID]*ChainBlock),
	}
}

// Head returns the chain's head id and whether the chain is non-empty.
func (c *Chain) Head() (ID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.head, c.head != ""
}

// fetch decodes the block stored under id, integrity-checked, using and
// populating the decode cache. Cache hits are trust-on-read: they were
// verified at insertion time and are not re-checked (spec.md §5).
func (c *Chain) fetch(id ID) (*ChainBlock, error) {
	c.mu.Lock()
	if b, ok := c.cache[id]; ok {
		c.mu.Unlock()
		return b, nil
	}
	c.mu.Unlock()

	data, found, err := c.store.Get(id, true)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, newErr(ErrMalformed, "block %s not found in store", id)
	}
	block, err := c.cfg.Codec.DecodeChainBlock(data)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache[id] = block
	c.mu.Unlock()
	return block, nil
}

// GetBlockByIndex looks up the block at index i by following fingers from
// head. If the chain is empty it returns (nil, nil) — spec.md's ⊥. It
// fails with ErrOutOfRange when the chain is non-empty but i is outside
// [0, head.Index].
func (c *Chain) GetBlockByIndex(i int64) (*ChainBlock, error) {
	b, _, err := c.traverse(i, false, nil)
	return b, err
}

// GetBlockByIndexWithProof is GetBlockByIndex, additionally returning a
// ChainProof: the ordered list of blocks visited, head first and the
// target block last (spec.md §4.1, "Proof mode").
func (c *Chain) GetBlockByIndexWithProof(i int64) (*ChainBlock, *ChainProof, error) {
	proof := &ChainProof{}
	b, _, err := c.traverse(i, false, proof)
	if err != nil {
		return nil, nil, err
	}
	return b, proof, nil
}

// At is the subscript-style equivalent of GetBlockByIndex: it always
// raises ErrOutOfRange rather than returning ⊥ for an absent block,
// including on an empty chain (spec.md scenario S1).
func (c *Chain) At(i int64) (*ChainBlock, error) {
	head, nonEmpty := c.Head()
	if !nonEmpty {
		return nil, newErr(ErrOutOfRange, "index %d: chain is empty", i)
	}
	headBlock, err := c.fetch(head)
	if err != nil {
		return nil, err
	}
	if i < 0 || uint64(i) > headBlock.Index {
		return nil, newErr(ErrOutOfRange, "index %d outside [0, %d]", i, headBlock.Index)
	}
	return c.GetBlockByIndex(i)
}

// traverse walks from head toward index i, selecting at each hop the
// finger with the smallest PrevIndex still >= i, per spec.md §4.1 — this
// is what gives the walk its O(log n) hop count; always taking the
// immediate predecessor would degrade to a linear scan. When lenient is
// true, any error (missing object, integrity failure, malformed finger
// list) is swallowed, logged as a warning, and traversal returns
// (nil, false, nil): this is the "warnings vs errors" behavior §4.1 and §7
// require of proof verification, so that replaying an adversarial proof
// terminates cleanly instead of panicking the verifier.
func (c *Chain) traverse(i int64, lenient bool, proof *ChainProof) (*ChainBlock, bool, error) {
	head, nonEmpty := c.Head()
	if !nonEmpty {
		return nil, false, nil
	}
	if i < 0 {
		if lenient {
			c.cfg.Logger.warn("skiptree: lenient traversal aborted", "reason", "negative index", "index", i)
			return nil, false, nil
		}
		return nil, false, newErr(ErrOutOfRange, "negative index %d", i)
	}

	current, err := c.fetch(head)
	if err != nil {
		if lenient {
			c.cfg.Logger.warn("skiptree: lenient traversal aborted", "reason", err.Error())
			return nil, false, nil
		}
		return nil, false, err
	}
	if uint64(i) > current.Index {
		if lenient {
			c.cfg.Logger.warn("skiptree: lenient traversal aborted", "reason", "index beyond head", "index", i, "head", current.Index)
			return nil, false, nil
		}
		return nil, false, newErr(ErrOutOfRange, "index %d beyond head index %d", i, current.Index)
	}

	curID := head
	target := uint64(i)
	for {
		if proof != nil {
			proof.Blocks = append(proof.Blocks, current)
		}
		if current.Index == target {
			return current, true, nil
		}
		next, ok := smallestFingerAtLeast(current.Fingers, target)
		if !ok {
			if lenient {
				c.cfg.Logger.warn("skiptree: lenient traversal aborted", "reason", "no finger reaches target", "at", current.Index, "target", target)
				return nil, false, nil
			}
			return nil, false, newErr(ErrMalformed, "block %d has no finger reaching index %d", current.Index, target)
		}
		curID = next.PrevID
		current, err = c.fetch(curID)
		if err != nil {
			if lenient {
				c.cfg.Logger.warn("skiptree: lenient traversal aborted", "reason", err.Error())
				return nil, false, nil
			}
			return nil, false, err
		}
	}
}

// smallestFingerAtLeast returns the finger with the smallest PrevIndex
// that is still >= target, per spec.md §4.1 ("the finger with the
// smallest prev_index >= i"). Fingers are produced by nextFingers in
// descending PrevIndex order (immediate predecessor first), so the last
// finger still satisfying the bound is the one wanted; iteration stops as
// soon as a finger drops below target, since every subsequent one is
// smaller still.
func smallestFingerAtLeast(fingers []Finger, target uint64) (Finger, bool) {
	var best Finger
	found := false
	for _, f := range fingers {
		if f.PrevIndex < target {
			break
		}
		best = f
		found = true
	}
	return best, found
}

// ChainProof is the evidence produced by GetBlockByIndexWithProof: the
// blocks visited while walking from head to the target index, head first.
type ChainProof struct {
	Blocks []*ChainBlock
}

// VerifyChainInclusionProof populates store (expected empty) with the
// blocks in proof, then asks a fresh Chain anchored at head to fetch the
// block at want.Index, returning true only if that lookup succeeds and
// yields a block identical to want. A malformed or incomplete proof fails
// this check without panicking (spec.md §4.1 "warnings vs errors";
// scenario S4/S5).
func VerifyChainInclusionProof(store ObjectStore, head ID, want *ChainBlock, proof *ChainProof, cfg *Config) bool {
	cfg = resolveConfig(cfg)
	if want == nil || proof == nil {
		return false
	}
	for _, b := range proof.Blocks {
		data, err := cfg.Codec.EncodeChainBlock(b)
		if err != nil {
			return false
		}
		if _, err := store.Put(data); err != nil {
			return false
		}
	}
	chain := NewChain(store, head, cfg)
	got, _, err := chain.traverse(int64(want.Index), true, nil)
	if err != nil || got == nil {
		return false
	}
	return chainBlocksEqual(got, want)
}
