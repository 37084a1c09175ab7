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

// PreCommitFunc is the overridable hook spec.md §4.1 and §9 describe: a
// point where a caller may mutate a block's payload before it is encoded
// and hashed (e.g. to sign over index, fingers, and payload). It observes
// the block's final index and fingers and returns the payload to encode.
type PreCommitFunc func(index uint64, fingers []Finger, payload []byte) []byte

// BlockBuilder accumulates a single pending block and commits it to a
// Chain's backing store. It is not safe for concurrent use (spec.md §5).
type BlockBuilder struct {
	chain *Chain

	index   uint64
	fingers []Finger

	// Payload is mutable until Commit is called.
	Payload []byte
	// PreCommit defaults to a no-op; set it to mutate the payload just
	// before encoding.
	PreCommit PreCommitFunc
}

// NewBuilder returns a BlockBuilder for the next block to be appended to
// c. If c is empty, the builder starts a genesis block (index 0, no
// fingers).
func (c *Chain) NewBuilder() (*BlockBuilder, error) {
	head, nonEmpty := c.Head()
	if !nonEmpty {
		return &BlockBuilder{chain: c, index: 0, fingers: nil}, nil
	}
	headBlock, err := c.fetch(head)
	if err != nil {
		return nil, err
	}
	next := headBlock.Index + 1
	return &BlockBuilder{
		chain:   c,
		index:   next,
		fingers: nextFingers(headBlock.Index, head, headBlock.Fingers, next),
	}, nil
}

// Index is the index the pending block will commit at.
func (b *BlockBuilder) Index() uint64 {
	return b.index
}

// Fingers is the finger list the pending block will commit with.
func (b *BlockBuilder) Fingers() []Finger {
	out := make([]Finger, len(b.fingers))
	copy(out, b.fingers)
	return out
}

// Commit fixes the pending block's (index, fingers, payload), runs
// PreCommit (if set), encodes and hashes the result, writes it to the
// chain's store, advances the chain head, caches the decoded block, and
// resets the builder to a fresh successor with an empty payload — per
// spec.md §4.1 "Commit contract".
func (b *BlockBuilder) Commit() (*ChainBlock, error) {
	if b.chain == nil {
		return nil, newErr(ErrChainUndefined, "builder has no associated chain")
	}

	payload := b.Payload
	if b.PreCommit != nil {
		payload = b.PreCommit(b.index, b.Fingers(), payload)
	}

	block := &ChainBlock{Index: b.index, Fingers: b.Fingers(), Payload: payload}
	data, err := b.chain.cfg.Codec.EncodeChainBlock(block)
	if err != nil {
		return nil, err
	}
	id, err := b.chain.store.Put(data)
	if err != nil {
		return nil, err
	}

	b.chain.mu.Lock()
	b.chain.head = id
	b.chain.cache[id] = block
	b.chain.mu.Unlock()

	nextIndex := block.Index + 1
	b.index = nextIndex
	b.fingers = nextFingers(block.Index, id, block.Fingers, nextIndex)
	b.Payload = nil

	return block, nil
}
