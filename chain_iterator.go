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

// validateFingerShape checks spec.md §8 property 3 for a single committed
// block: a genesis block (index 0) carries no fingers; every other block
// at index n carries exactly S(n), first finger the immediate predecessor.
func validateFingerShape(b *ChainBlock) error {
	if b.Index == 0 {
		if len(b.Fingers) != 0 {
			return newErr(ErrMalformed, "genesis block carries %d fingers, want 0", len(b.Fingers))
		}
		return nil
	}

	want := skipchainIndexSetMap(b.Index)
	got := b.fingerIndices()
	if len(got) != len(want) {
		return newErr(ErrMalformed, "block %d: finger set has %d entries, want %d", b.Index, len(got), len(want))
	}
	for idx := range got {
		if _, ok := want[idx]; !ok {
			return newErr(ErrMalformed, "block %d: finger to %d is outside S(%d)", b.Index, idx, b.Index)
		}
	}
	if len(b.Fingers) == 0 || b.Fingers[0].PrevIndex != b.Index-1 {
		return newErr(ErrMalformed, "block %d: first finger must reference immediate predecessor %d", b.Index, b.Index-1)
	}
	return nil
}

// Blocks walks the chain from head back to genesis by following each
// block's immediate-predecessor finger (always first in Fingers, per
// nextFingers), validating finger shape along the way. It returns blocks
// in index order (genesis first), or (nil, nil) for an empty chain.
func (c *Chain) Blocks() ([]*ChainBlock, error) {
	head, nonEmpty := c.Head()
	if !nonEmpty {
		return nil, nil
	}

	var reversed []*ChainBlock
	cur, err := c.fetch(head)
	if err != nil {
		return nil, err
	}
	for {
		if err := validateFingerShape(cur); err != nil {
			return nil, err
		}
		reversed = append(reversed, cur)
		if cur.Index == 0 {
			break
		}
		pred := cur.Fingers[0]
		cur, err = c.fetch(pred.PrevID)
		if err != nil {
			return nil, err
		}
	}

	out := make([]*ChainBlock, len(reversed))
	for i, b := range reversed {
		out[len(reversed)-1-i] = b
	}
	return out, nil
}
