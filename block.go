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

// ID is the ASCII (lowercase hex) content identifier of an encoded object:
// the first Config.IDWidth bytes of Config.HashFunc applied to its
// canonical encoding. The zero value denotes the absence of a reference
// (⊥ in spec.md), e.g. an unset child hash.
type ID string

// Empty reports whether id denotes the absence of a reference.
func (id ID) Empty() bool {
	return id == ""
}

// Finger is a skipchain back-pointer: the index and id of a block that an
// earlier block in the chain already committed to.
type Finger struct {
	PrevIndex uint64
	PrevID    ID
}

// ChainBlock is a single skipchain block. It carries no behavior beyond
// field access; all traversal and proof logic lives on Chain/BlockBuilder.
type ChainBlock struct {
	Index   uint64
	Fingers []Finger
	Payload []byte
}

// fingerIndices returns the set of PrevIndex values carried by the block,
// used to check the §4.1 finger-shape invariant.
func (b *ChainBlock) fingerIndices() map[uint64]struct{} {
	out := make(map[uint64]struct{}, len(b.Fingers))
	for _, f := range b.Fingers {
		out[f.PrevIndex] = struct{}{}
	}
	return out
}

func chainBlocksEqual(a, b *ChainBlock) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Index != b.Index || len(a.Fingers) != len(b.Fingers) {
		return false
	}
	if len(a.Payload) != len(b.Payload) {
		return false
	}
	for i := range a.Payload {
		if a.Payload[i] != b.Payload[i] {
			return false
		}
	}
	for i := range a.Fingers {
		if a.Fingers[i] != b.Fingers[i] {
			return false
		}
	}
	return true
}
