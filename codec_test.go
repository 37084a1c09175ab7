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
	"testing"
	"testing/quick"

	"github.com/davecgh/go-spew/spew"
)

func TestCodecChainBlockRoundTrip(t *testing.T) {
	t.Parallel()

	codec := &rlpCodec{}
	block := &ChainBlock{
		Index: 7,
		Fingers: []Finger{
			{PrevIndex: 6, PrevID: "deadbeef"},
			{PrevIndex: 3, PrevID: "c0ffee00"},
		},
		Payload: []byte("block payload"),
	}

	data, err := codec.EncodeChainBlock(block)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := codec.DecodeChainBlock(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !chainBlocksEqual(got, block) {
		t.Fatalf("round trip mismatch:\nwant %s\ngot  %s", spew.Sdump(block), spew.Sdump(got))
	}
}

func TestCodecTreeNodeRoundTrip(t *testing.T) {
	t.Parallel()

	codec := &rlpCodec{}
	node := &TreeNode{PivotPrefix: []byte("Z"), LeftHash: "aa", RightHash: "bb"}
	data, err := codec.EncodeTreeNode(node)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := codec.DecodeTreeNode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !treeNodesEqual(got, node) {
		t.Fatalf("round trip mismatch:\nwant %s\ngot  %s", spew.Sdump(node), spew.Sdump(got))
	}

	kind, decodedNode, decodedLeaf, err := codec.DecodeTreeObject(data)
	if err != nil {
		t.Fatalf("decode tree object: %v", err)
	}
	if kind != KindTreeNode || decodedLeaf != nil || !treeNodesEqual(decodedNode, node) {
		t.Fatalf("DecodeTreeObject mismatch: kind=%v node=%s leaf=%s", kind, spew.Sdump(decodedNode), spew.Sdump(decodedLeaf))
	}
}

func TestCodecTreeLeafRoundTrip(t *testing.T) {
	t.Parallel()

	codec := &rlpCodec{}
	leaf := &TreeLeaf{LookupKey: []byte("AB"), PayloadHash: "feedface"}
	data, err := codec.EncodeTreeLeaf(leaf)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := codec.DecodeTreeLeaf(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !treeLeavesEqual(got, leaf) {
		t.Fatalf("round trip mismatch:\nwant %s\ngot  %s", spew.Sdump(leaf), spew.Sdump(got))
	}

	kind, decodedNode, decodedLeaf, err := codec.DecodeTreeObject(data)
	if err != nil {
		t.Fatalf("decode tree object: %v", err)
	}
	if kind != KindTreeLeaf || decodedNode != nil || !treeLeavesEqual(decodedLeaf, leaf) {
		t.Fatalf("DecodeTreeObject mismatch: kind=%v node=%s leaf=%s", kind, spew.Sdump(decodedNode), spew.Sdump(decodedLeaf))
	}
}

func TestCodecValueRoundTripProperty(t *testing.T) {
	codec := &rlpCodec{}
	roundTrip := func(v []byte) bool {
		data, err := codec.EncodeValue(v)
		if err != nil {
			return false
		}
		got, err := codec.DecodeValue(data)
		if err != nil {
			return false
		}
		if len(got) == 0 && len(v) == 0 {
			return true
		}
		if len(got) != len(v) {
			return false
		}
		for i := range got {
			if got[i] != v[i] {
				return false
			}
		}
		return true
	}
	if err := quick.Check(roundTrip, nil); err != nil {
		t.Fatal(err)
	}
}

func TestCodecKindMismatch(t *testing.T) {
	t.Parallel()

	codec := &rlpCodec{}
	data, err := codec.EncodeValue([]byte("opaque"))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := codec.DecodeChainBlock(data); !Is(err, ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}
}
