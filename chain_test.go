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
	"fmt"
	"testing"

	"github.com/davecgh/go-spew/spew"
)

func TestSkipchainIndexSet(t *testing.T) {
	t.Parallel()

	cases := []struct {
		n    uint64
		want []uint64
	}{
		{1, []uint64{0}},
		{2, []uint64{1, 0}},
		{3, []uint64{2, 0}},
		{4, []uint64{3, 2, 0}},
		{5, []uint64{4, 0}},
		{9, []uint64{8, 0}},
	}
	for _, c := range cases {
		got := skipchainIndexSet(c.n)
		if len(got) != len(c.want) {
			t.Fatalf("S(%d) = %v, want %v", c.n, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("S(%d) = %v, want %v", c.n, got, c.want)
			}
		}
	}
}

func appendBlocks(t *testing.T, chain *Chain, n int) [][]byte {
	t.Helper()
	payloads := make([][]byte, n)
	for i := 0; i < n; i++ {
		b, err := chain.NewBuilder()
		if err != nil {
			t.Fatalf("NewBuilder at %d: %v", i, err)
		}
		payload := []byte(fmt.Sprintf("payload-%d", i))
		payloads[i] = payload
		b.Payload = payload
		if _, err := b.Commit(); err != nil {
			t.Fatalf("Commit at %d: %v", i, err)
		}
	}
	return payloads
}

func TestChainAppendAndLookup(t *testing.T) {
	t.Parallel()

	store := NewMemStore(nil)
	chain := NewChain(store, "", nil)
	payloads := appendBlocks(t, chain, 20)

	head, nonEmpty := chain.Head()
	if !nonEmpty {
		t.Fatal("chain reports empty after appends")
	}
	headBlock, err := chain.fetch(head)
	if err != nil {
		t.Fatalf("fetch head: %v", err)
	}
	if headBlock.Index != uint64(len(payloads)-1) {
		t.Fatalf("head index = %d, want %d", headBlock.Index, len(payloads)-1)
	}

	for i, want := range payloads {
		b, err := chain.GetBlockByIndex(int64(i))
		if err != nil {
			t.Fatalf("GetBlockByIndex(%d): %v", i, err)
		}
		if string(b.Payload) != string(want) {
			t.Fatalf("block %d payload = %q, want %q", i, b.Payload, want)
		}
	}
}

func TestChainAtOutOfRange(t *testing.T) {
	t.Parallel()

	store := NewMemStore(nil)
	chain := NewChain(store, "", nil)

	if _, err := chain.At(0); !Is(err, ErrOutOfRange) {
		t.Fatalf("At(0) on empty chain: expected ErrOutOfRange, got %v", err)
	}

	appendBlocks(t, chain, 5)

	if _, err := chain.At(5); !Is(err, ErrOutOfRange) {
		t.Fatalf("At(5) with 5 blocks (max index 4): expected ErrOutOfRange, got %v", err)
	}
	if _, err := chain.At(-1); !Is(err, ErrOutOfRange) {
		t.Fatalf("At(-1): expected ErrOutOfRange, got %v", err)
	}
	if b, err := chain.At(2); err != nil || b.Index != 2 {
		t.Fatalf("At(2) = %v, %v", b, err)
	}
}

func TestChainFingerShape(t *testing.T) {
	t.Parallel()

	store := NewMemStore(nil)
	chain := NewChain(store, "", nil)
	appendBlocks(t, chain, 64)

	blocks, err := chain.Blocks()
	if err != nil {
		t.Fatalf("Blocks: %v", err)
	}
	if len(blocks) != 64 {
		t.Fatalf("Blocks() returned %d blocks, want 64", len(blocks))
	}
	for _, b := range blocks {
		if err := validateFingerShape(b); err != nil {
			t.Fatalf("block %d: %v\n%s", b.Index, err, spew.Sdump(b))
		}
	}
}

// TestChainLookupHopCount pins down spec.md scenario S3: walking from the
// head of a 42-block chain (index 41) to index 17 must take the
// logarithmic finger path 41->32->24->20->18->17 (6 blocks visited), not
// a linear scan down by one index at a time (25 blocks).
func TestChainLookupHopCount(t *testing.T) {
	t.Parallel()

	store := NewMemStore(nil)
	chain := NewChain(store, "", nil)
	appendBlocks(t, chain, 42)

	block, proof, err := chain.GetBlockByIndexWithProof(17)
	if err != nil {
		t.Fatalf("GetBlockByIndexWithProof(17): %v", err)
	}
	if string(block.Payload) != "payload-17" {
		t.Fatalf("block.Payload = %q, want %q", block.Payload, "payload-17")
	}

	wantVisited := []uint64{41, 32, 24, 20, 18, 17}
	if len(proof.Blocks) != len(wantVisited) {
		t.Fatalf("visited %d blocks %v, want %d blocks %v", len(proof.Blocks), visitedIndices(proof), len(wantVisited), wantVisited)
	}
	for i, b := range proof.Blocks {
		if b.Index != wantVisited[i] {
			t.Fatalf("visited %v, want %v", visitedIndices(proof), wantVisited)
		}
	}

	const bound = 6 // floor(log2(41)) + 1
	if len(proof.Blocks) > bound {
		t.Fatalf("visited %d blocks reaching index 17, want <= %d (spec.md scenario S3)", len(proof.Blocks), bound)
	}
}

func visitedIndices(proof *ChainProof) []uint64 {
	out := make([]uint64, len(proof.Blocks))
	for i, b := range proof.Blocks {
		out[i] = b.Index
	}
	return out
}

func TestChainInclusionProofRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewMemStore(nil)
	chain := NewChain(store, "", nil)
	appendBlocks(t, chain, 30)

	head, _ := chain.Head()
	want, proof, err := chain.GetBlockByIndexWithProof(17)
	if err != nil {
		t.Fatalf("GetBlockByIndexWithProof: %v", err)
	}

	verifierStore := NewMemStore(nil)
	if !VerifyChainInclusionProof(verifierStore, head, want, proof, nil) {
		t.Fatal("valid proof failed to verify")
	}
}

func TestChainInclusionProofRejectsTamperedBlock(t *testing.T) {
	t.Parallel()

	store := NewMemStore(nil)
	chain := NewChain(store, "", nil)
	appendBlocks(t, chain, 30)

	head, _ := chain.Head()
	want, proof, err := chain.GetBlockByIndexWithProof(17)
	if err != nil {
		t.Fatalf("GetBlockByIndexWithProof: %v", err)
	}

	tampered := &ChainBlock{Index: want.Index, Fingers: want.Fingers, Payload: []byte("tampered payload")}

	verifierStore := NewMemStore(nil)
	if VerifyChainInclusionProof(verifierStore, head, tampered, proof, nil) {
		t.Fatal("proof verified against a substituted block")
	}
}

func TestChainInclusionProofRejectsTruncatedProof(t *testing.T) {
	t.Parallel()

	store := NewMemStore(nil)
	chain := NewChain(store, "", nil)
	appendBlocks(t, chain, 30)

	head, _ := chain.Head()
	want, proof, err := chain.GetBlockByIndexWithProof(17)
	if err != nil {
		t.Fatalf("GetBlockByIndexWithProof: %v", err)
	}
	if len(proof.Blocks) < 2 {
		t.Fatal("proof too short to truncate meaningfully")
	}
	truncated := &ChainProof{Blocks: proof.Blocks[:len(proof.Blocks)-1]}

	verifierStore := NewMemStore(nil)
	if VerifyChainInclusionProof(verifierStore, head, want, truncated, nil) {
		t.Fatal("truncated proof verified")
	}
}
