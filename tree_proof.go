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

// ProofStep is one object visited on the path from a tree's root to a
// terminal leaf. Exactly one of Node or Leaf is non-nil.
type ProofStep struct {
	Kind Kind
	Node *TreeNode
	Leaf *TreeLeaf
}

// TreeProof is the evidence produced by Tree.GetWithProof: the ordered
// list of nodes on the path from root to the terminal leaf, root first
// (spec.md §4.2, "Proof mode"). The path alone is sufficient: a verifier
// re-encodes and re-stores each step under its own content id, so a
// tampered step lands at a different id than its parent references and
// the traversal breaks — see VerifyTreeInclusionProof.
type TreeProof struct {
	Path []ProofStep
}

// encode re-derives the canonical bytes of a single proof step, used both
// to repopulate a verifier's store and (implicitly, via content
// addressing) to recompute that step's id.
func (s ProofStep) encode(cfg *Config) ([]byte, error) {
	if s.Kind == KindTreeLeaf {
		return cfg.Codec.EncodeTreeLeaf(s.Leaf)
	}
	return cfg.Codec.EncodeTreeNode(s.Node)
}

// VerifyTreeInclusionProof populates store (expected empty) with the
// value bytes and the nodes in proof, then asks a fresh Tree rooted at
// root to retrieve key, returning true only if that lookup succeeds and
// yields exactly value. Tampering with the value, a leaf's lookup key, or
// dropping a node from the proof changes that step's content id, which
// breaks its parent's reference to it — the traversal then aborts (as a
// warning, not a panic) and this function returns false (spec.md §4.2,
// scenario S5).
func VerifyTreeInclusionProof(store ObjectStore, root ID, key, value []byte, proof *TreeProof, cfg *Config) bool {
	cfg = resolveConfig(cfg)
	if proof == nil || len(proof.Path) == 0 {
		return false
	}

	valueBytes, err := cfg.Codec.EncodeValue(value)
	if err != nil {
		return false
	}
	if _, err := store.Put(valueBytes); err != nil {
		return false
	}

	for _, step := range proof.Path {
		data, err := step.encode(cfg)
		if err != nil {
			return false
		}
		if _, err := store.Put(data); err != nil {
			return false
		}
	}

	tree := NewTree(store, root, cfg)
	got, found, ok, err := tree.lookup(key, true, nil)
	if err != nil || !ok || !found {
		return false
	}
	return string(got) == string(value)
}
