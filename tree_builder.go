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
	"sort"
)

// treeBuildItem is one (key, value) pair awaiting commit.
type treeBuildItem struct {
	key   []byte
	value []byte
}

// treeBuildNode is an in-memory, not-yet-committed subtree produced by
// buildSubtree. Exactly one of (leafKey, leafValue) or (left, right) is
// populated.
type treeBuildNode struct {
	isLeaf    bool
	leafKey   []byte
	leafValue []byte

	pivotPrefix []byte
	left        *treeBuildNode
	right       *treeBuildNode
}

// buildSubtree recursively partitions sorted items into a balanced
// in-memory subtree, per spec.md §4.2: a single item becomes a leaf;
// otherwise the lower half (items[:m]) becomes the left subtree, the
// upper half (items[m:], including the pivot candidate itself) becomes
// the right, and the pivot prefix is the shortest prefix of k_m that
// still sorts above the left subtree's largest key, items[m-1].
func buildSubtree(items []treeBuildItem) *treeBuildNode {
	if len(items) == 1 {
		return &treeBuildNode{isLeaf: true, leafKey: items[0].key, leafValue: items[0].value}
	}

	m := len(items) / 2
	left := buildSubtree(items[:m])
	right := buildSubtree(items[m:])

	pivotCandidate := items[m].key
	common := commonPrefix(pivotCandidate, items[m-1].key)
	prefixLen := len(common) + 1
	if prefixLen < 1 {
		prefixLen = 1
	}
	if prefixLen > len(pivotCandidate) {
		prefixLen = len(pivotCandidate)
	}

	return &treeBuildNode{
		pivotPrefix: pivotCandidate[:prefixLen],
		left:        left,
		right:       right,
	}
}

// commonPrefix returns the longest shared leading byte run of a and b.
func commonPrefix(a, b []byte) []byte {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}

// commitSubtree encodes and stores node bottom-up: children are committed
// (and their ids computed) before their parent, so a parent's hash fields
// always reference ids already present in the store (spec.md §4.2,
// "Commit").
func commitSubtree(store ObjectStore, cfg *Config, node *treeBuildNode) (ID, error) {
	if node.isLeaf {
		valueBytes, err := cfg.Codec.EncodeValue(node.leafValue)
		if err != nil {
			return "", err
		}
		valueID, err := store.Put(valueBytes)
		if err != nil {
			return "", err
		}
		leafBytes, err := cfg.Codec.EncodeTreeLeaf(&TreeLeaf{LookupKey: node.leafKey, PayloadHash: valueID})
		if err != nil {
			return "", err
		}
		return store.Put(leafBytes)
	}

	leftID, err := commitSubtree(store, cfg, node.left)
	if err != nil {
		return "", err
	}
	rightID, err := commitSubtree(store, cfg, node.right)
	if err != nil {
		return "", err
	}
	nodeBytes, err := cfg.Codec.EncodeTreeNode(&TreeNode{
		PivotPrefix: node.pivotPrefix,
		LeftHash:    leftID,
		RightHash:   rightID,
	})
	if err != nil {
		return "", err
	}
	return store.Put(nodeBytes)
}

// TreeBuilder accumulates (key, value) pairs and, on Commit, builds a
// balanced Merkle search tree over them in one pass (spec.md §4.2). It is
// not safe for concurrent use.
type TreeBuilder struct {
	store ObjectStore
	cfg   *Config
	items map[string]treeBuildItem
}

// NewTreeBuilder returns an empty TreeBuilder writing into store. A nil
// cfg uses DefaultConfig().
func NewTreeBuilder(store ObjectStore, cfg *Config) *TreeBuilder {
	return &TreeBuilder{store: store, cfg: resolveConfig(cfg), items: make(map[string]treeBuildItem)}
}

// Set records key -> value, overwriting any prior Set for the same key
// (last write wins; spec.md describes TreeBuilder only as "mutable
// collector with subscript assignment" and leaves duplicate-key behavior
// unspecified).
func (b *TreeBuilder) Set(key, value []byte) {
	k := append([]byte(nil), key...)
	v := append([]byte(nil), value...)
	b.items[string(k)] = treeBuildItem{key: k, value: v}
}

// Len reports the number of distinct keys accumulated so far.
func (b *TreeBuilder) Len() int {
	return len(b.items)
}

// Commit builds the tree from the accumulated items, writes every node,
// leaf, and value payload to the store, and returns a Tree view rooted at
// the result. It fails with ErrEmpty if no items were ever Set (spec.md
// §4.2, "Errors").
func (b *TreeBuilder) Commit() (*Tree, error) {
	if len(b.items) == 0 {
		return nil, newErr(ErrEmpty, "cannot commit a tree with no items")
	}

	items := make([]treeBuildItem, 0, len(b.items))
	for _, it := range b.items {
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool {
		return bytes.Compare(items[i].key, items[j].key) < 0
	})

	root := buildSubtree(items)
	rootID, err := commitSubtree(b.store, b.cfg, root)
	if err != nil {
		return nil, err
	}
	return NewTree(b.store, rootID, b.cfg), nil
}
