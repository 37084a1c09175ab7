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

// TreeLeaf is a terminal node of the Merkle search tree: a lookup key and
// the id of its value bytes, stored separately under Kind OTHER.
type TreeLeaf struct {
	LookupKey   []byte
	PayloadHash ID
}

// TreeNode is an inner node of the Merkle search tree. PivotPrefix is the
// minimal prefix that routes a lookup left or right (§4.2); LeftHash and
// RightHash reference the child subtrees.
type TreeNode struct {
	PivotPrefix []byte
	LeftHash    ID
	RightHash   ID
}

func treeNodesEqual(a, b *TreeNode) bool {
	if a == nil || b == nil {
		return a == b
	}
	return string(a.PivotPrefix) == string(b.PivotPrefix) && a.LeftHash == b.LeftHash && a.RightHash == b.RightHash
}

func treeLeavesEqual(a, b *TreeLeaf) bool {
	if a == nil || b == nil {
		return a == b
	}
	return string(a.LookupKey) == string(b.LookupKey) && a.PayloadHash == b.PayloadHash
}
