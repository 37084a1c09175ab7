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

// Keys returns every lookup key reachable from the tree's root, in
// ascending lexicographic order, by an in-order walk (spec.md §8
// property 5: every left-reachable leaf sorts before every
// right-reachable one, so in-order visitation yields sorted output for
// free). Returns (nil, nil) for an empty tree.
func (t *Tree) Keys() ([][]byte, error) {
	if t.root.Empty() {
		return nil, nil
	}
	var out [][]byte
	var walk func(id ID) error
	walk = func(id ID) error {
		kind, node, leaf, err := t.fetch(id)
		if err != nil {
			return err
		}
		if kind == KindTreeLeaf {
			out = append(out, leaf.LookupKey)
			return nil
		}
		if !node.LeftHash.Empty() {
			if err := walk(node.LeftHash); err != nil {
				return err
			}
		}
		if !node.RightHash.Empty() {
			if err := walk(node.RightHash); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(t.root); err != nil {
		return nil, err
	}
	return out, nil
}
