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
	"github.com/ethereum/go-ethereum/rlp"
)

// Kind discriminates the four object shapes a Config.Codec can produce,
// per spec.md §4.3.
type Kind uint8

const (
	KindChainBlock Kind = 0
	KindTreeNode   Kind = 1
	KindTreeLeaf   Kind = 2
	KindOther      Kind = 3
)

// ProtocolVersion is embedded in every encoded envelope. A decoder that
// sees a different version emits a warning (via the Config's Logger)
// rather than failing; spec.md §4.3 treats version skew as recoverable.
const ProtocolVersion = 1

// Codec turns the four codec-visible kinds into canonical byte strings and
// back. Implementations MUST be deterministic, order-preserving over
// sequence fields, and round-trip exact (spec.md §4.3).
type Codec interface {
	EncodeChainBlock(b *ChainBlock) ([]byte, error)
	DecodeChainBlock(data []byte) (*ChainBlock, error)
	EncodeTreeNode(n *TreeNode) ([]byte, error)
	DecodeTreeNode(data []byte) (*TreeNode, error)
	EncodeTreeLeaf(l *TreeLeaf) ([]byte, error)
	DecodeTreeLeaf(data []byte) (*TreeLeaf, error)
	EncodeValue(v []byte) ([]byte, error)
	DecodeValue(data []byte) ([]byte, error)
	// DecodeTreeObject decodes data into whichever of *TreeNode or *TreeLeaf
	// its Kind claims, for traversal code that doesn't know in advance
	// which it's looking at.
	DecodeTreeObject(data []byte) (kind Kind, node *TreeNode, leaf *TreeLeaf, err error)
}

// rlpCodec implements Codec on top of go-ethereum's RLP encoder: a
// deterministic, order-preserving, round-trip-exact tuple format that
// doesn't distinguish tuples from lists, exactly as spec.md §9 requires
// of finger encoding. Grounded on ethereum-go-verkle's own ParseNode,
// which parses verkle nodes with this same package.
type rlpCodec struct {
	log *Logger
}

// envelope carries the two leading fields spec.md §4.3 requires before
// the payload tuple. Payload is pre-encoded RLP (an rlp.RawValue splices
// its bytes directly into the outer list rather than nesting them inside
// a string), so the payload tuple's own shape is preserved exactly.
type envelope struct {
	Version uint8
	Kind    uint8
	Payload rlp.RawValue
}

type rlpFinger struct {
	PrevIndex uint64
	PrevID    string
}

type chainBlockPayload struct {
	Index   uint64
	Fingers []rlpFinger
	Payload []byte
}

type treeNodePayload struct {
	PivotPrefix []byte
	LeftHash    string
	RightHash   string
}

type treeLeafPayload struct {
	LookupKey   []byte
	PayloadHash string
}

type otherPayload struct {
	Raw []byte
}

func (c *rlpCodec) logger() *Logger {
	if c.log != nil {
		return c.log
	}
	return defaultLogger
}

func (c *rlpCodec) encodeEnvelope(kind Kind, payload interface{}) ([]byte, error) {
	body, err := rlp.EncodeToBytes(payload)
	if err != nil {
		return nil, wrapErr(ErrDecodeError, err, "encode %s payload", kind)
	}
	env := envelope{Version: ProtocolVersion, Kind: uint8(kind), Payload: body}
	out, err := rlp.EncodeToBytes(&env)
	if err != nil {
		return nil, wrapErr(ErrDecodeError, err, "encode %s envelope", kind)
	}
	return out, nil
}

// decodeEnvelope returns the claimed kind and the still-encoded payload
// bytes, warning (not failing) on a protocol version mismatch.
func (c *rlpCodec) decodeEnvelope(data []byte) (Kind, rlp.RawValue, error) {
	var env envelope
	if err := rlp.DecodeBytes(data, &env); err != nil {
		return 0, nil, wrapErr(ErrDecodeError, err, "decode envelope")
	}
	if env.Version != ProtocolVersion {
		c.logger().warn("skiptree: protocol version mismatch", "got", env.Version, "want", ProtocolVersion)
	}
	kind := Kind(env.Kind)
	if kind > KindOther {
		return 0, nil, newErr(ErrDecodeError, "unknown kind %d", env.Kind)
	}
	return kind, env.Payload, nil
}

func (c *rlpCodec) EncodeChainBlock(b *ChainBlock) ([]byte, error) {
	fingers := make([]rlpFinger, len(b.Fingers))
	for i, f := range b.Fingers {
		fingers[i] = rlpFinger{PrevIndex: f.PrevIndex, PrevID: string(f.PrevID)}
	}
	payload := chainBlockPayload{Index: b.Index, Fingers: fingers, Payload: b.Payload}
	return c.encodeEnvelope(KindChainBlock, &payload)
}

func (c *rlpCodec) DecodeChainBlock(data []byte) (*ChainBlock, error) {
	kind, body, err := c.decodeEnvelope(data)
	if err != nil {
		return nil, err
	}
	if kind != KindChainBlock {
		return nil, newErr(ErrTypeMismatch, "expected chain block, got kind %d", kind)
	}
	var payload chainBlockPayload
	if err := rlp.DecodeBytes(body, &payload); err != nil {
		return nil, wrapErr(ErrDecodeError, err, "decode chain block payload")
	}
	fingers := make([]Finger, len(payload.Fingers))
	for i, f := range payload.Fingers {
		fingers[i] = Finger{PrevIndex: f.PrevIndex, PrevID: ID(f.PrevID)}
	}
	return &ChainBlock{Index: payload.Index, Fingers: fingers, Payload: payload.Payload}, nil
}

func (c *rlpCodec) EncodeTreeNode(n *TreeNode) ([]byte, error) {
	payload := treeNodePayload{
		PivotPrefix: n.PivotPrefix,
		LeftHash:    string(n.LeftHash),
		RightHash:   string(n.RightHash),
	}
	return c.encodeEnvelope(KindTreeNode, &payload)
}

func (c *rlpCodec) DecodeTreeNode(data []byte) (*TreeNode, error) {
	kind, body, err := c.decodeEnvelope(data)
	if err != nil {
		return nil, err
	}
	if kind != KindTreeNode {
		return nil, newErr(ErrTypeMismatch, "expected tree node, got kind %d", kind)
	}
	var payload treeNodePayload
	if err := rlp.DecodeBytes(body, &payload); err != nil {
		return nil, wrapErr(ErrDecodeError, err, "decode tree node payload")
	}
	return &TreeNode{
		PivotPrefix: payload.PivotPrefix,
		LeftHash:    ID(payload.LeftHash),
		RightHash:   ID(payload.RightHash),
	}, nil
}

func (c *rlpCodec) EncodeTreeLeaf(l *TreeLeaf) ([]byte, error) {
	payload := treeLeafPayload{LookupKey: l.LookupKey, PayloadHash: string(l.PayloadHash)}
	return c.encodeEnvelope(KindTreeLeaf, &payload)
}

func (c *rlpCodec) DecodeTreeLeaf(data []byte) (*TreeLeaf, error) {
	kind, body, err := c.decodeEnvelope(data)
	if err != nil {
		return nil, err
	}
	if kind != KindTreeLeaf {
		return nil, newErr(ErrTypeMismatch, "expected tree leaf, got kind %d", kind)
	}
	var payload treeLeafPayload
	if err := rlp.DecodeBytes(body, &payload); err != nil {
		return nil, wrapErr(ErrDecodeError, err, "decode tree leaf payload")
	}
	return &TreeLeaf{LookupKey: payload.LookupKey, PayloadHash: ID(payload.PayloadHash)}, nil
}

func (c *rlpCodec) EncodeValue(v []byte) ([]byte, error) {
	payload := otherPayload{Raw: v}
	return c.encodeEnvelope(KindOther, &payload)
}

func (c *rlpCodec) DecodeValue(data []byte) ([]byte, error) {
	kind, body, err := c.decodeEnvelope(data)
	if err != nil {
		return nil, err
	}
	if kind != KindOther {
		return nil, newErr(ErrTypeMismatch, "expected opaque payload, got kind %d", kind)
	}
	var payload otherPayload
	if err := rlp.DecodeBytes(body, &payload); err != nil {
		return nil, wrapErr(ErrDecodeError, err, "decode opaque payload")
	}
	return payload.Raw, nil
}

func (c *rlpCodec) DecodeTreeObject(data []byte) (Kind, *TreeNode, *TreeLeaf, error) {
	kind, body, err := c.decodeEnvelope(data)
	if err != nil {
		return 0, nil, nil, err
	}
	switch kind {
	case KindTreeNode:
		var payload treeNodePayload
		if err := rlp.DecodeBytes(body, &payload); err != nil {
			return 0, nil, nil, wrapErr(ErrDecodeError, err, "decode tree node payload")
		}
		return kind, &TreeNode{
			PivotPrefix: payload.PivotPrefix,
			LeftHash:    ID(payload.LeftHash),
			RightHash:   ID(payload.RightHash),
		}, nil, nil
	case KindTreeLeaf:
		var payload treeLeafPayload
		if err := rlp.DecodeBytes(body, &payload); err != nil {
			return 0, nil, nil, wrapErr(ErrDecodeError, err, "decode tree leaf payload")
		}
		return kind, nil, &TreeLeaf{LookupKey: payload.LookupKey, PayloadHash: ID(payload.PayloadHash)}, nil
	default:
		return kind, nil, nil, newErr(ErrTypeMismatch, "expected tree node or leaf, got kind %d", kind)
	}
}
