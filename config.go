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
	"crypto/sha256"
	"encoding/hex"
)

// DefaultIDWidth is the number of leading hash bytes kept in an ID, per
// spec.md §3 ("the reference uses k=8 bytes, 16 hex chars").
const DefaultIDWidth = 8

// Config parameterizes the hash function, id width, codec, and logger
// shared by a store and the views built on top of it. Every constructor
// in this package passes its Config through resolveConfig, so nil means
// DefaultConfig() and any zero field of a supplied Config takes its
// default.
type Config struct {
	// HashFunc is the configured digest; the default is SHA-256. Treated as
	// an external parameter per spec.md §1.
	HashFunc func(data []byte) []byte
	// IDWidth is the number of leading hash bytes kept in an ID.
	IDWidth int
	// Codec turns nodes/blocks/payloads into canonical byte strings.
	Codec Codec
	// Logger receives the warnings spec.md carves out as non-fatal.
	Logger *Logger
}

func sha256HashFunc(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}

// DefaultConfig wires a 256-bit cryptographic digest truncated to 8 bytes
// and the canonical RLP-tuple codec, per spec.md §6.
func DefaultConfig() *Config {
	cfg := &Config{
		HashFunc: sha256HashFunc,
		IDWidth:  DefaultIDWidth,
		Logger:   defaultLogger,
	}
	cfg.Codec = &rlpCodec{log: cfg.Logger}
	return cfg
}

// resolveConfig fills in DefaultConfig() for a nil Config, or patches zero
// fields of a caller-supplied Config with their defaults, so partially
// constructed Configs (e.g. {IDWidth: 16}) still work.
func resolveConfig(cfg *Config) *Config {
	if cfg == nil {
		return DefaultConfig()
	}
	out := *cfg
	if out.HashFunc == nil {
		out.HashFunc = sha256HashFunc
	}
	if out.IDWidth <= 0 {
		out.IDWidth = DefaultIDWidth
	}
	if out.Logger == nil {
		out.Logger = defaultLogger
	}
	if out.Codec == nil {
		out.Codec = &rlpCodec{log: out.Logger}
	}
	return &out
}

// computeID is the single place an id is derived from encoded bytes:
// id = hex(HashFunc(bytes)[:IDWidth]).
func computeID(cfg *Config, data []byte) ID {
	sum := cfg.HashFunc(data)
	w := cfg.IDWidth
	if w <= 0 || w > len(sum) {
		w = len(sum)
	}
	return ID(hex.EncodeToString(sum[:w]))
}
