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
	"errors"
	"fmt"
)

// ErrorKind classifies the failure modes a Chain or Tree can surface.
type ErrorKind int

const (
	// ErrOutOfRange means an index fell outside [0, head.Index].
	ErrOutOfRange ErrorKind = iota
	// ErrKeyNotFound means a subscript access named a key absent from the tree.
	ErrKeyNotFound
	// ErrIntegrityFailure means the store returned bytes whose hash didn't match the requested id.
	ErrIntegrityFailure
	// ErrTypeMismatch means a decoded object wasn't the kind expected at that slot.
	ErrTypeMismatch
	// ErrMalformed means a structural invariant was violated (missing finger, missing child).
	ErrMalformed
	// ErrDecodeError means the bytes couldn't be parsed as any known kind.
	ErrDecodeError
	// ErrEmpty means a tree commit was attempted with no items.
	ErrEmpty
	// ErrChainUndefined means a builder was asked to commit with no associated chain.
	ErrChainUndefined
)

func (k ErrorKind) String() string {
	switch k {
	case ErrOutOfRange:
		return "out of range"
	case ErrKeyNotFound:
		return "key not found"
	case ErrIntegrityFailure:
		return "integrity failure"
	case ErrTypeMismatch:
		return "type mismatch"
	case ErrMalformed:
		return "malformed"
	case ErrDecodeError:
		return "decode error"
	case ErrEmpty:
		return "empty"
	case ErrChainUndefined:
		return "chain undefined"
	default:
		return "unknown error kind"
	}
}

// Error is the single error type surfaced by this package. Callers branch
// on Kind (or use the Is helper below) rather than string matching.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func newErr(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func wrapErr(kind ErrorKind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: cause}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
