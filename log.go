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
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with the handful of warning sites spec.md
// carves out as non-fatal: protocol-version skew at decode time, and an
// aborted proof traversal hitting a malformed or missing object.
type Logger struct {
	inner *slog.Logger
}

// defaultLogger is used by any Config that doesn't set one explicitly.
var defaultLogger = &Logger{inner: slog.New(slog.NewTextHandler(os.Stderr, nil))}

// NewLogger wraps an existing slog.Handler, useful for tests that want to
// capture warnings instead of writing them to stderr.
func NewLogger(h slog.Handler) *Logger {
	return &Logger{inner: slog.New(h)}
}

func (l *Logger) warn(msg string, args ...any) {
	if l == nil {
		l = defaultLogger
	}
	l.inner.Warn(msg, args...)
}
