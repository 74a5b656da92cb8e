// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package framebuf

import (
	"errors"
	"fmt"
	"image"
	"sync"
)

// Errors returned by Buffer operations.
var (
	// ErrInvalidSize is returned when a buffer is requested with a
	// non-positive width or height.
	ErrInvalidSize = errors.New("framebuf: invalid size")

	// ErrSizeMismatch is returned when a payload or destination does not
	// have exactly the length of one frame.
	ErrSizeMismatch = errors.New("framebuf: size mismatch")
)

// Buffer is one BGRA frame guarded by a mutex.
//
// The backing slice is allocated once and never reallocated or freed by
// the buffer itself, so a writer holding the lock can never observe the
// memory disappear underneath it. Writers and readers hold the lock only
// for the duration of a single copy.
type Buffer struct {
	mu   sync.Mutex
	size Size
	data []byte
	seq  uint64 // number of completed writes, guarded by mu
}

// New allocates a zero-filled buffer for one frame of the given size.
func New(size Size) (*Buffer, error) {
	if !size.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSize, size)
	}
	return &Buffer{
		size: size,
		data: make([]byte, size.Bytes()),
	}, nil
}

// Size returns the frame size.
func (b *Buffer) Size() Size {
	return b.size
}

// Len returns the frame length in bytes. It never changes.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Write replaces the whole frame with src. src must be exactly one frame long;
// partial updates are not supported.
func (b *Buffer) Write(src []byte) error {
	if len(src) != len(b.data) {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrSizeMismatch, len(src), len(b.data))
	}
	b.mu.Lock()
	copy(b.data, src)
	b.seq++
	b.mu.Unlock()
	return nil
}

// Borrow calls fn with the frame bytes while holding the lock.
// fn must not retain data or do more than copy it.
func (b *Buffer) Borrow(fn func(data []byte) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return fn(b.data)
}

// CopyTo copies the current frame into dst, which must be one frame long,
// and returns the sequence number of the copied frame.
func (b *Buffer) CopyTo(dst []byte) (uint64, error) {
	if len(dst) != len(b.data) {
		return 0, fmt.Errorf("%w: got %d bytes, want %d", ErrSizeMismatch, len(dst), len(b.data))
	}
	b.mu.Lock()
	copy(dst, b.data)
	seq := b.seq
	b.mu.Unlock()
	return seq, nil
}

// Sequence returns the number of completed writes.
func (b *Buffer) Sequence() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.seq
}

// Snapshot returns a copy of the current frame converted to RGBA.
func (b *Buffer) Snapshot() *image.RGBA {
	frame := make([]byte, len(b.data))
	_, _ = b.CopyTo(frame)
	return ToRGBA(frame, b.size)
}
