// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package bridge

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/offscreen/browser"
	"github.com/gogpu/offscreen/framebuf"
	"github.com/gogpu/offscreen/internal/logging"
	"github.com/gogpu/offscreen/texture"
)

// ErrSizeMismatch is returned by PullInto when the texture size differs from
// the bridge's frame size.
var ErrSizeMismatch = errors.New("bridge: texture size mismatch")

// HideScrollbarsScript is injected into the main frame after each load when
// scrollbars are hidden.
const HideScrollbarsScript = "var head = document.head;" +
	"var style = document.createElement('style');" +
	"style.type = 'text/css';" +
	"style.appendChild(document.createTextNode('::-webkit-scrollbar { visibility: hidden; }'));" +
	"head.appendChild(style);"

// Observer is notified of frame traffic. Methods are called from runtime
// goroutines (paints) and the host tick (pulls) and must be cheap.
type Observer interface {
	FramePainted(surface string)
	PaintRejected(surface, reason string)
	FramePulled(surface string)
}

// Options configures a Bridge.
type Options struct {
	// Name identifies the owning surface in logs and metrics.
	Name string

	// HideScrollbars injects HideScrollbarsScript after main-frame loads.
	HideScrollbars bool

	// Observer receives frame traffic notifications. Optional.
	Observer Observer
}

// Bridge connects one browser instance to one host texture.
//
// The runtime side calls the browser.RenderHandler and browser.LoadHandler
// methods from its own goroutines; the host side calls PullInto and
// Shutdown from the tick goroutine. The frame buffer is owned by the bridge
// for its whole life and is never released by Shutdown, so a paint that
// races with Shutdown always copies into valid memory.
//
// Lock order: frame lock, then host lock.
type Bridge struct {
	name     string
	size     framebuf.Size
	frame    *framebuf.Buffer
	hide     bool
	observer Observer

	hostMu sync.Mutex
	host   browser.Host
	closed bool

	done       atomic.Bool
	injections atomic.Int64
	pulls      atomic.Uint64
}

// New allocates a bridge with a zero-filled frame of the given size.
func New(size framebuf.Size, opts Options) (*Bridge, error) {
	frame, err := framebuf.New(size)
	if err != nil {
		return nil, fmt.Errorf("bridge: %w", err)
	}
	return &Bridge{
		name:     opts.Name,
		size:     size,
		frame:    frame,
		hide:     opts.HideScrollbars,
		observer: opts.Observer,
	}, nil
}

// Size returns the frame size.
func (b *Bridge) Size() framebuf.Size {
	return b.size
}

// Frame returns the bridge's frame buffer.
func (b *Bridge) Frame() *framebuf.Buffer {
	return b.frame
}

// Sequence returns the number of frames painted so far.
func (b *Bridge) Sequence() uint64 {
	return b.frame.Sequence()
}

// Pulls returns the number of successful pulls.
func (b *Bridge) Pulls() uint64 {
	return b.pulls.Load()
}

// Injections returns how many times the scrollbar script was executed.
func (b *Bridge) Injections() int64 {
	return b.injections.Load()
}

// Host returns the live host handle, or nil before the first main-frame load
// and after Shutdown.
func (b *Bridge) Host() browser.Host {
	b.hostMu.Lock()
	defer b.hostMu.Unlock()
	return b.host
}

// Loaded reports whether a host handle is held.
func (b *Bridge) Loaded() bool {
	return b.Host() != nil
}

// PullInto copies the latest frame into tex and commits the upload. It must
// be called from the host tick. Before the browser has loaded it does
// nothing and returns false, leaving tex untouched.
func (b *Bridge) PullInto(tex texture.Texture) (bool, error) {
	if tex.Size() != b.size {
		return false, fmt.Errorf("%w: texture %s, frame %s", ErrSizeMismatch, tex.Size(), b.size)
	}
	if !b.Loaded() {
		return false, nil
	}

	loaded := false
	err := b.frame.Borrow(func(data []byte) error {
		if !b.Loaded() {
			return nil
		}
		if err := tex.LoadRawData(data); err != nil {
			return err
		}
		loaded = true
		return nil
	})
	if err != nil || !loaded {
		return false, err
	}

	if err := tex.CommitUpload(); err != nil {
		return false, err
	}
	b.pulls.Add(1)
	if b.observer != nil {
		b.observer.FramePulled(b.name)
	}
	return true, nil
}

// Shutdown asks the browser to close and releases the host handle.
// The close is not forced and not awaited. Shutdown is idempotent and safe
// to call before the browser ever loaded.
func (b *Bridge) Shutdown() {
	var host browser.Host
	_ = b.frame.Borrow(func([]byte) error {
		b.hostMu.Lock()
		host = b.host
		b.host = nil
		b.closed = true
		b.hostMu.Unlock()
		b.done.Store(true)
		return nil
	})
	if host == nil {
		return
	}

	logging.Logger().Info("bridge: closing browser", "surface", b.name)
	host.CloseBrowser(false)
	host.Dispose()
}

// setHost stores a fresh host handle, disposing the previous reference.
// After Shutdown the new reference is disposed immediately.
func (b *Bridge) setHost(h browser.Host) {
	b.hostMu.Lock()
	old := b.host
	closed := b.closed
	if !closed {
		b.host = h
	}
	b.hostMu.Unlock()

	switch {
	case closed:
		h.Dispose()
	case old != nil && old != h:
		old.Dispose()
	}
}

var _ browser.Client = (*Bridge)(nil)
