// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package software

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/offscreen/browser"
	"github.com/gogpu/offscreen/framebuf"
)

// Browser is a synthetic browser instance.
type Browser struct {
	rt       *Runtime
	id       int
	client   browser.Client
	settings browser.BrowserSettings
	main     *Frame

	loaded    atomic.Bool
	closed    atomic.Bool
	noScroll  atomic.Bool
	frames    atomic.Uint64
	closeReqs atomic.Int32
	disposes  atomic.Int32

	stopOnce sync.Once
	done     chan struct{}

	// buf is only touched by the single painting goroutine.
	buf []byte
}

func newBrowser(rt *Runtime, id int, client browser.Client, settings browser.BrowserSettings, url string) *Browser {
	b := &Browser{
		rt:       rt,
		id:       id,
		client:   client,
		settings: settings,
		done:     make(chan struct{}),
	}
	b.main = &Frame{browser: b, main: true, url: url}
	return b
}

// ID implements browser.Browser.
func (b *Browser) ID() int { return b.id }

// Host implements browser.Browser. Every call returns a new reference that
// must be disposed, like a native engine's host wrapper.
func (b *Browser) Host() browser.Host { return &Host{browser: b} }

// MainFrame implements browser.Browser.
func (b *Browser) MainFrame() browser.Frame { return b.main }

// Frames returns how many frames were painted.
func (b *Browser) Frames() uint64 { return b.frames.Load() }

// CloseRequests returns how many times CloseBrowser was called.
func (b *Browser) CloseRequests() int { return int(b.closeReqs.Load()) }

// Disposes returns how many host references were disposed.
func (b *Browser) Disposes() int { return int(b.disposes.Load()) }

// Closed reports whether the browser has closed.
func (b *Browser) Closed() bool { return b.closed.Load() }

// navigate delivers load start and load end for the main frame, then starts
// painting. Runs on the pumping goroutine.
func (b *Browser) navigate() {
	if b.closed.Load() {
		return
	}
	lh := b.client.LoadHandler()
	lh.OnLoadStart(b, b.main, browser.TransitionExplicit)
	b.loaded.Store(true)
	lh.OnLoadEnd(b, b.main, b.rt.opts.StatusCode)

	if iv := b.rt.opts.FrameInterval; iv > 0 {
		b.rt.painters.Add(1)
		go b.paintLoop(iv)
	}
}

func (b *Browser) paintLoop(interval time.Duration) {
	defer b.rt.painters.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-b.done:
			return
		case <-ticker.C:
			b.paint()
		}
	}
}

// paint renders and delivers one full frame.
func (b *Browser) paint() {
	if !b.loaded.Load() || b.closed.Load() {
		return
	}
	rh := b.client.RenderHandler()
	rect, ok := rh.ViewRect(b)
	if !ok || rect.Width <= 0 || rect.Height <= 0 {
		return
	}
	size := framebuf.Size{Width: rect.Width, Height: rect.Height}
	if len(b.buf) != size.Bytes() {
		b.buf = make([]byte, size.Bytes())
	}

	n := b.frames.Add(1)
	b.rt.opts.Painter(b.buf, size, Page{
		URL:              b.main.URL(),
		Frame:            n,
		Background:       b.settings.BackgroundColor,
		ScrollbarsHidden: b.noScroll.Load(),
	})
	rh.OnPaint(b, browser.PaintView, []browser.Rect{rect}, b.buf, size.Width, size.Height)
}

func (b *Browser) stop() {
	b.stopOnce.Do(func() {
		b.closed.Store(true)
		close(b.done)
	})
}

// Host controls a synthetic browser.
type Host struct {
	browser  *Browser
	disposed atomic.Bool
}

// CloseBrowser queues the close on the message loop; it never blocks.
func (h *Host) CloseBrowser(force bool) {
	b := h.browser
	b.closeReqs.Add(1)
	b.rt.post(func() {
		b.stop()
		b.rt.remove(b.id)
	})
}

// Dispose releases this reference. Extra calls are ignored.
func (h *Host) Dispose() {
	if h.disposed.CompareAndSwap(false, true) {
		h.browser.disposes.Add(1)
	}
}

// Frame is the main frame of a synthetic browser.
type Frame struct {
	browser *Browser
	main    bool
	url     string

	mu      sync.Mutex
	scripts []string
}

// IsMain implements browser.Frame.
func (f *Frame) IsMain() bool { return f.main }

// URL implements browser.Frame.
func (f *Frame) URL() string { return f.url }

// ExecuteJavaScript records code. A style rule hiding webkit scrollbars
// removes the scrollbar from subsequent frames.
func (f *Frame) ExecuteJavaScript(code, scriptURL string, startLine int) {
	f.mu.Lock()
	f.scripts = append(f.scripts, code)
	f.mu.Unlock()
	if strings.Contains(code, "::-webkit-scrollbar") && strings.Contains(code, "hidden") {
		f.browser.noScroll.Store(true)
	}
}

// Scripts returns the scripts executed in the frame.
func (f *Frame) Scripts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.scripts...)
}
