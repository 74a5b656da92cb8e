// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package bridge

import (
	"github.com/gogpu/offscreen/browser"
	"github.com/gogpu/offscreen/internal/logging"
)

// RenderHandler implements browser.Client.
func (b *Bridge) RenderHandler() browser.RenderHandler { return b }

// LoadHandler implements browser.Client.
func (b *Bridge) LoadHandler() browser.LoadHandler { return b }

// OnPaint copies a full view frame into the frame buffer. Dirty rectangles
// are ignored: every payload replaces the whole frame. Popup paints and
// payloads of the wrong size are dropped. Paints arriving after Shutdown are
// ignored without notifying the observer.
func (b *Bridge) OnPaint(br browser.Browser, kind browser.PaintElementType, dirty []browser.Rect, buf []byte, width, height int) {
	if b.done.Load() {
		return
	}
	if kind != browser.PaintView {
		b.reject("popup")
		return
	}
	if width != b.size.Width || height != b.size.Height {
		b.reject("size")
		return
	}
	if err := b.frame.Write(buf); err != nil {
		b.reject("length")
		return
	}
	if b.observer != nil {
		b.observer.FramePainted(b.name)
	}
}

func (b *Bridge) reject(reason string) {
	logging.Logger().Debug("bridge: paint dropped", "surface", b.name, "reason", reason)
	if b.observer != nil {
		b.observer.PaintRejected(b.name, reason)
	}
}

// ViewRect reports the frame size at the origin.
func (b *Bridge) ViewRect(browser.Browser) (browser.Rect, bool) {
	return browser.Rect{Width: b.size.Width, Height: b.size.Height}, true
}

// RootScreenRect reports the same rectangle as ViewRect.
func (b *Bridge) RootScreenRect(br browser.Browser) (browser.Rect, bool) {
	return b.ViewRect(br)
}

// ScreenPoint maps view coordinates to identical screen coordinates.
func (b *Bridge) ScreenPoint(_ browser.Browser, viewX, viewY int) (int, int, bool) {
	return viewX, viewY, true
}

// ScreenInfo always defers to the runtime defaults.
func (b *Bridge) ScreenInfo(browser.Browser, *browser.ScreenInfo) bool { return false }

func (b *Bridge) OnCursorChange(browser.Browser, browser.CursorType)                          {}
func (b *Bridge) OnPopupSize(browser.Browser, browser.Rect)                                   {}
func (b *Bridge) OnScrollOffsetChanged(browser.Browser, float64, float64)                     {}
func (b *Bridge) OnImeCompositionRangeChanged(browser.Browser, browser.Range, []browser.Rect) {}

// OnLoadStart captures the browser's host handle when the main document
// starts loading.
func (b *Bridge) OnLoadStart(br browser.Browser, f browser.Frame, _ browser.TransitionType) {
	if br == nil || f == nil || !f.IsMain() {
		return
	}
	if h := br.Host(); h != nil {
		b.setHost(h)
	}
	logging.Logger().Info("bridge: load start", "surface", b.name, "url", f.URL())
}

// OnLoadEnd hides scrollbars after the main document finished loading.
func (b *Bridge) OnLoadEnd(_ browser.Browser, f browser.Frame, httpStatusCode int) {
	if f == nil || !f.IsMain() {
		return
	}
	logging.Logger().Info("bridge: load end", "surface", b.name, "url", f.URL(), "status", httpStatusCode)
	if b.hide {
		f.ExecuteJavaScript(HideScrollbarsScript, "", 0)
		b.injections.Add(1)
	}
}

// OnLoadError logs failed main-frame navigations.
func (b *Bridge) OnLoadError(_ browser.Browser, f browser.Frame, code browser.ErrorCode, text, failedURL string) {
	if f == nil || !f.IsMain() {
		return
	}
	logging.Logger().Warn("bridge: load error", "surface", b.name, "url", failedURL, "code", int(code), "error", text)
}
