// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package browser

// Runtime is the control surface of an off-screen browser engine.
//
// A Runtime is initialized at most once per process. With an external
// message pump the caller must invoke DoMessageLoopWork regularly from the
// thread that called Initialize.
type Runtime interface {
	// Load locates and loads the native runtime. An empty path means the
	// platform default search location.
	Load(path string) error

	// Initialize starts the runtime with the given arguments and settings.
	Initialize(args MainArgs, settings Settings, app App) error

	// DoMessageLoopWork performs one bounded slice of internal event
	// processing. Paint and load callbacks may fire synchronously from it.
	DoMessageLoopWork()

	// Shutdown stops the runtime. It must be called on the Initialize thread
	// after all browsers have been asked to close.
	Shutdown()

	// CreateBrowser asynchronously creates a browser that reports to client.
	// A nil error means the request was accepted; the browser becomes usable
	// once the client sees its first load start.
	CreateBrowser(info WindowInfo, client Client, settings BrowserSettings, url string) error
}

// Browser is a live browser instance as seen from callbacks.
type Browser interface {
	// ID returns the runtime-assigned browser identifier.
	ID() int

	// Host returns the host object used to control the browser.
	Host() Host

	// MainFrame returns the top-level frame.
	MainFrame() Frame
}

// Host controls a browser instance. References obtained from Browser.Host
// must be disposed when no longer needed.
type Host interface {
	// CloseBrowser requests the browser to close. When force is false the
	// page may run its unload handlers; the call never blocks.
	CloseBrowser(force bool)

	// Dispose releases this reference to the host object.
	Dispose()
}

// Frame is one document frame of a browser.
type Frame interface {
	// IsMain reports whether the frame is the top-level document.
	IsMain() bool

	// URL returns the frame's current URL.
	URL() string

	// ExecuteJavaScript runs code in the frame. scriptURL and startLine are
	// used for error reporting only.
	ExecuteJavaScript(code, scriptURL string, startLine int)
}

// Client supplies the callback handlers of one browser.
type Client interface {
	RenderHandler() RenderHandler
	LoadHandler() LoadHandler
}

// RenderHandler receives off-screen rendering callbacks.
// Methods are called from runtime goroutines.
type RenderHandler interface {
	// ViewRect reports the view rectangle in screen coordinates.
	ViewRect(b Browser) (Rect, bool)

	// RootScreenRect reports the root window rectangle.
	RootScreenRect(b Browser) (Rect, bool)

	// ScreenPoint converts view coordinates to screen coordinates.
	ScreenPoint(b Browser, viewX, viewY int) (screenX, screenY int, ok bool)

	// ScreenInfo fills info and returns true, or returns false to use defaults.
	ScreenInfo(b Browser, info *ScreenInfo) bool

	// OnPaint delivers a BGRA bitmap of width x height pixels. buf is only
	// valid for the duration of the call.
	OnPaint(b Browser, kind PaintElementType, dirty []Rect, buf []byte, width, height int)

	OnCursorChange(b Browser, cursor CursorType)
	OnPopupSize(b Browser, rect Rect)
	OnScrollOffsetChanged(b Browser, x, y float64)
	OnImeCompositionRangeChanged(b Browser, selected Range, bounds []Rect)
}

// LoadHandler receives navigation callbacks.
// Methods are called from runtime goroutines.
type LoadHandler interface {
	OnLoadStart(b Browser, f Frame, transition TransitionType)
	OnLoadEnd(b Browser, f Frame, httpStatusCode int)
	OnLoadError(b Browser, f Frame, code ErrorCode, text, failedURL string)
}

// Rect is a rectangle in pixels.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Range is a character range.
type Range struct {
	From, To int
}

// ScreenInfo describes the virtual screen a browser renders for.
type ScreenInfo struct {
	DeviceScaleFactor float32
	Depth             int
	Rect              Rect
	AvailableRect     Rect
}

// PaintElementType identifies what a paint callback contains.
type PaintElementType int

const (
	// PaintView is the main view.
	PaintView PaintElementType = iota
	// PaintPopup is a popup widget such as a select dropdown.
	PaintPopup
)

// TransitionType describes how a navigation was initiated.
type TransitionType int

const (
	TransitionLink TransitionType = iota
	TransitionExplicit
	TransitionAutoSubframe
	TransitionReload
)

// CursorType is the cursor requested by the page.
type CursorType int

const (
	CursorPointer CursorType = iota
	CursorHand
	CursorIBeam
	CursorWait
)

// ErrorCode is a network error code reported by OnLoadError.
type ErrorCode int
