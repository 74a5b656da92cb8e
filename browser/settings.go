// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package browser

// LogSeverity controls runtime log verbosity.
type LogSeverity int

const (
	LogDefault LogSeverity = iota
	LogVerbose
	LogInfo
	LogWarning
	LogError
	LogDisable
)

var severityNames = map[string]LogSeverity{
	"default": LogDefault,
	"verbose": LogVerbose,
	"info":    LogInfo,
	"warning": LogWarning,
	"error":   LogError,
	"disable": LogDisable,
}

// ParseLogSeverity maps a name such as "verbose" to a LogSeverity.
func ParseLogSeverity(name string) (LogSeverity, bool) {
	s, ok := severityNames[name]
	return s, ok
}

// String implements fmt.Stringer.
func (s LogSeverity) String() string {
	for name, v := range severityNames {
		if v == s {
			return name
		}
	}
	return "unknown"
}

// MainArgs are the process arguments handed to the runtime.
type MainArgs struct {
	Args []string
}

// Settings configures the runtime process.
type Settings struct {
	WindowlessRenderingEnabled bool
	ExternalMessagePump        bool
	MultiThreadedMessageLoop   bool
	SingleProcess              bool
	NoSandbox                  bool
	LogSeverity                LogSeverity
	LogFile                    string
}

// WindowInfo describes where a browser renders.
type WindowInfo struct {
	// Windowless selects off-screen rendering through RenderHandler.OnPaint.
	Windowless bool

	// Parent is the native parent window handle, 0 for none.
	Parent uintptr

	// Transparent enables transparent painting.
	Transparent bool
}

// Windowless returns the WindowInfo for off-screen rendering without a parent.
func Windowless() WindowInfo {
	return WindowInfo{Windowless: true}
}

// State is a tri-state browser feature toggle.
type State int

const (
	StateDefault State = iota
	StateEnabled
	StateDisabled
)

// Color is an ARGB color.
type Color struct {
	A, R, G, B uint8
}

// BrowserSettings configures one browser instance.
type BrowserSettings struct {
	BackgroundColor           Color
	JavaScript                State
	JavaScriptAccessClipboard State
	JavaScriptCloseWindows    State
	JavaScriptDOMPaste        State
	JavaScriptOpenWindows     State
	LocalStorage              State
}

// DefaultBrowserSettings returns settings with scripting enabled and every
// page capability that reaches outside the view disabled.
func DefaultBrowserSettings() BrowserSettings {
	return BrowserSettings{
		BackgroundColor:           Color{A: 255, R: 60, G: 85, B: 115},
		JavaScript:                StateEnabled,
		JavaScriptAccessClipboard: StateDisabled,
		JavaScriptCloseWindows:    StateDisabled,
		JavaScriptDOMPaste:        StateDisabled,
		JavaScriptOpenWindows:     StateDisabled,
		LocalStorage:              StateDisabled,
	}
}
