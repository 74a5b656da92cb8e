package offscreen

import (
	"github.com/gogpu/offscreen/bridge"
	"github.com/gogpu/offscreen/browser"
	"github.com/gogpu/offscreen/framebuf"
	"github.com/gogpu/offscreen/pump"
)

// Size is the pixel size of a surface.
type Size = framebuf.Size

// Default values used when Config or SurfaceOptions leave a field empty.
const (
	DefaultURL     = "http://www.google.com"
	DefaultLogFile = "cef.log"
	DefaultWidth   = 1280
	DefaultHeight  = 720
)

// Observer receives frame and pump activity. metrics.Exporter implements it.
type Observer interface {
	bridge.Observer
	pump.Observer
}

// Config configures the process-wide engine. The zero value is usable.
type Config struct {
	// LibraryPath is handed to Runtime.Load. Its meaning is backend specific.
	LibraryPath string

	// Args are the process arguments forwarded to the runtime.
	Args []string

	// LogSeverity sets runtime log verbosity. Zero means browser.LogVerbose.
	LogSeverity browser.LogSeverity

	// LogFile is the runtime's own log file. Empty means DefaultLogFile.
	LogFile string

	// App receives process-level runtime callbacks. Nil means browser.DefaultApp.
	App browser.App

	// Persist is called once after a successful start. Hosts use it to keep
	// the owning object alive across scene transitions.
	Persist func()

	// Observer receives frame and pump activity for every surface. Optional.
	Observer Observer
}

func (c Config) withDefaults() Config {
	if c.LogSeverity == browser.LogDefault {
		c.LogSeverity = browser.LogVerbose
	}
	if c.LogFile == "" {
		c.LogFile = DefaultLogFile
	}
	if c.App == nil {
		c.App = browser.DefaultApp{}
	}
	return c
}

// settings returns the runtime settings for embedding: windowless rendering
// pumped externally from the host tick, in a single process.
func (c Config) settings() browser.Settings {
	return browser.Settings{
		WindowlessRenderingEnabled: true,
		ExternalMessagePump:        true,
		MultiThreadedMessageLoop:   false,
		SingleProcess:              true,
		NoSandbox:                  true,
		LogSeverity:                c.LogSeverity,
		LogFile:                    c.LogFile,
	}
}

// SurfaceOptions configures a Surface. Sizes are fixed for the life of the
// surface; resizing means creating a new one.
type SurfaceOptions struct {
	// Size is the texture and view size in pixels. Both sides must be positive.
	Size Size

	// URL is the start page. Blank means DefaultURL.
	URL string

	// HideScrollbars injects a style rule hiding scrollbars after each
	// main-frame load.
	HideScrollbars bool

	// Name identifies the surface in logs and metrics. Empty means the
	// surface ID.
	Name string

	// Browser overrides the per-browser settings. Nil means
	// browser.DefaultBrowserSettings.
	Browser *browser.BrowserSettings
}
