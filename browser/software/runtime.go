// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package software

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/offscreen/browser"
	"github.com/gogpu/offscreen/internal/logging"
)

// Errors returned by Runtime.
var (
	// ErrNotLoaded is returned by Initialize before Load.
	ErrNotLoaded = errors.New("software: runtime not loaded")

	// ErrLibraryNotFound is returned by Load for a missing library path.
	ErrLibraryNotFound = errors.New("software: library path not found")

	// ErrAlreadyInitialized is returned by a second Initialize.
	ErrAlreadyInitialized = errors.New("software: runtime already initialized")

	// ErrSettings is returned when Initialize rejects the settings.
	ErrSettings = errors.New("software: unsupported settings")

	// ErrNotRunning is returned by CreateBrowser outside Initialize..Shutdown.
	ErrNotRunning = errors.New("software: runtime not running")

	// ErrCreateRejected is returned when Options.Reject refuses a browser.
	ErrCreateRejected = errors.New("software: browser creation rejected")
)

// Options configures a software Runtime.
type Options struct {
	// FrameInterval makes each browser paint from its own goroutine at this
	// interval. Zero paints one frame per DoMessageLoopWork on the pumping
	// goroutine instead.
	FrameInterval time.Duration

	// Painter renders a frame. Defaults to DefaultPainter.
	Painter Painter

	// StatusCode is reported by OnLoadEnd. Defaults to 200.
	StatusCode int

	// Reject, when set, refuses CreateBrowser for URLs it returns true for.
	Reject func(url string) bool
}

// Runtime is an in-process browser runtime that renders synthetic pages.
// It honours the same threading contract as a native engine: load
// callbacks are delivered from DoMessageLoopWork, paints either from there
// or from per-browser goroutines.
type Runtime struct {
	opts Options

	mu          sync.Mutex
	loaded      bool
	initialized bool
	shutdown    bool
	settings    browser.Settings
	switches    map[string]string
	queue       []func()
	browsers    map[int]*Browser
	nextID      int

	painters sync.WaitGroup

	inits atomic.Int32
	steps atomic.Uint64
	stops atomic.Int32
}

// New creates a Runtime.
func New(opts Options) *Runtime {
	if opts.Painter == nil {
		opts.Painter = DefaultPainter
	}
	if opts.StatusCode == 0 {
		opts.StatusCode = 200
	}
	return &Runtime{
		opts:     opts,
		switches: make(map[string]string),
		browsers: make(map[int]*Browser),
	}
}

func init() {
	browser.Register("software", 10, func() (browser.Runtime, error) {
		return New(Options{}), nil
	}, nil)
}

// Load checks that path, when given, exists.
func (r *Runtime) Load(path string) error {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("%w: %s", ErrLibraryNotFound, path)
		}
	}
	r.mu.Lock()
	r.loaded = true
	r.mu.Unlock()
	return nil
}

// Initialize validates settings and starts the runtime.
func (r *Runtime) Initialize(args browser.MainArgs, settings browser.Settings, app browser.App) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case !r.loaded:
		return ErrNotLoaded
	case r.initialized:
		return ErrAlreadyInitialized
	case !settings.WindowlessRenderingEnabled:
		return fmt.Errorf("%w: windowless rendering disabled", ErrSettings)
	case settings.ExternalMessagePump && settings.MultiThreadedMessageLoop:
		return fmt.Errorf("%w: external pump with multi-threaded loop", ErrSettings)
	}

	if app != nil {
		app.OnBeforeCommandLineProcessing("", commandLine(r.switches))
	}
	r.settings = settings
	r.initialized = true
	r.inits.Add(1)
	logging.Logger().Info("software: runtime initialized", "args", len(args.Args), "log_file", settings.LogFile)
	return nil
}

// DoMessageLoopWork runs queued callbacks and, without a FrameInterval,
// paints one frame for every loaded browser.
func (r *Runtime) DoMessageLoopWork() {
	r.mu.Lock()
	if !r.initialized || r.shutdown {
		r.mu.Unlock()
		return
	}
	work := r.queue
	r.queue = nil
	var paint []*Browser
	if r.opts.FrameInterval <= 0 {
		for _, b := range r.browsers {
			paint = append(paint, b)
		}
	}
	r.mu.Unlock()

	r.steps.Add(1)
	for _, fn := range work {
		fn()
	}
	for _, b := range paint {
		b.paint()
	}
}

// Shutdown closes every browser and stops painting. It is idempotent.
func (r *Runtime) Shutdown() {
	r.mu.Lock()
	if !r.initialized || r.shutdown {
		r.mu.Unlock()
		return
	}
	r.shutdown = true
	browsers := r.browsers
	r.browsers = make(map[int]*Browser)
	r.queue = nil
	r.mu.Unlock()

	for _, b := range browsers {
		b.stop()
	}
	r.painters.Wait()
	r.stops.Add(1)
	logging.Logger().Info("software: runtime shut down")
}

// CreateBrowser registers a browser and queues its first navigation.
func (r *Runtime) CreateBrowser(info browser.WindowInfo, client browser.Client, settings browser.BrowserSettings, url string) error {
	if !info.Windowless {
		return fmt.Errorf("%w: windowed rendering", ErrSettings)
	}
	if client == nil {
		return fmt.Errorf("%w: nil client", ErrCreateRejected)
	}
	if r.opts.Reject != nil && r.opts.Reject(url) {
		return fmt.Errorf("%w: %s", ErrCreateRejected, url)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.initialized || r.shutdown {
		return ErrNotRunning
	}

	r.nextID++
	b := newBrowser(r, r.nextID, client, settings, url)
	r.browsers[b.id] = b
	r.queue = append(r.queue, b.navigate)
	return nil
}

// post queues fn for the next DoMessageLoopWork.
func (r *Runtime) post(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.shutdown {
		return
	}
	r.queue = append(r.queue, fn)
}

func (r *Runtime) remove(id int) {
	r.mu.Lock()
	delete(r.browsers, id)
	r.mu.Unlock()
}

// Settings returns the settings given to Initialize.
func (r *Runtime) Settings() browser.Settings {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.settings
}

// Switch returns a command-line switch appended by the App.
func (r *Runtime) Switch(name string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.switches[name]
	return v, ok
}

// Initializations returns how many times Initialize succeeded.
func (r *Runtime) Initializations() int { return int(r.inits.Load()) }

// Steps returns how many times DoMessageLoopWork ran while initialized.
func (r *Runtime) Steps() uint64 { return r.steps.Load() }

// Shutdowns returns how many times Shutdown took effect.
func (r *Runtime) Shutdowns() int { return int(r.stops.Load()) }

// Browsers returns the number of open browsers.
func (r *Runtime) Browsers() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.browsers)
}

type commandLine map[string]string

func (c commandLine) AppendSwitch(name, value string) { c[name] = value }

var _ browser.Runtime = (*Runtime)(nil)
