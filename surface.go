package offscreen

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/gogpu/offscreen/bridge"
	"github.com/gogpu/offscreen/browser"
	"github.com/gogpu/offscreen/pump"
	"github.com/gogpu/offscreen/texture"
	"github.com/gogpu/offscreen/tick"
)

// SurfaceState is the lifecycle state of a Surface.
type SurfaceState int32

const (
	// SurfaceUnconfigured means the surface has not been activated.
	SurfaceUnconfigured SurfaceState = iota

	// SurfaceInitializing means activation began. A surface whose browser
	// could not be created stays here until Quit.
	SurfaceInitializing

	// SurfaceActive means the browser exists and frames are pulled every tick.
	SurfaceActive

	// SurfaceDestroyed means Quit ran.
	SurfaceDestroyed
)

// String implements fmt.Stringer.
func (s SurfaceState) String() string {
	switch s {
	case SurfaceUnconfigured:
		return "Unconfigured"
	case SurfaceInitializing:
		return "Initializing"
	case SurfaceActive:
		return "Active"
	case SurfaceDestroyed:
		return "Destroyed"
	default:
		return fmt.Sprintf("SurfaceState(%d)", int32(s))
	}
}

// Surface is one browser instance rendering into one host texture.
type Surface struct {
	engine   *Engine
	id       uuid.UUID
	name     string
	size     Size
	url      string
	hide     bool
	settings browser.BrowserSettings

	state atomic.Int32

	// mu guards activation against Quit.
	mu     sync.Mutex
	bridge *bridge.Bridge
	tex    texture.Texture
	lease  *pump.Lease
	task   *tick.Task

	quitOnce sync.Once
}

// NewSurface validates opts and returns an unconfigured surface. Nothing is
// allocated in the runtime until Activate.
func (e *Engine) NewSurface(opts SurfaceOptions) (*Surface, error) {
	if e.ShuttingDown() {
		return nil, ErrEngineShutdown
	}
	if !opts.Size.Valid() {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, opts.Size.Width, opts.Size.Height)
	}
	u, err := NormalizeURL(opts.URL)
	if err != nil {
		return nil, err
	}
	if opts.Name != "" && e.p.nameTaken(opts.Name) {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateName, opts.Name)
	}

	s := &Surface{
		engine:   e,
		id:       uuid.New(),
		name:     opts.Name,
		size:     opts.Size,
		url:      u,
		hide:     opts.HideScrollbars,
		settings: browser.DefaultBrowserSettings(),
	}
	if s.name == "" {
		s.name = s.id.String()
	}
	if opts.Browser != nil {
		s.settings = *opts.Browser
	}
	return s, nil
}

// Activate creates the browser and starts pulling its frames into tex on
// every tick. A nil tex allocates a CPU texture.Image of the surface size.
//
// If the runtime refuses the browser, Activate returns an error wrapping
// ErrSurfaceCreation and the surface stays SurfaceInitializing; other
// surfaces are unaffected. Quit is still safe to call.
func (s *Surface) Activate(tex texture.Texture) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.engine.ShuttingDown() {
		return ErrEngineShutdown
	}
	switch s.State() {
	case SurfaceUnconfigured:
	case SurfaceDestroyed:
		return ErrSurfaceDestroyed
	default:
		return ErrAlreadyActivated
	}

	if tex == nil {
		img, err := texture.NewImage(s.size)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidDimensions, err)
		}
		tex = img
	} else if tex.Size() != s.size {
		return fmt.Errorf("%w: texture %v, surface %v", ErrTextureSize, tex.Size(), s.size)
	}

	p := s.engine.p
	if err := p.track(s); err != nil {
		return err
	}
	br, err := bridge.New(s.size, bridge.Options{
		Name:           s.name,
		HideScrollbars: s.hide,
		Observer:       p.observer,
	})
	if err != nil {
		p.forget(s)
		return fmt.Errorf("%w: %w", ErrInvalidDimensions, err)
	}
	s.bridge = br
	s.tex = tex
	s.state.Store(int32(SurfaceInitializing))

	log := Logger()
	if err := p.rt.CreateBrowser(browser.Windowless(), br, s.settings, s.url); err != nil {
		log.Warn("offscreen: browser creation failed", "surface", s.name, "url", s.url, "err", err)
		p.forget(s)
		return fmt.Errorf("%w: %w", ErrSurfaceCreation, err)
	}

	s.lease = p.pump.EnsureStarted()
	s.task = p.loop.Add(tick.PhasePull, "pull:"+s.name, s.pull)
	s.state.Store(int32(SurfaceActive))

	log.Info("offscreen: surface active", "surface", s.name, "url", s.url, "size", s.size)
	return nil
}

// pull copies the latest frame into the texture. It runs once per tick in
// tick.PhasePull, after the pump has stepped.
func (s *Surface) pull() tick.Status {
	if s.engine.ShuttingDown() || s.State() == SurfaceDestroyed {
		return tick.Done
	}
	if _, err := s.bridge.PullInto(s.tex); err != nil {
		Logger().Warn("offscreen: frame upload failed", "surface", s.name, "err", err)
	}
	return tick.Continue
}

// Quit stops pulling, releases the pump lease and closes the browser. It is
// safe to call from any state and more than once; only the first call acts.
// The surface cannot be reactivated.
func (s *Surface) Quit() {
	s.quitOnce.Do(func() {
		s.mu.Lock()
		s.state.Store(int32(SurfaceDestroyed))
		task, lease, br := s.task, s.lease, s.bridge
		s.mu.Unlock()

		if task != nil {
			task.Cancel()
		}
		lease.Release()
		if br != nil {
			br.Shutdown()
		}
		// Series are dropped only for a surface that held its name, so a
		// never-activated namesake cannot clear a live surface's metrics.
		if s.engine.p.forget(s) {
			if f, ok := s.engine.p.observer.(interface{ Forget(surface string) }); ok {
				f.Forget(s.name)
			}
		}
		Logger().Debug("offscreen: surface quit", "surface", s.name)
	})
}

// ID returns the surface identifier.
func (s *Surface) ID() uuid.UUID { return s.id }

// Name returns the name used in logs and metrics.
func (s *Surface) Name() string { return s.name }

// URL returns the normalized start URL.
func (s *Surface) URL() string { return s.url }

// Size returns the surface size.
func (s *Surface) Size() Size { return s.size }

// State returns the lifecycle state.
func (s *Surface) State() SurfaceState { return SurfaceState(s.state.Load()) }

// Texture returns the destination texture, or nil before Activate.
func (s *Surface) Texture() texture.Texture {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tex
}

// Bridge returns the surface's bridge, or nil before Activate.
func (s *Surface) Bridge() *bridge.Bridge {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bridge
}
