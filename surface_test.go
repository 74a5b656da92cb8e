package offscreen

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/offscreen/browser"
	"github.com/gogpu/offscreen/browser/software"
	"github.com/gogpu/offscreen/texture"
	"github.com/gogpu/offscreen/tick"
)

// startEngine starts an owning engine on rt for the duration of the test.
func startEngine(t *testing.T, rt browser.Runtime, cfg Config) (*Engine, *tick.Loop) {
	t.Helper()
	resetProcess(t)
	loop := tick.New()
	e, err := Start(rt, loop, cfg)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(e.Shutdown)
	return e, loop
}

func activate(t *testing.T, e *Engine, opts SurfaceOptions) (*Surface, *texture.Image) {
	t.Helper()
	s, err := e.NewSurface(opts)
	if err != nil {
		t.Fatalf("NewSurface: %v", err)
	}
	if err := s.Activate(nil); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	img, ok := s.Texture().(*texture.Image)
	if !ok {
		t.Fatalf("Texture() = %T, want *texture.Image", s.Texture())
	}
	return s, img
}

func TestSurfaceStateString(t *testing.T) {
	tests := []struct {
		state SurfaceState
		want  string
	}{
		{SurfaceUnconfigured, "Unconfigured"},
		{SurfaceInitializing, "Initializing"},
		{SurfaceActive, "Active"},
		{SurfaceDestroyed, "Destroyed"},
		{SurfaceState(7), "SurfaceState(7)"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestNewSurfaceValidation(t *testing.T) {
	e, _ := startEngine(t, &fakeRuntime{}, Config{})

	tests := []struct {
		name    string
		opts    SurfaceOptions
		wantErr error
	}{
		{"zero size", SurfaceOptions{}, ErrInvalidDimensions},
		{"zero width", SurfaceOptions{Size: Size{Width: 0, Height: 10}}, ErrInvalidDimensions},
		{"negative height", SurfaceOptions{Size: Size{Width: 10, Height: -1}}, ErrInvalidDimensions},
		{"host missing", SurfaceOptions{Size: Size{Width: 10, Height: 10}, URL: "http://"}, ErrInvalidURL},
		{"valid", SurfaceOptions{Size: Size{Width: 10, Height: 10}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := e.NewSurface(tt.opts)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewSurface error = %v, want %v", err, tt.wantErr)
			}
			if err == nil && s.State() != SurfaceUnconfigured {
				t.Errorf("State() = %v, want Unconfigured", s.State())
			}
		})
	}
}

func TestNewSurfaceDefaults(t *testing.T) {
	e, _ := startEngine(t, &fakeRuntime{}, Config{})

	s, err := e.NewSurface(SurfaceOptions{Size: Size{Width: DefaultWidth, Height: DefaultHeight}, URL: "   "})
	if err != nil {
		t.Fatalf("NewSurface: %v", err)
	}
	if s.URL() != DefaultURL {
		t.Errorf("URL() = %q, want %q", s.URL(), DefaultURL)
	}
	if s.Name() != s.ID().String() {
		t.Errorf("Name() = %q, want the surface ID", s.Name())
	}
	if s.Texture() != nil || s.Bridge() != nil {
		t.Error("unactivated surface should have no texture or bridge")
	}
}

func TestSurfaceActivateCreatesBrowser(t *testing.T) {
	rt := &fakeRuntime{}
	e, loop := startEngine(t, rt, Config{})

	s, img := activate(t, e, SurfaceOptions{Size: Size{Width: 4, Height: 2}, URL: "example.com"})
	if s.State() != SurfaceActive {
		t.Errorf("State() = %v, want Active", s.State())
	}
	if rt.urls[0] != "http://example.com" {
		t.Errorf("created url = %q", rt.urls[0])
	}
	if rt.browsers[0] != browser.DefaultBrowserSettings() {
		t.Errorf("browser settings = %+v, want defaults", rt.browsers[0])
	}
	if !e.Pump().Running() || e.Pump().Leases() != 1 {
		t.Errorf("pump running = %v, leases = %d", e.Pump().Running(), e.Pump().Leases())
	}
	// One pump task and one pull task.
	if loop.Len() != 2 {
		t.Errorf("loop.Len() = %d, want 2", loop.Len())
	}
	if e.Surfaces() != 1 {
		t.Errorf("Surfaces() = %d, want 1", e.Surfaces())
	}
	if img.Size() != s.Size() {
		t.Errorf("texture size = %v, want %v", img.Size(), s.Size())
	}
}

func TestSurfacePullBeforeLoad(t *testing.T) {
	rt := &fakeRuntime{}
	e, loop := startEngine(t, rt, Config{})
	_, img := activate(t, e, SurfaceOptions{Size: Size{Width: 4, Height: 4}})

	b := newFakeBrowser("")
	// A paint before load start is kept but not pulled.
	b.paint(rt.client(0), 4, 4, 0x7F)
	for i := 0; i < 3; i++ {
		loop.Tick()
	}
	if img.Loads() != 0 || img.Uploads() != 0 {
		t.Errorf("texture touched before load: loads %d, uploads %d", img.Loads(), img.Uploads())
	}
	if !bytes.Equal(img.Bytes(), make([]byte, 4*4*4)) {
		t.Error("texture changed before load")
	}

	b.load(rt.client(0))
	loop.Tick()
	if img.Uploads() != 1 {
		t.Fatalf("Uploads() = %d, want 1", img.Uploads())
	}
	if img.Bytes()[0] != 0x7F {
		t.Errorf("texture byte = %#x, want 0x7f", img.Bytes()[0])
	}
}

func TestSurfaceSoftwareFrames(t *testing.T) {
	rt := software.New(software.Options{Painter: software.SolidPainter(10, 20, 30, 255)})
	e, loop := startEngine(t, rt, Config{})
	_, img := activate(t, e, SurfaceOptions{Size: Size{Width: 8, Height: 8}})

	// The pump phase navigates and paints before the pull phase runs, so
	// the first tick already delivers a frame.
	loop.Tick()
	if img.Uploads() != 1 {
		t.Fatalf("Uploads() after one tick = %d, want 1", img.Uploads())
	}
	px := img.Bytes()[:4]
	if !bytes.Equal(px, []byte{10, 20, 30, 255}) {
		t.Errorf("pixel = %v, want [10 20 30 255]", px)
	}
}

func TestSurfaceCreationFailureIsolated(t *testing.T) {
	rt := software.New(software.Options{
		Painter: software.SolidPainter(1, 1, 1, 255),
		Reject:  func(url string) bool { return strings.Contains(url, "bad") },
	})
	e, loop := startEngine(t, rt, Config{})

	bad, err := e.NewSurface(SurfaceOptions{Size: Size{Width: 4, Height: 4}, URL: "http://bad.example"})
	if err != nil {
		t.Fatalf("NewSurface: %v", err)
	}
	err = bad.Activate(nil)
	if !errors.Is(err, ErrSurfaceCreation) || !errors.Is(err, software.ErrCreateRejected) {
		t.Fatalf("Activate error = %v, want ErrSurfaceCreation", err)
	}
	if bad.State() != SurfaceInitializing {
		t.Errorf("failed surface state = %v, want Initializing", bad.State())
	}

	good, img := activate(t, e, SurfaceOptions{Size: Size{Width: 4, Height: 4}, URL: "http://good.example"})
	loop.Tick()
	if img.Uploads() == 0 {
		t.Error("healthy surface received no frames")
	}
	if e.Surfaces() != 1 || e.Pump().Leases() != 1 {
		t.Errorf("Surfaces() = %d, leases = %d, want 1 and 1", e.Surfaces(), e.Pump().Leases())
	}

	bad.Quit()
	if bad.State() != SurfaceDestroyed {
		t.Errorf("State() after Quit = %v, want Destroyed", bad.State())
	}
	if good.State() != SurfaceActive {
		t.Errorf("healthy surface state = %v, want Active", good.State())
	}
}

func TestSurfaceActivateErrors(t *testing.T) {
	rt := &fakeRuntime{}
	e, _ := startEngine(t, rt, Config{})

	s, _ := activate(t, e, SurfaceOptions{Size: Size{Width: 4, Height: 4}})
	if err := s.Activate(nil); !errors.Is(err, ErrAlreadyActivated) {
		t.Errorf("second Activate error = %v, want ErrAlreadyActivated", err)
	}
	s.Quit()
	if err := s.Activate(nil); !errors.Is(err, ErrSurfaceDestroyed) {
		t.Errorf("Activate after Quit error = %v, want ErrSurfaceDestroyed", err)
	}

	other, _ := e.NewSurface(SurfaceOptions{Size: Size{Width: 4, Height: 4}})
	wrong, _ := texture.NewImage(Size{Width: 2, Height: 2})
	if err := other.Activate(wrong); !errors.Is(err, ErrTextureSize) {
		t.Errorf("Activate with wrong texture error = %v, want ErrTextureSize", err)
	}
	if other.State() != SurfaceUnconfigured {
		t.Errorf("State() = %v, want Unconfigured after a rejected texture", other.State())
	}
}

func TestSurfaceActivateAfterShutdown(t *testing.T) {
	rt := &fakeRuntime{}
	e, _ := startEngine(t, rt, Config{})
	s, err := e.NewSurface(SurfaceOptions{Size: Size{Width: 4, Height: 4}})
	if err != nil {
		t.Fatalf("NewSurface: %v", err)
	}
	e.Shutdown()

	if err := s.Activate(nil); !errors.Is(err, ErrEngineShutdown) {
		t.Errorf("Activate error = %v, want ErrEngineShutdown", err)
	}
	if len(rt.clients) != 0 {
		t.Error("browser created after shutdown")
	}
}

func TestSurfaceQuitOnce(t *testing.T) {
	rt := &fakeRuntime{}
	e, loop := startEngine(t, rt, Config{})
	s, _ := activate(t, e, SurfaceOptions{Size: Size{Width: 4, Height: 4}})

	b := newFakeBrowser(s.URL())
	b.load(rt.client(0))

	s.Quit()
	s.Quit()

	if got := b.host.closes.Load(); got != 1 {
		t.Errorf("CloseBrowser calls = %d, want 1", got)
	}
	if got := b.host.disposes.Load(); got != 1 {
		t.Errorf("Dispose calls = %d, want 1", got)
	}
	loop.Tick()
	if loop.Len() != 0 {
		t.Errorf("loop.Len() = %d after last surface quit, want 0", loop.Len())
	}
	if e.Pump().Leases() != 0 {
		t.Errorf("Leases() = %d, want 0", e.Pump().Leases())
	}
}

func TestSurfaceQuitUnactivated(t *testing.T) {
	e, _ := startEngine(t, &fakeRuntime{}, Config{})
	s, _ := e.NewSurface(SurfaceOptions{Size: Size{Width: 4, Height: 4}})
	s.Quit()
	if s.State() != SurfaceDestroyed {
		t.Errorf("State() = %v, want Destroyed", s.State())
	}
}

func TestPumpSharedAcrossSurfaces(t *testing.T) {
	rt := &fakeRuntime{}
	e, loop := startEngine(t, rt, Config{})

	a, _ := activate(t, e, SurfaceOptions{Size: Size{Width: 4, Height: 4}})
	b, _ := activate(t, e, SurfaceOptions{Size: Size{Width: 4, Height: 4}})

	loop.Tick()
	if got := rt.steps.Load(); got != 1 {
		t.Fatalf("steps after one tick = %d, want 1 with two surfaces", got)
	}

	a.Quit()
	loop.Tick()
	if !e.Pump().Running() {
		t.Fatal("pump stopped while a surface is still active")
	}

	b.Quit()
	loop.Tick()
	steps := rt.steps.Load()
	loop.Tick()
	if e.Pump().Running() || rt.steps.Load() != steps {
		t.Error("pump kept running after the last surface quit")
	}

	// A new activation restarts the pump.
	activate(t, e, SurfaceOptions{Size: Size{Width: 4, Height: 4}})
	loop.Tick()
	if rt.steps.Load() != steps+1 {
		t.Errorf("steps = %d, want %d after reactivation", rt.steps.Load(), steps+1)
	}
}

func TestSurfaceHideScrollbars(t *testing.T) {
	rt := &fakeRuntime{}
	e, _ := startEngine(t, rt, Config{})
	s, _ := activate(t, e, SurfaceOptions{Size: Size{Width: 4, Height: 4}, HideScrollbars: true})

	b := newFakeBrowser(s.URL())
	b.load(rt.client(0))
	b.load(rt.client(0))

	if len(b.frame.scripts) != 2 {
		t.Fatalf("scripts = %d, want one per main-frame load", len(b.frame.scripts))
	}
	if !strings.Contains(b.frame.scripts[0], "::-webkit-scrollbar") {
		t.Errorf("script = %q", b.frame.scripts[0])
	}
	if s.Bridge().Injections() != 2 {
		t.Errorf("Injections() = %d, want 2", s.Bridge().Injections())
	}
}

func TestSurfaceObserver(t *testing.T) {
	obs := &recordingObserver{}
	rt := software.New(software.Options{})
	e, loop := startEngine(t, rt, Config{Observer: obs})
	activate(t, e, SurfaceOptions{Size: Size{Width: 8, Height: 8}})

	for i := 0; i < 3; i++ {
		loop.Tick()
	}
	if obs.stepped.Load() != 3 {
		t.Errorf("PumpStepped = %d, want 3", obs.stepped.Load())
	}
	if obs.painted.Load() == 0 || obs.pulled.Load() == 0 {
		t.Errorf("painted = %d, pulled = %d, want both > 0", obs.painted.Load(), obs.pulled.Load())
	}
	if obs.leases.Load() != 1 {
		t.Errorf("leases = %d, want 1", obs.leases.Load())
	}
}

func TestSurfaceDuplicateName(t *testing.T) {
	obs := &forgettingObserver{}
	e, _ := startEngine(t, &fakeRuntime{}, Config{Observer: obs})
	size := Size{Width: 4, Height: 4}

	first, _ := activate(t, e, SurfaceOptions{Size: size, Name: "main"})
	if _, err := e.NewSurface(SurfaceOptions{Size: size, Name: "main"}); !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("NewSurface with live name error = %v, want ErrDuplicateName", err)
	}
	activate(t, e, SurfaceOptions{Size: size})
	activate(t, e, SurfaceOptions{Size: size})

	// Both pass NewSurface; only the first to activate holds the name.
	a, _ := e.NewSurface(SurfaceOptions{Size: size, Name: "side"})
	b, _ := e.NewSurface(SurfaceOptions{Size: size, Name: "side"})
	if err := a.Activate(nil); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if err := b.Activate(nil); !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("second Activate error = %v, want ErrDuplicateName", err)
	}
	if b.State() != SurfaceUnconfigured {
		t.Errorf("rejected surface state = %v, want Unconfigured", b.State())
	}
	if e.Surfaces() != 4 {
		t.Errorf("Surfaces() = %d, want 4", e.Surfaces())
	}

	b.Quit()
	if got := obs.Forgotten(); len(got) != 0 {
		t.Errorf("Forget calls after quitting the namesake = %v, want none", got)
	}
	a.Quit()
	if got := obs.Forgotten(); len(got) != 1 || got[0] != "side" {
		t.Errorf("Forget calls = %v, want [side]", got)
	}

	// The name is free again once its holder quit.
	activate(t, e, SurfaceOptions{Size: size, Name: "side"})
	if first.State() != SurfaceActive {
		t.Errorf("first surface state = %v, want Active", first.State())
	}
}
