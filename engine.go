package offscreen

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/gogpu/offscreen/browser"
	"github.com/gogpu/offscreen/pump"
	"github.com/gogpu/offscreen/tick"
)

// EngineState is the process-wide lifecycle state of the runtime.
// It only moves forward.
type EngineState int32

const (
	// StateUnstarted means no Start has succeeded yet.
	StateUnstarted EngineState = iota

	// StateRunning means the runtime is initialized and surfaces may be activated.
	StateRunning

	// StateShuttingDown means Shutdown has begun. Pump and pull tasks exit
	// at their next tick.
	StateShuttingDown

	// StateStopped means the runtime has been shut down.
	StateStopped
)

// String implements fmt.Stringer.
func (s EngineState) String() string {
	switch s {
	case StateUnstarted:
		return "Unstarted"
	case StateRunning:
		return "Running"
	case StateShuttingDown:
		return "ShuttingDown"
	case StateStopped:
		return "Stopped"
	default:
		return fmt.Sprintf("EngineState(%d)", int32(s))
	}
}

// process holds the runtime state shared by every Engine handle.
type process struct {
	// mu serializes Start and Shutdown.
	mu    sync.Mutex
	state atomic.Int32
	owner uuid.UUID

	rt       browser.Runtime
	loop     *tick.Loop
	pump     *pump.Scheduler
	observer Observer

	surfacesMu sync.Mutex
	surfaces   map[uuid.UUID]*Surface
}

func newProcess() *process {
	return &process{surfaces: make(map[uuid.UUID]*Surface)}
}

// proc is the single runtime slot of this process.
var proc = newProcess()

func (p *process) load() EngineState {
	return EngineState(p.state.Load())
}

func (p *process) shuttingDown() bool {
	return p.load() >= StateShuttingDown
}

// track registers s. Names are unique among tracked surfaces.
func (p *process) track(s *Surface) error {
	p.surfacesMu.Lock()
	defer p.surfacesMu.Unlock()
	if p.nameTakenLocked(s.name) {
		return fmt.Errorf("%w: %q", ErrDuplicateName, s.name)
	}
	p.surfaces[s.id] = s
	return nil
}

// forget unregisters s and reports whether it was tracked.
func (p *process) forget(s *Surface) bool {
	p.surfacesMu.Lock()
	defer p.surfacesMu.Unlock()
	_, ok := p.surfaces[s.id]
	delete(p.surfaces, s.id)
	return ok
}

func (p *process) nameTaken(name string) bool {
	p.surfacesMu.Lock()
	defer p.surfacesMu.Unlock()
	return p.nameTakenLocked(name)
}

func (p *process) nameTakenLocked(name string) bool {
	for _, o := range p.surfaces {
		if o.name == name {
			return true
		}
	}
	return false
}

func (p *process) live() []*Surface {
	p.surfacesMu.Lock()
	defer p.surfacesMu.Unlock()
	out := make([]*Surface, 0, len(p.surfaces))
	for _, s := range p.surfaces {
		out = append(out, s)
	}
	return out
}

// Engine is a handle on the process-wide runtime. The handle returned by the
// first successful Start is the owner; every other handle is a follower that
// shares the runtime but cannot shut it down.
type Engine struct {
	p     *process
	id    uuid.UUID
	owner bool
}

// Start initializes the runtime for this process, or joins it if another
// caller already did.
//
// The first successful call loads rt from cfg.LibraryPath, initializes it for
// windowless rendering with an external message pump, and returns the owning
// handle. Every later call returns a follower handle with a nil error and no
// side effects, even after the owner has shut down: the runtime cannot be
// initialized twice in one process.
//
// A failed Start leaves the process unstarted. The returned error wraps
// ErrRuntimeLoad or ErrRuntimeInit together with the runtime's error.
func Start(rt browser.Runtime, loop *tick.Loop, cfg Config) (*Engine, error) {
	p := proc
	p.mu.Lock()
	defer p.mu.Unlock()

	id := uuid.New()
	log := Logger()

	if p.load() != StateUnstarted {
		log.Debug("offscreen: engine already started, joining as follower",
			"handle", id, "owner", p.owner, "state", p.load())
		return &Engine{p: p, id: id}, nil
	}
	if rt == nil {
		return nil, ErrNilRuntime
	}
	if loop == nil {
		loop = tick.New()
	}
	cfg = cfg.withDefaults()

	if err := rt.Load(cfg.LibraryPath); err != nil {
		log.Error("offscreen: runtime load failed", "path", cfg.LibraryPath, "err", err)
		return nil, fmt.Errorf("%w: %w", ErrRuntimeLoad, err)
	}
	args := browser.MainArgs{Args: cfg.Args}
	if err := rt.Initialize(args, cfg.settings(), cfg.App); err != nil {
		log.Error("offscreen: runtime initialization failed", "err", err)
		return nil, fmt.Errorf("%w: %w", ErrRuntimeInit, err)
	}

	p.rt = rt
	p.loop = loop
	p.owner = id
	p.observer = cfg.Observer
	var opts []pump.Option
	if cfg.Observer != nil {
		opts = append(opts, pump.WithObserver(cfg.Observer))
	}
	p.pump = pump.New(rt, loop, p.shuttingDown, opts...)
	p.state.CompareAndSwap(int32(StateUnstarted), int32(StateRunning))

	if cfg.Persist != nil {
		cfg.Persist()
	}
	log.Info("offscreen: engine started", "owner", id,
		"severity", cfg.LogSeverity, "logFile", cfg.LogFile)
	return &Engine{p: p, id: id, owner: true}, nil
}

// Shutdown stops the runtime. Only the owning handle has any effect, and
// only once: calls from followers and repeated calls are no-ops.
//
// Shutdown signals the pump and every pull task to exit, quits every surface
// that is still live, stops the pump and shuts the runtime down. Browser
// teardown inside the runtime is requested but not awaited.
func (e *Engine) Shutdown() {
	if e == nil || !e.owner {
		return
	}
	p := e.p
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.state.CompareAndSwap(int32(StateRunning), int32(StateShuttingDown)) {
		return
	}
	log := Logger()
	live := p.live()
	log.Info("offscreen: engine shutting down", "owner", e.id, "surfaces", len(live))

	for _, s := range live {
		s.Quit()
	}
	p.pump.Stop()
	p.rt.Shutdown()
	p.state.Store(int32(StateStopped))
	log.Info("offscreen: engine stopped", "owner", e.id)
}

// Owner reports whether this handle owns the runtime.
func (e *Engine) Owner() bool { return e.owner }

// ID returns the handle's identifier.
func (e *Engine) ID() uuid.UUID { return e.id }

// OwnerID returns the identifier of the owning handle.
func (e *Engine) OwnerID() uuid.UUID {
	e.p.mu.Lock()
	defer e.p.mu.Unlock()
	return e.p.owner
}

// State returns the current process-wide state.
func (e *Engine) State() EngineState { return e.p.load() }

// ShuttingDown reports whether Shutdown has begun. It never reverts.
func (e *Engine) ShuttingDown() bool { return e.p.shuttingDown() }

// Runtime returns the process runtime.
func (e *Engine) Runtime() browser.Runtime { return e.p.rt }

// Loop returns the tick loop the pump and pull tasks run on.
func (e *Engine) Loop() *tick.Loop { return e.p.loop }

// Pump returns the shared message pump scheduler.
func (e *Engine) Pump() *pump.Scheduler { return e.p.pump }

// Surfaces returns the number of surfaces holding their name: activated, or
// mid-activation, and not yet quit.
func (e *Engine) Surfaces() int {
	e.p.surfacesMu.Lock()
	defer e.p.surfacesMu.Unlock()
	return len(e.p.surfaces)
}
