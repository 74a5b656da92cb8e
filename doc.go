// Package offscreen renders web content into host textures.
//
// # Overview
//
// offscreen embeds an off-screen browser runtime in a host application that
// drives its own frame loop. Each Surface owns one windowless browser
// instance; the runtime paints BGRA frames into the surface's bridge from its
// own goroutines, and the host copies the latest frame into a texture once per
// tick. A single shared pump task advances the runtime's event processing on
// the host tick while any surface is active.
//
// # Quick Start
//
//	rt, err := browser.NewRuntime() // highest-priority registered backend
//	if err != nil {
//		log.Fatal(err)
//	}
//	loop := tick.New()
//
//	eng, err := offscreen.Start(rt, loop, offscreen.Config{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer eng.Shutdown()
//
//	s, err := eng.NewSurface(offscreen.SurfaceOptions{
//		Size: offscreen.Size{Width: 1280, Height: 720},
//		URL:  "https://example.com",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := s.Activate(nil); err != nil { // nil allocates a CPU texture
//		log.Fatal(err)
//	}
//	defer s.Quit()
//
//	loop.Run(ctx, 16*time.Millisecond)
//
// # Lifecycle
//
// The runtime may be initialized at most once per process. The first
// successful Start becomes the owner; later calls return follower handles that
// share the owner's runtime and loop but cannot shut it down. Shutdown is
// monotonic: once it begins, the pump and every pull task exit at their next
// tick, and new activations fail with ErrEngineShutdown.
//
// # Threading
//
// Start, Shutdown, Activate, Quit and tick.Loop.Tick are host-side calls and
// should come from the goroutine that drives the loop. Paint and load
// callbacks may arrive on any goroutine. Each surface's frame buffer is
// guarded by its own mutex, held only for the duration of a copy.
//
// # Logging
//
// offscreen is silent by default. Use SetLogger to route diagnostics to a
// slog.Logger.
package offscreen
