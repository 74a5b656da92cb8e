// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package tick is a cooperative per-frame task loop.
//
// A host application calls Loop.Tick once per frame from its main thread.
// Every active task runs exactly once per tick, with one suspension point
// per tick: a task does a bounded amount of work and returns Continue to be
// called again next tick, or Done to finish.
//
// Tasks are ordered by Phase. The browser message pump runs in PhasePump,
// before any surface pulls its frame in PhasePull, so paint callbacks fired
// synchronously by the pump are visible to the same tick's pulls.
//
// Headless hosts can use Loop.Run to drive ticks from a time.Ticker.
package tick
