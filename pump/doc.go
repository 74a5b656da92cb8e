// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package pump drives a browser runtime's external message pump from the
// host tick loop.
//
// One Scheduler exists per engine. Every active surface holds a Lease; the
// pump task runs in tick.PhasePump while the lease count is positive and
// the engine has not started shutting down. When the last lease is released
// the task exits at the next tick boundary, and the next EnsureStarted
// schedules it again.
package pump
