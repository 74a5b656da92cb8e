// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package bridge is the two-sided render pipeline of one browser surface.
//
// The runtime writes frames through the paint sink (Bridge.OnPaint) from
// any goroutine at any rate. The host reads the latest complete frame with
// Bridge.PullInto once per tick. Both sides hold the same frame lock for
// exactly one copy, so a pulled texture always equals one whole painted
// frame.
//
// The load sink captures the browser's host handle on the first main-frame
// load. Until then PullInto is a no-op; after Shutdown it is a no-op again.
package bridge
