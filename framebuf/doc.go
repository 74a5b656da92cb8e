// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package framebuf provides the fixed-size BGRA frame exchanged between a
// browser runtime's paint callbacks and the host's per-tick texture pull.
//
// # Byte Order
//
// Frames are stored as B, G, R, A per pixel, row-major, with no padding.
// This matches both the runtime's native paint layout and the host texture
// format, so the pull path never reorders channels. ToRGBA and FromRGBA
// exist for snapshots and tests only.
//
// # Thread Safety
//
// Buffer is safe for concurrent use. The only expected pattern is one
// writer goroutine owned by the runtime against one reader on the host tick.
package framebuf
