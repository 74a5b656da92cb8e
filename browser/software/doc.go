// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package software is an in-process browser runtime that paints synthetic
// pages. It registers itself as the "software" backend with priority 10.
//
// It follows the threading contract of a native off-screen engine running
// with an external message pump: navigation callbacks are delivered from
// DoMessageLoopWork, and with Options.FrameInterval set every browser
// paints from its own goroutine, concurrently with the host tick.
//
// It exists so hosts and tests can exercise the full surface pipeline
// without a native engine installed.
package software
