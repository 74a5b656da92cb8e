// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package browser defines the boundary between offscreen and a browser
// runtime: the control surface (Runtime), the objects handed to callbacks
// (Browser, Host, Frame) and the callbacks a client implements
// (RenderHandler, LoadHandler).
//
// The runtime is a black box. It is driven through Runtime and reports
// back through a Client from goroutines it owns.
//
// # Backends
//
// Runtimes register in a priority Registry so hosts can pick the best one
// available on the machine:
//
//	import _ "github.com/gogpu/offscreen/browser/software"
//
//	rt, err := browser.NewRuntime()
package browser
