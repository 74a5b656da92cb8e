// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package browser

import (
	"os"
	"path/filepath"
	"runtime"
)

// CommandLine is the runtime's mutable command line.
type CommandLine interface {
	AppendSwitch(name, value string)
}

// App receives process-level callbacks from the runtime.
type App interface {
	OnBeforeCommandLineProcessing(processType string, cmd CommandLine)
}

// DefaultApp points the runtime at its resource and locale directories on
// Linux, where the runtime resolves them relative to the main executable
// instead of its own shared library.
type DefaultApp struct {
	// ResourcesDir defaults to the directory of the running executable.
	ResourcesDir string

	// GOOS defaults to runtime.GOOS.
	GOOS string
}

// OnBeforeCommandLineProcessing implements App.
func (a DefaultApp) OnBeforeCommandLineProcessing(processType string, cmd CommandLine) {
	goos := a.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	if goos != "linux" {
		return
	}
	dir := a.ResourcesDir
	if dir == "" {
		exe, err := os.Executable()
		if err != nil {
			return
		}
		dir = filepath.Dir(exe)
	}
	cmd.AppendSwitch("resources-dir-path", dir)
	cmd.AppendSwitch("locales-dir-path", filepath.Join(dir, "locales"))
}
