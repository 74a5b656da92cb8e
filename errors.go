package offscreen

import "errors"

// Engine errors. ErrRuntimeLoad and ErrRuntimeInit are fatal for the process:
// the runtime cannot be retried once it has failed to come up.
var (
	// ErrRuntimeLoad is returned by Start when the runtime library cannot be loaded.
	ErrRuntimeLoad = errors.New("offscreen: runtime library load failed")

	// ErrRuntimeInit is returned by Start when runtime initialization fails.
	ErrRuntimeInit = errors.New("offscreen: runtime initialization failed")

	// ErrNilRuntime is returned by Start when no runtime is supplied.
	ErrNilRuntime = errors.New("offscreen: nil runtime")

	// ErrEngineShutdown is returned when a surface is created or activated
	// after the engine began shutting down.
	ErrEngineShutdown = errors.New("offscreen: engine is shutting down")
)

// Surface errors. These affect only the surface that reported them.
var (
	// ErrSurfaceCreation is returned by Activate when the runtime refuses to
	// create the browser instance.
	ErrSurfaceCreation = errors.New("offscreen: browser creation failed")

	// ErrInvalidDimensions is returned for non-positive surface sizes.
	ErrInvalidDimensions = errors.New("offscreen: invalid surface dimensions")

	// ErrInvalidURL is returned when the start URL cannot be parsed.
	ErrInvalidURL = errors.New("offscreen: invalid url")

	// ErrAlreadyActivated is returned by a second Activate call.
	ErrAlreadyActivated = errors.New("offscreen: surface already activated")

	// ErrSurfaceDestroyed is returned by Activate after Quit.
	ErrSurfaceDestroyed = errors.New("offscreen: surface destroyed")

	// ErrTextureSize is returned by Activate when the texture does not match
	// the surface size.
	ErrTextureSize = errors.New("offscreen: texture size does not match surface")

	// ErrDuplicateName is returned when another live surface already uses
	// the requested name.
	ErrDuplicateName = errors.New("offscreen: surface name in use")
)
