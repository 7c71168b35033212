package orbit

import "errors"

var (
	// ErrEngineNotConfigured is returned when a tracking operation is
	// requested before a tracking engine has been attached with SetEngine.
	// This is a programming error and callers should treat it as fatal.
	ErrEngineNotConfigured = errors.New("orbit: tracking engine not configured")

	// ErrUnknownState is returned when a state index is outside the range
	// created by the last InitialiseTracking call.
	ErrUnknownState = errors.New("orbit: unknown tracking state")
)
