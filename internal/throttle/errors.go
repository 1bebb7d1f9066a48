package throttle

import "errors"

var (
	// ErrCorruptLog means the request log exists but cannot be parsed.
	// Callers must stop: treating it as empty would reset the quota.
	ErrCorruptLog = errors.New("request log is corrupt")

	// ErrRunInProgress means another process holds the run lock.
	ErrRunInProgress = errors.New("another run is in progress")
)
