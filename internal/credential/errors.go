package credential

import "errors"

// Failure taxonomy for the acquisition pipeline. Callers branch on these with
// errors.Is; everything else is wrapped detail.
var (
	// ErrConfig means the cache document exists but cannot be used (missing
	// file or invalid structure). Fatal to the run, never retried.
	ErrConfig = errors.New("credential cache document missing or malformed")

	// ErrPersistence means a cache write failed. Non-fatal: the freshly
	// acquired credential is still usable in memory for the current run.
	ErrPersistence = errors.New("credential cache write failed")

	// ErrSessionInit means the browser automation instance could not start.
	ErrSessionInit = errors.New("automation session could not start")

	// ErrAcquisition means no valid credential could be produced by any path.
	ErrAcquisition = errors.New("no valid credential could be acquired")
)
