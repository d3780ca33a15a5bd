package inference

import "errors"

// Inference client errors.
var (
	// ErrUnavailable means the inference server could not be reached or
	// failed its health check at startup.
	ErrUnavailable = errors.New("inference server unavailable")
	// ErrBadResponse means the server answered with a non-OK status or a
	// payload that could not be decoded.
	ErrBadResponse = errors.New("malformed inference response")
)
