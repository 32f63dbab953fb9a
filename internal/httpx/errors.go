package httpx

import "errors"

var (
	// ErrUnauthenticated marks credential failures that must end in a 401.
	ErrUnauthenticated = errors.New("unauthenticated")

	errTrailingData = errors.New("request body must contain a single JSON value")
)
