package server

import (
	"errors"
	"net/http"
)

// Sentinel errors for pipeline failures that have no cause of their own.
var (
	// ErrInvalidCSRF is logged when CSRF verification fails.
	ErrInvalidCSRF = errors.New("server: invalid CSRF token")

	// ErrOriginMismatch is logged when a POST comes from a foreign origin.
	ErrOriginMismatch = errors.New("server: request origin not allowed")

	// ErrNoAction is logged when a POST matches no route with an action.
	ErrNoAction = errors.New("server: no matching route defines an action")
)

// allowedMethods is sent with 405 responses.
const allowedMethods = "GET, HEAD, POST"

func isReadMethod(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}
