package middleware

import (
	"net/http"
	"slices"
)

// Middleware wraps a handler with cross-cutting behavior.
type Middleware = func(http.Handler) http.Handler

// Chain wraps h so that requests pass through middlewares in the order given:
// Chain(mux, RequestID, RequestLogging) runs RequestID first.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for _, mw := range slices.Backward(middlewares) {
		h = mw(h)
	}
	return h
}
