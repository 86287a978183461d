package middleware

import "net/http"

// Middleware wraps an http.Handler with additional behavior. Middleware
// that needs the raw request or response stream (request logging, body
// limits, CORS preflight) applies at the server handler level, outside
// the Gin engine; panic recovery and request ids run inside Gin where
// the context is available.
type Middleware func(http.Handler) http.Handler

// Chain composes multiple middleware. The first in the list is the
// outermost (runs first on a request, last on a response).
func Chain(middlewares ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}
