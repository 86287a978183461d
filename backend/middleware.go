package backend

// Middleware transforms a Backend by wrapping it. The returned backend
// typically delegates to the original while adding cross-cutting behavior
// (logging, tracing, panic recovery, error accounting).
type Middleware func(Backend) Backend

// Chain composes multiple middlewares into one. Middlewares are applied
// in order: the first middleware is outermost (executes first on the
// way in, last on the way out).
//
// Chain(a, b, c)(backend) is equivalent to a(b(c(backend))).
func Chain(middlewares ...Middleware) Middleware {
	return func(inner Backend) Backend {
		for i := len(middlewares) - 1; i >= 0; i-- {
			inner = middlewares[i](inner)
		}
		return inner
	}
}
