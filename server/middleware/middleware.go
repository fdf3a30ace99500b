package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Middleware decorates the server's root handler, so it sees the upload
// routes and the static file routes alike.
type Middleware func(http.Handler) http.Handler

// Chain composes mws so that mws[0] is outermost.
func Chain(mws ...Middleware) Middleware {
	return func(h http.Handler) http.Handler {
		for i := len(mws) - 1; i >= 0; i-- {
			h = mws[i](h)
		}
		return h
	}
}

// GinWrap runs mw inside a gin chain. Request changes made by mw, such as
// a context value, are handed back to gin. When mw answers without calling
// the next handler the gin chain is aborted. Middleware that wraps the
// ResponseWriter is not visible to gin handlers this way; install it with
// Server.Use instead.
func GinWrap(mw Middleware) gin.HandlerFunc {
	return func(c *gin.Context) {
		called := false
		mw(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			called = true
			c.Request = r
			c.Next()
		})).ServeHTTP(c.Writer, c.Request)
		if !called {
			c.Abort()
		}
	}
}
