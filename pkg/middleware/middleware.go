// Package middleware provides the HTTP middleware stack shared by modules.
package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/JaimeStill/cookbook/pkg/handlers"
)

// Middleware wraps a handler.
type Middleware = func(http.Handler) http.Handler

// System manages an ordered stack of HTTP middleware.
type System interface {
	Use(mw ...Middleware)
	Apply(handler http.Handler) http.Handler
}

type stack []Middleware

// New creates an empty middleware System.
func New() System {
	return &stack{}
}

func (s *stack) Use(mw ...Middleware) {
	*s = append(*s, mw...)
}

// Apply wraps handler so the first middleware added runs outermost.
func (s *stack) Apply(handler http.Handler) http.Handler {
	return Chain(*s...)(handler)
}

// Chain composes middleware so the first argument runs outermost.
func Chain(mw ...Middleware) Middleware {
	return func(handler http.Handler) http.Handler {
		for i := len(mw) - 1; i >= 0; i-- {
			handler = mw[i](handler)
		}
		return handler
	}
}

// Recover returns middleware that converts a handler panic into a 500 JSON
// error and logs the stack.
func Recover(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}
				logger.Error("handler panic", "panic", v, "uri", r.URL.RequestURI(), "stack", string(debug.Stack()))
				handlers.RespondError(w, logger, http.StatusInternalServerError, fmt.Errorf("internal error"))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
