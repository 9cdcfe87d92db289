package routes

import "net/http"

// Route binds an HTTP method and pattern to a handler. Summary is a short
// description surfaced by the endpoint index.
type Route struct {
	Method  string
	Pattern string
	Summary string
	Handler http.HandlerFunc
}

// Endpoint is a registered route with its full path.
type Endpoint struct {
	Method  string `json:"method"`
	Path    string `json:"path"`
	Summary string `json:"summary,omitempty"`
}

// Pattern returns the ServeMux pattern for the endpoint.
func (e Endpoint) Pattern() string {
	return e.Method + " " + e.Path
}
