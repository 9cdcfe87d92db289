// Package routes declares HTTP routes as nested groups and registers them on
// a ServeMux.
package routes

import (
	"cmp"
	"net/http"
	"slices"
)

// Group organizes routes under a common prefix. Children inherit the prefix.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Register adds all routes from the given groups to the mux and returns the
// registered endpoints ordered by path, then method.
func Register(mux *http.ServeMux, groups ...Group) []Endpoint {
	var endpoints []Endpoint
	for _, group := range groups {
		group.walk("", func(e Endpoint, h http.HandlerFunc) {
			mux.HandleFunc(e.Pattern(), h)
			endpoints = append(endpoints, e)
		})
	}

	slices.SortFunc(endpoints, func(a, b Endpoint) int {
		return cmp.Or(cmp.Compare(a.Path, b.Path), cmp.Compare(a.Method, b.Method))
	})
	return endpoints
}

func (g Group) walk(parent string, fn func(Endpoint, http.HandlerFunc)) {
	prefix := parent + g.Prefix
	for _, route := range g.Routes {
		fn(Endpoint{
			Method:  route.Method,
			Path:    prefix + route.Pattern,
			Summary: route.Summary,
		}, route.Handler)
	}
	for _, child := range g.Children {
		child.walk(prefix, fn)
	}
}
