package api

import (
	"github.com/JaimeStill/cookbook/internal/library"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Libraries *library.Registry
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	return &Domain{
		Libraries: library.NewRegistry(
			runtime.Store,
			runtime.Dispatcher,
			runtime.Admins,
			runtime.Logger,
			library.WithCapacity(runtime.MaxLibraries),
		),
	}
}
