package library

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/JaimeStill/cookbook/internal/dispatch"
	"github.com/JaimeStill/cookbook/internal/recipes"
)

// DefaultCapacity is the number of libraries a Registry caches unless
// WithCapacity says otherwise.
const DefaultCapacity = 1024

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithCapacity bounds the number of cached libraries. Values below one
// keep the default.
func WithCapacity(n int) RegistryOption {
	return func(r *Registry) {
		if n > 0 {
			r.capacity = n
		}
	}
}

// WithClock overrides the clock used to track library use.
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		r.now = now
	}
}

type entry struct {
	lib      *Library
	lastUsed time.Time
}

// Registry lazily loads and caches one Library per owner. Every library
// shares the registry's system recipe catalog. When the cache is full the
// least recently used library is dropped, along with its open session.
type Registry struct {
	store      recipes.Store
	dispatcher dispatch.Dispatcher
	admins     []string
	base       *slog.Logger
	logger     *slog.Logger
	catalog    *Catalog
	capacity   int
	now        func() time.Time

	mu        sync.Mutex
	libraries map[string]*entry
}

// NewRegistry creates a registry. Owners listed in admins get privileged
// libraries that may edit system recipes and see system-only content.
func NewRegistry(
	store recipes.Store,
	dispatcher dispatch.Dispatcher,
	admins []string,
	logger *slog.Logger,
	opts ...RegistryOption,
) *Registry {
	r := &Registry{
		store:      store,
		dispatcher: dispatcher,
		admins:     slices.Clone(admins),
		base:       logger,
		logger:     logger.With("system", "registry"),
		catalog:    NewCatalog(),
		capacity:   DefaultCapacity,
		now:        time.Now,
		libraries:  make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Catalog returns the system recipe catalog shared by the cached libraries.
func (r *Registry) Catalog() *Catalog {
	return r.catalog
}

// Get returns the loaded library for owner, loading it on first use.
// The system owner cannot be addressed directly.
func (r *Registry) Get(ctx context.Context, owner string) (*Library, error) {
	if owner == recipes.SystemOwner {
		return nil, ErrReservedOwner
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.libraries[owner]; ok {
		e.lastUsed = r.now()
		return e.lib, nil
	}

	privileged := slices.Contains(r.admins, owner)

	lib := New(r.store, r.dispatcher, owner, Options{
		Privileged:     privileged,
		ShowSystemOnly: privileged,
		Catalog:        r.catalog,
	}, r.base)

	if err := lib.Load(ctx); err != nil {
		return nil, err
	}

	if len(r.libraries) >= r.capacity {
		r.evictOldest()
	}

	r.libraries[owner] = &entry{lib: lib, lastUsed: r.now()}
	return lib, nil
}

// Evict drops the cached library for owner so the next Get reloads it.
func (r *Registry) Evict(owner string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.libraries, owner)
}

// Len reports the number of cached libraries.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.libraries)
}

func (r *Registry) evictOldest() {
	var (
		oldest string
		at     time.Time
	)
	for owner, e := range r.libraries {
		if oldest == "" || e.lastUsed.Before(at) {
			oldest, at = owner, e.lastUsed
		}
	}

	delete(r.libraries, oldest)
	r.logger.Info("library evicted", "owner", oldest)
}
