package database

import "errors"

var (
	// ErrNotReady indicates the startup ping or migration has not succeeded.
	ErrNotReady = errors.New("database not ready")
	// ErrDirtySchema indicates a previous migration failed partway and the
	// schema needs a forced version before it can move again.
	ErrDirtySchema = errors.New("database schema is dirty")
)
