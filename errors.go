package doot

import "errors"

// Standard doot errors returned during registration and dispatch.
var (
	// Configuration errors, surfaced at registration time
	ErrDuplicateTask    = errors.New("doot: task already registered")
	ErrReservedName     = errors.New("doot: task name is reserved")
	ErrInvalidName      = errors.New("doot: invalid task name")
	ErrBadCallable      = errors.New("doot: unsupported task function signature")
	ErrPassthroughArity = errors.New("doot: passthrough task must accept an extra argument list")
	ErrMultipleDefaults = errors.New("doot: there can only be one default task")
	ErrRegistryFrozen   = errors.New("doot: tasks cannot be registered after dispatch has begun")

	// Dispatch errors
	ErrUnknownTask = errors.New("doot: unknown task")
)
