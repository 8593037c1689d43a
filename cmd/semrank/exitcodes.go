package main

import (
	"errors"

	"github.com/matsen/semrank/internal/embedding"
	"github.com/matsen/semrank/internal/relevance"
	"github.com/matsen/semrank/internal/storage"
)

// Exit codes
const (
	ExitSuccess          = 0 // Success
	ExitError            = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError      = 2 // Configuration error (no repository, missing config, invalid paths)
	ExitDataError        = 3 // Data error (malformed input, validation failure, corrupt snapshot)
	ExitContextError     = 4 // Research context not loaded, empty, or stale
	ExitModelUnavailable = 5 // Embedding model unknown, not installed, or unreachable
	ExitNotFound         = 6 // No document with the requested id
)

// exitCodeFor maps an error to the exit code for its kind.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, relevance.ErrContextNotLoaded), errors.Is(err, relevance.ErrEmptyContext):
		return ExitContextError
	case errors.Is(err, embedding.ErrEncoderUnavailable):
		return ExitModelUnavailable
	case errors.Is(err, storage.ErrNotFound):
		return ExitNotFound
	case errors.Is(err, storage.ErrInvalidInput), errors.Is(err, storage.ErrCorrupt):
		return ExitDataError
	default:
		return ExitError
	}
}
