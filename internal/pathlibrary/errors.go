// Package pathlibrary implements the Dynamic Path Library (C1): a persistent,
// growable mapping path_id -> ReasoningPath with performance tracking and
// recommendation scoring, backed by an in-memory, JSON-file, or SQLite store.
package pathlibrary

import "errors"

// ErrDuplicateID is returned by Add when path_id already exists in the library.
var ErrDuplicateID = errors.New("pathlibrary: duplicate path id")

// ErrNotFound is returned by Get/UpdatePerformance when path_id is unknown.
var ErrNotFound = errors.New("pathlibrary: path not found")
