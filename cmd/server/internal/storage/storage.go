// Package storage wraps the MongoDB document store. It is the system of
// record for roadmaps and users; the cache layer in front of it only ever
// holds transient copies.
package storage

import "errors"

// MaxBatchOps is the per-batch operation ceiling for bulk writes. Writes
// exceeding it are split into multiple BulkWrite calls.
const MaxBatchOps = 500

var (
	// ErrNoDocuments is returned when a lookup matches nothing.
	ErrNoDocuments = errors.New("storage: document not found")

	// ErrDuplicate is returned when an insert violates a unique index.
	ErrDuplicate = errors.New("storage: duplicate key")
)
