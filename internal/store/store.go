// Package store persists claims flagged for human review. The queue is
// append-only: the core inserts entries and reads them back, and only the
// reviewer workflow moves an entry from Pending to Resolved.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/sells-group/claims-cli/internal/model"
)

// Filter narrows a review-queue query.
type Filter struct {
	Status model.ReviewWorkflowStatus `json:"status,omitempty"`
	Limit  int                        `json:"limit,omitempty"`
}

// ReviewStore is the persistence boundary for the human-review queue.
// Implementations create their schema lazily and idempotently, so Insert
// and Query are safe before any explicit migration call.
type ReviewStore interface {
	// Insert appends a new review entry and returns its surrogate key.
	Insert(ctx context.Context, entry model.ReviewEntry) (int64, error)
	// Query returns entries matching the filter, newest first. It never
	// mutates the queue.
	Query(ctx context.Context, filter Filter) ([]model.ReviewEntry, error)
	// Resolve marks an entry as handled by a reviewer.
	Resolve(ctx context.Context, id int64) error

	Migrate(ctx context.Context) error
	Close() error
}

// StorageError marks a review-store failure so callers can tell it apart
// from validation outcomes. The claim's in-memory status is still valid
// when one of these is returned, but the durable review record may be lost.
type StorageError struct {
	Op    string
	Cause error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Cause)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

// IsStorageError reports whether err is (or wraps) a StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

func storageErr(op string, cause error) error {
	if cause == nil {
		return nil
	}
	return &StorageError{Op: op, Cause: cause}
}
