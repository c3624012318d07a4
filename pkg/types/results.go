package types

import (
	"time"

	"github.com/google/uuid"
)

// ItemFailure records one item's failure inside a batch operation.
type ItemFailure struct {
	Filename string
	Message  string
}

// BatchResult summarizes a batch toggle/delete/update run. Failures are
// isolated per item; the batch itself never fails atomically.
type BatchResult struct {
	OperationID uuid.UUID
	Command     string
	Timestamp   time.Time
	Succeeded   int
	Skipped     []string
	Failed      []ItemFailure
}

// Ok reports whether every processed item succeeded.
func (r *BatchResult) Ok() bool {
	return len(r.Failed) == 0
}

// FailedNames returns the filenames of all failed items.
func (r *BatchResult) FailedNames() []string {
	names := make([]string, 0, len(r.Failed))
	for _, f := range r.Failed {
		names = append(names, f.Filename)
	}
	return names
}
