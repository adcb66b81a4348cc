package pipeline

import "errors"

// Domain errors for pipeline operations.
var (
	// ErrNoDraft indicates a requeued session reached the editing stage
	// without any draft in its checkpoint.
	ErrNoDraft = errors.New("no draft content available for editing")
)
