// Package remote defines the contract with the cloud document store: the
// Session used by the sync loop, and the error taxonomy that decides
// whether a failed sync attempt is retried.
package remote

import (
	"context"
	"errors"
	"fmt"
)

// Session is an established connection to the document store. Update
// performs one synchronization pass. With download enabled, remote changes
// are pulled into the local tree; interactive controls whether overwrite
// conflicts may ask for confirmation.
type Session interface {
	Update(ctx context.Context, download, interactive bool) error
}

// Dialer establishes a Session. The sync loop treats a dial failure as
// fatal: session establishment is a precondition, not a retryable step.
type Dialer func(ctx context.Context) (Session, error)

// APIError is a known, retry-safe fault reported by the document store,
// such as a transient server error or a dropped connection. The sync loop
// retries these indefinitely.
type APIError struct {
	Op  string
	Err error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("remote API error during %s: %v", e.Op, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsRecoverable reports whether err is a known remote API fault that the
// sync loop should retry. Anything else is treated as fatal.
func IsRecoverable(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}
