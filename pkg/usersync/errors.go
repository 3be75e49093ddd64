package usersync

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput   = errors.New("usersync: invalid input")
	ErrRecordNotFound = errors.New("usersync: user access record not found")
	ErrSyncFailed     = errors.New("usersync: claim sync failed")
	ErrRoundTrip      = errors.New("usersync: written claims do not reproduce intended decisions")
)

// SyncError is returned when metadata could not be written to the identity
// provider. The previously written metadata stays authoritative.
type SyncError struct {
	UserID   string
	Attempts int
	Err      error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("usersync: sync claims for %q failed after %d attempt(s): %v", e.UserID, e.Attempts, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }

func (e *SyncError) Is(target error) bool { return target == ErrSyncFailed }
