package identity

import "errors"

var (
	ErrEmptyUserID      = errors.New("identity: empty user id")
	ErrUserNotFound     = errors.New("identity: user not found")
	ErrProviderRequest  = errors.New("identity: provider request failed")
	ErrProviderRejected = errors.New("identity: provider rejected request")
	ErrMissingSecretKey = errors.New("identity: missing provider secret key")
	ErrInvalidMetadata  = errors.New("identity: invalid metadata payload")
)

// IsPermanent reports whether retrying the operation cannot succeed.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrProviderRejected) ||
		errors.Is(err, ErrEmptyUserID) ||
		errors.Is(err, ErrInvalidMetadata)
}
