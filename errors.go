package gerrit

import "errors"

var (
	// Extension errors.
	ErrNotPresent = errors.New("gerrit: extension implementation not present")
	ErrUnexpected = errors.New("gerrit: unexpected error from extension")

	// Request errors.
	ErrBadDeadline = errors.New("gerrit: invalid request deadline")
)
