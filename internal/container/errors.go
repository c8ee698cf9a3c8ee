package container

import "errors"

var (
	// ErrDuplicateContainerName reports two definitions sharing a name.
	ErrDuplicateContainerName = errors.New("duplicate container name")

	// ErrInvalidName reports a name unusable as a path segment or
	// interface-name fragment.
	ErrInvalidName = errors.New("invalid container name")

	// ErrConflictingSource reports a definition with both or neither of an
	// inline config and a prebuilt system path.
	ErrConflictingSource = errors.New("exactly one of config and system_path must be set")

	// ErrInvalidBindSpec reports a malformed or duplicate bind mount.
	ErrInvalidBindSpec = errors.New("invalid bind mount")
)
