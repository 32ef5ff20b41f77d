package versions

import (
	"errors"
	"fmt"
)

// Set construction errors
var (
	ErrEmptySet         = errors.New("version set is empty")
	ErrInvalidVersion   = errors.New("invalid sdk version")
	ErrDuplicateVersion = errors.New("duplicate sdk version")
	ErrDuplicatePrefix  = errors.New("duplicate symbol prefix")
	ErrUnknownDefault   = errors.New("default version is not registered")
)

// ErrUnsupportedVersion is matched by *UnsupportedVersionError.
var ErrUnsupportedVersion = errors.New("sdk version not supported")

// UnsupportedVersionError reports a manifest that requires an SDK version this
// host does not bundle. The content cannot run and the caller must reject it.
type UnsupportedVersionError struct {
	Requested string
	Available []string
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("sdk version %q not supported (available: %v)", e.Requested, e.Available)
}

// Is makes errors.Is(err, ErrUnsupportedVersion) hold.
func (e *UnsupportedVersionError) Is(target error) bool {
	return target == ErrUnsupportedVersion
}
