// internal/locking/errors.go
package locking

import "fmt"

// InvalidSpecError is returned when a lock request is malformed, for example
// when the derived TTL is not positive. The backend is never contacted.
type InvalidSpecError struct {
	Name   string
	Reason string
}

func (e *InvalidSpecError) Error() string {
	return fmt.Sprintf("invalid lock spec %q: %s", e.Name, e.Reason)
}

// AcquireError is returned when an acquire attempt could not be decided:
// the backend reported a failure, or the request timed out. A timeout is
// never reported as contention, since the write may have landed.
type AcquireError struct {
	Name  string
	Cause error
}

func (e *AcquireError) Error() string {
	return fmt.Sprintf("failed to acquire lock %q: %v", e.Name, e.Cause)
}

func (e *AcquireError) Unwrap() error {
	return e.Cause
}

// ReleaseError is returned when a release attempt failed or timed out.
// The caller should assume the entry may still exist and rely on its TTL.
type ReleaseError struct {
	Name  string
	Cause error
}

func (e *ReleaseError) Error() string {
	return fmt.Sprintf("failed to release lock %q: %v", e.Name, e.Cause)
}

func (e *ReleaseError) Unwrap() error {
	return e.Cause
}
