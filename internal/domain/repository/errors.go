package repository

import "errors"

// Sentinel errors shared by all repository implementations. Callers must be
// able to tell a missing record apart from a store failure: a flag that was
// concurrently closed by another admin surfaces as ErrFlagNotFound and the
// caller refreshes its view instead of retrying.
var (
	ErrFlagNotFound    = errors.New("flag not found")
	ErrAccountNotFound = errors.New("account not found")
)
