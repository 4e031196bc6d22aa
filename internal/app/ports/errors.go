package ports

import "errors"

// Storage-level failures surface as these sentinels. ErrConflict covers
// both optimistic-version mismatches and creating an account at an address
// that is already in use.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)
