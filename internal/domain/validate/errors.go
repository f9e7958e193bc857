package validate

import "errors"

// Sentinel kinds for validation failures. Issues map onto these so
// callers can use errors.Is without inspecting issue kinds directly.
var (
	ErrRange         = errors.New("range start after end")
	ErrInvalidDate   = errors.New("pinned date does not parse")
	ErrOutOfRange    = errors.New("pinned date outside range")
	ErrDuplicateDate = errors.New("duplicate pinned date")
	ErrConflict      = errors.New("pinned date already reserved")
	ErrCapacity      = errors.New("not enough free dates")
)
