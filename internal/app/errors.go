package service

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrNotStarted   = errors.New("service not started")
	ErrBacklogFull  = errors.New("submission backlog full")
	ErrRangeTooLong = errors.New("date range exceeds limit")
	ErrTooManyItems = errors.New("item batch exceeds limit")
)
