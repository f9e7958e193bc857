package repository

import "errors"

// Sentinel kinds for plan store errors.
var (
	ErrNotFound = errors.New("plan not found")
	ErrExists   = errors.New("plan id already exists")
)
