package repository

import "errors"

// Sentinel kinds for batch store errors.
var (
	ErrNotFound  = errors.New("batch not found")
	ErrEmpty     = errors.New("no batches stored")
	ErrInvalidID = errors.New("invalid batch id")
)
