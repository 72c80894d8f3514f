package domain

import "errors"

// Storage-neutral errors. Every store backend translates its driver's
// not-found and unique-violation errors into these.
var (
	ErrRecordNotFound  = errors.New("record not found")
	ErrDuplicateRecord = errors.New("duplicate record")
)
