package storage

import "errors"

var (
	// ErrVersionConflict means the record changed since it was read.
	ErrVersionConflict = errors.New("record was modified concurrently")
	// ErrQuotaExceeded means the encoded record is larger than the storage quota.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	// ErrSerialization means the profile could not be encoded.
	ErrSerialization = errors.New("profile serialization failed")
	// ErrInvalidKey means a user key is not a 16-character alphanumeric token.
	ErrInvalidKey = errors.New("invalid user key")
)
