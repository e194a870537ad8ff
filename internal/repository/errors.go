package repository

import "errors"

var (
	// ErrNotFound marks a lookup for a record that does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrStorageUnavailable marks a failed store command (timeout,
	// throttling, connectivity).
	ErrStorageUnavailable = errors.New("storage unavailable")
)

func storageErr(err error) error {
	return errors.Join(ErrStorageUnavailable, err)
}
