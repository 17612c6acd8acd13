package repository

import (
	"errors"

	"github.com/lib/pq"
)

// ErrDuplicate marks a storage-level unique constraint violation. The unique
// indexes are the authoritative uniqueness guard; service-level existence
// pre-checks only produce friendlier messages.
var ErrDuplicate = errors.New("unique constraint violated")

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
