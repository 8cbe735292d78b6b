// Package storage holds the errors every repository backend reports the same
// way, so use cases can branch on them without knowing the backend.
package storage

import "errors"

// ErrDuplicate is returned when a write violates a unique key.
var ErrDuplicate = errors.New("duplicate key value violates unique constraint")
