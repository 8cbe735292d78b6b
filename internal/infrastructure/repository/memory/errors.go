package memory

import "github.com/riskibarqy/futgol/internal/platform/storage"

// ErrDuplicate mirrors a unique constraint violation in the SQL store.
var ErrDuplicate = storage.ErrDuplicate
