package mallindex

import "github.com/kailas-cloud/mallindex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrConfiguration    = domain.ErrConfiguration
	ErrInvalidSnapshot  = domain.ErrInvalidSnapshot
	ErrEntryNotFound    = domain.ErrEntryNotFound
	ErrCategoryNotFound = domain.ErrCategoryNotFound
	ErrInvalidPath      = domain.ErrInvalidPath
	ErrBatchTooLarge    = domain.ErrBatchTooLarge
)
