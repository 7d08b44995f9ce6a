package chi

import (
	"github.com/kailas-cloud/mallindex/internal/transport/snapshot"
)

// ErrorCode is a machine-readable error identifier.
type ErrorCode string

// Error codes returned by the API.
const (
	CodeBadRequest         ErrorCode = "bad_request"
	CodeUnauthorized       ErrorCode = "unauthorized"
	CodeValidationFailed   ErrorCode = "validation_failed"
	CodeInvalidSnapshot    ErrorCode = "invalid_snapshot"
	CodeConfigurationError ErrorCode = "configuration_error"
	CodeEntryNotFound      ErrorCode = "entry_not_found"
	CodeCategoryNotFound   ErrorCode = "category_not_found"
	CodeInvalidPath        ErrorCode = "invalid_path"
	CodeBatchTooLarge      ErrorCode = "batch_too_large"
	CodeInternalError      ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// IndexVariantRequest is the body of POST /v1/entries/variants.
type IndexVariantRequest struct {
	Variant snapshot.Variant `json:"variant"`
	Overlay map[string]any   `json:"overlay,omitempty"`
}

// EntryResponse carries a built or stored document.
type EntryResponse struct {
	Key      string         `json:"key"`
	Document map[string]any `json:"document"`
	DryRun   bool           `json:"dry_run,omitempty"`
}

// BatchIndexRequest is the body of POST /v1/entries/variants/batch.
type BatchIndexRequest struct {
	Variants []snapshot.Variant `json:"variants"`
}

// BatchResultItem is the outcome of one batch item.
type BatchResultItem struct {
	VariantID int64          `json:"variant_id"`
	Key       string         `json:"key,omitempty"`
	Status    string         `json:"status"`
	Error     *ErrorResponse `json:"error,omitempty"`
}

// BatchIndexResponse is the body returned for a batch.
type BatchIndexResponse struct {
	Items     []BatchResultItem `json:"items"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
}

// ReplaceCategoriesResponse is the body returned after a tree load.
type ReplaceCategoriesResponse struct {
	Count int `json:"count"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
