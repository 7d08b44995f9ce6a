package batch

// ItemStatus is the processing outcome of a single batch item.
type ItemStatus string

// Batch item status values.
const (
	StatusIndexed ItemStatus = "indexed"
	StatusError   ItemStatus = "error"
)

// Result is the outcome of indexing one variant of a batch.
type Result struct {
	variantID int64
	key       string
	status    ItemStatus
	err       error
}

// NewIndexed creates a successful batch result.
func NewIndexed(variantID int64, key string) Result {
	return Result{variantID: variantID, key: key, status: StatusIndexed}
}

// NewError creates a failed batch result.
func NewError(variantID int64, err error) Result {
	return Result{variantID: variantID, status: StatusError, err: err}
}

// VariantID returns the source variant id.
func (r Result) VariantID() int64 { return r.variantID }

// Key returns the entry key; empty on failure.
func (r Result) Key() string { return r.key }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }
