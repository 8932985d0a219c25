package runtime

// Error types attached to TaskError metadata under the "type" key.
const (
	ErrorTypeUserError = "user_error" // bad input; the caller must change the request
	ErrorTypeUpstream  = "upstream"   // the remote API rejected or failed the call
	ErrorTypePermanent = "permanent"
)

// TaskError wraps task execution errors with metadata
// Allows plugins to return execution metadata alongside errors for:
// - Error categorization (type: user_error, upstream, permanent)
// - Lineage (item_index of the input item that failed)
// - Warnings without errors (Err = nil, Metadata with warnings)
type TaskError struct {
	Err      error          // The underlying error (can be nil for warnings-only)
	Metadata map[string]any // Execution metadata (warnings, item index, error kind, etc.)
}

// Error implements the error interface
func (e *TaskError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return "task completed with metadata"
}

// Unwrap returns the underlying error for errors.Is and errors.As
func (e *TaskError) Unwrap() error {
	return e.Err
}

// NewTaskError creates a new task error with the given underlying error
func NewTaskError(err error) *TaskError {
	return &TaskError{
		Err:      err,
		Metadata: make(map[string]any),
	}
}

// WithMetadata adds metadata to the error
func (e *TaskError) WithMetadata(key string, value any) *TaskError {
	e.Metadata[key] = value
	return e
}

// WithMetadataMap adds multiple metadata entries
func (e *TaskError) WithMetadataMap(metadata map[string]any) *TaskError {
	for k, v := range metadata {
		e.Metadata[k] = v
	}
	return e
}

// WithType sets the error type (e.g., "upstream", "permanent", "user_error")
func (e *TaskError) WithType(errorType string) *TaskError {
	e.Metadata["type"] = errorType
	return e
}

// GetType returns the error type if set
func (e *TaskError) GetType() string {
	if val, ok := e.Metadata["type"]; ok {
		if errorType, ok := val.(string); ok {
			return errorType
		}
	}
	return ""
}

// GetItemIndex returns the failing item index if the task recorded one
func (e *TaskError) GetItemIndex() (int, bool) {
	switch v := e.Metadata["item_index"].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
