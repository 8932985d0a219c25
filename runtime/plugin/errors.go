package plugin

import "github.com/sflowg/voltage/runtime"

// TaskError carries an error plus metadata such as "type" and "item_index".
type TaskError = runtime.TaskError

const (
	ErrorTypeUserError = runtime.ErrorTypeUserError
	ErrorTypeUpstream  = runtime.ErrorTypeUpstream
	ErrorTypePermanent = runtime.ErrorTypePermanent
)

// NewTaskError wraps err with an empty metadata map.
func NewTaskError(err error) *TaskError {
	return runtime.NewTaskError(err)
}
