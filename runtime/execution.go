package runtime

import (
	"context"
	"time"

	"github.com/google/uuid"
)

var _ context.Context = &Execution{}

// Execution is the per-invocation context handed to task methods.
// It carries the invocation id, the container, and the caller's context
// so deadlines and cancellation reach plugin network calls.
type Execution struct {
	ID        string
	Node      string // preset id when triggered through a node preset, empty otherwise
	Container *Container
	values    map[string]any
	ctx       context.Context // real context carrying deadline/cancellation
}

// context.Context implementation - delegates to the embedded ctx so that real
// timeouts and cancellations propagate through slog and plugin calls.

func (e *Execution) Deadline() (deadline time.Time, ok bool) {
	return e.ctx.Deadline()
}

func (e *Execution) Done() <-chan struct{} {
	return e.ctx.Done()
}

func (e *Execution) Err() error {
	return e.ctx.Err()
}

func (e *Execution) Value(key any) any {
	k, ok := key.(string)
	if !ok {
		return e.ctx.Value(key)
	}
	if v, ok := e.values[k]; ok {
		return v
	}
	return e.ctx.Value(key)
}

// WithContext returns a shallow copy of the Execution with a new embedded
// context. Mirrors the http.Request.WithContext pattern.
func (e *Execution) WithContext(ctx context.Context) *Execution {
	copy := *e
	copy.ctx = ctx
	return &copy
}

func (e *Execution) AddValue(k string, v any) {
	e.values[k] = v
}

// Values returns the execution-scoped values (request metadata and the like).
func (e *Execution) Values() map[string]any {
	return e.values
}

func NewExecution(ctx context.Context, container *Container) *Execution {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Execution{
		ID:        uuid.New().String(),
		Container: container,
		values:    make(map[string]any),
		ctx:       ctx,
	}
}
