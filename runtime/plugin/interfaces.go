package plugin

import (
	"github.com/sflowg/voltage/runtime"
)

// Initializer is called once at container startup, after config preparation.
// If Initialize returns an error, the application fails to start.
type Initializer = runtime.Initializer

// Shutdowner is called during graceful shutdown, in reverse registration order.
type Shutdowner = runtime.Shutdowner
