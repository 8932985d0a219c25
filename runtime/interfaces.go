package runtime

// Initializer interface allows plugins to perform startup initialization.
// Plugins implementing this interface will have Initialize called when the container starts.
type Initializer interface {
	// Initialize is called once, after the plugin config has been prepared.
	// Use this to build API clients and other long-lived collaborators.
	Initialize() error
}

// Shutdowner interface allows plugins to perform graceful shutdown.
// Plugins implementing this interface will have Shutdown called in reverse registration order.
type Shutdowner interface {
	Shutdown() error
}

// Task is a single invocable plugin operation registered in the container.
type Task interface {
	Execute(exec *Execution, args map[string]any) (map[string]any, error)
}
