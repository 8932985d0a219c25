package runtime

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

type Container struct {
	tasks        map[string]Task
	plugins      map[string]any // Plugin instances (name -> plugin)
	initializers []Initializer
	shutdowners  []Shutdowner
}

func NewContainer() *Container {
	return &Container{
		tasks:   make(map[string]Task),
		plugins: make(map[string]any),
	}
}

func (c *Container) GetTask(name string) Task {
	task, ok := c.tasks[name]
	if !ok {
		return nil
	}
	return task
}

func (c *Container) SetTask(name string, task Task) {
	c.tasks[name] = task
}

// TaskNames lists registered tasks in sorted order.
func (c *Container) TaskNames() []string {
	names := make([]string, 0, len(c.tasks))
	for name := range c.tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetPlugin returns a plugin instance by name
func (c *Container) GetPlugin(name string) any {
	return c.plugins[name]
}

// RegisterPlugin registers a plugin instance and auto-discovers its tasks and interfaces.
// Task naming: PluginName.MethodName → "pluginname.methodName" (first letter lowercased).
func (c *Container) RegisterPlugin(pluginName string, plugin any) error {
	if plugin == nil {
		return fmt.Errorf("plugin cannot be nil")
	}
	if _, exists := c.plugins[pluginName]; exists {
		return fmt.Errorf("plugin %q already registered", pluginName)
	}

	c.plugins[pluginName] = plugin

	if i, ok := plugin.(Initializer); ok {
		c.initializers = append(c.initializers, i)
	}
	if s, ok := plugin.(Shutdowner); ok {
		c.shutdowners = append(c.shutdowners, s)
	}

	pluginType := reflect.TypeOf(plugin)
	pluginValue := reflect.ValueOf(plugin)

	for i := 0; i < pluginType.NumMethod(); i++ {
		method := pluginType.Method(i)
		if !method.IsExported() {
			continue
		}

		taskName := fmt.Sprintf("%s.%s", pluginName, toLowerFirst(method.Name))

		switch {
		case isMapTaskSignature(method.Type):
			c.tasks[taskName] = &pluginTaskWrapper{plugin: pluginValue, method: method}
		case isTypedTaskSignature(method.Type):
			c.tasks[taskName] = &typedTaskWrapper{
				plugin:  pluginValue,
				method:  method,
				inType:  method.Type.In(2),
				outType: method.Type.Out(0),
			}
		}
	}

	return nil
}

// Initialize calls Initialize on all plugins implementing Initializer, in registration order.
func (c *Container) Initialize() error {
	for i, plugin := range c.initializers {
		if err := plugin.Initialize(); err != nil {
			return fmt.Errorf("plugin #%d initialization failed: %w", i, err)
		}
	}
	return nil
}

// Shutdown calls Shutdown on all plugins implementing Shutdowner, in reverse order.
func (c *Container) Shutdown() error {
	var errs []error
	for i := len(c.shutdowners) - 1; i >= 0; i-- {
		if err := c.shutdowners[i].Shutdown(); err != nil {
			errs = append(errs, fmt.Errorf("plugin #%d shutdown failed: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

var (
	executionPtrType = reflect.TypeOf((*Execution)(nil))
	mapType          = reflect.TypeOf(map[string]any(nil))
	errorType        = reflect.TypeOf((*error)(nil)).Elem()
)

// isMapTaskSignature checks for func(exec *Execution, args map[string]any) (map[string]any, error)
func isMapTaskSignature(methodType reflect.Type) bool {
	if methodType.NumIn() != 3 || methodType.NumOut() != 2 {
		return false
	}
	return methodType.In(1) == executionPtrType &&
		methodType.In(2) == mapType &&
		methodType.Out(0) == mapType &&
		methodType.Out(1) == errorType
}

// isTypedTaskSignature checks for func(exec *Execution, input In) (Out, error) with struct In/Out
func isTypedTaskSignature(methodType reflect.Type) bool {
	if methodType.NumIn() != 3 || methodType.NumOut() != 2 {
		return false
	}
	return methodType.In(1) == executionPtrType &&
		methodType.In(2).Kind() == reflect.Struct &&
		methodType.Out(0).Kind() == reflect.Struct &&
		methodType.Out(1) == errorType
}

func toLowerFirst(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// pluginTaskWrapper wraps a map-based plugin method to implement Task
type pluginTaskWrapper struct {
	plugin reflect.Value
	method reflect.Method
}

func (w *pluginTaskWrapper) Execute(exec *Execution, args map[string]any) (map[string]any, error) {
	if args == nil {
		args = map[string]any{}
	}
	results := w.method.Func.Call([]reflect.Value{
		w.plugin,
		reflect.ValueOf(exec),
		reflect.ValueOf(args),
	})

	resultMap, _ := results[0].Interface().(map[string]any)

	var err error
	if !results[1].IsNil() {
		err = results[1].Interface().(error)
	}

	return resultMap, err
}

// typedTaskWrapper decodes the args map into the method's input struct,
// validates it, and converts the output struct back into a map.
type typedTaskWrapper struct {
	plugin  reflect.Value
	method  reflect.Method
	inType  reflect.Type
	outType reflect.Type
}

func (w *typedTaskWrapper) Execute(exec *Execution, args map[string]any) (map[string]any, error) {
	input := reflect.New(w.inType)
	if len(args) > 0 {
		if err := mapToStruct(args, input.Interface()); err != nil {
			return nil, NewTaskError(fmt.Errorf("invalid input for %s: %w", w.method.Name, err)).
				WithType(ErrorTypeUserError)
		}
	}

	if err := ValidateStruct(input.Elem().Interface()); err != nil {
		return nil, NewTaskError(fmt.Errorf("invalid input for %s: %w", w.method.Name, err)).
			WithType(ErrorTypeUserError)
	}

	results := w.method.Func.Call([]reflect.Value{
		w.plugin,
		reflect.ValueOf(exec),
		input.Elem(),
	})

	var err error
	if !results[1].IsNil() {
		err = results[1].Interface().(error)
	}

	// Output is converted even on error so partial results reach the caller
	output, convErr := structToMap(results[0].Interface())
	if convErr != nil {
		return nil, errors.Join(err, fmt.Errorf("failed to convert output of %s: %w", w.method.Name, convErr))
	}

	return output, err
}
