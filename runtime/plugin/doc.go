// Package plugin is the narrow surface plugin authors import.
//
// Plugins import this package and never the parent "runtime" package:
//
//	import "github.com/sflowg/voltage/runtime/plugin"
//
// # Task Methods
//
// Exported methods with either signature are discovered as tasks:
//
//	func (p *PluginType) Name(exec *plugin.Execution, args plugin.Input) (plugin.Output, error)
//	func (p *PluginType) Name(exec *plugin.Execution, input InStruct) (OutStruct, error)
//
// Typed inputs are decoded from the args map by json tag and validated with
// `validate` tags before the method runs. Task naming: VoltagePlugin.Execute
// registered as "voltage" becomes "voltage.execute".
//
// # Configuration
//
// Plugins expose an exported Config struct with declarative tags:
//
//	type Config struct {
//	    APIKey  string `yaml:"api_key" validate:"required"`
//	    Timeout int    `yaml:"timeout" default:"30000"`
//	}
//
// The embedding binary prepares it with runtime.InitializeConfig before
// registering the plugin; Initialize then sees a defaulted, validated config.
//
// # Errors
//
// Tasks return *plugin.TaskError to attach metadata (error type, failing item
// index) that the HTTP entrypoint turns into status codes and response fields.
package plugin
