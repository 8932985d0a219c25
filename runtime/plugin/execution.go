package plugin

import "github.com/sflowg/voltage/runtime"

// Execution is the runtime context passed to every plugin task method.
// It implements context.Context, so it can be handed straight to network calls:
//
//	func (p *MyPlugin) Task(exec *plugin.Execution, args plugin.Input) (plugin.Output, error) {
//	    result, err := p.client.Fetch(exec, args["id"].(string))
//	    return plugin.Output{"result": result}, err
//	}
type Execution = runtime.Execution
