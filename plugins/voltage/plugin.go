package voltage

import (
	"errors"
	"fmt"

	"github.com/sflowg/voltage/runtime/plugin"
)

// VoltagePlugin exposes the node as container tasks: "voltage.execute" and
// "voltage.describe".
type VoltagePlugin struct {
	Config    Credentials   // Prepared with runtime.InitializeConfig before registration
	NewClient ClientFactory // Defaults to the HTTP client

	node *Node
}

type ExecuteInput struct {
	Parameters     map[string]any   `json:"parameters" validate:"required"`
	Items          []map[string]any `json:"items"`
	ContinueOnFail bool             `json:"continue_on_fail"`
}

type ExecuteOutput struct {
	Items []OutputRecord `json:"items"`
}

type DescribeInput struct{}

type DescribeOutput struct {
	Node       NodeDescription `json:"node"`
	Credential CredentialType  `json:"credential"`
}

func (p *VoltagePlugin) Initialize() error {
	p.node = NewNode(p.NewClient)
	return nil
}

// Execute runs one batch. A batch without items runs once against an empty item.
// When an item aborts the batch, the records emitted before it are returned
// alongside a task error carrying the item index and error kind.
func (p *VoltagePlugin) Execute(exec *plugin.Execution, input ExecuteInput) (ExecuteOutput, error) {
	if p.node == nil {
		if err := p.Initialize(); err != nil {
			return ExecuteOutput{}, err
		}
	}

	items := make([]Item, len(input.Items))
	for i, it := range input.Items {
		items[i] = it
	}
	if len(items) == 0 {
		items = []Item{{}}
	}

	host := &StaticHost{
		Items:             items,
		Params:            input.Parameters,
		Creds:             p.Config,
		ContinueOnFailure: input.ContinueOnFail,
	}

	records, err := p.node.Execute(exec, host)
	output := ExecuteOutput{Items: records}
	if err == nil {
		return output, nil
	}

	var nodeErr *NodeError
	if !errors.As(err, &nodeErr) {
		return output, plugin.NewTaskError(fmt.Errorf("voltage %s: %w", exec.Node, err)).
			WithType(plugin.ErrorTypePermanent)
	}

	return output, plugin.NewTaskError(nodeErr).
		WithType(taskErrorType(nodeErr.Kind)).
		WithMetadata("item_index", nodeErr.ItemIndex).
		WithMetadata("kind", string(nodeErr.Kind)).
		WithMetadata("details", nodeErr.Details)
}

// Describe returns the node and credential descriptions.
func (p *VoltagePlugin) Describe(_ *plugin.Execution, _ DescribeInput) (DescribeOutput, error) {
	return DescribeOutput{
		Node:       Description(),
		Credential: CredentialDescription(),
	}, nil
}

func taskErrorType(kind ErrorKind) string {
	switch kind {
	case KindValidation:
		return plugin.ErrorTypeUserError
	case KindUpstreamHTTP, KindResponseParse:
		return plugin.ErrorTypeUpstream
	default:
		return plugin.ErrorTypePermanent
	}
}
