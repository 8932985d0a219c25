package voltage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Jeffail/gabs/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/sflowg/voltage/plugins/voltage"

// OutputRecord is one unit of output tied to the input item that produced it.
type OutputRecord struct {
	Data            any `json:"data"`
	SourceItemIndex int `json:"sourceItemIndex"`
}

// Node runs batches of input items against the Voltage API.
type Node struct {
	newClient ClientFactory
	props     []Property
	logger    *slog.Logger
	tracer    trace.Tracer
}

type NodeOption func(*Node)

func WithLogger(logger *slog.Logger) NodeOption {
	return func(n *Node) { n.logger = logger }
}

func WithTracer(tracer trace.Tracer) NodeOption {
	return func(n *Node) { n.tracer = tracer }
}

func NewNode(newClient ClientFactory, opts ...NodeOption) *Node {
	if newClient == nil {
		newClient = NewClient
	}
	n := &Node{
		newClient: newClient,
		props:     Description().Properties,
		logger:    slog.Default(),
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Execute processes the host's items in order. Resource and operation are read
// once from the first item. With continue-on-failure set, a failing item
// becomes an error record; otherwise the records emitted so far are returned
// together with a *NodeError for the failing item.
func (n *Node) Execute(ctx context.Context, host Host) ([]OutputRecord, error) {
	resource, operation, err := n.selection(host)
	if err != nil {
		return nil, err
	}
	op, err := lookupOperation(resource, operation)
	if err != nil {
		return nil, &NodeError{ItemIndex: 0, Kind: KindUnknown, Message: err.Error(), Details: map[string]any{}, Err: err}
	}

	creds, err := host.Credentials(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s credentials: %w", CredentialName, err)
	}
	client, err := n.newClient(creds)
	if err != nil {
		return nil, fmt.Errorf("failed to create Voltage client: %w", err)
	}

	items := host.InputItems()
	records := make([]OutputRecord, 0, len(items))

	for i := range items {
		result, request, err := n.executeItem(ctx, client, op, i, host)
		if err == nil {
			records = append(records, toRecords(result, i)...)
			continue
		}

		kind := Classify(err)
		message, details := Normalize(err, request)
		attrs := []any{
			"resource", resource,
			"operation", operation,
			"item_index", i,
			"kind", kind,
			"error", err,
		}

		if host.ContinueOnFail() {
			n.logger.Warn("Voltage item failed, continuing", attrs...)
			records = append(records, OutputRecord{
				Data:            map[string]any{"error": message, "errorDetails": details},
				SourceItemIndex: i,
			})
			continue
		}

		n.logger.Error("Voltage item failed", attrs...)
		return records, &NodeError{ItemIndex: i, Kind: kind, Message: message, Details: details, Err: err}
	}

	return records, nil
}

func (n *Node) executeItem(ctx context.Context, client Client, op operation, itemIndex int, src ParameterSource) (*gabs.Container, any, error) {
	ctx, span := n.tracer.Start(ctx, fmt.Sprintf("voltage %s.%s", op.resource, op.name), trace.WithAttributes(
		attribute.String("voltage.resource", string(op.resource)),
		attribute.String("voltage.operation", string(op.name)),
		attribute.Int("voltage.item_index", itemIndex),
		attribute.Bool("voltage.may_poll", op.mayPoll),
	))
	defer span.End()

	params, err := GatherParameters(n.props, op.resource, op.name, itemIndex, src)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}

	result, request, err := op.invoke(ctx, client, params)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			span.SetAttributes(attribute.Int("http.response.status_code", apiErr.Status))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, request, err
	}
	return result, request, nil
}

// selection reads resource and operation from the first item, falling back
// to the schema defaults.
func (n *Node) selection(src ParameterSource) (Resource, Operation, error) {
	var resourceDefault any = string(ResourceWallet)
	for _, p := range n.props {
		if p.Name == "resource" {
			resourceDefault = p.Default
			break
		}
	}
	v, err := src.Parameter("resource", 0, resourceDefault)
	if err != nil {
		return "", "", fmt.Errorf("failed to read resource: %w", err)
	}
	resource := Resource(fmt.Sprint(v))

	sel := Selection{"resource": string(resource)}
	for _, p := range n.props {
		if p.Name != "operation" || !IsActive(p, sel) {
			continue
		}
		v, err := src.Parameter("operation", 0, p.Default)
		if err != nil {
			return "", "", fmt.Errorf("failed to read operation: %w", err)
		}
		return resource, Operation(fmt.Sprint(v)), nil
	}
	err = fmt.Errorf("the resource %q is not known", resource)
	return "", "", &NodeError{ItemIndex: 0, Kind: KindUnknown, Message: err.Error(), Details: map[string]any{}, Err: err}
}

// toRecords fans an array result out to one record per element. Anything
// else, including an empty response, becomes exactly one record.
func toRecords(result *gabs.Container, itemIndex int) []OutputRecord {
	if result == nil || result.Data() == nil {
		return []OutputRecord{{Data: map[string]any{}, SourceItemIndex: itemIndex}}
	}
	if _, ok := result.Data().([]any); !ok {
		return []OutputRecord{{Data: result.Data(), SourceItemIndex: itemIndex}}
	}
	children := result.Children()
	records := make([]OutputRecord, 0, len(children))
	for _, child := range children {
		records = append(records, OutputRecord{Data: child.Data(), SourceItemIndex: itemIndex})
	}
	return records
}
