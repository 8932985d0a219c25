package voltage

// Resource names an API entity family.
type Resource string

const (
	ResourceWallet       Resource = "wallet"
	ResourcePayment      Resource = "payment"
	ResourceLineOfCredit Resource = "lineOfCredit"
	ResourceWebhook      Resource = "webhook"
)

// Operation names an action scoped to a Resource.
type Operation string

const (
	OpGetAll               Operation = "getAll"
	OpGet                  Operation = "get"
	OpGetLedger            Operation = "getLedger"
	OpCreate               Operation = "create"
	OpUpdate               Operation = "update"
	OpDelete               Operation = "delete"
	OpStart                Operation = "start"
	OpStop                 Operation = "stop"
	OpGenerateKey          Operation = "generateKey"
	OpCreatePaymentRequest Operation = "createPaymentRequest"
	OpGetPayment           Operation = "getPayment"
	OpSendPayment          Operation = "sendPayment"
	OpGetPayments          Operation = "getPayments"
	OpGetPaymentHistory    Operation = "getPaymentHistory"
)

// FieldType is the declared type of a node parameter.
type FieldType string

const (
	TypeString       FieldType = "string"
	TypeNumber       FieldType = "number"
	TypeOptions      FieldType = "options"
	TypeMultiOptions FieldType = "multiOptions"
	TypeCollection   FieldType = "collection"
	TypeDateTime     FieldType = "dateTime"
	TypeJSON         FieldType = "json"
)

type Option struct {
	Name        string `json:"name"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
	Action      string `json:"action,omitempty"`
}

// DisplayOptions is a visibility predicate: every key must hold one of its listed values.
type DisplayOptions struct {
	Show map[string][]string `json:"show"`
}

// Property is one declared node parameter. Collection properties list their
// sub-fields in Fields; sub-fields may carry their own DisplayOptions.
type Property struct {
	DisplayName      string          `json:"displayName"`
	Name             string          `json:"name"`
	Type             FieldType       `json:"type"`
	Required         bool            `json:"required,omitempty"`
	Default          any             `json:"default"`
	Description      string          `json:"description,omitempty"`
	Placeholder      string          `json:"placeholder,omitempty"`
	NoDataExpression bool            `json:"noDataExpression,omitempty"`
	DisplayOptions   *DisplayOptions `json:"displayOptions,omitempty"`
	Options          []Option        `json:"options,omitempty"`
	Fields           []Property      `json:"fields,omitempty"`
}

type CredentialRef struct {
	Name     string `json:"name"`
	Required bool   `json:"required"`
}

type NodeDescription struct {
	DisplayName string            `json:"displayName"`
	Name        string            `json:"name"`
	Group       []string          `json:"group"`
	Version     int               `json:"version"`
	Subtitle    string            `json:"subtitle"`
	Description string            `json:"description"`
	Defaults    map[string]string `json:"defaults"`
	Inputs      []string          `json:"inputs"`
	Outputs     []string          `json:"outputs"`
	Credentials []CredentialRef   `json:"credentials"`
	Properties  []Property        `json:"properties"`
}

// Property returns the first top-level property with the given name.
func (d NodeDescription) Property(name string) (Property, bool) {
	for _, p := range d.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// Operations returns the operation options declared for a resource.
func (d NodeDescription) Operations(resource Resource) []Option {
	for _, p := range d.Properties {
		if p.Name != "operation" || p.DisplayOptions == nil {
			continue
		}
		for _, r := range p.DisplayOptions.Show["resource"] {
			if r == string(resource) {
				return p.Options
			}
		}
	}
	return nil
}

func show(pairs ...any) *DisplayOptions {
	d := &DisplayOptions{Show: make(map[string][]string, len(pairs)/2)}
	for i := 0; i+1 < len(pairs); i += 2 {
		d.Show[pairs[i].(string)] = pairs[i+1].([]string)
	}
	return d
}

func values[T ~string](vs ...T) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = string(v)
	}
	return out
}

// Description returns the canonical node description. Each call builds a fresh copy.
func Description() NodeDescription {
	return NodeDescription{
		DisplayName: "Voltage",
		Name:        "voltage",
		Group:       []string{"transform"},
		Version:     1,
		Subtitle:    `={{$parameter["operation"] + ": " + $parameter["resource"]}}`,
		Description: "Interact with Voltage API",
		Defaults:    map[string]string{"name": "Voltage"},
		Inputs:      []string{"main"},
		Outputs:     []string{"main"},
		Credentials: []CredentialRef{{Name: CredentialName, Required: true}},
		Properties:  properties(),
	}
}

func properties() []Property {
	props := []Property{
		{
			DisplayName:      "Resource",
			Name:             "resource",
			Type:             TypeOptions,
			NoDataExpression: true,
			Options: []Option{
				{Name: "Wallet", Value: string(ResourceWallet)},
				{Name: "Payment", Value: string(ResourcePayment)},
				{Name: "Line of Credit", Value: string(ResourceLineOfCredit)},
				{Name: "Webhook", Value: string(ResourceWebhook)},
			},
			Default: string(ResourceWallet),
		},
		{
			DisplayName:      "Operation",
			Name:             "operation",
			Type:             TypeOptions,
			NoDataExpression: true,
			DisplayOptions:   show("resource", values(ResourceWallet)),
			Options: []Option{
				{Name: "Get All", Value: string(OpGetAll), Description: "Get all wallets in an organization", Action: "Get all wallets"},
				{Name: "Get", Value: string(OpGet), Description: "Get a specific wallet by ID", Action: "Get a wallet"},
				{Name: "Get Ledger", Value: string(OpGetLedger), Description: "Get the ledger of a wallet", Action: "Get a wallet ledger"},
				{Name: "Create", Value: string(OpCreate), Description: "Create a wallet", Action: "Create a wallet"},
				{Name: "Delete", Value: string(OpDelete), Description: "Delete a wallet", Action: "Delete a wallet"},
			},
			Default: string(OpGetAll),
		},
		{
			DisplayName:      "Operation",
			Name:             "operation",
			Type:             TypeOptions,
			NoDataExpression: true,
			DisplayOptions:   show("resource", values(ResourcePayment)),
			Options: []Option{
				{Name: "Create Payment Request", Value: string(OpCreatePaymentRequest), Description: "Create an invoice or address to receive a payment", Action: "Create a payment request"},
				{Name: "Get Payment", Value: string(OpGetPayment), Description: "Get a payment by ID", Action: "Get a payment"},
				{Name: "Send Payment", Value: string(OpSendPayment), Description: "Send a Lightning or on-chain payment", Action: "Send a payment"},
				{Name: "Get Payments", Value: string(OpGetPayments), Description: "List payments in an environment", Action: "Get payments"},
				{Name: "Get Payment History", Value: string(OpGetPaymentHistory), Description: "Get the event history of a payment", Action: "Get payment history"},
			},
			Default: string(OpCreatePaymentRequest),
		},
		{
			DisplayName:      "Operation",
			Name:             "operation",
			Type:             TypeOptions,
			NoDataExpression: true,
			DisplayOptions:   show("resource", values(ResourceLineOfCredit)),
			Options: []Option{
				{Name: "Get All", Value: string(OpGetAll), Description: "Get all lines of credit", Action: "Get all lines of credit"},
				{Name: "Get", Value: string(OpGet), Description: "Get a line of credit by ID", Action: "Get a line of credit"},
			},
			Default: string(OpGetAll),
		},
		{
			DisplayName:      "Operation",
			Name:             "operation",
			Type:             TypeOptions,
			NoDataExpression: true,
			DisplayOptions:   show("resource", values(ResourceWebhook)),
			Options: []Option{
				{Name: "Get All", Value: string(OpGetAll), Description: "Get all webhooks in an environment", Action: "Get all webhooks"},
				{Name: "Get", Value: string(OpGet), Description: "Get a webhook by ID", Action: "Get a webhook"},
				{Name: "Create", Value: string(OpCreate), Description: "Create a webhook", Action: "Create a webhook"},
				{Name: "Update", Value: string(OpUpdate), Description: "Update a webhook", Action: "Update a webhook"},
				{Name: "Delete", Value: string(OpDelete), Description: "Delete a webhook", Action: "Delete a webhook"},
				{Name: "Start", Value: string(OpStart), Description: "Start delivering events to a webhook", Action: "Start a webhook"},
				{Name: "Stop", Value: string(OpStop), Description: "Stop delivering events to a webhook", Action: "Stop a webhook"},
				{Name: "Generate Key", Value: string(OpGenerateKey), Description: "Generate a new signing key", Action: "Generate a webhook key"},
			},
			Default: string(OpGetAll),
		},
		{
			DisplayName: "Organization ID",
			Name:        "organizationId",
			Type:        TypeString,
			Required:    true,
			Default:     "",
			Description: "The organization ID",
		},
		{
			DisplayName:    "Environment ID",
			Name:           "environmentId",
			Type:           TypeString,
			Required:       true,
			Default:        "",
			DisplayOptions: show("resource", values(ResourcePayment)),
			Description:    "The environment ID",
		},
		{
			DisplayName:    "Environment ID",
			Name:           "webhookEnvironmentId",
			Type:           TypeString,
			Required:       true,
			Default:        "",
			DisplayOptions: show("resource", values(ResourceWebhook)),
			Description:    "The environment the webhooks belong to",
		},
	}

	props = append(props, walletProperties()...)
	props = append(props, paymentProperties()...)
	props = append(props, lineOfCreditProperties()...)
	props = append(props, webhookProperties()...)
	props = append(props, filtersProperty(), additionalOptionsProperty())
	return props
}

func walletProperties() []Property {
	create := show("resource", values(ResourceWallet), "operation", values(OpCreate))
	return []Property{
		{
			DisplayName:    "Wallet ID",
			Name:           "walletId",
			Type:           TypeString,
			Required:       true,
			Default:        "",
			DisplayOptions: show("resource", values(ResourceWallet), "operation", values(OpGet, OpGetLedger, OpDelete)),
			Description:    "The specific wallet ID",
		},
		{
			DisplayName:    "Environment ID",
			Name:           "walletEnvironmentId",
			Type:           TypeString,
			Required:       true,
			Default:        "",
			DisplayOptions: create,
			Description:    "The environment the wallet is created in",
		},
		{
			DisplayName:    "Name",
			Name:           "walletName",
			Type:           TypeString,
			Required:       true,
			Default:        "",
			DisplayOptions: create,
		},
		{
			DisplayName:    "Network",
			Name:           "walletNetwork",
			Type:           TypeOptions,
			DisplayOptions: create,
			Options: []Option{
				{Name: "Mainnet", Value: "mainnet"},
				{Name: "Testnet3", Value: "testnet3"},
				{Name: "Mutinynet", Value: "mutinynet"},
			},
			Default: "mainnet",
		},
		{
			DisplayName:    "Limit (Sats)",
			Name:           "walletLimit",
			Type:           TypeNumber,
			Default:        nil,
			DisplayOptions: create,
			Description:    "Optional spending limit for the wallet",
		},
		{
			DisplayName:    "Line of Credit ID",
			Name:           "walletLineOfCreditId",
			Type:           TypeString,
			Default:        "",
			DisplayOptions: create,
			Description:    "Line of credit backing the wallet",
		},
		{
			DisplayName:    "Metadata",
			Name:           "walletMetadata",
			Type:           TypeJSON,
			Default:        "",
			DisplayOptions: create,
			Description:    "Free-form JSON stored with the wallet",
		},
	}
}

var paymentKinds = []Option{
	{Name: "Lightning Invoice (BOLT11)", Value: "bolt11"},
	{Name: "On-chain Address", Value: "onchain"},
	{Name: "BIP21 URI", Value: "bip21"},
}

func paymentProperties() []Property {
	receive := show("resource", values(ResourcePayment), "operation", values(OpCreatePaymentRequest))
	send := func(kind string) *DisplayOptions {
		return show("resource", values(ResourcePayment), "operation", values(OpSendPayment), "sendPaymentType", []string{kind})
	}
	return []Property{
		{
			DisplayName:    "Wallet ID",
			Name:           "receiveWalletId",
			Type:           TypeString,
			Required:       true,
			Default:        "",
			DisplayOptions: receive,
			Description:    "The wallet that receives the payment",
		},
		{
			DisplayName:    "Currency",
			Name:           "currency",
			Type:           TypeOptions,
			DisplayOptions: receive,
			Options: []Option{
				{Name: "BTC", Value: "btc"},
				{Name: "USD", Value: "usd"},
			},
			Default: "btc",
		},
		{
			DisplayName:    "Payment Kind",
			Name:           "paymentKind",
			Type:           TypeOptions,
			DisplayOptions: receive,
			Options:        paymentKinds,
			Default:        "bolt11",
		},
		{
			DisplayName:    "Amount (msats)",
			Name:           "amountMsats",
			Type:           TypeNumber,
			Default:        nil,
			DisplayOptions: receive,
			Description:    "Leave empty for an any-amount request",
		},
		{
			DisplayName:    "Description",
			Name:           "description",
			Type:           TypeString,
			Default:        "",
			DisplayOptions: receive,
		},
		{
			DisplayName:    "Payment ID",
			Name:           "paymentId",
			Type:           TypeString,
			Required:       true,
			Default:        "",
			DisplayOptions: show("resource", values(ResourcePayment), "operation", values(OpGetPayment, OpGetPaymentHistory)),
		},
		{
			DisplayName:    "Send Wallet ID",
			Name:           "sendWalletId",
			Type:           TypeString,
			Required:       true,
			Default:        "",
			DisplayOptions: show("resource", values(ResourcePayment), "operation", values(OpSendPayment)),
			Description:    "The wallet that pays",
		},
		{
			DisplayName:    "Payment Type",
			Name:           "sendPaymentType",
			Type:           TypeOptions,
			DisplayOptions: show("resource", values(ResourcePayment), "operation", values(OpSendPayment)),
			Options:        paymentKinds,
			Default:        "bolt11",
		},
		{
			DisplayName:    "Lightning Invoice",
			Name:           "bolt11Invoice",
			Type:           TypeString,
			Required:       true,
			Default:        "",
			DisplayOptions: send("bolt11"),
			Placeholder:    "lnbc...",
		},
		{
			DisplayName:    "On-chain Address",
			Name:           "onchainAddress",
			Type:           TypeString,
			Required:       true,
			Default:        "",
			DisplayOptions: send("onchain"),
			Placeholder:    "bc1...",
		},
		{
			DisplayName:    "Amount (msats)",
			Name:           "sendAmountMsats",
			Type:           TypeNumber,
			Required:       true,
			Default:        nil,
			DisplayOptions: send("onchain"),
		},
		{
			DisplayName:    "BIP21 URI",
			Name:           "bip21Uri",
			Type:           TypeString,
			Required:       true,
			Default:        "",
			DisplayOptions: send("bip21"),
			Placeholder:    "bitcoin:bc1...?amount=0.001&lightning=lnbc...",
		},
	}
}

func lineOfCreditProperties() []Property {
	return []Property{
		{
			DisplayName:    "Line of Credit ID",
			Name:           "lineOfCreditId",
			Type:           TypeString,
			Required:       true,
			Default:        "",
			DisplayOptions: show("resource", values(ResourceLineOfCredit), "operation", values(OpGet)),
		},
	}
}

// EventTypes lists the webhook event values in declaration order.
var EventTypes = []string{
	"send.created",
	"send.succeeded",
	"send.failed",
	"receive.created",
	"receive.paid",
	"receive.expired",
	"test.event",
}

func eventTypeOptions() []Option {
	opts := make([]Option, len(EventTypes))
	for i, ev := range EventTypes {
		opts[i] = Option{Name: ev, Value: ev}
	}
	return opts
}

func webhookProperties() []Property {
	return []Property{
		{
			DisplayName: "Webhook ID",
			Name:        "webhookId",
			Type:        TypeString,
			Required:    true,
			Default:     "",
			DisplayOptions: show("resource", values(ResourceWebhook),
				"operation", values(OpGet, OpUpdate, OpDelete, OpStart, OpStop, OpGenerateKey)),
		},
		{
			DisplayName:    "Webhook URL",
			Name:           "webhookUrl",
			Type:           TypeString,
			Required:       true,
			Default:        "",
			DisplayOptions: show("resource", values(ResourceWebhook), "operation", values(OpCreate)),
			Placeholder:    "https://example.com/voltage/events",
		},
		{
			DisplayName:    "Name",
			Name:           "webhookName",
			Type:           TypeString,
			Default:        "",
			DisplayOptions: show("resource", values(ResourceWebhook), "operation", values(OpCreate)),
		},
		{
			DisplayName:    "Event Types",
			Name:           "eventTypes",
			Type:           TypeMultiOptions,
			DisplayOptions: show("resource", values(ResourceWebhook), "operation", values(OpCreate)),
			Options:        eventTypeOptions(),
			Default:        []string{},
		},
		{
			DisplayName:    "Update Fields",
			Name:           "webhookUpdateFields",
			Type:           TypeCollection,
			Placeholder:    "Add Field",
			DisplayOptions: show("resource", values(ResourceWebhook), "operation", values(OpUpdate)),
			Default:        map[string]any{},
			Fields: []Property{
				{DisplayName: "Name", Name: "name", Type: TypeString, Default: ""},
				{DisplayName: "URL", Name: "url", Type: TypeString, Default: ""},
				{DisplayName: "Event Types", Name: "eventTypes", Type: TypeMultiOptions, Options: eventTypeOptions(), Default: []string{}},
			},
		},
	}
}

func filtersProperty() Property {
	paymentOnly := show("resource", values(ResourcePayment))
	return Property{
		DisplayName: "Filters",
		Name:        "filters",
		Type:        TypeCollection,
		Placeholder: "Add Filter",
		DisplayOptions: show("resource", values(ResourceWallet, ResourcePayment),
			"operation", values(OpGetLedger, OpGetPayments)),
		Default: map[string]any{},
		Fields: []Property{
			{DisplayName: "Limit", Name: "limit", Type: TypeNumber, Default: 50, Description: "Max number of results to return"},
			{DisplayName: "Offset", Name: "offset", Type: TypeNumber, Default: nil},
			{DisplayName: "Start Date", Name: "startDate", Type: TypeDateTime, Default: ""},
			{DisplayName: "End Date", Name: "endDate", Type: TypeDateTime, Default: ""},
			{
				DisplayName: "Sort Key", Name: "sortKey", Type: TypeOptions, Default: "",
				Options: []Option{
					{Name: "Created At", Value: "created_at"},
					{Name: "Effective Time", Value: "effective_time"},
					{Name: "Updated At", Value: "updated_at"},
				},
			},
			{
				DisplayName: "Sort Order", Name: "sortOrder", Type: TypeOptions, Default: "",
				Options: []Option{
					{Name: "Ascending", Value: "ASC"},
					{Name: "Descending", Value: "DESC"},
				},
			},
			{DisplayName: "Wallet ID", Name: "walletId", Type: TypeString, Default: "", DisplayOptions: paymentOnly},
			{
				DisplayName: "Status", Name: "status", Type: TypeOptions, Default: "", DisplayOptions: paymentOnly,
				Options: []Option{
					{Name: "Receiving", Value: "receiving"},
					{Name: "Sending", Value: "sending"},
					{Name: "Completed", Value: "completed"},
					{Name: "Expired", Value: "expired"},
					{Name: "Failed", Value: "failed"},
				},
			},
			{DisplayName: "Kind", Name: "kind", Type: TypeOptions, Default: "", DisplayOptions: paymentOnly, Options: paymentKinds},
			{
				DisplayName: "Direction", Name: "direction", Type: TypeOptions, Default: "", DisplayOptions: paymentOnly,
				Options: []Option{
					{Name: "Send", Value: "send"},
					{Name: "Receive", Value: "receive"},
				},
			},
		},
	}
}

func additionalOptionsProperty() Property {
	return Property{
		DisplayName:    "Additional Options",
		Name:           "additionalOptions",
		Type:           TypeCollection,
		Placeholder:    "Add Option",
		DisplayOptions: show("resource", values(ResourcePayment), "operation", values(OpCreatePaymentRequest, OpSendPayment)),
		Default:        map[string]any{},
		Fields: []Property{
			{DisplayName: "Max Polling Attempts", Name: "maxAttempts", Type: TypeNumber, Default: nil, Description: "How many times to poll for payment completion"},
			{DisplayName: "Polling Interval (ms)", Name: "intervalMs", Type: TypeNumber, Default: nil},
			{DisplayName: "Polling Timeout (ms)", Name: "timeoutMs", Type: TypeNumber, Default: nil},
		},
	}
}
