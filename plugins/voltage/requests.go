package voltage

import "strconv"

// Parameter objects passed to the Client. JSON tags follow the API's snake_case.

type OrganizationParams struct {
	OrganizationID string `json:"organization_id"`
}

type EnvironmentParams struct {
	OrganizationID string `json:"organization_id"`
	EnvironmentID  string `json:"environment_id"`
}

type WalletParams struct {
	OrganizationID string `json:"organization_id"`
	WalletID       string `json:"wallet_id"`
}

type WalletLedgerParams struct {
	OrganizationID string       `json:"organization_id"`
	WalletID       string       `json:"wallet_id"`
	Filters        *ListFilters `json:"filters,omitempty"`
}

type NewWallet struct {
	EnvironmentID  string         `json:"environment_id"`
	Name           string         `json:"name"`
	Network        string         `json:"network"`
	Limit          *int64         `json:"limit,omitempty"`
	LineOfCreditID string         `json:"line_of_credit_id,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

type CreateWalletParams struct {
	OrganizationID string    `json:"organization_id"`
	Wallet         NewWallet `json:"wallet"`
}

func (p CreateWalletParams) RequestBody() any { return p.Wallet }

// PaymentRequest is the body of a createPaymentRequest call. Amount and
// description are always present and null when unset.
type PaymentRequest struct {
	WalletID    string  `json:"wallet_id"`
	Currency    string  `json:"currency"`
	PaymentKind string  `json:"payment_kind"`
	AmountMsats *int64  `json:"amount_msats"`
	Description *string `json:"description"`
}

type CreatePaymentRequestParams struct {
	OrganizationID string         `json:"organization_id"`
	EnvironmentID  string         `json:"environment_id"`
	Payment        PaymentRequest `json:"payment"`
}

func (p CreatePaymentRequestParams) RequestBody() any { return p.Payment }

// SendPaymentPayload holds exactly one of bolt11, address+amount_msats or bip21.
type SendPaymentPayload struct {
	WalletID    string `json:"wallet_id"`
	Bolt11      string `json:"bolt11,omitempty"`
	Address     string `json:"address,omitempty"`
	AmountMsats *int64 `json:"amount_msats,omitempty"`
	Bip21       string `json:"bip21,omitempty"`
}

// Kind returns the payment kind implied by the populated fields.
func (p SendPaymentPayload) Kind() string {
	switch {
	case p.Bolt11 != "":
		return "bolt11"
	case p.Address != "":
		return "onchain"
	default:
		return "bip21"
	}
}

type SendPaymentParams struct {
	OrganizationID string             `json:"organization_id"`
	EnvironmentID  string             `json:"environment_id"`
	Payment        SendPaymentPayload `json:"payment"`
}

func (p SendPaymentParams) RequestBody() any { return p.Payment }

type PaymentParams struct {
	OrganizationID string `json:"organization_id"`
	EnvironmentID  string `json:"environment_id"`
	PaymentID      string `json:"payment_id"`
}

type PaymentsParams struct {
	OrganizationID string       `json:"organization_id"`
	EnvironmentID  string       `json:"environment_id"`
	Filters        *ListFilters `json:"filters,omitempty"`
}

type LineOfCreditParams struct {
	OrganizationID string `json:"organization_id"`
	LineOfCreditID string `json:"line_id"`
}

type WebhookParams struct {
	OrganizationID string `json:"organization_id"`
	EnvironmentID  string `json:"environment_id"`
	WebhookID      string `json:"webhook_id"`
}

type NewWebhook struct {
	Name       string   `json:"name,omitempty"`
	URL        string   `json:"url"`
	EventTypes []string `json:"events"`
}

type CreateWebhookParams struct {
	OrganizationID string     `json:"organization_id"`
	EnvironmentID  string     `json:"environment_id"`
	Webhook        NewWebhook `json:"webhook"`
}

func (p CreateWebhookParams) RequestBody() any { return p.Webhook }

type WebhookUpdate struct {
	Name       string   `json:"name,omitempty"`
	URL        string   `json:"url,omitempty"`
	EventTypes []string `json:"events,omitempty"`
}

type UpdateWebhookParams struct {
	OrganizationID string        `json:"organization_id"`
	EnvironmentID  string        `json:"environment_id"`
	WebhookID      string        `json:"webhook_id"`
	Webhook        WebhookUpdate `json:"webhook"`
}

func (p UpdateWebhookParams) RequestBody() any { return p.Webhook }

// ListFilters are the pagination, date range and sort options of list calls.
// The payment-only fields stay empty for wallet ledgers.
type ListFilters struct {
	Limit     *int   `json:"limit,omitempty" mapstructure:"limit"`
	Offset    *int   `json:"offset,omitempty" mapstructure:"offset"`
	StartDate string `json:"start_date,omitempty" mapstructure:"startDate"`
	EndDate   string `json:"end_date,omitempty" mapstructure:"endDate"`
	SortKey   string `json:"sort_key,omitempty" mapstructure:"sortKey"`
	SortOrder string `json:"sort_order,omitempty" mapstructure:"sortOrder"`
	WalletID  string `json:"wallet_id,omitempty" mapstructure:"walletId"`
	Status    string `json:"status,omitempty" mapstructure:"status"`
	Kind      string `json:"kind,omitempty" mapstructure:"kind"`
	Direction string `json:"direction,omitempty" mapstructure:"direction"`
}

// Query renders the filters as URL query parameters, omitting unset fields.
func (f *ListFilters) Query() map[string]string {
	q := map[string]string{}
	if f == nil {
		return q
	}
	if f.Limit != nil {
		q["limit"] = strconv.Itoa(*f.Limit)
	}
	if f.Offset != nil {
		q["offset"] = strconv.Itoa(*f.Offset)
	}
	set := func(key, v string) {
		if v != "" {
			q[key] = v
		}
	}
	set("start_date", f.StartDate)
	set("end_date", f.EndDate)
	set("sort_key", f.SortKey)
	set("sort_order", f.SortOrder)
	set("wallet_id", f.WalletID)
	set("statuses", f.Status)
	set("kind", f.Kind)
	set("direction", f.Direction)
	return q
}

// PollingConfig tunes how long the client waits for a payment to settle.
// Zero fields fall back to the client's defaults.
type PollingConfig struct {
	MaxAttempts int `json:"maxAttempts,omitempty" mapstructure:"maxAttempts"`
	IntervalMs  int `json:"intervalMs,omitempty" mapstructure:"intervalMs"`
	TimeoutMs   int `json:"timeoutMs,omitempty" mapstructure:"timeoutMs"`
}
