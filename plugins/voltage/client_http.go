package voltage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Jeffail/gabs/v2"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

const (
	defaultPollAttempts = 30
	defaultPollInterval = time.Second
	defaultPollTimeout  = 30 * time.Second
)

// HTTPClient talks to the Voltage REST API.
type HTTPClient struct {
	client *resty.Client
	newID  func() string
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(creds Credentials) (*HTTPClient, error) {
	if creds.APIKey == "" {
		return nil, errors.New("voltage: api key is required")
	}
	baseURL := creds.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("X-Api-Key", creds.APIKey).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")
	if creds.Timeout > 0 {
		client.SetTimeout(creds.TimeoutDuration())
	}

	return &HTTPClient{
		client: client,
		newID:  func() string { return uuid.NewString() },
	}, nil
}

// NewClient is the default ClientFactory.
func NewClient(creds Credentials) (Client, error) {
	c, err := NewHTTPClient(creds)
	if err != nil {
		return nil, err
	}
	return c, nil
}

type call struct {
	method string
	path   string
	params map[string]string
	query  map[string]string
	body   any
}

func (c *HTTPClient) do(ctx context.Context, in call) (*gabs.Container, error) {
	req := c.client.R().SetContext(ctx).SetPathParams(in.params)
	if len(in.query) > 0 {
		req.SetQueryParams(in.query)
	}
	if in.body != nil {
		req.SetBody(in.body)
	}

	resp, err := req.Execute(in.method, in.path)
	if err != nil {
		return nil, fmt.Errorf("voltage %s %s: %w", in.method, in.path, err)
	}
	return decodeResponse(resp.StatusCode(), resp.Body())
}

// decodeResponse parses a response body. An empty success body yields a nil
// container.
func decodeResponse(status int, body []byte) (*gabs.Container, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		if status >= http.StatusBadRequest {
			return nil, &APIError{Status: status, Message: http.StatusText(status)}
		}
		return nil, nil
	}

	parsed, err := gabs.ParseJSON(body)
	if err != nil {
		return nil, &APIError{Status: status, Message: ErrMsgParseJSON}
	}
	if status >= http.StatusBadRequest {
		return nil, apiErrorFrom(status, parsed)
	}
	return parsed, nil
}

func apiErrorFrom(status int, body *gabs.Container) *APIError {
	apiErr := &APIError{Status: status, Details: body.Data()}

	for _, key := range []string{"message", "error", "detail"} {
		if msg, ok := body.Path(key).Data().(string); ok && msg != "" {
			apiErr.Message = msg
			break
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}

	if code := body.Path("code").Data(); code != nil {
		apiErr.Code = fmt.Sprint(code)
	}
	if details := body.Path("details"); details.Data() != nil {
		apiErr.Details = details.Data()
	}
	return apiErr
}

// Wallets

func (c *HTTPClient) GetWallets(ctx context.Context, p OrganizationParams) (*gabs.Container, error) {
	return c.do(ctx, call{
		method: http.MethodGet,
		path:   "/organizations/{org}/wallets",
		params: map[string]string{"org": p.OrganizationID},
	})
}

func (c *HTTPClient) GetWallet(ctx context.Context, p WalletParams) (*gabs.Container, error) {
	return c.do(ctx, call{
		method: http.MethodGet,
		path:   "/organizations/{org}/wallets/{wallet}",
		params: map[string]string{"org": p.OrganizationID, "wallet": p.WalletID},
	})
}

func (c *HTTPClient) GetWalletLedger(ctx context.Context, p WalletLedgerParams) (*gabs.Container, error) {
	return c.do(ctx, call{
		method: http.MethodGet,
		path:   "/organizations/{org}/wallets/{wallet}/ledger",
		params: map[string]string{"org": p.OrganizationID, "wallet": p.WalletID},
		query:  p.Filters.Query(),
	})
}

// CreateWallet posts the wallet under a generated id and returns the stored wallet.
func (c *HTTPClient) CreateWallet(ctx context.Context, p CreateWalletParams) (*gabs.Container, error) {
	id := c.newID()
	body := struct {
		ID string `json:"id"`
		NewWallet
	}{ID: id, NewWallet: p.Wallet}

	if _, err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/organizations/{org}/wallets",
		params: map[string]string{"org": p.OrganizationID},
		body:   body,
	}); err != nil {
		return nil, err
	}
	return c.GetWallet(ctx, WalletParams{OrganizationID: p.OrganizationID, WalletID: id})
}

func (c *HTTPClient) DeleteWallet(ctx context.Context, p WalletParams) (*gabs.Container, error) {
	return c.do(ctx, call{
		method: http.MethodDelete,
		path:   "/organizations/{org}/wallets/{wallet}",
		params: map[string]string{"org": p.OrganizationID, "wallet": p.WalletID},
	})
}

// Payments

// CreatePaymentRequest creates a receive payment and polls it until the
// invoice has been generated.
func (c *HTTPClient) CreatePaymentRequest(ctx context.Context, p CreatePaymentRequestParams, polling *PollingConfig) (*gabs.Container, error) {
	id := c.newID()
	body := struct {
		ID string `json:"id"`
		PaymentRequest
	}{ID: id, PaymentRequest: p.Payment}

	if _, err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/organizations/{org}/environments/{env}/payments",
		params: map[string]string{"org": p.OrganizationID, "env": p.EnvironmentID},
		body:   body,
	}); err != nil {
		return nil, err
	}

	ref := PaymentParams{OrganizationID: p.OrganizationID, EnvironmentID: p.EnvironmentID, PaymentID: id}
	return c.poll(ctx, ref, polling, func(status string) bool {
		return status != "generating"
	})
}

// SendPayment sends a payment and polls it until it completes or fails.
func (c *HTTPClient) SendPayment(ctx context.Context, p SendPaymentParams, polling *PollingConfig) (*gabs.Container, error) {
	id := c.newID()
	if _, err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/organizations/{org}/environments/{env}/payments",
		params: map[string]string{"org": p.OrganizationID, "env": p.EnvironmentID},
		body:   sendBody(id, p.Payment),
	}); err != nil {
		return nil, err
	}

	ref := PaymentParams{OrganizationID: p.OrganizationID, EnvironmentID: p.EnvironmentID, PaymentID: id}
	return c.poll(ctx, ref, polling, func(status string) bool {
		return status == "completed" || status == "failed"
	})
}

func sendBody(id string, p SendPaymentPayload) map[string]any {
	data := map[string]any{}
	switch p.Kind() {
	case "bolt11":
		data["payment_request"] = p.Bolt11
		data["amount_msats"] = nil
	case "onchain":
		data["address"] = p.Address
		data["amount_msats"] = p.AmountMsats
	default:
		data["uri"] = p.Bip21
	}
	return map[string]any{
		"id":        id,
		"wallet_id": p.WalletID,
		"currency":  "btc",
		"type":      p.Kind(),
		"data":      data,
	}
}

func (c *HTTPClient) GetPayment(ctx context.Context, p PaymentParams) (*gabs.Container, error) {
	return c.do(ctx, call{
		method: http.MethodGet,
		path:   "/organizations/{org}/environments/{env}/payments/{payment}",
		params: map[string]string{"org": p.OrganizationID, "env": p.EnvironmentID, "payment": p.PaymentID},
	})
}

func (c *HTTPClient) GetPayments(ctx context.Context, p PaymentsParams) (*gabs.Container, error) {
	return c.do(ctx, call{
		method: http.MethodGet,
		path:   "/organizations/{org}/environments/{env}/payments",
		params: map[string]string{"org": p.OrganizationID, "env": p.EnvironmentID},
		query:  p.Filters.Query(),
	})
}

func (c *HTTPClient) GetPaymentHistory(ctx context.Context, p PaymentParams) (*gabs.Container, error) {
	return c.do(ctx, call{
		method: http.MethodGet,
		path:   "/organizations/{org}/environments/{env}/payments/{payment}/history",
		params: map[string]string{"org": p.OrganizationID, "env": p.EnvironmentID, "payment": p.PaymentID},
	})
}

type pollSettings struct {
	attempts int
	interval time.Duration
	timeout  time.Duration
}

func pollSettingsFrom(cfg *PollingConfig) pollSettings {
	s := pollSettings{attempts: defaultPollAttempts, interval: defaultPollInterval, timeout: defaultPollTimeout}
	if cfg == nil {
		return s
	}
	if cfg.MaxAttempts > 0 {
		s.attempts = cfg.MaxAttempts
	}
	if cfg.IntervalMs > 0 {
		s.interval = time.Duration(cfg.IntervalMs) * time.Millisecond
	}
	if cfg.TimeoutMs > 0 {
		s.timeout = time.Duration(cfg.TimeoutMs) * time.Millisecond
	}
	return s
}

func (c *HTTPClient) poll(ctx context.Context, ref PaymentParams, cfg *PollingConfig, done func(status string) bool) (*gabs.Container, error) {
	s := pollSettingsFrom(cfg)
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	for attempt := 1; ; attempt++ {
		payment, err := c.GetPayment(ctx, ref)
		if err != nil {
			return nil, err
		}
		var status string
		if payment != nil {
			status, _ = payment.Path("status").Data().(string)
		}
		if done(status) {
			return payment, nil
		}
		if attempt >= s.attempts {
			return nil, fmt.Errorf("voltage: payment %s still %q after %d attempts", ref.PaymentID, status, attempt)
		}

		timer.Reset(s.interval)
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("voltage: waiting for payment %s: %w", ref.PaymentID, ctx.Err())
		case <-timer.C:
		}
	}
}

// Lines of credit

func (c *HTTPClient) GetLinesOfCredit(ctx context.Context, p OrganizationParams) (*gabs.Container, error) {
	return c.do(ctx, call{
		method: http.MethodGet,
		path:   "/organizations/{org}/lines_of_credit",
		params: map[string]string{"org": p.OrganizationID},
	})
}

func (c *HTTPClient) GetLineOfCredit(ctx context.Context, p LineOfCreditParams) (*gabs.Container, error) {
	return c.do(ctx, call{
		method: http.MethodGet,
		path:   "/organizations/{org}/lines_of_credit/{line}",
		params: map[string]string{"org": p.OrganizationID, "line": p.LineOfCreditID},
	})
}

// Webhooks

func webhookParams(p WebhookParams) map[string]string {
	return map[string]string{"org": p.OrganizationID, "env": p.EnvironmentID, "webhook": p.WebhookID}
}

func (c *HTTPClient) GetWebhooks(ctx context.Context, p EnvironmentParams) (*gabs.Container, error) {
	return c.do(ctx, call{
		method: http.MethodGet,
		path:   "/organizations/{org}/environments/{env}/webhooks",
		params: map[string]string{"org": p.OrganizationID, "env": p.EnvironmentID},
	})
}

func (c *HTTPClient) GetWebhook(ctx context.Context, p WebhookParams) (*gabs.Container, error) {
	return c.do(ctx, call{
		method: http.MethodGet,
		path:   "/organizations/{org}/environments/{env}/webhooks/{webhook}",
		params: webhookParams(p),
	})
}

// CreateWebhook posts the webhook under a generated id and returns the stored webhook.
func (c *HTTPClient) CreateWebhook(ctx context.Context, p CreateWebhookParams) (*gabs.Container, error) {
	id := c.newID()
	body := struct {
		ID string `json:"id"`
		NewWebhook
	}{ID: id, NewWebhook: p.Webhook}

	created, err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/organizations/{org}/environments/{env}/webhooks",
		params: map[string]string{"org": p.OrganizationID, "env": p.EnvironmentID},
		body:   body,
	})
	if err != nil || created != nil {
		return created, err
	}
	return c.GetWebhook(ctx, WebhookParams{OrganizationID: p.OrganizationID, EnvironmentID: p.EnvironmentID, WebhookID: id})
}

func (c *HTTPClient) UpdateWebhook(ctx context.Context, p UpdateWebhookParams) (*gabs.Container, error) {
	ref := WebhookParams{OrganizationID: p.OrganizationID, EnvironmentID: p.EnvironmentID, WebhookID: p.WebhookID}
	return c.do(ctx, call{
		method: http.MethodPatch,
		path:   "/organizations/{org}/environments/{env}/webhooks/{webhook}",
		params: webhookParams(ref),
		body:   p.Webhook,
	})
}

func (c *HTTPClient) DeleteWebhook(ctx context.Context, p WebhookParams) (*gabs.Container, error) {
	return c.do(ctx, call{
		method: http.MethodDelete,
		path:   "/organizations/{org}/environments/{env}/webhooks/{webhook}",
		params: webhookParams(p),
	})
}

func (c *HTTPClient) StartWebhook(ctx context.Context, p WebhookParams) (*gabs.Container, error) {
	return c.webhookAction(ctx, p, "start")
}

func (c *HTTPClient) StopWebhook(ctx context.Context, p WebhookParams) (*gabs.Container, error) {
	return c.webhookAction(ctx, p, "stop")
}

func (c *HTTPClient) GenerateWebhookKey(ctx context.Context, p WebhookParams) (*gabs.Container, error) {
	return c.webhookAction(ctx, p, "keys")
}

func (c *HTTPClient) webhookAction(ctx context.Context, p WebhookParams, action string) (*gabs.Container, error) {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/organizations/{org}/environments/{env}/webhooks/{webhook}/" + action,
		params: webhookParams(p),
	})
}
