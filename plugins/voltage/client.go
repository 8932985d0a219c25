package voltage

import (
	"context"

	"github.com/Jeffail/gabs/v2"
)

// Client is the Voltage API surface the node dispatches to. Results are
// decoded JSON: a single object or an array of objects. Failures are *APIError
// when the API answered, other errors when it could not be reached.
type Client interface {
	GetWallets(ctx context.Context, params OrganizationParams) (*gabs.Container, error)
	GetWallet(ctx context.Context, params WalletParams) (*gabs.Container, error)
	GetWalletLedger(ctx context.Context, params WalletLedgerParams) (*gabs.Container, error)
	CreateWallet(ctx context.Context, params CreateWalletParams) (*gabs.Container, error)
	DeleteWallet(ctx context.Context, params WalletParams) (*gabs.Container, error)

	CreatePaymentRequest(ctx context.Context, params CreatePaymentRequestParams, polling *PollingConfig) (*gabs.Container, error)
	GetPayment(ctx context.Context, params PaymentParams) (*gabs.Container, error)
	SendPayment(ctx context.Context, params SendPaymentParams, polling *PollingConfig) (*gabs.Container, error)
	GetPayments(ctx context.Context, params PaymentsParams) (*gabs.Container, error)
	GetPaymentHistory(ctx context.Context, params PaymentParams) (*gabs.Container, error)

	GetLinesOfCredit(ctx context.Context, params OrganizationParams) (*gabs.Container, error)
	GetLineOfCredit(ctx context.Context, params LineOfCreditParams) (*gabs.Container, error)

	GetWebhooks(ctx context.Context, params EnvironmentParams) (*gabs.Container, error)
	GetWebhook(ctx context.Context, params WebhookParams) (*gabs.Container, error)
	CreateWebhook(ctx context.Context, params CreateWebhookParams) (*gabs.Container, error)
	UpdateWebhook(ctx context.Context, params UpdateWebhookParams) (*gabs.Container, error)
	DeleteWebhook(ctx context.Context, params WebhookParams) (*gabs.Container, error)
	StartWebhook(ctx context.Context, params WebhookParams) (*gabs.Container, error)
	StopWebhook(ctx context.Context, params WebhookParams) (*gabs.Container, error)
	GenerateWebhookKey(ctx context.Context, params WebhookParams) (*gabs.Container, error)
}

// ClientFactory builds a Client from credentials, once per batch.
type ClientFactory func(Credentials) (Client, error)
