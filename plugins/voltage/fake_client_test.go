package voltage

import (
	"context"

	"github.com/Jeffail/gabs/v2"
)

type fakeCall struct {
	method  string
	params  any
	polling *PollingConfig
}

// fakeClient records every call and answers through respond. Without a
// respond func every call returns an empty object.
type fakeClient struct {
	calls   []fakeCall
	respond func(method string, params any) (*gabs.Container, error)
}

var _ Client = (*fakeClient)(nil)

func (f *fakeClient) factory(creds *[]Credentials) ClientFactory {
	return func(c Credentials) (Client, error) {
		if creds != nil {
			*creds = append(*creds, c)
		}
		return f, nil
	}
}

func (f *fakeClient) handle(method string, params any, polling *PollingConfig) (*gabs.Container, error) {
	f.calls = append(f.calls, fakeCall{method: method, params: params, polling: polling})
	if f.respond == nil {
		return gabs.New(), nil
	}
	return f.respond(method, params)
}

func mustParse(s string) *gabs.Container {
	c, err := gabs.ParseJSON([]byte(s))
	if err != nil {
		panic(err)
	}
	return c
}

func (f *fakeClient) GetWallets(_ context.Context, p OrganizationParams) (*gabs.Container, error) {
	return f.handle("GetWallets", p, nil)
}

func (f *fakeClient) GetWallet(_ context.Context, p WalletParams) (*gabs.Container, error) {
	return f.handle("GetWallet", p, nil)
}

func (f *fakeClient) GetWalletLedger(_ context.Context, p WalletLedgerParams) (*gabs.Container, error) {
	return f.handle("GetWalletLedger", p, nil)
}

func (f *fakeClient) CreateWallet(_ context.Context, p CreateWalletParams) (*gabs.Container, error) {
	return f.handle("CreateWallet", p, nil)
}

func (f *fakeClient) DeleteWallet(_ context.Context, p WalletParams) (*gabs.Container, error) {
	return f.handle("DeleteWallet", p, nil)
}

func (f *fakeClient) CreatePaymentRequest(_ context.Context, p CreatePaymentRequestParams, polling *PollingConfig) (*gabs.Container, error) {
	return f.handle("CreatePaymentRequest", p, polling)
}

func (f *fakeClient) GetPayment(_ context.Context, p PaymentParams) (*gabs.Container, error) {
	return f.handle("GetPayment", p, nil)
}

func (f *fakeClient) SendPayment(_ context.Context, p SendPaymentParams, polling *PollingConfig) (*gabs.Container, error) {
	return f.handle("SendPayment", p, polling)
}

func (f *fakeClient) GetPayments(_ context.Context, p PaymentsParams) (*gabs.Container, error) {
	return f.handle("GetPayments", p, nil)
}

func (f *fakeClient) GetPaymentHistory(_ context.Context, p PaymentParams) (*gabs.Container, error) {
	return f.handle("GetPaymentHistory", p, nil)
}

func (f *fakeClient) GetLinesOfCredit(_ context.Context, p OrganizationParams) (*gabs.Container, error) {
	return f.handle("GetLinesOfCredit", p, nil)
}

func (f *fakeClient) GetLineOfCredit(_ context.Context, p LineOfCreditParams) (*gabs.Container, error) {
	return f.handle("GetLineOfCredit", p, nil)
}

func (f *fakeClient) GetWebhooks(_ context.Context, p EnvironmentParams) (*gabs.Container, error) {
	return f.handle("GetWebhooks", p, nil)
}

func (f *fakeClient) GetWebhook(_ context.Context, p WebhookParams) (*gabs.Container, error) {
	return f.handle("GetWebhook", p, nil)
}

func (f *fakeClient) CreateWebhook(_ context.Context, p CreateWebhookParams) (*gabs.Container, error) {
	return f.handle("CreateWebhook", p, nil)
}

func (f *fakeClient) UpdateWebhook(_ context.Context, p UpdateWebhookParams) (*gabs.Container, error) {
	return f.handle("UpdateWebhook", p, nil)
}

func (f *fakeClient) DeleteWebhook(_ context.Context, p WebhookParams) (*gabs.Container, error) {
	return f.handle("DeleteWebhook", p, nil)
}

func (f *fakeClient) StartWebhook(_ context.Context, p WebhookParams) (*gabs.Container, error) {
	return f.handle("StartWebhook", p, nil)
}

func (f *fakeClient) StopWebhook(_ context.Context, p WebhookParams) (*gabs.Container, error) {
	return f.handle("StopWebhook", p, nil)
}

func (f *fakeClient) GenerateWebhookKey(_ context.Context, p WebhookParams) (*gabs.Container, error) {
	return f.handle("GenerateWebhookKey", p, nil)
}
