package voltage

import (
	"context"
	"fmt"

	"github.com/Jeffail/gabs/v2"
)

// operation is one row of the dispatch table: how to build the typed request
// from the gathered parameters and which client method receives it.
type operation struct {
	resource Resource
	name     Operation
	mayPoll  bool
	invoke   func(ctx context.Context, c Client, p *Parameters) (result *gabs.Container, request any, err error)
}

// bodied is implemented by requests that send a JSON body; the body is what
// gets echoed back on 422 responses.
type bodied interface {
	RequestBody() any
}

func requestData(req any) any {
	if b, ok := req.(bodied); ok {
		return b.RequestBody()
	}
	return req
}

func define[P any](resource Resource, name Operation, build func(*Parameters) (P, error), call func(Client, context.Context, P) (*gabs.Container, error)) operation {
	return operation{
		resource: resource,
		name:     name,
		invoke: func(ctx context.Context, c Client, p *Parameters) (*gabs.Container, any, error) {
			req, err := build(p)
			if err != nil {
				return nil, nil, err
			}
			res, err := call(c, ctx, req)
			return res, requestData(req), err
		},
	}
}

// definePolling is define for calls that take the optional polling config.
func definePolling[P any](resource Resource, name Operation, build func(*Parameters) (P, error), call func(Client, context.Context, P, *PollingConfig) (*gabs.Container, error)) operation {
	return operation{
		resource: resource,
		name:     name,
		mayPoll:  true,
		invoke: func(ctx context.Context, c Client, p *Parameters) (*gabs.Container, any, error) {
			req, err := build(p)
			if err != nil {
				return nil, nil, err
			}
			polling, err := p.Polling()
			if err != nil {
				return nil, nil, err
			}
			res, err := call(c, ctx, req, polling)
			return res, requestData(req), err
		},
	}
}

type operationKey struct {
	resource Resource
	name     Operation
}

var operationTable = buildOperationTable(
	// wallet
	define(ResourceWallet, OpGetAll, buildOrganization, Client.GetWallets),
	define(ResourceWallet, OpGet, buildWallet, Client.GetWallet),
	define(ResourceWallet, OpGetLedger, buildWalletLedger, Client.GetWalletLedger),
	define(ResourceWallet, OpCreate, buildCreateWallet, Client.CreateWallet),
	define(ResourceWallet, OpDelete, buildWallet, Client.DeleteWallet),

	// payment
	definePolling(ResourcePayment, OpCreatePaymentRequest, buildCreatePaymentRequest, Client.CreatePaymentRequest),
	define(ResourcePayment, OpGetPayment, buildPayment, Client.GetPayment),
	definePolling(ResourcePayment, OpSendPayment, buildSendPayment, Client.SendPayment),
	define(ResourcePayment, OpGetPayments, buildPayments, Client.GetPayments),
	define(ResourcePayment, OpGetPaymentHistory, buildPayment, Client.GetPaymentHistory),

	// lineOfCredit
	define(ResourceLineOfCredit, OpGetAll, buildOrganization, Client.GetLinesOfCredit),
	define(ResourceLineOfCredit, OpGet, buildLineOfCredit, Client.GetLineOfCredit),

	// webhook
	define(ResourceWebhook, OpGetAll, buildWebhookEnvironment, Client.GetWebhooks),
	define(ResourceWebhook, OpGet, buildWebhook, Client.GetWebhook),
	define(ResourceWebhook, OpCreate, buildCreateWebhook, Client.CreateWebhook),
	define(ResourceWebhook, OpUpdate, buildUpdateWebhook, Client.UpdateWebhook),
	define(ResourceWebhook, OpDelete, buildWebhook, Client.DeleteWebhook),
	define(ResourceWebhook, OpStart, buildWebhook, Client.StartWebhook),
	define(ResourceWebhook, OpStop, buildWebhook, Client.StopWebhook),
	define(ResourceWebhook, OpGenerateKey, buildWebhook, Client.GenerateWebhookKey),
)

func buildOperationTable(ops ...operation) map[operationKey]operation {
	table := make(map[operationKey]operation, len(ops))
	for _, op := range ops {
		table[operationKey{op.resource, op.name}] = op
	}
	return table
}

func lookupOperation(resource Resource, name Operation) (operation, error) {
	op, ok := operationTable[operationKey{resource, name}]
	if !ok {
		return operation{}, fmt.Errorf("the operation %q is not supported for resource %q", name, resource)
	}
	return op, nil
}

func buildOrganization(p *Parameters) (OrganizationParams, error) {
	return OrganizationParams{OrganizationID: p.String("organizationId")}, nil
}

func buildWallet(p *Parameters) (WalletParams, error) {
	return WalletParams{
		OrganizationID: p.String("organizationId"),
		WalletID:       p.String("walletId"),
	}, nil
}

func buildWalletLedger(p *Parameters) (WalletLedgerParams, error) {
	filters, err := p.Filters()
	if err != nil {
		return WalletLedgerParams{}, err
	}
	return WalletLedgerParams{
		OrganizationID: p.String("organizationId"),
		WalletID:       p.String("walletId"),
		Filters:        filters,
	}, nil
}

func buildCreateWallet(p *Parameters) (CreateWalletParams, error) {
	limit, err := p.Int64("walletLimit")
	if err != nil {
		return CreateWalletParams{}, err
	}
	metadata, err := p.JSONObject("walletMetadata")
	if err != nil {
		return CreateWalletParams{}, err
	}
	return CreateWalletParams{
		OrganizationID: p.String("organizationId"),
		Wallet: NewWallet{
			EnvironmentID:  p.String("walletEnvironmentId"),
			Name:           p.String("walletName"),
			Network:        p.String("walletNetwork"),
			Limit:          limit,
			LineOfCreditID: p.String("walletLineOfCreditId"),
			Metadata:       metadata,
		},
	}, nil
}

// buildCreatePaymentRequest treats an unset, empty or zero amount alike: all
// three become a null amount, i.e. an any-amount request.
func buildCreatePaymentRequest(p *Parameters) (CreatePaymentRequestParams, error) {
	amount, err := p.NonNegativeInt64("amountMsats")
	if err != nil {
		return CreatePaymentRequestParams{}, err
	}
	if amount != nil && *amount == 0 {
		amount = nil
	}
	return CreatePaymentRequestParams{
		OrganizationID: p.String("organizationId"),
		EnvironmentID:  p.String("environmentId"),
		Payment: PaymentRequest{
			WalletID:    p.String("receiveWalletId"),
			Currency:    p.String("currency"),
			PaymentKind: p.String("paymentKind"),
			AmountMsats: amount,
			Description: p.OptionalString("description"),
		},
	}, nil
}

func buildSendPayment(p *Parameters) (SendPaymentParams, error) {
	payload := SendPaymentPayload{WalletID: p.String("sendWalletId")}

	switch kind := p.String("sendPaymentType"); kind {
	case "bolt11":
		payload.Bolt11 = p.String("bolt11Invoice")
	case "onchain":
		amount, err := p.NonNegativeInt64("sendAmountMsats")
		if err != nil {
			return SendPaymentParams{}, err
		}
		payload.Address = p.String("onchainAddress")
		payload.AmountMsats = amount
	case "bip21":
		payload.Bip21 = p.String("bip21Uri")
	default:
		return SendPaymentParams{}, &ValidationError{
			Field:     "sendPaymentType",
			ItemIndex: p.ItemIndex(),
			Reason:    fmt.Sprintf("has unsupported value %q", kind),
		}
	}

	return SendPaymentParams{
		OrganizationID: p.String("organizationId"),
		EnvironmentID:  p.String("environmentId"),
		Payment:        payload,
	}, nil
}

func buildPayment(p *Parameters) (PaymentParams, error) {
	return PaymentParams{
		OrganizationID: p.String("organizationId"),
		EnvironmentID:  p.String("environmentId"),
		PaymentID:      p.String("paymentId"),
	}, nil
}

func buildPayments(p *Parameters) (PaymentsParams, error) {
	filters, err := p.Filters()
	if err != nil {
		return PaymentsParams{}, err
	}
	return PaymentsParams{
		OrganizationID: p.String("organizationId"),
		EnvironmentID:  p.String("environmentId"),
		Filters:        filters,
	}, nil
}

func buildLineOfCredit(p *Parameters) (LineOfCreditParams, error) {
	return LineOfCreditParams{
		OrganizationID: p.String("organizationId"),
		LineOfCreditID: p.String("lineOfCreditId"),
	}, nil
}

func buildWebhookEnvironment(p *Parameters) (EnvironmentParams, error) {
	return EnvironmentParams{
		OrganizationID: p.String("organizationId"),
		EnvironmentID:  p.String("webhookEnvironmentId"),
	}, nil
}

func buildWebhook(p *Parameters) (WebhookParams, error) {
	return WebhookParams{
		OrganizationID: p.String("organizationId"),
		EnvironmentID:  p.String("webhookEnvironmentId"),
		WebhookID:      p.String("webhookId"),
	}, nil
}

func buildCreateWebhook(p *Parameters) (CreateWebhookParams, error) {
	events, err := p.Strings("eventTypes")
	if err != nil {
		return CreateWebhookParams{}, err
	}
	if events == nil {
		events = []string{}
	}
	return CreateWebhookParams{
		OrganizationID: p.String("organizationId"),
		EnvironmentID:  p.String("webhookEnvironmentId"),
		Webhook: NewWebhook{
			Name:       p.String("webhookName"),
			URL:        p.String("webhookUrl"),
			EventTypes: events,
		},
	}, nil
}

func buildUpdateWebhook(p *Parameters) (UpdateWebhookParams, error) {
	fields, err := p.Collection("webhookUpdateFields")
	if err != nil {
		return UpdateWebhookParams{}, err
	}
	var update WebhookUpdate
	if fields != nil {
		if update.Name, err = toString(fields["name"], "webhookUpdateFields.name", p.ItemIndex()); err != nil {
			return UpdateWebhookParams{}, err
		}
		if update.URL, err = toString(fields["url"], "webhookUpdateFields.url", p.ItemIndex()); err != nil {
			return UpdateWebhookParams{}, err
		}
		if update.EventTypes, err = toStrings(fields["eventTypes"], "webhookUpdateFields.eventTypes", p.ItemIndex()); err != nil {
			return UpdateWebhookParams{}, err
		}
	}
	return UpdateWebhookParams{
		OrganizationID: p.String("organizationId"),
		EnvironmentID:  p.String("webhookEnvironmentId"),
		WebhookID:      p.String("webhookId"),
		Webhook:        update,
	}, nil
}
