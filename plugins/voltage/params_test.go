package voltage

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gather(t *testing.T, resource Resource, operation Operation, params map[string]any) (*Parameters, error) {
	t.Helper()
	host := &StaticHost{Items: []Item{{}}, Params: params}
	return GatherParameters(Description().Properties, resource, operation, 0, host)
}

func TestGatherParameters_RequiredFieldEmpty(t *testing.T) {
	tests := []struct {
		name      string
		resource  Resource
		operation Operation
		params    map[string]any
		field     string
	}{
		{
			name:      "wallet get without walletId",
			resource:  ResourceWallet,
			operation: OpGet,
			params:    map[string]any{"organizationId": "org", "walletId": ""},
			field:     "walletId",
		},
		{
			name:      "missing organizationId",
			resource:  ResourceLineOfCredit,
			operation: OpGetAll,
			params:    map[string]any{},
			field:     "organizationId",
		},
		{
			name:      "onchain send without amount",
			resource:  ResourcePayment,
			operation: OpSendPayment,
			params: map[string]any{
				"organizationId":  "org",
				"environmentId":   "env",
				"sendWalletId":    "w1",
				"sendPaymentType": "onchain",
				"onchainAddress":  "bc1q",
			},
			field: "sendAmountMsats",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := gather(t, tt.resource, tt.operation, tt.params)

			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr), "got %v", err)
			assert.Equal(t, tt.field, validationErr.Field)
			assert.Equal(t, 0, validationErr.ItemIndex)
		})
	}
}

func TestGatherParameters_OnlyActiveFields(t *testing.T) {
	p, err := gather(t, ResourceWallet, OpGet, map[string]any{
		"organizationId": "org",
		"walletId":       "w1",
		"paymentId":      "ignored",
	})
	require.NoError(t, err)

	assert.Equal(t, "w1", p.String("walletId"))
	assert.True(t, p.Has("organizationId"))
	assert.False(t, p.Has("paymentId"))
}

func TestBuildSendPayment(t *testing.T) {
	base := map[string]any{
		"organizationId": "org",
		"environmentId":  "env",
		"sendWalletId":   "w1",
	}
	with := func(extra map[string]any) map[string]any {
		out := map[string]any{}
		for k, v := range base {
			out[k] = v
		}
		for k, v := range extra {
			out[k] = v
		}
		return out
	}

	tests := []struct {
		name   string
		params map[string]any
		want   string
	}{
		{
			name:   "bolt11",
			params: with(map[string]any{"sendPaymentType": "bolt11", "bolt11Invoice": "lnbc1", "onchainAddress": "bc1q"}),
			want:   `{"wallet_id":"w1","bolt11":"lnbc1"}`,
		},
		{
			name:   "default type is bolt11",
			params: with(map[string]any{"bolt11Invoice": "lnbc1"}),
			want:   `{"wallet_id":"w1","bolt11":"lnbc1"}`,
		},
		{
			name:   "onchain",
			params: with(map[string]any{"sendPaymentType": "onchain", "onchainAddress": "bc1q", "sendAmountMsats": 5000}),
			want:   `{"wallet_id":"w1","address":"bc1q","amount_msats":5000}`,
		},
		{
			name:   "bip21",
			params: with(map[string]any{"sendPaymentType": "bip21", "bip21Uri": "bitcoin:bc1q"}),
			want:   `{"wallet_id":"w1","bip21":"bitcoin:bc1q"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := gather(t, ResourcePayment, OpSendPayment, tt.params)
			require.NoError(t, err)

			req, err := buildSendPayment(p)
			require.NoError(t, err)

			body, err := json.Marshal(req.RequestBody())
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(body))
		})
	}
}

func TestBuildSendPayment_UnknownType(t *testing.T) {
	p, err := gather(t, ResourcePayment, OpSendPayment, map[string]any{
		"organizationId":  "org",
		"environmentId":   "env",
		"sendWalletId":    "w1",
		"sendPaymentType": "keysend",
	})
	require.NoError(t, err)

	_, err = buildSendPayment(p)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "sendPaymentType", validationErr.Field)
}

func TestBuildSendPayment_NegativeAmount(t *testing.T) {
	p, err := gather(t, ResourcePayment, OpSendPayment, map[string]any{
		"organizationId":  "org",
		"environmentId":   "env",
		"sendWalletId":    "w1",
		"sendPaymentType": "onchain",
		"onchainAddress":  "bc1q",
		"sendAmountMsats": -100,
	})
	require.NoError(t, err)

	_, err = buildSendPayment(p)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "sendAmountMsats", validationErr.Field)
	assert.Equal(t, "must not be negative", validationErr.Reason)
}

func TestBuildCreatePaymentRequest(t *testing.T) {
	tests := []struct {
		name   string
		amount any
		desc   any
		want   string
	}{
		{
			name:   "amount and description",
			amount: 1000,
			desc:   "coffee",
			want:   `{"wallet_id":"w1","currency":"btc","payment_kind":"bolt11","amount_msats":1000,"description":"coffee"}`,
		},
		{
			name: "unset amount is null",
			want: `{"wallet_id":"w1","currency":"btc","payment_kind":"bolt11","amount_msats":null,"description":null}`,
		},
		{
			name:   "empty amount is null",
			amount: "",
			want:   `{"wallet_id":"w1","currency":"btc","payment_kind":"bolt11","amount_msats":null,"description":null}`,
		},
		{
			name:   "zero amount is null",
			amount: 0,
			want:   `{"wallet_id":"w1","currency":"btc","payment_kind":"bolt11","amount_msats":null,"description":null}`,
		},
		{
			name:   "numeric string amount",
			amount: "2500",
			want:   `{"wallet_id":"w1","currency":"btc","payment_kind":"bolt11","amount_msats":2500,"description":null}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := gather(t, ResourcePayment, OpCreatePaymentRequest, map[string]any{
				"organizationId":  "org",
				"environmentId":   "env",
				"receiveWalletId": "w1",
				"amountMsats":     tt.amount,
				"description":     tt.desc,
			})
			require.NoError(t, err)

			req, err := buildCreatePaymentRequest(p)
			require.NoError(t, err)

			body, err := json.Marshal(req.RequestBody())
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(body))
		})
	}
}

func TestBuildCreatePaymentRequest_InvalidAmount(t *testing.T) {
	tests := []struct {
		name       string
		amount     any
		wantReason string
	}{
		{name: "not a number", amount: "ten", wantReason: "must be an integer"},
		{name: "negative", amount: -5, wantReason: "must not be negative"},
		{name: "negative string", amount: "-5", wantReason: "must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := gather(t, ResourcePayment, OpCreatePaymentRequest, map[string]any{
				"organizationId":  "org",
				"environmentId":   "env",
				"receiveWalletId": "w1",
				"amountMsats":     tt.amount,
			})
			require.NoError(t, err)

			_, err = buildCreatePaymentRequest(p)
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, "amountMsats", validationErr.Field)
			assert.Equal(t, tt.wantReason, validationErr.Reason)
		})
	}
}

func TestParameters_Filters(t *testing.T) {
	base := func(filters any) map[string]any {
		return map[string]any{
			"organizationId": "org",
			"environmentId":  "env",
			"filters":        filters,
		}
	}

	t.Run("unset filters are omitted", func(t *testing.T) {
		p, err := gather(t, ResourcePayment, OpGetPayments, base(nil))
		require.NoError(t, err)

		f, err := p.Filters()
		require.NoError(t, err)
		assert.Nil(t, f)
		assert.Empty(t, f.Query())
	})

	t.Run("limit defaults to 50 once populated", func(t *testing.T) {
		p, err := gather(t, ResourcePayment, OpGetPayments, base(map[string]any{"offset": 20, "status": "completed"}))
		require.NoError(t, err)

		f, err := p.Filters()
		require.NoError(t, err)
		require.NotNil(t, f)
		require.NotNil(t, f.Limit)
		assert.Equal(t, 50, *f.Limit)
		assert.Equal(t, map[string]string{"limit": "50", "offset": "20", "statuses": "completed"}, f.Query())
	})

	t.Run("payment-only filters dropped for wallets", func(t *testing.T) {
		p, err := gather(t, ResourceWallet, OpGetLedger, map[string]any{
			"organizationId": "org",
			"walletId":       "w1",
			"filters":        map[string]any{"limit": "10", "direction": "send"},
		})
		require.NoError(t, err)

		f, err := p.Filters()
		require.NoError(t, err)
		require.NotNil(t, f)
		assert.Equal(t, map[string]string{"limit": "10"}, f.Query())
	})
}

func TestParameters_Polling(t *testing.T) {
	base := func(options any) map[string]any {
		return map[string]any{
			"organizationId":    "org",
			"environmentId":     "env",
			"receiveWalletId":   "w1",
			"additionalOptions": options,
		}
	}

	tests := []struct {
		name    string
		options any
		want    *PollingConfig
	}{
		{name: "unset", options: nil, want: nil},
		{name: "empty collection", options: map[string]any{}, want: nil},
		{name: "one key", options: map[string]any{"maxAttempts": 5}, want: &PollingConfig{MaxAttempts: 5}},
		{
			name:    "all keys",
			options: map[string]any{"maxAttempts": "3", "intervalMs": 250, "timeoutMs": 10000.0},
			want:    &PollingConfig{MaxAttempts: 3, IntervalMs: 250, TimeoutMs: 10000},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := gather(t, ResourcePayment, OpCreatePaymentRequest, base(tt.options))
			require.NoError(t, err)

			got, err := p.Polling()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildCreateWallet_Metadata(t *testing.T) {
	p, err := gather(t, ResourceWallet, OpCreate, map[string]any{
		"organizationId":      "org",
		"walletEnvironmentId": "env",
		"walletName":          "ops",
		"walletMetadata":      `{"team":"payments"}`,
	})
	require.NoError(t, err)

	req, err := buildCreateWallet(p)
	require.NoError(t, err)
	assert.Equal(t, "mainnet", req.Wallet.Network)
	assert.Nil(t, req.Wallet.Limit)
	assert.Equal(t, map[string]any{"team": "payments"}, req.Wallet.Metadata)
}

func TestBuildUpdateWebhook(t *testing.T) {
	p, err := gather(t, ResourceWebhook, OpUpdate, map[string]any{
		"organizationId":       "org",
		"webhookEnvironmentId": "env",
		"webhookId":            "wh1",
		"webhookUpdateFields":  map[string]any{"url": "https://example.com/hook", "eventTypes": []any{"receive.paid"}},
	})
	require.NoError(t, err)

	req, err := buildUpdateWebhook(p)
	require.NoError(t, err)

	body, err := json.Marshal(req.RequestBody())
	require.NoError(t, err)
	assert.JSONEq(t, `{"url":"https://example.com/hook","events":["receive.paid"]}`, string(body))
}

func TestBuildUpdateWebhook_FieldTypes(t *testing.T) {
	gatherUpdate := func(t *testing.T, fields map[string]any) *Parameters {
		t.Helper()
		p, err := gather(t, ResourceWebhook, OpUpdate, map[string]any{
			"organizationId":       "org",
			"webhookEnvironmentId": "env",
			"webhookId":            "wh1",
			"webhookUpdateFields":  fields,
		})
		require.NoError(t, err)
		return p
	}

	t.Run("scalar name is formatted", func(t *testing.T) {
		req, err := buildUpdateWebhook(gatherUpdate(t, map[string]any{"name": 42, "url": "https://x"}))
		require.NoError(t, err)
		assert.Equal(t, "42", req.Webhook.Name)
		assert.Equal(t, "https://x", req.Webhook.URL)
	})

	t.Run("structured url is rejected", func(t *testing.T) {
		_, err := buildUpdateWebhook(gatherUpdate(t, map[string]any{"url": map[string]any{"host": "x"}}))
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "webhookUpdateFields.url", validationErr.Field)
	})
}
