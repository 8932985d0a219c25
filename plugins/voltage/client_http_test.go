package voltage

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	APIKey string
	Body   map[string]any
}

// apiServer fakes the Voltage API: handler answers each request and every
// request is recorded.
func apiServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*HTTPClient, *[]recordedRequest) {
	t.Helper()

	var mu sync.Mutex
	var requests []recordedRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			APIKey: r.Header.Get("X-Api-Key"),
		}
		if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
			assert.NoError(t, json.Unmarshal(raw, &rec.Body))
		}
		mu.Lock()
		requests = append(requests, rec)
		mu.Unlock()

		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := NewHTTPClient(Credentials{APIKey: "vltg_test", BaseURL: srv.URL + "/api/v1/", Timeout: 5000})
	require.NoError(t, err)
	client.newID = func() string { return "generated-id" }
	return client, &requests
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestNewHTTPClient_RequiresAPIKey(t *testing.T) {
	_, err := NewHTTPClient(Credentials{BaseURL: DefaultBaseURL})
	assert.Error(t, err)
}

func TestHTTPClient_GetWallets(t *testing.T) {
	client, requests := apiServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `[{"id":"w1"},{"id":"w2"}]`)
	})

	result, err := client.GetWallets(context.Background(), OrganizationParams{OrganizationID: "org-1"})
	require.NoError(t, err)
	assert.Len(t, result.Children(), 2)

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/api/v1/organizations/org-1/wallets", req.Path)
	assert.Equal(t, "vltg_test", req.APIKey)
}

func TestHTTPClient_LedgerFilters(t *testing.T) {
	client, requests := apiServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"items":[]}`)
	})

	limit := 50
	_, err := client.GetWalletLedger(context.Background(), WalletLedgerParams{
		OrganizationID: "org",
		WalletID:       "w1",
		Filters:        &ListFilters{Limit: &limit, SortOrder: "DESC"},
	})
	require.NoError(t, err)

	req := (*requests)[0]
	assert.Equal(t, "/api/v1/organizations/org/wallets/w1/ledger", req.Path)
	assert.Equal(t, "limit=50&sort_order=DESC", req.Query)
}

func TestHTTPClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr *APIError
	}{
		{
			name:    "json error body",
			status:  http.StatusNotFound,
			body:    `{"message":"wallet not found","code":"NOT_FOUND"}`,
			wantErr: &APIError{Status: 404, Code: "NOT_FOUND", Message: "wallet not found", Details: map[string]any{"message": "wallet not found", "code": "NOT_FOUND"}},
		},
		{
			name:    "details field",
			status:  http.StatusUnprocessableEntity,
			body:    `{"error":"invalid","details":{"field":"amount_msats"}}`,
			wantErr: &APIError{Status: 422, Message: "invalid", Details: map[string]any{"field": "amount_msats"}},
		},
		{
			name:    "html body",
			status:  http.StatusForbidden,
			body:    `<html>Forbidden</html>`,
			wantErr: &APIError{Status: 403, Message: ErrMsgParseJSON},
		},
		{
			name:    "non-json success",
			status:  http.StatusOK,
			body:    `OK`,
			wantErr: &APIError{Status: 200, Message: ErrMsgParseJSON},
		},
		{
			name:    "empty error body",
			status:  http.StatusBadGateway,
			body:    ``,
			wantErr: &APIError{Status: 502, Message: "Bad Gateway"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := apiServer(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})

			_, err := client.GetWallet(context.Background(), WalletParams{OrganizationID: "org", WalletID: "w1"})

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.wantErr, apiErr)
		})
	}
}

func TestHTTPClient_DeleteWithEmptyBody(t *testing.T) {
	client, requests := apiServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	result, err := client.DeleteWallet(context.Background(), WalletParams{OrganizationID: "org", WalletID: "w1"})
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Equal(t, http.MethodDelete, (*requests)[0].Method)
}

func TestHTTPClient_CreatePaymentRequestPolls(t *testing.T) {
	var polls int
	client, requests := apiServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusAccepted)
			return
		}
		polls++
		if polls < 3 {
			writeJSON(w, http.StatusOK, `{"id":"generated-id","status":"generating"}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"id":"generated-id","status":"receiving","data":{"payment_request":"lnbc1"}}`)
	})

	amount := int64(1000)
	result, err := client.CreatePaymentRequest(context.Background(), CreatePaymentRequestParams{
		OrganizationID: "org",
		EnvironmentID:  "env",
		Payment:        PaymentRequest{WalletID: "w1", Currency: "btc", PaymentKind: "bolt11", AmountMsats: &amount},
	}, &PollingConfig{IntervalMs: 1})
	require.NoError(t, err)
	assert.Equal(t, "receiving", result.Path("status").Data())
	assert.Equal(t, "lnbc1", result.Path("data.payment_request").Data())

	require.Len(t, *requests, 4)
	post := (*requests)[0]
	assert.Equal(t, "/api/v1/organizations/org/environments/env/payments", post.Path)
	assert.Equal(t, map[string]any{
		"id":           "generated-id",
		"wallet_id":    "w1",
		"currency":     "btc",
		"payment_kind": "bolt11",
		"amount_msats": float64(1000),
		"description":  nil,
	}, post.Body)
	assert.Equal(t, "/api/v1/organizations/org/environments/env/payments/generated-id", (*requests)[3].Path)
}

func TestHTTPClient_SendPaymentGivesUpAfterMaxAttempts(t *testing.T) {
	client, requests := apiServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusAccepted)
			return
		}
		writeJSON(w, http.StatusOK, `{"id":"generated-id","status":"sending"}`)
	})

	_, err := client.SendPayment(context.Background(), SendPaymentParams{
		OrganizationID: "org",
		EnvironmentID:  "env",
		Payment:        SendPaymentPayload{WalletID: "w1", Bolt11: "lnbc1"},
	}, &PollingConfig{MaxAttempts: 2, IntervalMs: 1})
	assert.ErrorContains(t, err, "after 2 attempts")

	require.Len(t, *requests, 3)
	assert.Equal(t, map[string]any{
		"id":        "generated-id",
		"wallet_id": "w1",
		"currency":  "btc",
		"type":      "bolt11",
		"data":      map[string]any{"payment_request": "lnbc1", "amount_msats": nil},
	}, (*requests)[0].Body)
}

func TestHTTPClient_WebhookActions(t *testing.T) {
	client, requests := apiServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"key":"whsec_1"}`)
	})
	ref := WebhookParams{OrganizationID: "org", EnvironmentID: "env", WebhookID: "wh1"}

	_, err := client.StartWebhook(context.Background(), ref)
	require.NoError(t, err)
	_, err = client.StopWebhook(context.Background(), ref)
	require.NoError(t, err)
	key, err := client.GenerateWebhookKey(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, "whsec_1", key.Path("key").Data())

	var paths []string
	for _, r := range *requests {
		assert.Equal(t, http.MethodPost, r.Method)
		paths = append(paths, r.Path)
	}
	assert.Equal(t, []string{
		"/api/v1/organizations/org/environments/env/webhooks/wh1/start",
		"/api/v1/organizations/org/environments/env/webhooks/wh1/stop",
		"/api/v1/organizations/org/environments/env/webhooks/wh1/keys",
	}, paths)
}

func TestHTTPClient_CreateWebhookFetchesWhenAckIsEmpty(t *testing.T) {
	client, requests := apiServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusCreated)
			return
		}
		writeJSON(w, http.StatusOK, `{"id":"generated-id","url":"https://example.com/hook"}`)
	})

	result, err := client.CreateWebhook(context.Background(), CreateWebhookParams{
		OrganizationID: "org",
		EnvironmentID:  "env",
		Webhook:        NewWebhook{URL: "https://example.com/hook", EventTypes: []string{"receive.paid"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "generated-id", result.Path("id").Data())

	require.Len(t, *requests, 2)
	assert.Equal(t, map[string]any{
		"id":     "generated-id",
		"url":    "https://example.com/hook",
		"events": []any{"receive.paid"},
	}, (*requests)[0].Body)
	assert.Equal(t, "/api/v1/organizations/org/environments/env/webhooks/generated-id", (*requests)[1].Path)
}
