package shopee

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/livekenceng/botgacor/internal/config"
	"github.com/livekenceng/botgacor/internal/requester"
)

func upstreamConfig(baseURL string) *config.Config {
	return &config.Config{
		Upstream: config.UpstreamConfig{
			BaseURL:                   baseURL,
			UserAgent:                 "test-agent",
			LoginUserAgent:            "test-login-agent",
			DeviceFingerprint:         "device-fp",
			SecurityDeviceFingerprint: "security-fp",
			AntiAbuseToken:            "anti-abuse-token",
		},
	}
}

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(upstreamConfig(server.URL))
}

func TestGenerateQR(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/authentication/gen_qrcode", r.URL.Path)
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		assert.NotEmpty(t, r.Header.Get("Origin"))
		assert.NotEmpty(t, r.Header.Get("Referer"))
		_, _ = w.Write([]byte(`{"error":0,"data":{"qrcode_id":"abc","qrcode_base64":"aW1hZ2U="}}`))
	})

	challenge, err := client.GenerateQR(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", challenge.ID)
	assert.Equal(t, "aW1hZ2U=", challenge.ImageBase64)
}

func TestGenerateQRUpstreamError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":77,"error_msg":"rate limited"}`))
	})

	_, err := client.GenerateQR(context.Background())
	require.Error(t, err)
	failure, ok := requester.AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, requester.KindUpstream, failure.Kind)
	assert.Contains(t, failure.Message, "77")
	assert.Contains(t, failure.Message, "rate limited")
}

func TestGenerateQRMissingData(t *testing.T) {
	// error zero with absent data is still a failure, distinct from a
	// nonzero code.
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":0}`))
	})

	_, err := client.GenerateQR(context.Background())
	require.Error(t, err)
	failure, ok := requester.AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, requester.KindMissingData, failure.Kind)
}

func TestQRStatusNormalizesEmptyToken(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "abc", r.URL.Query().Get("qrcode_id"))
		_, _ = w.Write([]byte(`{"error":0,"data":{"qrcode_token":"","status":"WAITING"}}`))
	})

	status, err := client.QRStatus(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "WAITING", status.Status)
	assert.Empty(t, status.Token)
}

func TestQRStatusIdempotentBeforeConfirmation(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":0,"data":{"qrcode_token":"","status":"WAITING"}}`))
	})

	first, err := client.QRStatus(context.Background(), "abc")
	require.NoError(t, err)
	second, err := client.QRStatus(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, first.Status, second.Status)
	assert.Empty(t, second.Token)
}

func TestLoginSuccessJoinsCookies(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v2/authentication/qrcode_login", r.URL.Path)
		assert.Equal(t, "test-login-agent", r.Header.Get("User-Agent"))
		assert.Equal(t, "anti-abuse-token", r.Header.Get("Af-Ac-Enc-Sz-Token"))
		assert.Equal(t, "pc", r.Header.Get("X-Api-Source"))

		var body struct {
			QRToken           string `json:"qrcode_token"`
			DeviceFingerprint string `json:"device_sz_fingerprint"`
			ClientIdentifier  struct {
				SecurityDeviceFingerprint string `json:"security_device_fingerprint"`
			} `json:"client_identifier"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "tok123", body.QRToken)
		assert.Equal(t, "device-fp", body.DeviceFingerprint)
		assert.Equal(t, "security-fp", body.ClientIdentifier.SecurityDeviceFingerprint)

		w.Header().Add("Set-Cookie", "a=1")
		w.Header().Add("Set-Cookie", "b=2")
		_, _ = w.Write([]byte(`{"error":0}`))
	})

	outcome, err := client.Login(context.Background(), "tok123")
	require.NoError(t, err)
	assert.True(t, outcome.Succeeded)
	assert.Equal(t, "a=1; b=2", outcome.Cookies)
	assert.Empty(t, outcome.ErrorMessage)
}

func TestLoginHTTPFailureIsAnOutcomeNotAnError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Set-Cookie", "a=1")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`blocked`))
	})

	outcome, err := client.Login(context.Background(), "tok123")
	require.NoError(t, err, "login failures are expected, recoverable outcomes")
	assert.False(t, outcome.Succeeded)
	assert.Empty(t, outcome.Cookies)
	assert.Contains(t, outcome.ErrorMessage, "HTTP 403")
	assert.Contains(t, outcome.ErrorMessage, "blocked")
}

func TestLoginUpstreamErrorIsAnOutcome(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":5,"error_msg":"token expired"}`))
	})

	outcome, err := client.Login(context.Background(), "tok123")
	require.NoError(t, err)
	assert.False(t, outcome.Succeeded)
	assert.Equal(t, "token expired", outcome.ErrorMessage)
}

func TestAccountInfo(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v4/account/basic/get_account_info", r.URL.Path)
		assert.Equal(t, "a=1; b=2", r.Header.Get("Cookie"))
		_, _ = w.Write([]byte(`{"error":0,"data":{"userid":42,"username":"seller","nickname":"Seller","email":"s@example.com","phone":null}}`))
	})

	identity, err := client.AccountInfo(context.Background(), "a=1; b=2")
	require.NoError(t, err)
	assert.Equal(t, int64(42), identity.UserID)
	assert.Equal(t, "seller", identity.Username)
	require.NotNil(t, identity.Email)
	assert.Equal(t, "s@example.com", *identity.Email)
	assert.Nil(t, identity.Phone)
}

// TestQRLoginHandshake walks the whole generate/poll/exchange sequence
// against a stub upstream: waiting before the scan, confirmed after,
// and cookies joined on exchange.
func TestQRLoginHandshake(t *testing.T) {
	scanned := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v2/authentication/gen_qrcode":
			_, _ = w.Write([]byte(`{"error":0,"data":{"qrcode_id":"abc","qrcode_base64":"aW1hZ2U="}}`))
		case "/api/v2/authentication/qrcode_status":
			assert.Equal(t, "abc", r.URL.Query().Get("qrcode_id"))
			if scanned {
				_, _ = w.Write([]byte(`{"error":0,"data":{"qrcode_token":"tok123","status":"CONFIRMED"}}`))
			} else {
				_, _ = w.Write([]byte(`{"error":0,"data":{"qrcode_token":"","status":"WAITING"}}`))
			}
		case "/api/v2/authentication/qrcode_login":
			w.Header().Add("Set-Cookie", "a=1")
			w.Header().Add("Set-Cookie", "b=2")
			_, _ = w.Write([]byte(`{"error":0}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewClient(upstreamConfig(server.URL))
	ctx := context.Background()

	challenge, err := client.GenerateQR(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", challenge.ID)

	pending, err := client.QRStatus(ctx, challenge.ID)
	require.NoError(t, err)
	assert.Equal(t, "WAITING", pending.Status)
	assert.Empty(t, pending.Token)

	scanned = true

	confirmed, err := client.QRStatus(ctx, challenge.ID)
	require.NoError(t, err)
	assert.Equal(t, "CONFIRMED", confirmed.Status)
	assert.Equal(t, "tok123", confirmed.Token)

	outcome, err := client.Login(ctx, confirmed.Token)
	require.NoError(t, err)
	assert.True(t, outcome.Succeeded)
	assert.Equal(t, "a=1; b=2", outcome.Cookies)
}
