// Package shopee drives the upstream platform's unofficial QR
// authentication API. The login handshake is three independently
// callable phases (generate, poll, exchange); all state between phases
// (the current qr id, the token) is owned by the caller and passed back
// in, so the sequence itself holds nothing.
package shopee

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/livekenceng/botgacor/internal/config"
	"github.com/livekenceng/botgacor/internal/requester"
	"go.uber.org/fx"
)

const (
	genQRPath       = "/api/v2/authentication/gen_qrcode"
	qrStatusPath    = "/api/v2/authentication/qrcode_status"
	qrLoginPath     = "/api/v2/authentication/qrcode_login"
	accountInfoPath = "/api/v4/account/basic/get_account_info"
)

// Client is a session client for the upstream platform. Every call
// carries a realistic browser identity; the upstream rejects requests
// without one.
type Client struct {
	exec *requester.Executor
	cfg  config.UpstreamConfig
}

// NewClient builds an upstream client from the immutable process config.
func NewClient(cfg *config.Config) *Client {
	headers := map[string]string{
		"User-Agent":      cfg.Upstream.UserAgent,
		"Accept":          "application/json, text/plain",
		"Accept-Language": "en-US,en;q=0.9",
		"Origin":          cfg.Upstream.BaseURL,
		"Referer":         cfg.Upstream.BaseURL + "/",
	}
	return &Client{
		exec: requester.NewExecutor(cfg.Upstream.BaseURL, headers),
		cfg:  cfg.Upstream,
	}
}

// Module provides the upstream client dependencies
var Module = fx.Module("shopee",
	fx.Provide(
		NewClient,
	),
)

// The upstream envelope convention differs from the backend's: a
// numeric error field where zero means success, paired with error_msg.
type rpcEnvelope struct {
	Error    int             `json:"error"`
	ErrorMsg *string         `json:"error_msg"`
	Data     json.RawMessage `json:"data"`
}

// decodeRPC interprets the error-code envelope. Zero with absent data
// is still a failure (missing data), distinct from a nonzero code.
func decodeRPC[T any](body []byte) (*T, error) {
	var env rpcEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, requester.DecodeFailure(err, string(body))
	}
	if env.Error != 0 {
		msg := "Unknown error"
		if env.ErrorMsg != nil {
			msg = *env.ErrorMsg
		}
		return nil, requester.UpstreamFailure(fmt.Sprintf("Shopee API error: %d - %s", env.Error, msg))
	}
	if len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		return nil, requester.MissingDataFailure("no data in response")
	}
	var out T
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return nil, requester.DecodeFailure(err, string(body))
	}
	return &out, nil
}

func rpcGet[T any](ctx context.Context, c *Client, path, query string, headers map[string]string) (*T, error) {
	resp, err := c.exec.DoWithHeaders(ctx, http.MethodGet, path, nil, query, headers)
	if err != nil {
		return nil, err
	}
	if !resp.Success() {
		return nil, requester.HTTPStatusFailure(resp.StatusCode, string(resp.Body))
	}
	return decodeRPC[T](resp.Body)
}

// GenerateQR starts a login handshake by requesting a fresh challenge.
func (c *Client) GenerateQR(ctx context.Context) (*QRChallenge, error) {
	return rpcGet[QRChallenge](ctx, c, genQRPath, "", nil)
}

// QRStatus polls the state of a challenge. An empty upstream token is
// normalized to absent; callers poll on their own timer until the
// opaque status signals completion or expiry.
func (c *Client) QRStatus(ctx context.Context, qrID string) (*QRStatus, error) {
	query := "qrcode_id=" + url.QueryEscape(qrID)
	status, err := rpcGet[QRStatus](ctx, c, qrStatusPath, query, nil)
	if err != nil {
		return nil, err
	}
	return status, nil
}

// Login exchanges a confirmed token for session cookies. Set-Cookie
// values are captured before any error check because the upstream may
// set cookies even on a logically failed response. Failed or expired
// tokens are an expected steady-state condition, so both a non-2xx
// status and a nonzero upstream code come back as an unsucceeded
// outcome rather than an error.
func (c *Client) Login(ctx context.Context, token string) (*LoginOutcome, error) {
	payload := struct {
		QRToken           string `json:"qrcode_token"`
		DeviceFingerprint string `json:"device_sz_fingerprint"`
		ClientIdentifier  struct {
			SecurityDeviceFingerprint string `json:"security_device_fingerprint"`
		} `json:"client_identifier"`
	}{
		QRToken:           token,
		DeviceFingerprint: c.cfg.DeviceFingerprint,
	}
	payload.ClientIdentifier.SecurityDeviceFingerprint = c.cfg.SecurityDeviceFingerprint

	headers := map[string]string{
		"User-Agent":         c.cfg.LoginUserAgent,
		"Accept":             "application/json",
		"X-Sz-Sdk-Version":   "3.3.0-2&1.6.6",
		"X-Api-Source":       "pc",
		"X-Shopee-Language":  "id",
		"X-Requested-With":   "XMLHttpRequest",
		"Af-Ac-Enc-Sz-Token": c.cfg.AntiAbuseToken,
		"Sec-Ch-Ua-Platform": `"macOS"`,
		"Referer":            c.cfg.BaseURL + "/buyer/login/qr?next=" + url.QueryEscape(c.cfg.BaseURL+"/"),
	}

	resp, err := c.exec.DoWithHeaders(ctx, http.MethodPost, qrLoginPath, payload, "", headers)
	if err != nil {
		return nil, err
	}

	cookies := strings.Join(resp.Headers.Values("Set-Cookie"), "; ")

	if !resp.Success() {
		return &LoginOutcome{
			Succeeded:    false,
			ErrorMessage: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, resp.Body),
		}, nil
	}

	var env rpcEnvelope
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, requester.DecodeFailure(err, string(resp.Body))
	}
	if env.Error != 0 {
		outcome := &LoginOutcome{Succeeded: false}
		if env.ErrorMsg != nil {
			outcome.ErrorMessage = *env.ErrorMsg
		}
		return outcome, nil
	}

	return &LoginOutcome{
		Succeeded: true,
		Cookies:   cookies,
	}, nil
}

// AccountInfo reads the account metadata a cookie blob grants access to.
func (c *Client) AccountInfo(ctx context.Context, cookies string) (*AccountIdentity, error) {
	headers := map[string]string{
		"Cookie": cookies,
		"Accept": "application/json",
	}
	return rpcGet[AccountIdentity](ctx, c, accountInfoPath, "", headers)
}
