// Package backend is the client for the first-party account/licensing
// API. Every operation is a direct mapping from call parameters to a
// JSON body and back through the generic envelope; no state is held
// between calls.
package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/livekenceng/botgacor/internal/config"
	"github.com/livekenceng/botgacor/internal/requester"
	"go.uber.org/fx"
)

// Client talks to the account backend. Value-typed results are owned by
// the caller after return; the client holds no session cache.
type Client struct {
	exec  *requester.Executor
	appID string
}

// NewClient builds a backend client from the immutable process config.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		exec:  requester.NewExecutor(cfg.Backend.BaseURL, nil),
		appID: cfg.Backend.AppIdentifier,
	}
}

// Module provides the backend client dependencies
var Module = fx.Module("backend",
	fx.Provide(
		NewClient,
	),
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func credsQuery(email, password string) string {
	return fmt.Sprintf("email=%s&password=%s", url.QueryEscape(email), url.QueryEscape(password))
}

// Free-form payloads are the flattened remainder of the envelope; the
// envelope's own keys are not part of the result.
func stripEnvelopeKeys(payload map[string]any) map[string]any {
	delete(payload, "success")
	delete(payload, "message")
	return payload
}

// MachineID looks up the machine identifier registered for an email.
// The response is flat, not enveloped.
func (c *Client) MachineID(ctx context.Context, email string) (*MachineIDResult, error) {
	path := "/members/machine-id/" + url.PathEscape(email)
	query := "app_identifier=" + url.QueryEscape(c.appID)
	res, err := requester.Execute[MachineIDResult](ctx, c.exec, http.MethodGet, path, nil, query)
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, requester.UpstreamFailure("failed to get machine ID from server")
	}
	return res, nil
}

// Login authenticates a member and returns their account record.
func (c *Client) Login(ctx context.Context, email, password, machineID string) (*User, error) {
	body := struct {
		Email         string `json:"email"`
		Password      string `json:"password"`
		MachineID     string `json:"machine_id"`
		AppIdentifier string `json:"app_identifier"`
	}{email, password, machineID, c.appID}

	payload, err := requester.ExecuteFlat[struct {
		User *User `json:"user"`
	}](ctx, c.exec, http.MethodPost, "/members/login", body, "")
	if err != nil {
		return nil, err
	}
	if payload.User == nil {
		return nil, requester.MissingDataFailure("no user data in response")
	}
	return payload.User, nil
}

// RedeemLicense applies a license key to a member account.
func (c *Client) RedeemLicense(ctx context.Context, email, licenseKey string) (*RedeemResult, error) {
	body := struct {
		Email      string `json:"email"`
		LicenseKey string `json:"license_key"`
	}{email, licenseKey}
	return requester.ExecuteFlat[RedeemResult](ctx, c.exec, http.MethodPost, "/members/redeem-license", body, "")
}

// UpdateMachineID re-registers this machine for the member. The
// password is only required for a force update after a mismatch.
func (c *Client) UpdateMachineID(ctx context.Context, email, machineID string, password *string) error {
	body := map[string]any{
		"email":          email,
		"machine_id":     machineID,
		"app_identifier": c.appID,
	}
	if password != nil {
		body["password"] = *password
	}
	return requester.ExecuteOK(ctx, c.exec, http.MethodPost, "/members/machine-id", body, "")
}

// ChangePassword replaces the member password.
func (c *Client) ChangePassword(ctx context.Context, email string, currentPassword *string, newPassword, machineID string) error {
	body := struct {
		Email           string  `json:"email"`
		CurrentPassword *string `json:"current_password"`
		NewPassword     string  `json:"new_password"`
		MachineID       string  `json:"machine_id"`
	}{email, currentPassword, newPassword, machineID}
	return requester.ExecuteOK(ctx, c.exec, http.MethodPost, "/members/change-password", body, "")
}

// ShopeeAccounts lists the member's stored upstream accounts.
// Credentials travel as query parameters on this endpoint.
func (c *Client) ShopeeAccounts(ctx context.Context, email, password string) ([]ShopeeAccount, error) {
	payload, err := requester.ExecuteFlat[struct {
		Data *[]ShopeeAccount `json:"data"`
	}](ctx, c.exec, http.MethodGet, "/members/shopee-accounts", nil, credsQuery(email, password))
	if err != nil {
		return nil, err
	}
	if payload.Data == nil {
		return nil, requester.MissingDataFailure("no data in response")
	}
	return *payload.Data, nil
}

// AddShopeeAccount stores a new upstream account. The created object
// comes back nested under "data" on this endpoint.
func (c *Client) AddShopeeAccount(ctx context.Context, email, password, name, cookie string, isActive bool) (*ShopeeAccount, error) {
	body := map[string]any{
		"email":     email,
		"password":  password,
		"name":      name,
		"cookie":    cookie,
		"is_active": isActive,
	}
	return requester.ExecuteKey[ShopeeAccount](ctx, c.exec, http.MethodPost, "/members/shopee-accounts", body, "", "data")
}

// UpdateShopeeAccount rewrites a stored account. Unlike create, the
// updated object comes back under "shopee_account".
func (c *Client) UpdateShopeeAccount(ctx context.Context, email, password string, accountID int, name, cookie string, isActive bool) (*ShopeeAccount, error) {
	body := map[string]any{
		"email":     email,
		"password":  password,
		"name":      name,
		"cookie":    cookie,
		"is_active": isActive,
	}
	path := fmt.Sprintf("/members/shopee-accounts/%d", accountID)
	return requester.ExecuteKey[ShopeeAccount](ctx, c.exec, http.MethodPut, path, body, "", "shopee_account")
}

func (c *Client) DeleteShopeeAccount(ctx context.Context, email, password string, accountID int) error {
	path := fmt.Sprintf("/members/shopee-accounts/%d", accountID)
	return requester.ExecuteOK(ctx, c.exec, http.MethodDelete, path, credentials{email, password}, "")
}

// Niches lists the member's niches. Credentials travel in the body on
// this endpoint, GET or not.
func (c *Client) Niches(ctx context.Context, email, password string) ([]Niche, error) {
	payload, err := requester.ExecuteFlat[struct {
		Niches *[]Niche `json:"niches"`
	}](ctx, c.exec, http.MethodGet, "/members/niches", credentials{email, password}, "")
	if err != nil {
		return nil, err
	}
	if payload.Niches == nil {
		return nil, requester.MissingDataFailure("no data in response")
	}
	return *payload.Niches, nil
}

func (c *Client) CreateNiche(ctx context.Context, email, password, name string, description *string) (*Niche, error) {
	body := map[string]any{
		"email":    email,
		"password": password,
		"name":     name,
	}
	if description != nil {
		body["description"] = *description
	}
	return requester.ExecuteKey[Niche](ctx, c.exec, http.MethodPost, "/members/niches", body, "", "niche")
}

func (c *Client) UpdateNiche(ctx context.Context, email, password string, nicheID int, name string, description *string) error {
	body := map[string]any{
		"email":    email,
		"password": password,
		"name":     name,
	}
	if description != nil {
		body["description"] = *description
	}
	path := fmt.Sprintf("/members/niches/%d", nicheID)
	return requester.ExecuteOK(ctx, c.exec, http.MethodPut, path, body, "")
}

func (c *Client) DeleteNiche(ctx context.Context, email, password string, nicheID int) error {
	path := fmt.Sprintf("/members/niches/%d", nicheID)
	return requester.ExecuteOK(ctx, c.exec, http.MethodDelete, path, credentials{email, password}, "")
}

func (c *Client) ProductSets(ctx context.Context, email, password string) ([]ProductSet, error) {
	payload, err := requester.ExecuteFlat[struct {
		ProductSets *[]ProductSet `json:"product_sets"`
	}](ctx, c.exec, http.MethodGet, "/members/product-sets", credentials{email, password}, "")
	if err != nil {
		return nil, err
	}
	if payload.ProductSets == nil {
		return nil, requester.MissingDataFailure("no data in response")
	}
	return *payload.ProductSets, nil
}

func (c *Client) CreateProductSet(ctx context.Context, email, password, name string, description *string, nicheID *int) (*ProductSet, error) {
	body := map[string]any{
		"email":    email,
		"password": password,
		"name":     name,
	}
	if description != nil {
		body["description"] = *description
	}
	if nicheID != nil {
		body["niche_id"] = *nicheID
	}
	return requester.ExecuteKey[ProductSet](ctx, c.exec, http.MethodPost, "/members/product-sets", body, "", "product_set")
}

func (c *Client) UpdateProductSet(ctx context.Context, email, password string, productSetID int, name string, description *string, nicheID *int) error {
	body := map[string]any{
		"email":    email,
		"password": password,
		"name":     name,
	}
	if description != nil {
		body["description"] = *description
	}
	if nicheID != nil {
		body["niche_id"] = *nicheID
	}
	path := fmt.Sprintf("/members/product-sets/%d", productSetID)
	return requester.ExecuteOK(ctx, c.exec, http.MethodPut, path, body, "")
}

func (c *Client) DeleteProductSet(ctx context.Context, email, password string, productSetID int) error {
	path := fmt.Sprintf("/members/product-sets/%d", productSetID)
	return requester.ExecuteOK(ctx, c.exec, http.MethodDelete, path, credentials{email, password}, "")
}

// AddProductSetItems appends items to a product set. The backend's
// response payload here is free-form, so it is returned as-is.
func (c *Client) AddProductSetItems(ctx context.Context, email, password string, productSetID int, items []NewProductSetItem) (map[string]any, error) {
	body := map[string]any{
		"email":    email,
		"password": password,
		"items":    items,
	}
	path := fmt.Sprintf("/members/product-sets/%d/items", productSetID)
	payload, err := requester.ExecuteFlat[map[string]any](ctx, c.exec, http.MethodPost, path, body, "")
	if err != nil {
		return nil, err
	}
	return stripEnvelopeKeys(*payload), nil
}

func (c *Client) DeleteProductSetItem(ctx context.Context, email, password string, productSetID, itemID int) error {
	path := fmt.Sprintf("/members/product-sets/%d/items/%d", productSetID, itemID)
	return requester.ExecuteOK(ctx, c.exec, http.MethodDelete, path, credentials{email, password}, "")
}

func (c *Client) ClearProductSetItems(ctx context.Context, email, password string, productSetID int) error {
	path := fmt.Sprintf("/members/product-sets/%d/items", productSetID)
	return requester.ExecuteOK(ctx, c.exec, http.MethodDelete, path, credentials{email, password}, "")
}

// ActiveSessionIDs returns the live-session ids for an upstream
// account. The backend reports at most one active session, and its id
// may arrive as a string, a number, or null; a null session yields an
// empty slice.
func (c *Client) ActiveSessionIDs(ctx context.Context, email, password string, shopeeAccountID int) ([]string, error) {
	body := map[string]any{
		"email":             email,
		"password":          password,
		"shopee_account_id": shopeeAccountID,
	}
	res, err := requester.Execute[struct {
		Success   bool                 `json:"success"`
		SessionID requester.FlexibleID `json:"session_id"`
		Message   *string              `json:"message"`
	}](ctx, c.exec, http.MethodPost, "/shopee-live/active-session", body, "")
	if err != nil {
		return nil, err
	}
	if !res.Success {
		msg := "failed to get active session"
		if res.Message != nil {
			msg = *res.Message
		}
		return nil, requester.UpstreamFailure(msg)
	}
	if !res.SessionID.Valid {
		return []string{}, nil
	}
	return []string{res.SessionID.Value}, nil
}

// ReplaceProducts swaps the products shown in a live session for those
// of a product set. The response payload is free-form.
func (c *Client) ReplaceProducts(ctx context.Context, email, password string, shopeeAccountID int, sessionID string, productSetID int) (map[string]any, error) {
	body := map[string]any{
		"email":             email,
		"password":          password,
		"shopee_account_id": shopeeAccountID,
		"session_id":        sessionID,
		"product_set_id":    productSetID,
	}
	payload, err := requester.ExecuteFlat[map[string]any](ctx, c.exec, http.MethodPost, "/shopee-live/replace-products", body, "")
	if err != nil {
		return nil, err
	}
	return stripEnvelopeKeys(*payload), nil
}

// ClearProducts removes all products from a live session.
func (c *Client) ClearProducts(ctx context.Context, email, password string, shopeeAccountID int, sessionID string) error {
	body := map[string]any{
		"email":             email,
		"password":          password,
		"shopee_account_id": shopeeAccountID,
		"session_id":        sessionID,
	}
	return requester.ExecuteOK(ctx, c.exec, http.MethodPost, "/shopee-live/clear-products", body, "")
}
