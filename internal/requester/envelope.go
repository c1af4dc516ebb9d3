package requester

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// The account backend wraps every response in a {success, message?, ...}
// envelope, but is inconsistent about where the payload lives: some
// endpoints flatten it into the top level, others nest it under an
// endpoint-specific key ("niche", "product_set", "shopee_account",
// "data"). The extraction strategy is therefore an explicit per-call
// choice (UnwrapFlat vs UnwrapKey) rather than inferred.

type envelope struct {
	Success *bool   `json:"success"`
	Message *string `json:"message"`
}

// checkEnvelope validates the generic envelope: the top level must carry
// a boolean success indicator, and success:false is an upstream failure
// carrying the message when one is present.
func checkEnvelope(body []byte) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return DecodeFailure(err, string(body))
	}
	if env.Success == nil {
		return DecodeFailure(fmt.Errorf("missing boolean success field"), string(body))
	}
	if !*env.Success {
		if env.Message != nil {
			return UpstreamFailure(*env.Message)
		}
		return UpstreamFailure("upstream reported failure")
	}
	return nil
}

// UnwrapFlat decodes an envelope whose payload fields sit at the top
// level alongside success/message.
func UnwrapFlat[T any](body []byte) (*T, error) {
	if err := checkEnvelope(body); err != nil {
		return nil, err
	}
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, DecodeFailure(err, string(body))
	}
	return &out, nil
}

// UnwrapKey decodes an envelope whose payload is nested under the named
// top-level key. A successful envelope missing the key is a MissingData
// failure, never a silently-zero value.
func UnwrapKey[T any](body []byte, key string) (*T, error) {
	if err := checkEnvelope(body); err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, DecodeFailure(err, string(body))
	}
	raw, ok := fields[key]
	if !ok || bytes.Equal(raw, []byte("null")) {
		return nil, MissingDataFailure(fmt.Sprintf("no %q in response", key))
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, DecodeFailure(err, string(body))
	}
	return &out, nil
}

// ExecuteFlat performs one round trip and unwraps a flattened envelope.
func ExecuteFlat[T any](ctx context.Context, e *Executor, method, path string, body any, query string) (*T, error) {
	resp, err := e.Do(ctx, method, path, body, query)
	if err != nil {
		return nil, err
	}
	if !resp.Success() {
		return nil, HTTPStatusFailure(resp.StatusCode, string(resp.Body))
	}
	return UnwrapFlat[T](resp.Body)
}

// ExecuteKey performs one round trip and unwraps the payload nested
// under the named key.
func ExecuteKey[T any](ctx context.Context, e *Executor, method, path string, body any, query string, key string) (*T, error) {
	resp, err := e.Do(ctx, method, path, body, query)
	if err != nil {
		return nil, err
	}
	if !resp.Success() {
		return nil, HTTPStatusFailure(resp.StatusCode, string(resp.Body))
	}
	return UnwrapKey[T](resp.Body, key)
}

// ExecuteOK performs one round trip for endpoints that return an
// envelope with no payload worth reading.
func ExecuteOK(ctx context.Context, e *Executor, method, path string, body any, query string) error {
	resp, err := e.Do(ctx, method, path, body, query)
	if err != nil {
		return err
	}
	if !resp.Success() {
		return HTTPStatusFailure(resp.StatusCode, string(resp.Body))
	}
	return checkEnvelope(resp.Body)
}
