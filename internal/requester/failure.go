package requester

import (
	"errors"
	"fmt"
)

// FailureKind classifies how a request attempt went wrong.
type FailureKind string

const (
	// KindInvalidMethod is a pre-flight rejection; no network activity occurred.
	KindInvalidMethod FailureKind = "invalid_method"
	// KindTransport covers DNS, connect and timeout errors.
	KindTransport FailureKind = "transport"
	// KindHTTPStatus is a completed round trip with a non-2xx status.
	KindHTTPStatus FailureKind = "http_status"
	// KindDecode is a 2xx response whose body does not match the expected
	// shape, or a request body that could not be serialized pre-flight.
	KindDecode FailureKind = "decode"
	// KindUpstream is a logical failure reported by the remote service itself.
	KindUpstream FailureKind = "upstream"
	// KindMissingData is a logical success whose expected payload is absent.
	KindMissingData FailureKind = "missing_data"
)

// Failure is the tagged error surfaced for every classified request
// outcome. Nothing is retried internally; callers own retry policy.
type Failure struct {
	Kind       FailureKind
	Message    string
	StatusCode int    // set for KindHTTPStatus
	Body       string // raw response text, when one was received
	Err        error  // underlying cause for transport/decode failures
}

func (f *Failure) Error() string {
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// AsFailure unwraps err into a *Failure if it carries one.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

func invalidMethodFailure(method string) *Failure {
	return &Failure{
		Kind:    KindInvalidMethod,
		Message: fmt.Sprintf("invalid HTTP method %q", method),
	}
}

// encodeFailure reports a request body that could not be serialized.
// Like an invalid method it is pre-flight; no network activity occurred.
func encodeFailure(err error) *Failure {
	return &Failure{
		Kind:    KindDecode,
		Message: fmt.Sprintf("failed to encode request body: %v", err),
		Err:     err,
	}
}

func transportFailure(err error) *Failure {
	return &Failure{
		Kind:    KindTransport,
		Message: fmt.Sprintf("request failed: %v", err),
		Err:     err,
	}
}

// HTTPStatusFailure reports a completed round trip whose status code was
// not in the 2xx range, regardless of whether the body parses as JSON.
func HTTPStatusFailure(status int, body string) *Failure {
	return &Failure{
		Kind:       KindHTTPStatus,
		Message:    fmt.Sprintf("HTTP %d: %s", status, body),
		StatusCode: status,
		Body:       body,
	}
}

// DecodeFailure reports a body that was received but does not match the
// expected shape.
func DecodeFailure(err error, body string) *Failure {
	return &Failure{
		Kind:    KindDecode,
		Message: fmt.Sprintf("failed to parse response: %v - %s", err, body),
		Body:    body,
		Err:     err,
	}
}

// UpstreamFailure reports a logical failure flagged by the remote
// service (success indicator false or nonzero error code).
func UpstreamFailure(message string) *Failure {
	return &Failure{
		Kind:    KindUpstream,
		Message: message,
	}
}

// MissingDataFailure reports a logically successful response whose
// expected payload is absent.
func MissingDataFailure(message string) *Failure {
	return &Failure{
		Kind:    KindMissingData,
		Message: message,
	}
}
