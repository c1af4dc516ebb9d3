package shopee

// QRChallenge is a freshly generated login challenge. The caller renders
// the base64 image for scanning and polls QRStatus with the id.
type QRChallenge struct {
	ID          string `json:"qrcode_id"`
	ImageBase64 string `json:"qrcode_base64"`
}

// QRStatus is one poll result. Status is an opaque upstream string; the
// terminal values are not enumerated here, termination is the caller's
// contract with the upstream. Token is empty until the challenge has
// been scanned and confirmed.
type QRStatus struct {
	Status string `json:"status"`
	Token  string `json:"qrcode_token,omitempty"`
}

// LoginOutcome is the sole artifact of the handshake. Cookies is the
// semicolon-joined set of Set-Cookie values from the token exchange,
// present only when Succeeded is true, and is handed to the caller as
// an opaque credential blob. A failed exchange is an ordinary outcome,
// not an error.
type LoginOutcome struct {
	Succeeded    bool   `json:"success"`
	Cookies      string `json:"cookies,omitempty"`
	ErrorMessage string `json:"error_msg,omitempty"`
}

// AccountIdentity is the upstream account metadata readable with a
// previously obtained cookie blob.
type AccountIdentity struct {
	UserID   int64   `json:"userid"`
	Username string  `json:"username"`
	Nickname string  `json:"nickname"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
}
