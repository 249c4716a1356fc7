package models

// Delivery statuses reported after a verification code has been issued.
const (
	// DeliveryOK means the code was emailed successfully.
	DeliveryOK = "ok"

	// DeliveryDegraded means the code record was created but the mail step
	// failed or SMTP is not configured. The code is still valid.
	DeliveryDegraded = "degraded"
)

// PinIssueResponse is returned by the registration and login start endpoints
// after a verification code has been created.
type PinIssueResponse struct {
	// Message is a human-readable status line.
	Message string `json:"message"`

	// Delivery is "ok" when the out-of-band mail delivery succeeded and
	// "degraded" when the code record was created but delivery failed.
	// A degraded response still counts as success: the code exists and
	// can be re-sent or looked up through support channels.
	Delivery string `json:"delivery,omitempty"`
}

// SessionResponse is returned once the login flow reaches the SessionIssued
// state. Token duplicates the Authorization header value for clients that
// prefer reading the body.
type SessionResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	UserID  int64  `json:"user_id"`
}

// PendingRegistrationResponse is returned by the TOTP registration path.
// The token is a signed, self-contained pending-registration credential;
// no server-side record exists until it is confirmed.
type PendingRegistrationResponse struct {
	// RegistrationToken carries email, password hash, and the pre-derived
	// TOTP secret, signed by the server.
	RegistrationToken string `json:"registration_token"`

	// OtpauthURL is the otpauth://totp/... provisioning URI for
	// authenticator-app enrollment.
	OtpauthURL string `json:"otpauth_url"`
}
