package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-vault-guard/internal/logger"
	"github.com/MKhiriev/go-vault-guard/internal/utils"
	"github.com/MKhiriev/go-vault-guard/models"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type pinVerifyRequest struct {
	Email string `json:"email"`
	Pin   string `json:"pin"`

	// TOTPCode is consulted only by the login verify endpoint, and only
	// when the account has two-factor auth enabled.
	TOTPCode string `json:"totp_code,omitempty"`
}

type totpConfirmRequest struct {
	RegistrationToken string `json:"registration_token"`
	Code              string `json:"code"`
}

type twoFactorVerifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError logs err and renders the mapped status with a JSON error body.
func writeError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	logger.FromRequest(r).Err(err).Msg(msg)

	status := statusFromError(err)
	body := msg
	if status == http.StatusInternalServerError {
		body = http.StatusText(http.StatusInternalServerError)
	}

	utils.WriteJSON(w, errorResponse{Error: body}, status)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.FromRequest(r).Err(err).Msg("Invalid JSON was passed")
		utils.WriteJSON(w, errorResponse{Error: "Invalid JSON was passed"}, http.StatusBadRequest)
		return false
	}
	return true
}

func (h *Handler) registerStart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	delivery, err := h.services.AuthService.RegisterStart(ctx, req.Email, req.Password)
	if err != nil {
		writeError(w, r, err, "registration could not be started")
		return
	}

	utils.WriteJSON(w, models.PinIssueResponse{
		Message:  "PIN sent to email. Verify to complete registration.",
		Delivery: delivery,
	}, http.StatusOK)
}

func (h *Handler) registerConfirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req pinVerifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.services.AuthService.RegisterConfirm(ctx, req.Email, req.Pin)
	if err != nil {
		writeError(w, r, err, "registration could not be completed")
		return
	}

	log.Info().Int64("id", user.UserID).Msg("user registered")

	utils.WriteJSON(w, models.PinIssueResponse{Message: "Registration successful!"}, http.StatusCreated)
}

func (h *Handler) registerProvisionTOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	pending, err := h.services.AuthService.RegisterProvisionTOTP(ctx, req.Email, req.Password)
	if err != nil {
		writeError(w, r, err, "totp provisioning failed")
		return
	}

	utils.WriteJSON(w, pending, http.StatusOK)
}

func (h *Handler) registerConfirmToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req totpConfirmRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.services.AuthService.RegisterConfirmToken(ctx, req.RegistrationToken, req.Code)
	if err != nil {
		writeError(w, r, err, "registration could not be completed")
		return
	}

	log.Info().Int64("id", user.UserID).Msg("user registered with 2fa enabled")

	utils.WriteJSON(w, models.PinIssueResponse{Message: "Registration complete"}, http.StatusCreated)
}

func (h *Handler) loginStart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	delivery, err := h.services.AuthService.LoginStart(ctx, req.Email, req.Password)
	if err != nil {
		writeError(w, r, err, "invalid credentials")
		return
	}

	utils.WriteJSON(w, models.PinIssueResponse{
		Message:  "PIN sent to email. Verify to login.",
		Delivery: delivery,
	}, http.StatusOK)
}

func (h *Handler) loginConfirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req pinVerifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, token, err := h.services.AuthService.LoginConfirm(ctx, req.Email, req.Pin, req.TOTPCode)
	if err != nil {
		writeError(w, r, err, "login could not be completed")
		return
	}

	log.Debug().Int64("id", user.UserID).Msg("user successfully logged in")

	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", token.SignedString))
	utils.WriteJSON(w, models.SessionResponse{
		Message: "Login successful!",
		Token:   token.SignedString,
		UserID:  user.UserID,
	}, http.StatusOK)
}

func (h *Handler) twoFactorVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req twoFactorVerifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.services.AuthService.TwoFactorVerify(ctx, req.Email, req.Code); err != nil {
		writeError(w, r, err, "two-factor verification failed")
		return
	}

	utils.WriteJSON(w, models.PinIssueResponse{Message: "2FA verified and enabled"}, http.StatusOK)
}
