package http

import (
	"encoding/json"
	"net/http"

	"github.com/inkwellhq/inkwell/internal/blog/service"
	"github.com/inkwellhq/inkwell/pkg/httpx"
	"github.com/inkwellhq/inkwell/pkg/idx"
)

type ResetHandler struct {
	ResetService *service.ResetService
}

type forgotRequest struct {
	Username string `json:"username"`
}

// HandleForgot godoc
//
//	@Summary		Request a password reset
//	@Description	Issues a reset token for the account and mails out a reset link. Only the most recent token stays valid.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			body	body		forgotRequest	true	"Account username"
//	@Success		200		{object}	map[string]string
//	@Failure		404		{object}	httpx.ErrorResponse	"unknown username"
//	@Failure		500		{object}	httpx.ErrorResponse	"mail delivery failed"
//	@Router			/v1/accounts/forgot-password [post].
func (h *ResetHandler) HandleForgot(w http.ResponseWriter, r *http.Request) {
	var req forgotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if err := h.ResetService.Forgot(r.Context(), req.Username); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Password reset email sent.",
	})
}

// HandleVerify godoc
//
//	@Summary		Verify a reset token
//	@Description	Consumes the emailed token and authorizes a subsequent password change. The link format is /verifyReset?id=<accountId>&token=<resetToken>.
//	@Tags			Accounts
//	@Produce		json
//	@Param			id		query		string	true	"Account id"
//	@Param			token	query		string	true	"Reset token"
//	@Success		200		{object}	map[string]string
//	@Failure		400		{object}	httpx.ErrorResponse	"wrong or consumed token"
//	@Failure		404		{object}	httpx.ErrorResponse	"unknown account"
//	@Router			/v1/accounts/verifyReset [get].
func (h *ResetHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	accountID, err := idx.Parse(r.URL.Query().Get("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	token := r.URL.Query().Get("token")

	if err := h.ResetService.Verify(r.Context(), accountID.String(), token); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Reset token verified. You may now set a new password.",
	})
}

type resetRequest struct {
	ID              string `json:"id"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// HandleReset godoc
//
//	@Summary		Set a new password
//	@Description	Completes the reset flow after a verified token and returns the account with a fresh session token.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			body	body		resetRequest	true	"New password payload"
//	@Success		200		{object}	AuthResponse
//	@Failure		400		{object}	httpx.ErrorResponse	"not authorized, mismatch or weak password"
//	@Failure		404		{object}	httpx.ErrorResponse	"unknown account"
//	@Router			/v1/accounts/reset-password [patch].
func (h *ResetHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	accountID, err := idx.Parse(req.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	account, token, err := h.ResetService.Reset(r.Context(),
		accountID.String(), req.NewPassword, req.ConfirmPassword)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, AuthResponse{
		Result: toAccountResponse(account),
		Token:  token,
	})
}
