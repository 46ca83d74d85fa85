package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/inkwellhq/inkwell/internal/blog/domain"
	"github.com/inkwellhq/inkwell/internal/blog/service"
	"github.com/inkwellhq/inkwell/pkg/httpx"
)

// AccountResponse is the sanitized account representation; the password
// hash and reset state never leave the service.
type AccountResponse struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email,omitempty"`
	Favourites []string  `json:"favourites"`
	CreatedAt  time.Time `json:"createdAt"`
}

// AuthResponse is the body of every successful authentication: the account
// plus a fresh session token.
type AuthResponse struct {
	Result AccountResponse `json:"result"`
	Token  string          `json:"token"`
}

func toAccountResponse(a domain.Account) AccountResponse {
	favourites := a.Favourites
	if favourites == nil {
		favourites = []string{}
	}
	return AccountResponse{
		ID:         a.ID,
		Username:   a.Username,
		Email:      a.Email,
		Favourites: favourites,
		CreatedAt:  a.CreatedAt,
	}
}

type AccountsHandler struct {
	AccountService *service.AccountService
}

type signupRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// HandleSignup godoc
//
//	@Summary		Register a new account
//	@Description	Creates an account and returns it with a session token.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			body	body		signupRequest	true	"Signup payload"
//	@Success		200		{object}	AuthResponse
//	@Failure		400		{object}	httpx.ErrorResponse	"weak password or mismatch"
//	@Failure		404		{object}	httpx.ErrorResponse	"username taken"
//	@Router			/v1/accounts/signup [post].
func (h *AccountsHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	account, token, err := h.AccountService.Signup(r.Context(),
		req.Username, req.Email, req.Password, req.ConfirmPassword)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, AuthResponse{
		Result: toAccountResponse(account),
		Token:  token,
	})
}

type signinRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleSignin godoc
//
//	@Summary		Sign in
//	@Description	Verifies credentials and returns the account with a session token. Repeated failures lock the account temporarily.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			body	body		signinRequest	true	"Signin payload"
//	@Success		200		{object}	AuthResponse
//	@Failure		400		{object}	httpx.ErrorResponse	"invalid credentials"
//	@Failure		401		{object}	httpx.ErrorResponse	"account locked"
//	@Failure		404		{object}	httpx.ErrorResponse	"unknown username"
//	@Router			/v1/accounts/signin [post].
func (h *AccountsHandler) HandleSignin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	account, token, err := h.AccountService.SignIn(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, AuthResponse{
		Result: toAccountResponse(account),
		Token:  token,
	})
}
