package http

import (
	"errors"
	"net/http"

	"github.com/inkwellhq/inkwell/internal/blog/service"
	"github.com/inkwellhq/inkwell/pkg/cryptox"
	"github.com/inkwellhq/inkwell/pkg/httpx"
	"github.com/inkwellhq/inkwell/pkg/idx"
	"github.com/inkwellhq/inkwell/pkg/slogx"
)

const weakPasswordMessage = "Password must have at least 8 characters, " +
	"including uppercase and lowercase letters, digits, and special characters."

// writeServiceError maps service-layer sentinel errors onto the HTTP
// status table. Cryptographic integrity failures on stored data are
// server-side faults: logged in full, reported generically.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	log := slogx.FromContext(r.Context())

	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusBadRequest, "Invalid credentials")
	case errors.Is(err, service.ErrAccountLocked):
		httpx.WriteError(w, http.StatusUnauthorized, "Account temporarily locked. Please try again later.")
	case errors.Is(err, service.ErrDuplicateAccount):
		httpx.WriteError(w, http.StatusNotFound, "User already exists.")
	case errors.Is(err, service.ErrAccountNotFound):
		httpx.WriteError(w, http.StatusNotFound, "User doesn't exist.")
	case errors.Is(err, service.ErrPasswordMismatch):
		httpx.WriteError(w, http.StatusBadRequest, "Passwords do not match")
	case errors.Is(err, service.ErrWeakPassword):
		httpx.WriteError(w, http.StatusBadRequest, weakPasswordMessage)
	case errors.Is(err, service.ErrInvalidResetToken):
		httpx.WriteError(w, http.StatusBadRequest, "Invalid or expired reset token.")
	case errors.Is(err, service.ErrResetNotAuthorized):
		httpx.WriteError(w, http.StatusBadRequest, "Password reset not authorized.")
	case errors.Is(err, service.ErrPostNotFound):
		httpx.WriteError(w, http.StatusNotFound, "Post not found.")
	case errors.Is(err, service.ErrCommentNotFound):
		httpx.WriteError(w, http.StatusNotFound, "Comment not found.")
	case errors.Is(err, service.ErrNotOwner):
		httpx.WriteError(w, http.StatusForbidden, "Not authorized to modify this resource.")
	case errors.Is(err, service.ErrSameContent):
		httpx.WriteError(w, http.StatusBadRequest, "The provided content is the same as the existing one.")
	case errors.Is(err, idx.ErrInvalid):
		httpx.WriteError(w, http.StatusNotFound, "Invalid identifier.")
	case errors.Is(err, cryptox.ErrMalformedCiphertext), errors.Is(err, cryptox.ErrBadPadding):
		log.Error("stored field failed decryption", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal Server Error")
	default:
		log.Error("request failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

// pathID extracts and validates the {id} path parameter as a single scalar
// identifier. Anything malformed is rejected here rather than passed
// downstream.
func pathID(r *http.Request) (string, error) {
	id, err := idx.Parse(r.PathValue("id"))
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
