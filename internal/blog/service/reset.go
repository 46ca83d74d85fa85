package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/inkwellhq/inkwell/internal/blog/domain"
	"github.com/inkwellhq/inkwell/internal/blog/store"
	"github.com/inkwellhq/inkwell/pkg/cryptox"
	"github.com/inkwellhq/inkwell/pkg/jwtx"
	"github.com/inkwellhq/inkwell/pkg/mailx"
	"github.com/inkwellhq/inkwell/pkg/slogx"
)

var (
	ErrInvalidResetToken  = errors.New("invalid_reset_token")
	ErrResetNotAuthorized = errors.New("reset_not_authorized")
)

// ResetService drives the three-step password-reset protocol. Each step is
// a separate request; everything needed to resume lives on the persisted
// account record, never in process memory.
type ResetService struct {
	Store  store.Store
	Mailer mailx.Dispatcher
	Tokens jwtx.Signer
	Issuer string

	// BaseURL is the externally reachable prefix for reset links.
	BaseURL string

	// TokenTTL bounds the lifetime of an issued reset token. Zero keeps the
	// legacy behaviour of tokens that stay valid until consumed.
	TokenTTL time.Duration

	// Now is overridable for tests; nil means time.Now.
	Now func() time.Time
}

func (s *ResetService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Forgot issues a fresh reset token for the account and mails out the
// reset link. Only the most recently issued token is valid; any earlier
// pending token is overwritten. A mail delivery failure is returned to the
// caller, never swallowed.
func (s *ResetService) Forgot(ctx context.Context, username string) error {
	log := slogx.FromContext(ctx)

	account, err := s.Store.Accounts().GetAccountByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAccountNotFound
		}
		return err
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	var expiresAt *time.Time
	if s.TokenTTL > 0 {
		t := s.now().Add(s.TokenTTL)
		expiresAt = &t
	}

	if err := s.Store.Accounts().SetResetToken(ctx, account.ID, token, expiresAt); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/verifyReset?id=%s&token=%s", s.BaseURL, account.ID, token)
	body := fmt.Sprintf(
		"A password reset was requested for your account.\n\n"+
			"Follow this link to continue: %s\n\n"+
			"If you did not request this, you can ignore this message.", link)

	if err := s.Mailer.Send(account.Email, "Reset your password", body); err != nil {
		return fmt.Errorf("dispatch reset mail: %w", err)
	}

	log.Info("reset token issued", "account_id", account.ID)
	return nil
}

// Verify consumes the emailed token. On an exact match the stored token is
// cleared and the reset-pending flag raised in a single guarded update; a
// mismatch or lapsed expiry mutates nothing. Not idempotent: a second call
// with the already-consumed token fails.
func (s *ResetService) Verify(ctx context.Context, accountID, token string) error {
	if token == "" {
		return ErrInvalidResetToken
	}

	ok, err := s.Store.Accounts().ConsumeResetToken(ctx, accountID, token, s.now())
	if err != nil {
		return err
	}
	if !ok {
		// Either the account does not exist, the token was wrong, already
		// consumed, or expired. Distinguish the missing account for the
		// caller; everything else is the same failure.
		if _, err := s.Store.Accounts().GetAccountByID(ctx, accountID); errors.Is(err, store.ErrNotFound) {
			return ErrAccountNotFound
		}
		return ErrInvalidResetToken
	}
	return nil
}

// Reset sets the new password. It requires a prior successful Verify
// (reset-pending flag), the usual confirmation match and the signup
// strength policy. The hash, flag and token are updated atomically; a
// second call with the same inputs fails because the flag is down.
func (s *ResetService) Reset(ctx context.Context, accountID, newPassword, confirmPassword string) (domain.Account, string, error) {
	account, err := s.Store.Accounts().GetAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, "", ErrAccountNotFound
		}
		return domain.Account{}, "", err
	}

	if !account.ResetPending {
		return domain.Account{}, "", ErrResetNotAuthorized
	}
	if newPassword != confirmPassword {
		return domain.Account{}, "", ErrPasswordMismatch
	}
	if err := validatePassword(newPassword); err != nil {
		return domain.Account{}, "", err
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return domain.Account{}, "", fmt.Errorf("hash password: %w", err)
	}

	ok, err := s.Store.Accounts().CompletePasswordReset(ctx, account.ID, hash)
	if err != nil {
		return domain.Account{}, "", err
	}
	if !ok {
		// Lost a race with another reset of the same account.
		return domain.Account{}, "", ErrResetNotAuthorized
	}

	account.PasswordHash = hash
	account.ResetPending = false
	account.ResetToken = nil
	account.ResetTokenExpiresAt = nil

	claims := jwtx.NewSessionClaims(account.ID, account.Username, s.Issuer, jwtx.DefaultSessionTTL, s.now())
	token, err := s.Tokens.Sign(claims)
	if err != nil {
		return domain.Account{}, "", fmt.Errorf("issue session token: %w", err)
	}
	return account, token, nil
}
