package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/inkwellhq/inkwell/internal/blog/domain"
	"github.com/inkwellhq/inkwell/internal/blog/store"
	"github.com/inkwellhq/inkwell/pkg/cryptox"
	"github.com/inkwellhq/inkwell/pkg/idx"
	"github.com/inkwellhq/inkwell/pkg/jwtx"
	"github.com/inkwellhq/inkwell/pkg/slogx"
)

// Lockout policy defaults.
const (
	DefaultMaxAttempts  = 5
	DefaultLockDuration = 30 * time.Minute
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrAccountLocked      = errors.New("account_locked")
	ErrAccountNotFound    = errors.New("account_not_found")
	ErrDuplicateAccount   = errors.New("duplicate_account")
	ErrPasswordMismatch   = errors.New("password_mismatch")
	ErrWeakPassword       = errors.New("weak_password")
)

const passwordSymbols = "@$!%*?&"

// validatePassword enforces the signup strength policy: at least 8
// characters with one lowercase, one uppercase, one digit and one symbol
// from the fixed set, drawing only from those character classes.
func validatePassword(password string) error {
	if len(password) < 8 {
		return ErrWeakPassword
	}

	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		default:
			return ErrWeakPassword
		}
	}

	if !lower || !upper || !digit || !symbol {
		return ErrWeakPassword
	}
	return nil
}

// AccountService is the authenticator: it creates accounts, verifies
// credentials, applies the lockout policy and issues session tokens.
type AccountService struct {
	Store        store.Store
	Tokens       jwtx.Signer
	Issuer       string
	SessionTTL   time.Duration
	MaxAttempts  int
	LockDuration time.Duration

	// Now is overridable for tests; nil means time.Now.
	Now func() time.Time
}

func (s *AccountService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *AccountService) maxAttempts() int {
	if s.MaxAttempts > 0 {
		return s.MaxAttempts
	}
	return DefaultMaxAttempts
}

func (s *AccountService) lockDuration() time.Duration {
	if s.LockDuration > 0 {
		return s.LockDuration
	}
	return DefaultLockDuration
}

func (s *AccountService) sessionTTL() time.Duration {
	if s.SessionTTL > 0 {
		return s.SessionTTL
	}
	return jwtx.DefaultSessionTTL
}

func (s *AccountService) issueToken(a domain.Account) (string, error) {
	claims := jwtx.NewSessionClaims(a.ID, a.Username, s.Issuer, s.sessionTTL(), s.now())
	return s.Tokens.Sign(claims)
}

// Signup registers a new account and returns it with a session token
// scoped to it. The username must be unused and the password must satisfy
// the strength policy.
func (s *AccountService) Signup(ctx context.Context, username, email, password, confirmPassword string) (domain.Account, string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return domain.Account{}, "", ErrInvalidCredentials
	}

	_, err := s.Store.Accounts().GetAccountByUsername(ctx, username)
	switch {
	case err == nil:
		return domain.Account{}, "", ErrDuplicateAccount
	case !errors.Is(err, store.ErrNotFound):
		return domain.Account{}, "", err
	}

	if password != confirmPassword {
		return domain.Account{}, "", ErrPasswordMismatch
	}
	if err := validatePassword(password); err != nil {
		return domain.Account{}, "", err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.Account{}, "", fmt.Errorf("hash password: %w", err)
	}

	account := domain.Account{
		ID:           idx.New().String(),
		Username:     username,
		Email:        strings.TrimSpace(email),
		PasswordHash: hash,
		Favourites:   []string{},
	}

	if err := s.Store.Accounts().CreateAccount(ctx, account); err != nil {
		// A concurrent signup can win the race between the lookup above and
		// this insert; the unique constraint is authoritative.
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Account{}, "", ErrDuplicateAccount
		}
		return domain.Account{}, "", err
	}

	token, err := s.issueToken(account)
	if err != nil {
		return domain.Account{}, "", fmt.Errorf("issue session token: %w", err)
	}
	return account, token, nil
}

// SignIn verifies credentials against the stored hash, driving the lockout
// state machine. Inside an active lock window every attempt fails with
// ErrAccountLocked regardless of password correctness. Lock expiry alone
// does not reset the counter; only a successful sign-in does, so a wrong
// password right after expiry can immediately re-lock.
func (s *AccountService) SignIn(ctx context.Context, username, password string) (domain.Account, string, error) {
	log := slogx.FromContext(ctx)
	now := s.now()

	account, err := s.Store.Accounts().GetAccountByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, "", ErrAccountNotFound
		}
		return domain.Account{}, "", err
	}

	if account.Locked(now, s.maxAttempts()) {
		return domain.Account{}, "", ErrAccountLocked
	}

	if err := cryptox.VerifyPassword(password, account.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrPasswordMismatch) {
			// Unusable stored hash is a server-side fault, not a client error.
			return domain.Account{}, "", fmt.Errorf("verify password: %w", err)
		}

		attempts, err := s.Store.Accounts().IncrementFailedAttempts(ctx, account.ID)
		if err != nil {
			return domain.Account{}, "", err
		}
		if attempts >= s.maxAttempts() {
			until := now.Add(s.lockDuration())
			if err := s.Store.Accounts().LockAccount(ctx, account.ID, until); err != nil {
				return domain.Account{}, "", err
			}
			log.Info("account locked after repeated failures",
				"account_id", account.ID, "attempts", attempts)
		}
		return domain.Account{}, "", ErrInvalidCredentials
	}

	if err := s.Store.Accounts().ClearLockout(ctx, account.ID); err != nil {
		return domain.Account{}, "", err
	}
	account.FailedAttempts = 0
	account.LockedUntil = nil

	token, err := s.issueToken(account)
	if err != nil {
		return domain.Account{}, "", fmt.Errorf("issue session token: %w", err)
	}
	return account, token, nil
}

// GetAccountByID fetches an account by id.
func (s *AccountService) GetAccountByID(ctx context.Context, accountID string) (domain.Account, error) {
	account, err := s.Store.Accounts().GetAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, ErrAccountNotFound
		}
		return domain.Account{}, err
	}
	return account, nil
}
