package domain

import "time"

// Account is a user's persisted identity, credentials and lockout/reset
// state. Usernames are unique and immutable after creation; the email is
// informational only and never verified.
type Account struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string // argon2id encoded

	// Lockout state. FailedAttempts resets to zero only on a successful
	// sign-in; lock expiry alone leaves the counter untouched.
	FailedAttempts int
	LockedUntil    *time.Time

	// Reset state. ResetPending means a previously-issued ResetToken was
	// validated and a password change is now allowed. Both are cleared
	// together with the password update.
	ResetToken          *string
	ResetTokenExpiresAt *time.Time
	ResetPending        bool

	// Favourites holds the ids of posts this account has liked.
	Favourites []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Locked reports whether the account is inside an active lock window at
// the given instant. Both conditions must hold: the counter reached the
// threshold and the window has not elapsed.
func (a Account) Locked(now time.Time, maxAttempts int) bool {
	return a.FailedAttempts >= maxAttempts &&
		a.LockedUntil != nil && now.Before(*a.LockedUntil)
}
