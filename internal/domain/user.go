package domain

import (
	"strings"
	"time"
)

// User is a registered account. PasswordHash is never serialized.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser builds a User ready for insertion. The ID is assigned by the store.
// The caller supplies an already hashed password.
func NewUser(name, email, passwordHash string) (*User, error) {
	now := time.Now().UTC()
	u := &User{
		Name:         strings.TrimSpace(name),
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

// Validate checks the invariants a stored user must satisfy.
func (u *User) Validate() error {
	if u.Name == "" {
		return NewValidationError("name", "cannot be empty", nil)
	}
	if u.Email == "" {
		return NewValidationError("email", "cannot be empty", nil)
	}
	if u.PasswordHash == "" {
		return NewValidationError("password", "hash cannot be empty", nil)
	}
	return nil
}

// NormalizeEmail lower-cases and trims an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserUpdate lists the user columns a partial update may touch.
// A nil field is left unchanged.
type UserUpdate struct {
	Name         *string
	Email        *string
	PasswordHash *string
}

// IsEmpty reports whether the update changes nothing.
func (u UserUpdate) IsEmpty() bool {
	return u.Name == nil && u.Email == nil && u.PasswordHash == nil
}

// Validate rejects set fields that would leave the user violating Validate
// once applied. Names and emails are checked after trimming, the same way
// Apply stores them.
func (u UserUpdate) Validate() error {
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return NewValidationError("name", "cannot be empty", nil)
	}
	if u.Email != nil && NormalizeEmail(*u.Email) == "" {
		return NewValidationError("email", "cannot be empty", nil)
	}
	if u.PasswordHash != nil && *u.PasswordHash == "" {
		return NewValidationError("password", "hash cannot be empty", nil)
	}
	return nil
}

// Apply copies the set fields onto user and bumps UpdatedAt.
func (u UserUpdate) Apply(user *User, now time.Time) {
	if u.Name != nil {
		user.Name = strings.TrimSpace(*u.Name)
	}
	if u.Email != nil {
		user.Email = NormalizeEmail(*u.Email)
	}
	if u.PasswordHash != nil {
		user.PasswordHash = *u.PasswordHash
	}
	user.UpdatedAt = now
}
