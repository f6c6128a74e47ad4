package user

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned for unknown user ids.
var ErrNotFound = errors.New("user not found")

// User mirrors the identity record of the external auth provider. It plays
// no part in authorization decisions; the allow-list does.
type User struct {
	ID              string
	Email           string
	FirstName       string
	LastName        string
	ProfileImageURL string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Repository is the identity-mirror slice of the storage contract.
type Repository interface {
	GetUser(ctx context.Context, id string) (*User, error)
	UpsertUser(ctx context.Context, u *User) (*User, error)
}
