// Package repository declares the storage interfaces the services depend
// on. The sqlite sub-package implements them; tests use in-memory fakes.
package repository

import (
	"context"

	"github.com/sakif/devconnect/internal/model"
)

// Users persists account records. Email uniqueness is enforced by the
// store; Create returns apperror.ErrDuplicate on a collision so the race
// between the service's lookup and the insert is still caught.
type Users interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// Profiles persists profile documents, at most one per user.
type Profiles interface {
	// Upsert atomically inserts the profile or replaces every profile field
	// of the existing row keyed by UserID (full replacement, not a patch).
	// The experience and education lists are never written on the update
	// path; UpdateEntries owns those. The stored result — including the
	// joined owner and the surviving entry lists — is written back into
	// profile.
	Upsert(ctx context.Context, profile *model.Profile) error

	// GetByUserID returns the profile owned by userID with the owner's
	// name and avatar joined in, or apperror.ErrNotFound.
	GetByUserID(ctx context.Context, userID string) (*model.Profile, error)

	// List returns every profile with owners joined, newest first.
	List(ctx context.Context) ([]model.Profile, error)

	// UpdateEntries persists only the experience and education lists of an
	// existing profile.
	UpdateEntries(ctx context.Context, profile *model.Profile) error
}

// Accounts ties the user and profile tables together for operations that
// must touch both atomically.
type Accounts interface {
	// DeleteAccount removes the user's profile and the user record in one
	// transaction; a failure leaves both in place.
	DeleteAccount(ctx context.Context, userID string) error
}
