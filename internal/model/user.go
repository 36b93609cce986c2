// Package model defines the data structures shared across the service.
package model

import "time"

// User is a registered account.
//
// PasswordHash holds only the bcrypt digest, never the plaintext. The
// `json:"-"` tag keeps it out of every response body — GET /api/auth returns
// the user "minus password" and the tag enforces that in one place.
//
// Avatar is derived deterministically from the email at registration time
// (gravatar scheme), so it needs no update path.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Avatar       string    `json:"avatar"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
