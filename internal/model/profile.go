package model

import "time"

// Profile represents a member account as stored in the `profiles` table.
// The row is created by the identity provider at sign-up; this service only
// ever reads it. The ID equals the provider's user id, so exactly one
// profile exists per account and tokens can be matched to rows directly.
//
// Password is the legacy plaintext credential column some historical
// deployments still carry. It is never serialized and is only consulted by
// the self-issued login flow.
type Profile struct {
	ID        string    // profiles.id (the provider's user id)
	Name      string    // profiles.name
	Email     string    // profiles.email
	Password  string    // profiles.password (legacy column, may be empty)
	CreatedAt time.Time // profiles.created_at
}
