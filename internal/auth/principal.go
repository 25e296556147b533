// Package auth turns the bearer credential presented on a request into an
// authenticated principal. Two verification strategies exist: self-issued
// tokens signed and validated locally, and delegated verification where the
// raw token is resolved by the hosted identity provider. Both normalize into
// the same Principal so no handler ever branches on the strategy in use.
package auth

// Principal is the authenticated identity attached to a request. It is
// derived fresh from the credential on every request and never cached.
// ID equals the owning profiles.id in the store; handlers use it verbatim as
// the user_id when scoping queries or inserts to the current user.
type Principal struct {
	ID     string
	Email  string
	Name   string
	Claims map[string]any // raw claim set the verifier saw
}
