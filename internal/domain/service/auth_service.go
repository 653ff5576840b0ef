package service

import "context"

// TokenVerifier checks a bearer ID token with the identity provider and
// returns the user id it was issued for.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (string, error)
}
