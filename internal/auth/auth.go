// Package auth verifies bearer tokens and maps them to local users.
package auth

import (
	"context"
	"errors"
)

// ErrInvalidToken is returned by verifiers for any token they do not accept.
var ErrInvalidToken = errors.New("invalid token")

// Identity is what a verified token says about its holder
type Identity struct {
	Subject     string
	Email       string
	DisplayName string
}

// TokenVerifier validates a raw bearer token
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// ChainVerifier tries each verifier in order; the first that accepts wins.
type ChainVerifier []TokenVerifier

func (c ChainVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	if len(c) == 0 {
		return nil, errors.New("no token verifier configured")
	}
	var errs []error
	for _, v := range c {
		id, err := v.Verify(ctx, token)
		if err == nil {
			return id, nil
		}
		errs = append(errs, err)
	}
	return nil, errors.Join(errs...)
}
