package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const devIssuer = "wanderai-dev"

// DevClaims are the claims of a development token
type DevClaims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// DevTokenIssuer signs and checks HS256 tokens with the local secret key.
// It stands in for Firebase in development and tests.
type DevTokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewDevTokenIssuer(secret string, ttl time.Duration) *DevTokenIssuer {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &DevTokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue generates a token for subject
func (d *DevTokenIssuer) Issue(subject, email, name string) (string, error) {
	now := d.now()
	claims := DevClaims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    devIssuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(d.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(d.secret)
}

func (d *DevTokenIssuer) Verify(_ context.Context, raw string) (*Identity, error) {
	claims := &DevClaims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return d.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(devIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(d.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return &Identity{Subject: claims.Subject, Email: claims.Email, DisplayName: claims.Name}, nil
}
