package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"wanderai-backend/internal/common"
	"wanderai-backend/internal/models"
)

// CredentialsMessage is the only message clients see for auth failures.
const CredentialsMessage = "Could not validate credentials"

// UserStore looks up and creates users by identity subject
type UserStore interface {
	GetByFirebaseUID(ctx context.Context, uid string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, u *models.User) (*models.User, error)
}

// Resolver turns a bearer token into the local user, creating the user on first sight.
type Resolver struct {
	verifier TokenVerifier
	users    UserStore
	log      *slog.Logger
}

func NewResolver(verifier TokenVerifier, users UserStore, log *slog.Logger) *Resolver {
	return &Resolver{verifier: verifier, users: users, log: log.With("component", "auth")}
}

// Resolve returns a 401 AppError for every failure, whatever the cause.
func (r *Resolver) Resolve(ctx context.Context, token string) (*models.User, error) {
	user, err := r.resolve(ctx, token)
	if err != nil {
		r.log.WarnContext(ctx, "authentication failed", "error", err)
		return nil, common.Unauthorized(CredentialsMessage, err)
	}
	return user, nil
}

func (r *Resolver) resolve(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: empty token", ErrInvalidToken)
	}
	id, err := r.verifier.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := r.users.GetByFirebaseUID(ctx, id.Subject)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	if id.Email == "" {
		return nil, fmt.Errorf("%w: token carries no email", ErrInvalidToken)
	}

	// Another provider may already have signed this person in.
	user, err = r.byEmail(ctx, id)
	if err == nil || !errors.Is(err, common.ErrNotFound) {
		return user, err
	}

	u := &models.User{FirebaseUID: id.Subject, Email: id.Email, Preferences: map[string]any{}}
	if id.DisplayName != "" {
		name := id.DisplayName
		u.DisplayName = &name
	}
	created, err := r.users.Create(ctx, u)
	if errors.Is(err, common.ErrConflict) {
		return r.byEmail(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	r.log.InfoContext(ctx, "created user", "user_id", created.ID)
	return created, nil
}

func (r *Resolver) byEmail(ctx context.Context, id *Identity) (*models.User, error) {
	user, err := r.users.GetByEmail(ctx, id.Email)
	if err != nil {
		return nil, err
	}
	r.log.InfoContext(ctx, "signed in through another provider", "user_id", user.ID, "subject", id.Subject)
	return user, nil
}
