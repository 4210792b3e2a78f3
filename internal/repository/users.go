package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"wanderai-backend/internal/common"
	"wanderai-backend/internal/models"
)

const uniqueViolation = "23505"

const userColumns = `id, firebase_uid, email, display_name, preferences, created_at, updated_at`

// UserRepository stores local user records keyed by identity provider subject
type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row scanner) (*models.User, error) {
	u := &models.User{}
	if err := row.Scan(&u.ID, &u.FirebaseUID, &u.Email, &u.DisplayName, &u.Preferences, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	if u.Preferences == nil {
		u.Preferences = map[string]any{}
	}
	return u, nil
}

// GetByFirebaseUID returns common.ErrNotFound when no user has the subject
func (r *UserRepository) GetByFirebaseUID(ctx context.Context, uid string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE firebase_uid = $1`, uid))
	if err != nil {
		return nil, notFound(err, "get user")
	}
	return u, nil
}

// GetByEmail returns common.ErrNotFound when no user has the email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		return nil, notFound(err, "get user by email")
	}
	return u, nil
}

// Create inserts u, or returns the existing row when another request created
// the same subject first. An email already held by another subject yields
// common.ErrConflict.
func (r *UserRepository) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	now := time.Now().UTC()
	prefs := u.Preferences
	if prefs == nil {
		prefs = map[string]any{}
	}

	created, err := scanUser(r.db.QueryRow(ctx,
		`INSERT INTO users (id, firebase_uid, email, display_name, preferences, created_at, updated_at)
         VALUES ($1, $2, $3, $4, $5, $6, $6)
         ON CONFLICT (firebase_uid) DO UPDATE SET firebase_uid = EXCLUDED.firebase_uid
         RETURNING `+userColumns,
		u.ID, u.FirebaseUID, u.Email, u.DisplayName, prefs, now,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("create user %s: %w", pgErr.ConstraintName, common.ErrConflict)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

// UpdateProfile changes the provided fields only. A nil argument leaves the column unchanged.
func (r *UserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, displayName *string, prefs map[string]any) (*models.User, error) {
	var prefsArg any
	if prefs != nil {
		prefsArg = prefs
	}
	u, err := scanUser(r.db.QueryRow(ctx,
		`UPDATE users
            SET display_name = COALESCE($2, display_name),
                preferences = COALESCE($3::jsonb, preferences),
                updated_at = $4
          WHERE id = $1
          RETURNING `+userColumns,
		id, displayName, prefsArg, time.Now().UTC(),
	))
	if err != nil {
		return nil, notFound(err, "update user")
	}
	return u, nil
}
