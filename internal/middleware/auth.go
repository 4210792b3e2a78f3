package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"wanderai-backend/internal/auth"
	"wanderai-backend/internal/common"
	"wanderai-backend/internal/models"
	"wanderai-backend/internal/utils"
)

// Authenticator resolves a bearer token to a user
type Authenticator interface {
	Resolve(ctx context.Context, token string) (*models.User, error)
}

// AuthMiddleware validates the bearer token in the Authorization header and
// puts the resolved user into the request context.
func AuthMiddleware(next http.HandlerFunc, authn Authenticator, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			utils.WriteError(w, r, log, common.Unauthorized(auth.CredentialsMessage, nil))
			return
		}

		user, err := authn.Resolve(r.Context(), token)
		if err != nil {
			utils.WriteError(w, r, log, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(utils.WithUser(r.Context(), user)))
	}
}

// bearerToken extracts the token from "Bearer <token>"
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
