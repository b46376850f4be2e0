package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/movsyannikov/tasktracker/internal/model"
	"github.com/movsyannikov/tasktracker/internal/repo"
	"github.com/movsyannikov/tasktracker/pkg/respond"
)

// UserResolver loads the live user behind a verified token. Tokens are
// not individually revocable, so resolving on every request is the only
// revocation mechanism for deleted accounts.
type UserResolver interface {
	GetByID(ctx context.Context, id uuid.UUID) (model.User, error)
}

type ctxKey struct{}

// Middleware verifies the Authorization header and attaches the resolved
// identity to the request context. Downstream handlers trust it as-is.
func Middleware(creds *Credentials, users UserResolver, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				respond.Error(w, r, http.StatusUnauthorized, "Authentication required")
				return
			}

			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || raw == "" {
				respond.Error(w, r, http.StatusUnauthorized, "Authentication required")
				return
			}

			id, err := creds.VerifyToken(raw)
			if err != nil {
				respond.Error(w, r, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			user, err := users.GetByID(r.Context(), id)
			if errors.Is(err, repo.ErrNotFound) {
				// Account deleted after the token was issued.
				respond.Error(w, r, http.StatusUnauthorized, "User not found")
				return
			}
			if err != nil {
				logger.Error("resolve token subject", zap.Error(err))
				respond.Error(w, r, http.StatusInternalServerError, "Internal server error")
				return
			}

			next.ServeHTTP(w, r.WithContext(
				context.WithValue(r.Context(), ctxKey{}, user),
			))
		})
	}
}

// UserFrom returns the identity attached by Middleware.
func UserFrom(ctx context.Context) (model.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(model.User)
	return u, ok
}
