package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/auth0/go-jwt-middleware/v2"

	"moviecatalog/internal/apperr"
	"moviecatalog/internal/logging"
	"moviecatalog/internal/types"
	"moviecatalog/internal/utils"
)

// UserLoader resolves the subject of a verified token to a user. It returns
// an apperr not-found error when the user no longer exists.
type UserLoader func(ctx context.Context, id string) (*types.User, error)

type userContextKey struct{}

// Middleware authenticates requests with a bearer token and attaches the
// token's user to the request context.
type Middleware struct {
	jwt   *jwtmiddleware.JWTMiddleware
	users UserLoader
}

func NewMiddleware(tokens *TokenManager, users UserLoader) *Middleware {
	return &Middleware{
		jwt: jwtmiddleware.New(
			tokens.ValidateToken,
			jwtmiddleware.WithErrorHandler(tokenErrorHandler),
		),
		users: users,
	}
}

func tokenErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	msg := "Not authorized, token failed"
	if errors.Is(err, jwtmiddleware.ErrJWTMissing) {
		msg = "Not authorized, no token"
	}
	logging.Ctx(r.Context()).Debug().Err(err).Msg("Token rejected")
	utils.RespondError(w, r, apperr.Unauthorized(msg))
}

// RequireAuth rejects requests without a valid token for an existing user.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return m.jwt.CheckJWT(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := subject(r.Context().Value(jwtmiddleware.ContextKey{}))
		if err != nil {
			utils.RespondError(w, r, apperr.Unauthorized("Not authorized, token failed"))
			return
		}

		user, err := m.users(r.Context(), userID)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				utils.RespondError(w, r, apperr.Unauthorized("Not authorized, user not found"))
				return
			}
			utils.RespondError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
	}))
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok || !user.IsAdmin {
			utils.RespondError(w, r, apperr.Unauthorized("Not authorized as an admin"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func ContextWithUser(ctx context.Context, user *types.User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

func UserFromContext(ctx context.Context) (*types.User, bool) {
	user, ok := ctx.Value(userContextKey{}).(*types.User)
	return user, ok && user != nil
}
