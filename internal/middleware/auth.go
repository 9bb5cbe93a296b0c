package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"starfield-server/internal/auth"
	"starfield-server/internal/shared/errors"
	"starfield-server/internal/shared/response"
)

type contextKey string

const ClaimsContextKey contextKey = "claims"

// RequireAdmin guards universe registry mutation. The token comes from
// the Authorization header (Bearer) or the auth_token cookie.
func RequireAdmin(authService *auth.Service, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := slog.With(
			"middleware", "admin",
			"method", r.Method,
			"path", r.URL.Path,
		)

		token := bearerToken(r)
		if token == "" {
			if cookie, err := r.Cookie("auth_token"); err == nil {
				token = cookie.Value
			}
		}
		if token == "" {
			response.Error(w, r, logger, errors.Unauthorized("authentication required"))
			return
		}

		claims, err := authService.Validate(token)
		if err != nil {
			response.Error(w, r, logger, errors.Unauthorized("invalid token"))
			return
		}
		if claims.Role != auth.RoleAdmin {
			response.Error(w, r, logger, errors.Unauthorized("admin access required"))
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// GetClaimsFromContext returns the validated claims, if any.
func GetClaimsFromContext(r *http.Request) *auth.Claims {
	if claims, ok := r.Context().Value(ClaimsContextKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}
