package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"workasana/internal/model"
	"workasana/internal/token"
)

// identityResolver re-checks that a token's subject still exists. The
// concrete implementation is repository.UserRepository.
type identityResolver interface {
	FindByID(ctx context.Context, id string) (model.User, error)
}

type contextKey string

const (
	identityContextKey   contextKey = "auth_identity"
	rawTokenContextKey   contextKey = "auth_raw_token"
	claimsContextKey     contextKey = "auth_claims"
	weakUserIDContextKey contextKey = "auth_weak_user_id"
)

type AuthMiddleware struct {
	codec *token.Codec
	users identityResolver
}

func NewAuthMiddleware(codec *token.Codec, users identityResolver) *AuthMiddleware {
	return &AuthMiddleware{codec: codec, users: users}
}

// Authenticate is the strict pipeline: extract, verify, resolve,
// attach. Every failure is converted to a structured 401 before any
// downstream handler runs.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, authErr := m.runPipeline(r)
		if authErr != nil {
			writeAuthError(w, authErr.code, authErr.message)
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth runs the same pipeline but proceeds anonymously on any
// failure at any step. It never writes an error response.
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ctx, authErr := m.runPipeline(r); authErr == nil {
			r = r.WithContext(ctx)
		}

		next.ServeHTTP(w, r)
	})
}

// RequireAuth is the presence gate. It checks only that some earlier
// middleware attached an identity, which keeps "was a token
// processed" separate from "is a token mandatory for this route".
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := IdentityFromContext(r.Context()); !ok {
			writeAuthError(w, "AUTH_REQUIRED", "Access denied. Authentication required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ValidateTokenFormat checks only the structural shape of the token
// and attaches the raw string for later stages. It grants nothing on
// its own.
func (m *AuthMiddleware) ValidateTokenFormat(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, authErr := extractToken(r)
		if authErr != nil {
			writeAuthError(w, authErr.code, authErr.message)
			return
		}

		if !token.IsStructurallyValid(raw) {
			writeAuthError(w, "INVALID_TOKEN_FORMAT", "Access denied. Invalid token format")
			return
		}

		ctx := context.WithValue(r.Context(), rawTokenContextKey, raw)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CheckTokenExpiration checks only temporal validity of a previously
// extracted token. Order-independent with respect to
// ValidateTokenFormat; an unreadable token counts as expired.
func (m *AuthMiddleware) CheckTokenExpiration(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := RawTokenFromContext(r.Context())
		if !ok {
			writeAuthError(w, "NO_TOKEN", "Access denied. No token provided")
			return
		}

		if m.codec.IsExpired(raw) {
			writeAuthError(w, "TOKEN_EXPIRED", "Access denied. Token has expired")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ExtractUserID attaches the subject id read from the UNVERIFIED
// payload. This is a deliberately weaker trust tier for best-effort
// context such as rate-limit keys; it never rejects and must never
// gate privileged actions.
func (m *AuthMiddleware) ExtractUserID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if raw, authErr := extractToken(r); authErr == nil {
			if id := m.codec.ExtractIdentifier(raw); id != "" {
				ctx := context.WithValue(r.Context(), weakUserIDContextKey, id)
				r = r.WithContext(ctx)
			}
		}

		next.ServeHTTP(w, r)
	})
}

// UserContextHeaders mirrors the attached identity and token times
// onto debug response headers. No-op for anonymous requests.
func UserContextHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if identity, ok := IdentityFromContext(r.Context()); ok {
			w.Header().Set("X-User-ID", identity.ID)
			w.Header().Set("X-User-Email", identity.Email)
		}

		if claims, ok := ClaimsFromContext(r.Context()); ok {
			if claims.IssuedAt != nil {
				w.Header().Set("X-Token-Issued", claims.IssuedAt.UTC().Format(time.RFC3339))
			}
			if claims.ExpiresAt != nil {
				w.Header().Set("X-Token-Expires", claims.ExpiresAt.UTC().Format(time.RFC3339))
			}
		}

		next.ServeHTTP(w, r)
	})
}

type authError struct {
	code    string
	message string
}

// runPipeline executes extract → verify → resolve and returns either
// a request context with identity attached or the classified failure.
func (m *AuthMiddleware) runPipeline(r *http.Request) (context.Context, *authError) {
	raw, authErr := extractToken(r)
	if authErr != nil {
		return nil, authErr
	}

	claims, err := m.codec.Verify(raw)
	if err != nil {
		switch {
		case errors.Is(err, token.ErrExpired):
			return nil, &authError{"TOKEN_EXPIRED", "Access denied. Token has expired"}
		case errors.Is(err, token.ErrMalformed), errors.Is(err, token.ErrInvalidSignature):
			return nil, &authError{"INVALID_TOKEN", "Access denied. Invalid token"}
		default:
			slog.Error("authentication error", "error", err)
			return nil, &authError{"AUTH_FAILED", "Access denied. Authentication failed"}
		}
	}

	// Re-resolve the subject: deleting a user is the only way to
	// invalidate its outstanding tokens.
	user, err := m.users.FindByID(r.Context(), claims.UserID)
	if errors.Is(err, model.ErrUserNotFound) {
		return nil, &authError{"USER_NOT_FOUND", "Access denied. User not found"}
	}
	if err != nil {
		slog.Error("authentication error", "error", err)
		return nil, &authError{"AUTH_FAILED", "Access denied. Authentication failed"}
	}

	ctx := context.WithValue(r.Context(), identityContextKey, user.Public())
	ctx = context.WithValue(ctx, rawTokenContextKey, raw)
	ctx = context.WithValue(ctx, claimsContextKey, claims)
	return ctx, nil
}

// extractToken reads the Authorization header, accepting both
// "Bearer <token>" (case-sensitive literal prefix) and a bare token.
func extractToken(r *http.Request) (string, *authError) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", &authError{"NO_TOKEN", "Access denied. No token provided"}
	}

	raw := strings.TrimPrefix(header, "Bearer ")
	if raw == "" {
		return "", &authError{"INVALID_TOKEN_FORMAT", "Access denied. Invalid token format"}
	}

	return raw, nil
}

// IdentityFromContext returns the verified caller identity attached
// by Authenticate or OptionalAuth.
func IdentityFromContext(ctx context.Context) (model.PublicUser, bool) {
	identity, ok := ctx.Value(identityContextKey).(model.PublicUser)
	return identity, ok
}

func RawTokenFromContext(ctx context.Context) (string, bool) {
	raw, ok := ctx.Value(rawTokenContextKey).(string)
	return raw, ok
}

func ClaimsFromContext(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*token.Claims)
	return claims, ok
}

// WeakUserIDFromContext returns the unverified subject id attached by
// ExtractUserID. Best-effort context only, never an authorization
// input.
func WeakUserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(weakUserIDContextKey).(string)
	return id, ok
}
