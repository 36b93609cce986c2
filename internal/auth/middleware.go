package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sakif/devconnect/internal/apperror"
)

// TokenHeader is the request header carrying the raw session token.
// The value is the bare token string — not JSON-wrapped, not "Bearer "-prefixed.
const TokenHeader = "x-auth-token"

// contextKey is an unexported type for context keys so no other package can
// read or shadow the values this package stores.
type contextKey string

const userIDKey contextKey = "userID"

// RequireAuth is the gate in front of every private route.
//
// It reads the x-auth-token header, validates it, and stores the resolved
// userID in the request context. The two failure modes share the 401 status
// but carry distinct messages so logs and clients can tell "no credential"
// from "bad credential":
//
//	missing header → {"errors":[{"msg":"no token, authorization denied"}]}
//	bad token      → {"errors":[{"msg":"token is not valid"}]}
//
// The gate is stateless and never touches the store; context injection is
// its only side effect.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(TokenHeader)
			if raw == "" {
				writeUnauthorized(w, "no token, authorization denied")
				return
			}

			userID, err := tokens.Validate(raw)
			if err != nil {
				writeUnauthorized(w, "token is not valid")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext returns the authenticated user's ID, or ("", false) on
// an unauthenticated request.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// writeUnauthorized emits the standard errors-array body. Duplicated from
// the handler package deliberately: the auth gate must not depend on
// handler, and the shape is three lines.
func writeUnauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string][]apperror.FieldError{
		"errors": {{Msg: msg}},
	})
}
