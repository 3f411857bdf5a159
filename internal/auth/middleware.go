package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// Verifier turns a raw bearer token into an identity.
type Verifier interface {
	Verify(raw string) (Identity, error)
}

// Middleware requires a valid bearer token and stores the identity in the
// request context.
func Middleware(v Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := v.Verify(bearerToken(r))
			if err != nil {
				msg := "Authentication required."
				if errors.Is(err, ErrExpiredToken) {
					msg = "Session expired, please sign in again."
				}
				w.Header().Set("WWW-Authenticate", `Bearer realm="teachjournal"`)
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"code": "unauthenticated", "message": msg})
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "bearer "
	if len(h) < len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}
