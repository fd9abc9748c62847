package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/cimillas/gatepass/internal/auth"
)

// TokenVerifier validates a bearer credential into a caller identity.
type TokenVerifier interface {
	Verify(tokenString string) (auth.Identity, error)
}

type identityKey struct{}

// IdentityFromContext returns the authenticated caller, if any.
func IdentityFromContext(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(auth.Identity)
	return id, ok
}

// RequireOperation authenticates the bearer token and checks the capability
// table before the wrapped handler runs. The gate is the only place roles
// are compared to operations.
func RequireOperation(verifier TokenVerifier, op auth.Operation, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := bearerIdentity(verifier, r)
		if !ok {
			writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing or invalid token")
			return
		}
		if !auth.Allowed(identity.Role, op) {
			writeError(w, http.StatusForbidden, codeForbidden, "role not permitted for this operation")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey{}, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerIdentity(verifier TokenVerifier, r *http.Request) (auth.Identity, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return auth.Identity{}, false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return auth.Identity{}, false
	}

	identity, err := verifier.Verify(parts[1])
	if err != nil {
		return auth.Identity{}, false
	}
	return identity, true
}
