package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/inkwellhq/inkwell/pkg/jwtx"
	"github.com/inkwellhq/inkwell/pkg/slogx"
)

// AuthnMiddleware verifies the inbound bearer session token and resolves it
// to an account identity before the handler runs. A validly-signed,
// unexpired token is always accepted; there is no revocation store.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				WriteError(w, http.StatusUnauthorized, "Unauthenticated.")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("session token rejected", "err", err)
				WriteError(w, http.StatusUnauthorized, "Unauthenticated.")
				return
			}

			ctx = context.WithValue(ctx, CtxKeyAccountID, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
