package middleware

import (
	"net/http"
	"strings"
	"time"

	"infinite-experiment/engagesync/internal/auth"
	"infinite-experiment/engagesync/internal/common"
	"infinite-experiment/engagesync/internal/logging"
)

// HookAuthMiddleware admits requests carrying a valid change-capture hook
// token in the Authorization header.
func HookAuthMiddleware(signer *common.HookTokenSigner) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			initTime := time.Now()

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				common.RespondError(w, initTime, nil, "Unauthorized. Missing hook token", http.StatusUnauthorized)
				return
			}

			claims, err := signer.Validate(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				logging.Warn("Rejected hook token", "error", err.Error(), "remote_addr", r.RemoteAddr)
				common.RespondError(w, initTime, nil, "Unauthorized. Invalid hook token", http.StatusUnauthorized)
				return
			}

			ctx := auth.SetHookClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
