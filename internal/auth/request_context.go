package auth

import (
	"context"

	"infinite-experiment/engagesync/internal/common"
)

type contextKey string

var hookClaimsKey contextKey = "hook_claims"
var requestIDKey contextKey = "request_id"

// SetHookClaims stores the validated hook token claims for handlers
func SetHookClaims(ctx context.Context, claims *common.HookClaims) context.Context {
	return context.WithValue(ctx, hookClaimsKey, claims)
}

// GetHookClaims returns the hook claims of an authenticated request, or nil
func GetHookClaims(ctx context.Context) *common.HookClaims {
	val := ctx.Value(hookClaimsKey)
	if claims, ok := val.(*common.HookClaims); ok {
		return claims
	}
	return nil
}

func SetRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}
