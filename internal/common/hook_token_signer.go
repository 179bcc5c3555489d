package common

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// HookClaims identifies the change-capture hook calling the dispatch API
type HookClaims struct {
	HookName string `json:"hook"`
	jwt.RegisteredClaims
}

// HookTokenSigner issues and validates HS256 tokens for change-capture hooks
type HookTokenSigner struct {
	secretKey []byte
}

func NewHookTokenSigner(secretKey []byte) *HookTokenSigner {
	return &HookTokenSigner{secretKey: secretKey}
}

// Generate signs a token for hookName. A zero ttl produces a token without expiry.
func (s *HookTokenSigner) Generate(hookName string, ttl time.Duration) (string, error) {
	if len(s.secretKey) == 0 {
		return "", errors.New("hook secret is not configured")
	}
	if hookName == "" {
		return "", errors.New("hook name cannot be empty")
	}

	now := time.Now()
	claims := HookClaims{
		HookName: hookName,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.New().String(),
			IssuedAt: jwt.NewNumericDate(now),
			Subject:  hookName,
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Validate parses tokenString and returns its claims
func (s *HookTokenSigner) Validate(tokenString string) (*HookClaims, error) {
	if len(s.secretKey) == 0 {
		return nil, errors.New("hook secret is not configured")
	}

	claims := &HookClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid || claims.HookName == "" {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
