package middleware

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

const (
	jwtClaimUserID  = "user_id"
	jwtClaimSubject = "sub"
)

var ErrNoUserInContext = errors.New("user claims not found in context or invalid type")

// GetUserIDFromContext returns the actor id set by Authenticate.
func GetUserIDFromContext(ctx context.Context) (string, error) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return "", ErrNoUserInContext
	}
	return userIDFromClaims(claims)
}

// WithUserID returns a context carrying userID as if a token had been verified.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userContextKey, jwt.MapClaims{jwtClaimUserID: userID})
}

// userIDFromClaims accepts "user_id" as a string or an integral number, falling back to "sub".
func userIDFromClaims(claims jwt.MapClaims) (string, error) {
	userIDClaim, ok := claims[jwtClaimUserID]
	if !ok {
		sub, _ := claims[jwtClaimSubject].(string)
		if strings.TrimSpace(sub) == "" {
			return "", fmt.Errorf("missing '%s' or '%s' claim in token", jwtClaimUserID, jwtClaimSubject)
		}
		return strings.TrimSpace(sub), nil
	}

	switch v := userIDClaim.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return "", fmt.Errorf("empty '%s' claim in token", jwtClaimUserID)
		}
		return strings.TrimSpace(v), nil
	case float64:
		if v != math.Trunc(v) || v <= 0 {
			return "", fmt.Errorf("invalid user ID value in '%s' claim: %v", jwtClaimUserID, v)
		}
		return strconv.FormatInt(int64(v), 10), nil
	default:
		return "", fmt.Errorf("invalid type for '%s' claim: expected number or string, got %T", jwtClaimUserID, userIDClaim)
	}
}
