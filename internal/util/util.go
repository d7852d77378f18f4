package util

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token payload issued by the identity provider. Subject
// carries the user id; TenantID scopes every data access.
type Claims struct {
	TenantID string `json:"tenantId"`
	Email    string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// ValidateJWT verifies an HMAC-signed token and returns its claims.
func ValidateJWT(tokenString, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v (expected HMAC)", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to validate token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" || claims.TenantID == "" {
		return nil, errors.New("token missing subject or tenant claim")
	}
	return claims, nil
}
