package util

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func validClaims() Claims {
	return Claims{
		TenantID: "t1",
		Email:    "ana@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestValidateJWT(t *testing.T) {
	token := signToken(t, testSecret, validClaims())
	claims, err := ValidateJWT(token, testSecret)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.Subject != "u1" || claims.TenantID != "t1" || claims.Email != "ana@example.com" {
		t.Fatalf("claims lost in round trip: %+v", claims)
	}
}

func TestValidateJWTWrongSecret(t *testing.T) {
	token := signToken(t, "other-secret", validClaims())
	if _, err := ValidateJWT(token, testSecret); err == nil {
		t.Fatal("expected signature validation to fail")
	}
}

func TestValidateJWTExpired(t *testing.T) {
	claims := validClaims()
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	token := signToken(t, testSecret, claims)
	if _, err := ValidateJWT(token, testSecret); err == nil {
		t.Fatal("expected expired token to fail")
	}
}

func TestValidateJWTMissingTenant(t *testing.T) {
	claims := validClaims()
	claims.TenantID = ""
	token := signToken(t, testSecret, claims)
	if _, err := ValidateJWT(token, testSecret); err == nil {
		t.Fatal("expected token without tenant claim to fail")
	}
}

func TestValidateJWTMissingSubject(t *testing.T) {
	claims := validClaims()
	claims.Subject = ""
	token := signToken(t, testSecret, claims)
	if _, err := ValidateJWT(token, testSecret); err == nil {
		t.Fatal("expected token without subject to fail")
	}
}

func TestValidateJWTGarbage(t *testing.T) {
	if _, err := ValidateJWT("not.a.token", testSecret); err == nil {
		t.Fatal("expected parse failure")
	}
}
