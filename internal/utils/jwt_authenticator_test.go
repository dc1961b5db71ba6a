package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

func TestNewJwtAuthenticator(t *testing.T) {
	jwksUri := "https://example.com/.well-known/jwks.json"
	auth := NewJwtAuthenticator(jwksUri)

	if auth.JwksUri != jwksUri {
		t.Errorf("Expected JwksUri to be %s, got %s", jwksUri, auth.JwksUri)
	}

	if auth.cacheTTL.Minutes() != 5 {
		t.Errorf("Expected cacheTTL to be 5 minutes, got %v", auth.cacheTTL)
	}
}

func TestValidateTokenWithoutJwksUri(t *testing.T) {
	auth := NewJwtAuthenticator("")

	_, err := auth.ValidateToken("dummy.jwt.token")
	if err == nil {
		t.Error("Expected error when JWKS URI is not configured")
	}

	expectedError := "JWKS URI not configured"
	if err.Error() != expectedError {
		t.Errorf("Expected error message '%s', got '%s'", expectedError, err.Error())
	}
}

func TestMapClaimsToUser(t *testing.T) {
	auth := NewJwtAuthenticator("https://example.com/.well-known/jwks.json")

	claims := map[string]interface{}{
		"sub":       "user123",
		"iss":       "https://auth.example.com",
		"client_id": "client123",
		"exp":       1234567890.0,
		"iat":       1234567800.0,
		"aud":       []interface{}{"audience1", "audience2"},
		"roles":     []interface{}{"admin", "user"},
		"scopes":    []interface{}{"read", "write"},
	}

	user, err := auth.mapClaimsToUser(claims)
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	if user.Sub != "user123" {
		t.Errorf("Expected Sub to be 'user123', got '%s'", user.Sub)
	}

	if user.Iss != "https://auth.example.com" {
		t.Errorf("Expected Iss to be 'https://auth.example.com', got '%s'", user.Iss)
	}

	if user.Exp != 1234567890 {
		t.Errorf("Expected Exp to be 1234567890, got %d", user.Exp)
	}

	if len(user.Aud) != 2 || user.Aud[0] != "audience1" || user.Aud[1] != "audience2" {
		t.Errorf("Expected Aud to be ['audience1', 'audience2'], got %v", user.Aud)
	}

	if len(user.Scopes) != 2 || user.Scopes[0] != "read" || user.Scopes[1] != "write" {
		t.Errorf("Expected Scopes to be ['read', 'write'], got %v", user.Scopes)
	}
}

func TestMapClaimsToUserWithSingleAudience(t *testing.T) {
	auth := NewJwtAuthenticator("https://example.com/.well-known/jwks.json")

	claims := map[string]interface{}{
		"aud": "single-audience",
	}

	user, err := auth.mapClaimsToUser(claims)
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	if len(user.Aud) != 1 || user.Aud[0] != "single-audience" {
		t.Errorf("Expected Aud to be ['single-audience'], got %v", user.Aud)
	}
}

func TestMapClaimsToUserWithScopeString(t *testing.T) {
	auth := NewJwtAuthenticator("https://example.com/.well-known/jwks.json")

	claims := map[string]interface{}{
		"scope": "deployments:report profile:write",
	}

	user, err := auth.mapClaimsToUser(claims)
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	if !user.HasScope("deployments:report") {
		t.Errorf("Expected scope 'deployments:report' to be present, got %v", user.Scopes)
	}
	if user.HasScope("admin") {
		t.Errorf("Did not expect scope 'admin', got %v", user.Scopes)
	}
}

func TestValidateDevToken(t *testing.T) {
	auth := NewDevJwtAuthenticator("test-secret")

	claims := jwt.MapClaims{
		"sub":    "dev-user",
		"exp":    time.Now().Add(time.Hour).Unix(),
		"iat":    time.Now().Unix(),
		"scopes": []string{"deployments:report"},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}

	user, err := auth.ValidateToken(signed)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if user.Sub != "dev-user" {
		t.Errorf("Expected Sub to be 'dev-user', got '%s'", user.Sub)
	}
	if !user.HasScope("deployments:report") {
		t.Errorf("Expected reporting scope, got %v", user.Scopes)
	}
}

func TestValidateDevTokenWrongSecret(t *testing.T) {
	auth := NewDevJwtAuthenticator("test-secret")

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "dev-user",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("another-secret"))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}

	if _, err := auth.ValidateToken(signed); err == nil {
		t.Error("Expected validation to fail with the wrong secret")
	}
}

func TestValidateDevTokenExpired(t *testing.T) {
	auth := NewDevJwtAuthenticator("test-secret")

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "dev-user",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}

	if _, err := auth.ValidateToken(signed); err == nil {
		t.Error("Expected validation to fail for an expired token")
	}
}
