package utils

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/lestrrat-go/jwx/v2/jwk"
)

// AuthenticatedUser is the identity extracted from a validated bearer
// token.
type AuthenticatedUser struct {
	Sub      string
	Iss      string
	ClientId string
	Exp      int64
	Iat      int64
	Aud      []string
	Roles    []string
	Scopes   []string
}

// HasScope reports whether the token carried the given scope.
func (u *AuthenticatedUser) HasScope(scope string) bool {
	for _, s := range u.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// JwtAuthenticator validates bearer tokens either against a remote JWKS
// (production) or a shared HMAC secret (local development). The JWKS is
// cached and refreshed in the background.
type JwtAuthenticator struct {
	JwksUri   string
	devSecret []byte
	cacheTTL  time.Duration

	cacheOnce sync.Once
	cache     *jwk.Cache
	cacheErr  error
}

// NewJwtAuthenticator creates an authenticator backed by the given JWKS
// endpoint.
func NewJwtAuthenticator(jwksUri string) *JwtAuthenticator {
	return &JwtAuthenticator{
		JwksUri:  jwksUri,
		cacheTTL: 5 * time.Minute,
	}
}

// NewDevJwtAuthenticator creates an authenticator accepting HS256
// tokens signed with a shared secret. Development only.
func NewDevJwtAuthenticator(secret string) *JwtAuthenticator {
	return &JwtAuthenticator{
		devSecret: []byte(secret),
		cacheTTL:  5 * time.Minute,
	}
}

// ValidateToken parses and verifies a bearer token and returns the
// authenticated user.
func (a *JwtAuthenticator) ValidateToken(tokenString string) (*AuthenticatedUser, error) {
	if len(a.devSecret) > 0 {
		return a.validateDevToken(tokenString)
	}

	if a.JwksUri == "" {
		return nil, errors.New("JWKS URI not configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	keySet, err := a.keySet(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch JWKS: %w", err)
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		kid, _ := token.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("token has no kid header")
		}
		key, ok := keySet.LookupKeyID(kid)
		if !ok {
			return nil, fmt.Errorf("no key with kid %q in JWKS", kid)
		}
		var raw interface{}
		if err := key.Raw(&raw); err != nil {
			return nil, fmt.Errorf("failed to materialize JWK: %w", err)
		}
		return raw, nil
	}, jwt.WithValidMethods([]string{"RS256", "ES256"}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return a.mapClaimsToUser(claims)
}

func (a *JwtAuthenticator) validateDevToken(tokenString string) (*AuthenticatedUser, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return a.devSecret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return a.mapClaimsToUser(claims)
}

func (a *JwtAuthenticator) keySet(ctx context.Context) (jwk.Set, error) {
	a.cacheOnce.Do(func() {
		cache := jwk.NewCache(context.Background())
		a.cacheErr = cache.Register(a.JwksUri, jwk.WithMinRefreshInterval(a.cacheTTL))
		a.cache = cache
	})
	if a.cacheErr != nil {
		return nil, a.cacheErr
	}
	return a.cache.Get(ctx, a.JwksUri)
}

// mapClaimsToUser converts raw JWT claims into an AuthenticatedUser.
// Audience may be a single string or a list; scopes may arrive as a
// "scopes" list or an OAuth "scope" space-separated string.
func (a *JwtAuthenticator) mapClaimsToUser(claims map[string]interface{}) (*AuthenticatedUser, error) {
	user := &AuthenticatedUser{}

	if sub, ok := claims["sub"].(string); ok {
		user.Sub = sub
	}
	if iss, ok := claims["iss"].(string); ok {
		user.Iss = iss
	}
	if clientID, ok := claims["client_id"].(string); ok {
		user.ClientId = clientID
	}
	if exp, ok := claims["exp"].(float64); ok {
		user.Exp = int64(exp)
	}
	if iat, ok := claims["iat"].(float64); ok {
		user.Iat = int64(iat)
	}

	user.Aud = claimStrings(claims["aud"])
	user.Roles = claimStrings(claims["roles"])
	user.Scopes = claimStrings(claims["scopes"])
	if len(user.Scopes) == 0 {
		if scope, ok := claims["scope"].(string); ok && scope != "" {
			user.Scopes = strings.Fields(scope)
		}
	}

	return user, nil
}

func claimStrings(v interface{}) []string {
	switch value := v.(type) {
	case string:
		return []string{value}
	case []interface{}:
		var items []string
		for _, item := range value {
			if s, ok := item.(string); ok {
				items = append(items, s)
			}
		}
		return items
	case []string:
		return value
	}
	return nil
}
