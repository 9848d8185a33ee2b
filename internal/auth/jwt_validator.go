package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/lestrrat-go/jwx/jwk"
)

// JWTTokenValidator is a concrete implementation of TokenValidator for JWT tokens.
type JWTTokenValidator struct {
	keySet  jwk.Set
	jwksURL string
	devMode bool
}

// NewTokenValidator creates a new JWT token validator with the given JWKS URL.
func NewTokenValidator(jwksURL string) (TokenValidator, error) {
	if jwksURL == "" {
		// If no JWKS URL is provided, use development mode
		return &JWTTokenValidator{
			keySet:  nil,
			jwksURL: "",
			devMode: true,
		}, nil
	}

	keySet, err := jwk.Fetch(context.Background(), jwksURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch JWKS from %s: %w", jwksURL, err)
	}

	return &JWTTokenValidator{
		keySet:  keySet,
		jwksURL: jwksURL,
		devMode: false,
	}, nil
}

// RefreshKeys refreshes the JWKS from the URL.
func (v *JWTTokenValidator) RefreshKeys() error {
	if v.jwksURL == "" {
		return ErrNoJWKS
	}

	keySet, err := jwk.Fetch(context.Background(), v.jwksURL)
	if err != nil {
		return fmt.Errorf("failed to refresh JWKS from %s: %w", v.jwksURL, err)
	}

	v.keySet = keySet
	return nil
}

// parseClaims parses and, outside development mode, validates the token
// against the JWKS, returning its claims.
func (v *JWTTokenValidator) parseClaims(tokenString string) (*StandardClaims, error) {
	if v.devMode {
		// Parse without verification
		token, _, err := new(jwt.Parser).ParseUnverified(tokenString, &StandardClaims{})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}

		claims, ok := token.Claims.(*StandardClaims)
		if !ok {
			return nil, ErrInvalidToken
		}
		return claims, nil
	}

	if v.keySet == nil {
		return nil, ErrNoJWKS
	}

	// Parse the token header first to get the key ID without validation.
	token, _, err := new(jwt.Parser).ParseUnverified(tokenString, &StandardClaims{})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse token header: %v", ErrInvalidToken, err)
	}

	kid, ok := token.Header["kid"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: token header missing kid", ErrInvalidToken)
	}

	key, found := v.keySet.LookupKeyID(kid)
	if !found {
		// Key rotation: refresh and retry once.
		if err := v.RefreshKeys(); err != nil {
			return nil, fmt.Errorf("%w: key with ID %s not found and failed to refresh keys: %v", ErrInvalidToken, kid, err)
		}

		key, found = v.keySet.LookupKeyID(kid)
		if !found {
			return nil, fmt.Errorf("%w: key with ID %s not found", ErrInvalidToken, kid)
		}
	}

	var rawKey interface{}
	if err := key.Raw(&rawKey); err != nil {
		return nil, fmt.Errorf("%w: failed to get raw key: %v", ErrInvalidToken, err)
	}

	validatedToken, err := jwt.ParseWithClaims(
		tokenString,
		&StandardClaims{},
		func(token *jwt.Token) (interface{}, error) {
			return rawKey, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := validatedToken.Claims.(*StandardClaims)
	if !ok || !validatedToken.Valid {
		return nil, ErrInvalidToken
	}

	if !claims.VerifyExpiresAt(time.Now(), true) {
		return nil, ErrExpiredToken
	}

	return claims, nil
}

// ValidateToken validates a JWT token and returns the user UUID
// (email when available, fallback to user_id or sub).
func (v *JWTTokenValidator) ValidateToken(tokenString string) (string, error) {
	claims, err := v.parseClaims(tokenString)
	if err != nil {
		return "", err
	}

	if claims.Email != "" {
		return claims.Email, nil
	}

	if claims.UserId != "" {
		return claims.UserId, nil
	}

	if claims.Sub == "" {
		return "", fmt.Errorf("%w: no email, user_id, or subject (sub) found in token claims", ErrInvalidToken)
	}

	return claims.Sub, nil
}

// ExtractUserID extracts the user ID (prioritizes sub/user_id over email).
// This should be used for Firestore paths.
func (v *JWTTokenValidator) ExtractUserID(tokenString string) (string, error) {
	claims, err := v.parseClaims(tokenString)
	if err != nil {
		return "", err
	}

	if claims.Sub != "" {
		return claims.Sub, nil
	}

	if claims.UserId != "" {
		return claims.UserId, nil
	}

	if claims.Email != "" {
		return claims.Email, nil
	}

	return "", fmt.Errorf("%w: no sub, user_id, or email found in token claims", ErrInvalidToken)
}
