package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt"
)

// ErrUnauthenticated indicates the caller could not be resolved to a valid
// authenticated principal.
var ErrUnauthenticated = errors.New("unauthenticated")

// Identity is the authenticated principal resolved from a Supabase access token.
type Identity struct {
	UserID   string
	Email    string
	Phone    string
	FullName string
}

// ParseToken verifies a Supabase-issued HS256 access token and extracts the
// caller identity. Any verification failure maps to ErrUnauthenticated.
func ParseToken(tokenString, secret string) (Identity, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return Identity{}, fmt.Errorf("%w: invalid access token", ErrUnauthenticated)
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return Identity{}, fmt.Errorf("%w: token has no subject", ErrUnauthenticated)
	}

	ident := Identity{UserID: sub}
	ident.Email, _ = claims["email"].(string)
	ident.Phone, _ = claims["phone"].(string)
	if meta, ok := claims["user_metadata"].(map[string]interface{}); ok {
		ident.FullName, _ = meta["full_name"].(string)
	}
	return ident, nil
}
