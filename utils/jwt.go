package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

// TokenManager signs and validates HS256 tokens. The secret is injected from
// configuration by the entry point.
type TokenManager struct {
	secret []byte
}

// NewTokenManager creates a TokenManager with the given signing secret.
func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret)}
}

// Generate creates a signed JWT with the given subject, email and role set.
// The token expires after the specified duration.
func (tm *TokenManager) Generate(subject, email string, roles []string, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   subject,
		"email": email,
		"roles": roles,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secret)
}

// Validate parses and validates a token string.
func (tm *TokenManager) Validate(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
}

// Identity extracts the subject and role set from a valid token string.
func (tm *TokenManager) Identity(tokenString string) (string, []string, error) {
	token, err := tm.Validate(tokenString)
	if err != nil {
		return "", nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", nil, errors.New("invalid token")
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", nil, errors.New("token does not contain a valid 'sub' claim")
	}
	var roles []string
	if raw, ok := claims["roles"].([]interface{}); ok {
		for _, r := range raw {
			if s, ok := r.(string); ok {
				roles = append(roles, s)
			}
		}
	}
	return sub, roles, nil
}
