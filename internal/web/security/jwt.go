package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenService provides JWT token generation and validation for principals.
type TokenService struct {
	secretKey string
	tokenTTL  time.Duration
}

// NewTokenService creates a new TokenService with the given secret key and token TTL
func NewTokenService(secretKey string, tokenTTL time.Duration) *TokenService {
	return &TokenService{
		secretKey: secretKey,
		tokenTTL:  tokenTTL,
	}
}

// GenerateToken generates a JWT token for the given principal
func (s *TokenService) GenerateToken(p *Principal) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"jti":      uuid.NewString(),
		"sub":      p.ID,
		"username": p.Username,
		"email":    p.Email,
		"roles":    p.Roles,
		"exp":      now.Add(s.tokenTTL).Unix(),
		"iat":      now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secretKey))
}

// ValidateToken validates a JWT token and returns the principal it carries
func (s *TokenService) ValidateToken(tokenString string) (*Principal, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Verify exact signing method to prevent algorithm confusion attacks
		if token.Method.Alg() != "HS256" {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secretKey), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	return PrincipalFromClaims(claims), nil
}

// PrincipalFromClaims builds a Principal from validated JWT claims.
func PrincipalFromClaims(claims jwt.MapClaims) *Principal {
	p := &Principal{Authenticated: true}
	if sub, ok := claims["sub"].(string); ok {
		p.ID = sub
	}
	if username, ok := claims["username"].(string); ok {
		p.Username = username
	}
	if email, ok := claims["email"].(string); ok {
		p.Email = email
	}
	if raw, ok := claims["roles"].([]interface{}); ok {
		for _, r := range raw {
			if role, ok := r.(string); ok {
				p.Roles = append(p.Roles, role)
			}
		}
	}
	return p
}
