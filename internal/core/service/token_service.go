package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/coursehub/course-management/internal/core/domain"
	"github.com/coursehub/course-management/internal/core/ports"
)

// TokenService issues and verifies HS256 bearer tokens. The signing key is
// process-wide configuration; rotating it invalidates every outstanding token,
// which is the only revocation mechanism this design has.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue produces a signed token asserting the user's id, name and role.
// The role claim is a snapshot at issuance and is never re-checked against
// the store during verification.
func (s *TokenService) Issue(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"name": user.Name,
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(s.ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Verify parses and validates a token, returning the identity it asserts.
// It fails on bad signatures, malformed encodings, expiry, an unexpected
// signing method, or a role outside the known set. It does not check that
// the subject still exists.
func (s *TokenService) Verify(token string) (*ports.Claims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	if !tkn.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	sub, _ := claims["sub"].(string)
	name, _ := claims["name"].(string)
	roleClaim, _ := claims["role"].(string)

	role := domain.Role(roleClaim)
	if sub == "" || !role.Valid() {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return &ports.Claims{SubjectID: sub, Name: name, Role: role}, nil
}
