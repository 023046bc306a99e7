package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"lms/internal/model"
)

// ErrInvalidToken is returned when a bearer token fails signature or expiry
// checks.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the bearer token payload. Role and subscription are a snapshot
// taken at issuance: changes made after login are not visible to
// authorization checks until the user logs in again and a fresh token is
// issued. That staleness window is intentional; it lets every request be
// authorized without a database round trip.
type Claims struct {
	UserID       uuid.UUID          `json:"id"`
	Email        string             `json:"email"`
	Role         model.Role         `json:"role"`
	Subscription model.Subscription `json:"subscription"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed bearer tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a token service signing with the given secret.
// Tokens expire ttl after issuance.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// TTL returns the validity window tokens are issued with.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a new bearer token embedding the user's identity, role and
// subscription snapshot.
func (s *TokenService) Issue(user *model.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		Subscription: user.Subscription,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks signature integrity and expiry and returns the embedded
// claims. No database lookup happens here; downstream code treats the claims
// as the authenticated identity for the request.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
