package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"taskflow/internal/models"

	"github.com/golang-jwt/jwt/v4"
)

const DefaultTTL = 8 * time.Hour

var (
	ErrMissingAuth  = errors.New("missing auth")
	ErrBadFormat    = errors.New("bad auth format")
	ErrInvalidToken = errors.New("invalid token")
	ErrForbidden    = errors.New("forbidden")
)

// Claims is the signed session payload.
type Claims struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies session tokens with one HMAC secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs {id, email, role} with an expiry ttl from now.
func (i *Issuer) Issue(user models.User) (string, error) {
	now := i.now()
	claims := Claims{
		ID:    user.ID,
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify fails with ErrInvalidToken when the token is malformed, expired or
// signed with another key or algorithm.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.ExpiresAt == nil || claims.ID == "" {
		return nil, fmt.Errorf("%w: incomplete claims", ErrInvalidToken)
	}
	return claims, nil
}

// ParseBearer extracts the token from an Authorization header value.
func ParseBearer(header string) (string, error) {
	if header == "" {
		return "", ErrMissingAuth
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", ErrBadFormat
	}
	return parts[1], nil
}

// Authenticate resolves the caller from an Authorization header value.
func (i *Issuer) Authenticate(header string) (*Claims, error) {
	token, err := ParseBearer(header)
	if err != nil {
		return nil, err
	}
	return i.Verify(token)
}

// AuthorizeRoles requires claims.Role to be one of allowed.
func AuthorizeRoles(claims *Claims, allowed ...models.Role) error {
	if claims == nil {
		return ErrMissingAuth
	}
	for _, role := range allowed {
		if claims.Role == role {
			return nil
		}
	}
	return ErrForbidden
}
