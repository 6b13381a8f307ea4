package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Issuer is the iss claim of every session token.
const Issuer = "zaloga"

// DefaultTokenTTL is how long a session lasts when no lifetime is configured.
const DefaultTokenTTL = 7 * 24 * time.Hour

// leeway tolerates clock drift between household devices and the server.
const leeway = 30 * time.Second

// Claims identify a signed-in household member. RegisteredClaims.ID is the
// session's JTI, used for sign-out.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// ErrInvalidToken wraps every validation failure.
var ErrInvalidToken = errors.New("invalid token")

// GenerateToken signs a session token for a member. A non-positive ttl
// means DefaultTokenTTL.
func GenerateToken(secret string, ttl time.Duration, userID int64, username, role string) (string, error) {
	if secret == "" {
		return "", errors.New("signing token: empty secret")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	issued := time.Now()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:   userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    Issuer,
			Subject:   fmt.Sprint(userID),
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(ttl)),
		},
	}).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// ValidateToken checks signature, issuer and expiry and returns the claims.
// Only HS256 is accepted.
func ValidateToken(secret, tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(leeway),
	)

	var claims Claims
	token, err := parser.ParseWithClaims(tokenStr, &claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}
