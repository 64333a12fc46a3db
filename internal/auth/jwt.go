package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	accessTokenTTL  = 12 * time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour

	kindAccess  = "access"
	kindRefresh = "refresh"
)

// Claims identify an admin session.
type Claims struct {
	AdminID  uuid.UUID `json:"admin_id"`
	Username string    `json:"username"`
	Kind     string    `json:"kind"`
	jwt.RegisteredClaims
}

func GenerateToken(secret string, adminID uuid.UUID, username string) (string, error) {
	return sign(secret, adminID, username, kindAccess, accessTokenTTL)
}

func GenerateRefreshToken(secret string, adminID uuid.UUID, username string) (string, error) {
	return sign(secret, adminID, username, kindRefresh, refreshTokenTTL)
}

func sign(secret string, adminID uuid.UUID, username, kind string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		AdminID:  adminID,
		Username: username,
		Kind:     kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   adminID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken accepts access tokens only.
func ValidateToken(secret, tokenStr string) (*Claims, error) {
	return validate(secret, tokenStr, kindAccess)
}

// ValidateRefreshToken accepts refresh tokens only.
func ValidateRefreshToken(secret, tokenStr string) (*Claims, error) {
	return validate(secret, tokenStr, kindRefresh)
}

func validate(secret, tokenStr, kind string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.Kind != kind {
		return nil, fmt.Errorf("expected %s token, got %q", kind, claims.Kind)
	}
	return claims, nil
}
