package utils

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid session token")

type SessionClaims struct {
	IssuerID string `json:"issuer_id"`
	jwt.RegisteredClaims
}

// GenerateSessionToken ký JWT phiên đăng nhập cho issuer.
func GenerateSessionToken(issuerID uint, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("session secret is empty")
	}

	now := time.Now()
	claims := SessionClaims{
		IssuerID: strconv.FormatUint(uint64(issuerID), 10),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifySessionToken xác minh chữ ký + hạn dùng và trả về issuer ID.
func VerifySessionToken(tokenStr, secret string) (uint, error) {
	if secret == "" || tokenStr == "" {
		return 0, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return 0, ErrInvalidToken
	}

	id, err := strconv.ParseUint(claims.IssuerID, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}
