package common

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"hradmin/domain"

	"github.com/golang-jwt/jwt/v5"
)

type JwtProviderConfig interface {
	AccessTokenExpiresIn() time.Duration
	AccessTokenSecret() string
	RefreshTokenExpiresIn() time.Duration
	TokenIssuer() string
}

type JWTProvider struct {
	cfg JwtProviderConfig
}

func NewJWTProvider(cfg JwtProviderConfig) *JWTProvider {
	return &JWTProvider{cfg: cfg}
}

func (j *JWTProvider) GenerateAccessToken(userID, sessionID string) (string, error) {
	claims := domain.JwtClaims{
		Sub: userID,
		Sid: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.cfg.TokenIssuer(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(j.cfg.AccessTokenExpiresIn())),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   userID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.cfg.AccessTokenSecret()))
}

// GenerateRefreshToken returns an opaque token; it is stored on the
// session row and never decoded.
func (j *JWTProvider) GenerateRefreshToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

func (j *JWTProvider) RefreshTokenExpiresAt() time.Time {
	return time.Now().Add(j.cfg.RefreshTokenExpiresIn())
}

func (j *JWTProvider) VerifyAccessToken(tokenStr string) (*domain.JwtClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &domain.JwtClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(j.cfg.AccessTokenSecret()), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*domain.JwtClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
