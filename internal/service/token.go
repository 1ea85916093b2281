package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenTTL is the fixed lifetime of an issued token. There is no
// revocation: an issued token stays valid until expiry.
const AccessTokenTTL = time.Hour

// TokenClaims is the decoded payload of a verified token.
type TokenClaims struct {
	UserID uint
	Role   string
	Email  string
}

type TokenService struct {
	Secret []byte
	TTL    time.Duration
}

func NewTokenService(secret []byte) *TokenService {
	return &TokenService{Secret: secret, TTL: AccessTokenTTL}
}

func (t *TokenService) Issue(userID uint, role, email string) (string, error) {
	claims := jwt.MapClaims{
		"sub":   userID,
		"role":  role,
		"email": email,
		"exp":   time.Now().Add(t.TTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.Secret)
}

func (t *TokenService) Verify(raw string) (*TokenClaims, error) {
	token, err := jwt.Parse(raw, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return t.Secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("cannot parse claims")
	}
	sub, ok := claims["sub"].(float64)
	if !ok {
		return nil, errors.New("missing sub claim")
	}
	role, ok := claims["role"].(string)
	if !ok {
		return nil, errors.New("missing role claim")
	}
	email, _ := claims["email"].(string)

	return &TokenClaims{UserID: uint(sub), Role: role, Email: email}, nil
}
