// Package stoken issues and validates the bearer tokens the REST surface
// authenticates with.
package stoken

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/funil-crm/funil/pkg/idwrap"
)

const Issuer = "funil-server"

var (
	ErrInvalidToken = errors.New("stoken: invalid token")
	ErrExpiredToken = errors.New("stoken: token expired")
)

type Claims struct {
	jwt.RegisteredClaims
}

// New signs a token for userID valid for ttl.
func New(userID idwrap.IDWrap, secret []byte, now time.Time, ttl time.Duration) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("stoken: sign: %w", err)
	}
	return signed, nil
}

// Validate parses raw and returns the authenticated user id.
func Validate(raw string, secret []byte) (idwrap.IDWrap, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("stoken: unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithIssuer(Issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return idwrap.IDWrap{}, ErrExpiredToken
		}
		return idwrap.IDWrap{}, ErrInvalidToken
	}
	if !token.Valid {
		return idwrap.IDWrap{}, ErrInvalidToken
	}
	userID, err := idwrap.NewText(claims.Subject)
	if err != nil {
		return idwrap.IDWrap{}, ErrInvalidToken
	}
	return userID, nil
}
