package models

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	AccessToken = "access"
)

func IsValidTokenType(typ string) bool {
	return typ == AccessToken
}

type CustomClaims struct {
	UserID    uuid.UUID `json:"user_id"`
	TokenID   uuid.UUID `json:"jti"`
	TokenType string    `json:"typ"`
	Username  string    `json:"username"`
	jwt.RegisteredClaims
}
