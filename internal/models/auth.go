package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims are the JWT claims carried by a session token. Role travels in
// the token so every operation receives an explicit caller identity and role;
// nothing is read from ambient state.
type TokenClaims struct {
	UserID     string `json:"uid"`
	NationalID string `json:"national_id"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}
