package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleAdmin  = "admin"
	RoleAuthor = "author"
	RoleReader = "reader"
)

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Avatar    *string   `json:"avatar,omitempty"`
	Bio       *string   `json:"bio,omitempty"`
	Password  []byte    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

type UserClaim struct {
	UserID   int64  `json:"userId"`
	TokenUse string `json:"tokenUse"`

	jwt.RegisteredClaims
}

func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleAuthor, RoleReader:
		return true
	default:
		return false
	}
}
