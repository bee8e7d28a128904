package models

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CustomClaims is the claim set carried by both access and refresh tokens.
// UserID is the string form of the owner's UUID; Email rides only on access
// tokens. TokenType keeps the two token kinds from being swapped for each
// other at validation time.
type CustomClaims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	Email     string `json:"email,omitempty"`
	TokenType string `json:"token_type"`
}

// SubjectID parses the UserID claim back into the owner's UUID.
func (c *CustomClaims) SubjectID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.UserID)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, errors.New("token carries no usable user ID")
	}
	return id, nil
}
