package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type PasswordServiceTestSuite struct {
	suite.Suite
	service PasswordServiceInterface
}

func (s *PasswordServiceTestSuite) SetupTest() {
	// MinCost keeps the suite fast; production uses BCryptCost
	s.service = NewPasswordServiceWithCost(bcrypt.MinCost)
}

func TestPasswordServiceSuite(t *testing.T) {
	suite.Run(t, new(PasswordServiceTestSuite))
}

func (s *PasswordServiceTestSuite) TestValidatePassword() {
	s.NoError(s.service.ValidatePassword("Valid-Pass-123"))

	s.ErrorIs(s.service.ValidatePassword(""), ErrPasswordEmpty)
	s.ErrorIs(s.service.ValidatePassword("Short1a"), ErrPasswordTooShort)
	s.ErrorIs(s.service.ValidatePassword("alllowercase123"), ErrPasswordNoUppercase)
	s.ErrorIs(s.service.ValidatePassword("ALLUPPERCASE123"), ErrPasswordNoLowercase)
	s.ErrorIs(s.service.ValidatePassword("NoNumbersHereAtAll"), ErrPasswordNoNumber)
}

func (s *PasswordServiceTestSuite) TestHashAndCompare() {
	password := "Valid-Pass-123"

	hash, err := s.service.HashPassword(password)
	s.NoError(err)
	s.NotEmpty(hash)
	s.NotEqual(password, hash)

	s.True(s.service.ComparePassword(password, hash))
	s.False(s.service.ComparePassword("Wrong-Pass-123", hash))
}

func (s *PasswordServiceTestSuite) TestHashPassword_RejectsWeakPassword() {
	_, err := s.service.HashPassword("weak")
	s.Error(err)
}

func (s *PasswordServiceTestSuite) TestHashesAreSalted() {
	password := "Valid-Pass-123"

	hash1, err := s.service.HashPassword(password)
	s.NoError(err)
	hash2, err := s.service.HashPassword(password)
	s.NoError(err)

	s.NotEqual(hash1, hash2)
}
