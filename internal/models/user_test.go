package models

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type UserTestSuite struct {
	suite.Suite
}

func TestUserSuite(t *testing.T) {
	suite.Run(t, new(UserTestSuite))
}

func (s *UserTestSuite) validUser() *User {
	return &User{
		Email:     "user@example.com",
		FirstName: "Jamie",
		LastName:  "Doe",
	}
}

func (s *UserTestSuite) TestValidate() {
	s.NoError(s.validUser().Validate())

	user := s.validUser()
	user.Email = ""
	s.Error(user.Validate())

	user = s.validUser()
	user.Email = "not-an-email"
	s.Error(user.Validate())

	user = s.validUser()
	user.FirstName = ""
	s.Error(user.Validate())

	user = s.validUser()
	user.LastName = ""
	s.Error(user.Validate())
}

func (s *UserTestSuite) TestLockout() {
	user := s.validUser()
	s.False(user.IsLocked())

	user.IncrementFailedAttempts()
	user.IncrementFailedAttempts()
	s.False(user.IsLocked())
	s.Equal(2, user.FailedLoginAttempts)

	user.IncrementFailedAttempts()
	s.True(user.IsLocked())
	s.Equal(MaxFailedLoginAttempts, user.FailedLoginAttempts)

	user.Unlock()
	s.False(user.IsLocked())
	s.Equal(0, user.FailedLoginAttempts)
}

func (s *UserTestSuite) TestRecordLogin() {
	user := s.validUser()
	user.FailedLoginAttempts = 2

	user.RecordLogin()
	s.NotNil(user.LastLoginAt)
	s.Equal(0, user.FailedLoginAttempts)
}

func (s *UserTestSuite) TestFullName() {
	s.Equal("Jamie Doe", s.validUser().FullName())
}
