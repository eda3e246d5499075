package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type UserModelTestSuite struct {
	suite.Suite
}

func TestUserModelSuite(t *testing.T) {
	suite.Run(t, new(UserModelTestSuite))
}

func (s *UserModelTestSuite) TestValidate() {
	testCases := []struct {
		name     string
		email    string
		expected error
	}{
		{"valid email", "owner@example.com", nil},
		{"valid with subdomain", "owner@mail.example.co", nil},
		{"missing email", "", ErrMissingEmail},
		{"no at sign", "owner.example.com", ErrInvalidEmail},
		{"no domain", "owner@", ErrInvalidEmail},
		{"no tld", "owner@example", ErrInvalidEmail},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			user := &User{ID: uuid.New(), Email: tc.email}
			err := user.Validate()
			if tc.expected == nil {
				s.NoError(err)
			} else {
				s.ErrorIs(err, tc.expected)
			}
		})
	}
}

func (s *UserModelTestSuite) TestHasCachedMemory() {
	user := &User{ID: uuid.New(), Email: "owner@example.com"}
	s.False(user.HasCachedMemory())

	now := time.Now().UTC()
	user.FinancialMemory = &FinancialMemory{GeneratedAt: now}
	user.MemoryUpdatedAt = &now
	s.True(user.HasCachedMemory())
}
