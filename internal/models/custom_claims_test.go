package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCustomClaims_SubjectID(t *testing.T) {
	userID := uuid.New()

	claims := &CustomClaims{UserID: userID.String()}
	id, err := claims.SubjectID()
	assert.NoError(t, err)
	assert.Equal(t, userID, id)

	for _, bad := range []string{"", "not-a-uuid", uuid.Nil.String()} {
		claims := &CustomClaims{UserID: bad}
		_, err := claims.SubjectID()
		assert.Error(t, err, "user ID %q", bad)
	}
}

func TestRefreshToken_Lifecycle(t *testing.T) {
	token := &RefreshToken{
		UserID:    uuid.New(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	assert.True(t, token.IsValid())

	token.Revoke()
	assert.False(t, token.IsValid())

	expired := &RefreshToken{
		UserID:    uuid.New(),
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	assert.False(t, expired.IsValid())
}
