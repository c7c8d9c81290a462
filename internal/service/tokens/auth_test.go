package tokens

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	key := []byte("super secret key")
	id := uuid.New()

	token, err := GenerateUserJWT(id, time.Hour, key)
	require.NoError(t, err)

	claims, err := ValidateUserJWT(token, key)
	require.NoError(t, err)
	require.Equal(t, id, claims.UserID)

	_, err = ValidateUserJWT(token, []byte("another key"))
	require.Error(t, err)
}

func TestExpiredToken(t *testing.T) {
	key := []byte("super secret key")
	token, err := GenerateUserJWT(uuid.New(), -time.Minute, key)
	require.NoError(t, err)

	_, err = ValidateUserJWT(token, key)
	require.ErrorIs(t, err, ErrTokenExpired)
}
