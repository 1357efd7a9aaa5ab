package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokens(t *testing.T) {
	_, err := NewTokens("", time.Hour)
	assert.ErrorIs(t, err, ErrSecretRequired)

	tk, err := NewTokens("secret", 0)
	require.NoError(t, err)
	assert.Equal(t, 72*time.Hour, tk.TTL())
}

func TestIssueAndParse(t *testing.T) {
	tk, err := NewTokens("secret", time.Hour)
	require.NoError(t, err)

	signed, err := tk.Issue("user-1", "sam")
	require.NoError(t, err)

	claims, err := tk.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "sam", claims.Username)
}

func TestParse_Rejects(t *testing.T) {
	tk, err := NewTokens("secret", time.Hour)
	require.NoError(t, err)

	other, err := NewTokens("other-secret", time.Hour)
	require.NoError(t, err)
	foreign, err := other.Issue("user-1", "sam")
	require.NoError(t, err)

	past := time.Now().Add(-2 * time.Hour)
	expiredIssuer, err := NewTokens("secret", time.Hour)
	require.NoError(t, err)
	expiredIssuer.now = func() time.Time { return past }
	expired, err := expiredIssuer.Issue("user-1", "sam")
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong secret", foreign},
		{"expired", expired},
		{"missing subject", noSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := tk.Parse(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}
