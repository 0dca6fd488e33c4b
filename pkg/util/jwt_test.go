package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt-testing"

func TestGenerateTokenPair(t *testing.T) {
	tests := []struct {
		name          string
		userID        string
		email         string
		accessExpiry  time.Duration
		refreshExpiry time.Duration
	}{
		{
			name:          "Staff account",
			userID:        "6f1c2d9a-0000-4000-8000-000000000001",
			email:         "staff@riadice.com",
			accessExpiry:  15 * time.Minute,
			refreshExpiry: 7 * 24 * time.Hour,
		},
		{
			name:          "Admin account",
			userID:        "6f1c2d9a-0000-4000-8000-000000000002",
			email:         "admin@riadice.com",
			accessExpiry:  time.Hour,
			refreshExpiry: 30 * 24 * time.Hour,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := GenerateTokenPair(tt.userID, tt.email, testSecret, tt.accessExpiry, tt.refreshExpiry)

			require.NoError(t, err)
			require.NotNil(t, tokens)
			assert.NotEmpty(t, tokens.AccessToken)
			assert.NotEmpty(t, tokens.RefreshToken)
			assert.NotEqual(t, tokens.AccessToken, tokens.RefreshToken)
			assert.True(t, tokens.AccessExpiresAt.Before(tokens.RefreshExpiresAt))
		})
	}
}

func TestValidateToken(t *testing.T) {
	userID := "6f1c2d9a-0000-4000-8000-000000000123"
	email := "staff@riadice.com"

	tokens, err := GenerateTokenPair(userID, email, testSecret, 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name      string
		token     string
		secret    string
		tokenType string
		wantErr   error
	}{
		{
			name:      "Valid access token",
			token:     tokens.AccessToken,
			secret:    testSecret,
			tokenType: TokenTypeAccess,
		},
		{
			name:      "Valid refresh token",
			token:     tokens.RefreshToken,
			secret:    testSecret,
			tokenType: TokenTypeRefresh,
		},
		{
			name:    "Invalid secret",
			token:   tokens.AccessToken,
			secret:  "wrong-secret",
			wantErr: ErrInvalidToken,
		},
		{
			name:    "Invalid token format",
			token:   "invalid.token.format",
			secret:  testSecret,
			wantErr: ErrInvalidToken,
		},
		{
			name:    "Empty token",
			token:   "",
			secret:  testSecret,
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateToken(tt.token, tt.secret)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, claims)
			assert.Equal(t, userID, claims.UserID)
			assert.Equal(t, email, claims.Email)
			assert.Equal(t, tt.tokenType, claims.TokenType)
			assert.NotEmpty(t, claims.ID)
		})
	}
}

func TestExpiredToken(t *testing.T) {
	tokens, err := GenerateTokenPair("user-1", "staff@riadice.com", testSecret, time.Nanosecond, time.Nanosecond)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	claims, err := ValidateToken(tokens.AccessToken, testSecret)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Nil(t, claims)
}

func TestTokenIDsAreUnique(t *testing.T) {
	first, err := GenerateTokenPair("user-1", "a@riadice.com", testSecret, time.Minute, time.Hour)
	require.NoError(t, err)
	second, err := GenerateTokenPair("user-1", "a@riadice.com", testSecret, time.Minute, time.Hour)
	require.NoError(t, err)

	c1, err := ValidateToken(first.AccessToken, testSecret)
	require.NoError(t, err)
	c2, err := ValidateToken(second.AccessToken, testSecret)
	require.NoError(t, err)

	assert.NotEqual(t, c1.ID, c2.ID)
	assert.True(t, c1.IssuedAt.Before(c1.ExpiresAt.Time))
}
