package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-session-testing"

func TestGenerateSessionToken(t *testing.T) {
	token, err := GenerateSessionToken("sess-abc", testSecret, time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestValidateSessionToken(t *testing.T) {
	token, err := GenerateSessionToken("sess-abc", testSecret, time.Hour)
	require.NoError(t, err)

	expired, err := GenerateSessionToken("sess-abc", testSecret, -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		secret  string
		wantErr error
	}{
		{
			name:    "Valid token",
			token:   token,
			secret:  testSecret,
			wantErr: nil,
		},
		{
			name:    "Wrong secret",
			token:   token,
			secret:  "some-other-secret",
			wantErr: ErrInvalidToken,
		},
		{
			name:    "Expired token",
			token:   expired,
			secret:  testSecret,
			wantErr: ErrExpiredToken,
		},
		{
			name:    "Garbage token",
			token:   "not-a-token",
			secret:  testSecret,
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateSessionToken(tt.token, tt.secret)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
			} else {
				require.NoError(t, err)
				require.NotNil(t, claims)
				assert.Equal(t, "sess-abc", claims.SessionID)
			}
		})
	}
}
