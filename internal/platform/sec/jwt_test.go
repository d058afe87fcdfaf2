// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: lucas.ferraz.dev@gmail.com

package sec

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef" // 32 bytes

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()

	service, err := NewTokenService(testSecret, "cinevault.test")
	require.NoError(t, err)
	return service
}

func TestNewTokenService(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		wantErr bool
	}{
		{name: "empty secret rejected", secret: "", wantErr: true},
		{name: "short secret rejected", secret: "too-short", wantErr: true},
		{name: "31 bytes rejected", secret: strings.Repeat("x", 31), wantErr: true},
		{name: "32 bytes accepted", secret: strings.Repeat("x", 32), wantErr: false},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := NewTokenService(testCase.secret, "cinevault.test")
			if testCase.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTokenServiceRoundTrip(t *testing.T) {
	service := newTestTokenService(t)

	token, err := service.IssueSessionToken("user-123", "ana@example.com", "ana", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.VerifySessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "ana", claims.Username)
	assert.Equal(t, "cinevault.test", claims.Issuer)
}

func TestVerifySessionTokenExpired(t *testing.T) {
	service := newTestTokenService(t)

	// Issue a token that is already past its expiry.
	token, err := service.IssueSessionToken("user-123", "ana@example.com", "ana", -time.Minute)
	require.NoError(t, err)

	claims, err := service.VerifySessionToken(token)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrTokenExpired, "expiry must be distinguishable from tampering")
}

func TestVerifySessionTokenInvalid(t *testing.T) {
	service := newTestTokenService(t)

	validToken, err := service.IssueSessionToken("user-123", "ana@example.com", "ana", time.Hour)
	require.NoError(t, err)

	otherService, err := NewTokenService(strings.Repeat("y", 32), "cinevault.test")
	require.NoError(t, err)
	foreignToken, err := otherService.IssueSessionToken("user-123", "ana@example.com", "ana", time.Hour)
	require.NoError(t, err)

	// Flip the final character of the signature segment.
	lastChar := validToken[len(validToken)-1]
	replacement := "A"
	if lastChar == 'A' {
		replacement = "B"
	}
	tampered := validToken[:len(validToken)-1] + replacement

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty string", token: ""},
		{name: "not a token at all", token: "garbage"},
		{name: "tampered signature", token: tampered},
		{name: "signed with a different secret", token: foreignToken},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			claims, err := service.VerifySessionToken(testCase.token)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, ErrTokenInvalid)
		})
	}
}
